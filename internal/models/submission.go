package models

import "time"

// Submission is a student's single graded attempt at an exam. The composite
// unique index on (exam_id, student_id) is the authoritative guarantee that a
// student can hold at most one submission per exam, even when concurrent
// requests race past the service-level pre-check.
type Submission struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	ExamID      uint               `gorm:"not null;uniqueIndex:uq_submission_exam_student" json:"exam_id"`
	StudentID   uint               `gorm:"not null;uniqueIndex:uq_submission_exam_student" json:"student_id"`
	Score       int                `gorm:"not null" json:"score"`
	SubmittedAt time.Time          `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time          `json:"created_at"`
	Answers     []SubmissionAnswer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers"`
	Exam        Exam               `json:"exam"`
	Student     Student            `json:"student"`
}

// SubmissionAnswer records what the student selected for one question. The
// correct answer is deliberately not stored here, so a persisted submission
// can never be replayed to reveal the answer key.
type SubmissionAnswer struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	SubmissionID   uint   `gorm:"index;not null" json:"submission_id"`
	Position       int    `gorm:"not null" json:"position"`
	QuestionText   string `gorm:"type:text;not null" json:"question_text"`
	SelectedAnswer string `gorm:"size:512;not null" json:"selected_answer"`
}
