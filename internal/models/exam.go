package models

import (
	"time"

	"gorm.io/datatypes"
)

// ExamStatus is the observable temporal state of an exam for one student.
type ExamStatus string

const (
	// ExamStatusUpcoming means the scheduled instant has not been reached.
	ExamStatusUpcoming ExamStatus = "Upcoming"
	// ExamStatusActive means the exam has started and the student has not submitted.
	ExamStatusActive ExamStatus = "Active"
	// ExamStatusCompleted means the student already holds a submission.
	ExamStatusCompleted ExamStatus = "Completed"
)

// ExamQuestion is a single multiple-choice question. Questions are immutable
// once the exam is created. The correct answer is excluded from JSON so that
// no serialization path can leak it to a student-facing payload.
type ExamQuestion struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	ExamID        uint                        `gorm:"index;not null" json:"exam_id"`
	Position      int                         `gorm:"not null" json:"position"`
	QuestionText  string                      `gorm:"type:text;not null" json:"question_text"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectAnswer string                      `gorm:"size:512;not null" json:"-"`
}

// Exam is a scheduled question set owned by a teacher.
type Exam struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TeacherID   uint           `gorm:"index;not null" json:"teacher_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	ScheduledAt time.Time      `gorm:"not null" json:"scheduled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Questions   []ExamQuestion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
	Teacher     Teacher        `json:"teacher"`
}

// HasStarted reports whether the exam may accept submissions at the reference
// instant. The start boundary is inclusive.
func (e Exam) HasStarted(ref time.Time) bool {
	return !ref.Before(e.ScheduledAt)
}

// StatusFor resolves the exam status for a single student. Before the
// scheduled instant the exam is always Upcoming, regardless of a submission.
// There is no end boundary: once started, an exam stays Active until the
// student submits.
func (e Exam) StatusFor(ref time.Time, submitted bool) ExamStatus {
	if ref.Before(e.ScheduledAt) {
		return ExamStatusUpcoming
	}
	if submitted {
		return ExamStatusCompleted
	}
	return ExamStatusActive
}

// IsOwnedBy reports whether the given teacher created this exam.
func (e Exam) IsOwnedBy(teacherID uint) bool {
	return e.TeacherID == teacherID
}
