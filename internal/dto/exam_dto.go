package dto

import (
	"time"

	"github.com/campushq/exam-portal-api/internal/models"
)

// ExamCreateRequest carries the metadata part of the multipart exam upload;
// the question set arrives as a spreadsheet file alongside it.
type ExamCreateRequest struct {
	Name        string    `form:"name" validate:"required,min=2"`
	ScheduledAt time.Time `form:"scheduled_at" validate:"required"`
}

// ExamUpdateRequest mutates an exam's name or schedule. Questions are
// immutable after creation.
type ExamUpdateRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=2"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// ExamSummaryResponse is the teacher-facing view of an exam.
type ExamSummaryResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	QuestionCount int       `json:"question_count"`
}

// NewExamSummaryResponse converts an Exam model into a summary DTO.
func NewExamSummaryResponse(model models.Exam) ExamSummaryResponse {
	return ExamSummaryResponse{
		ID:            model.ID,
		Name:          model.Name,
		ScheduledAt:   model.ScheduledAt,
		QuestionCount: len(model.Questions),
	}
}

// NewExamSummaryResponseSlice converts a slice of exams.
func NewExamSummaryResponseSlice(exams []models.Exam) []ExamSummaryResponse {
	responses := make([]ExamSummaryResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamSummaryResponse(exam))
	}
	return responses
}

// StudentExamListItem is one row of the student's exam list. It never carries
// questions, and therefore can never carry a correct answer.
type StudentExamListItem struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	TeacherName   string            `json:"teacher_name"`
	ScheduledAt   time.Time         `json:"scheduled_at"`
	QuestionCount int               `json:"question_count"`
	Status        models.ExamStatus `json:"status"`
	HasSubmitted  bool              `json:"has_submitted"`
	Score         *int              `json:"score"`
}

// StudentExamQuestion exposes a question to a student taking the exam. The
// type has no correct-answer field at all, so no serialization path can leak
// the answer key.
type StudentExamQuestion struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// StudentExamDetail is the pre-submission view of a single exam.
type StudentExamDetail struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	TeacherName  string                `json:"teacher_name"`
	ScheduledAt  time.Time             `json:"scheduled_at"`
	Status       models.ExamStatus     `json:"status"`
	HasSubmitted bool                  `json:"has_submitted"`
	Questions    []StudentExamQuestion `json:"questions"`
}
