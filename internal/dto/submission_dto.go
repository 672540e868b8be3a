package dto

import (
	"time"

	"github.com/campushq/exam-portal-api/internal/models"
)

// SubmittedAnswer is one answer in a submission payload. Answers align with
// exam questions by array position.
type SubmittedAnswer struct {
	SelectedAnswer string `json:"selected_answer" validate:"required"`
}

// SubmitExamRequest is the student's answer sheet for one exam.
type SubmitExamRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"required,min=1,dive"`
}

// SubmissionReceipt is returned to the student right after scoring.
type SubmissionReceipt struct {
	ID          uint      `json:"id"`
	ExamID      uint      `json:"exam_id"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// StudentSubmissionResponse is one row in the student's submission history.
type StudentSubmissionResponse struct {
	ID          uint      `json:"id"`
	ExamName    string    `json:"exam_name"`
	ExamDate    time.Time `json:"exam_date"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewStudentSubmissionResponse converts a submission with its exam preloaded.
func NewStudentSubmissionResponse(model models.Submission) StudentSubmissionResponse {
	return StudentSubmissionResponse{
		ID:          model.ID,
		ExamName:    model.Exam.Name,
		ExamDate:    model.Exam.ScheduledAt,
		Score:       model.Score,
		SubmittedAt: model.SubmittedAt,
	}
}

// NewStudentSubmissionResponseSlice converts a slice of submissions.
func NewStudentSubmissionResponseSlice(submissions []models.Submission) []StudentSubmissionResponse {
	responses := make([]StudentSubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewStudentSubmissionResponse(submission))
	}
	return responses
}
