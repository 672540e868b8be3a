package dto

import "time"

// Attempt status values used in result reports.
const (
	ResultStatusAttempted    = "Attempted"
	ResultStatusNotAttempted = "Not Attempted"
)

// StudentResult is one roster entry joined against the exam's submissions.
// Score and SubmittedAt are nil when the student never attempted the exam.
type StudentResult struct {
	Student     StudentResponse `json:"student"`
	Status      string          `json:"status"`
	Score       *int            `json:"score"`
	SubmittedAt *time.Time      `json:"submitted_at"`
}

// ExamResultsResponse is the complete attempted / not-attempted report for
// one exam, ordered by roster PRN.
type ExamResultsResponse struct {
	Exam    ExamSummaryResponse `json:"exam"`
	Results []StudentResult     `json:"results"`
}
