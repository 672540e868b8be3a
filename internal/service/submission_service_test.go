package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushq/exam-portal-api/internal/dto"
	"github.com/campushq/exam-portal-api/internal/models"
)

var examClock = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func threeQuestionExam() models.Exam {
	return models.Exam{
		ID:          1,
		TeacherID:   5,
		Name:        "Geography Quiz",
		ScheduledAt: examClock.Add(-time.Hour),
		Teacher:     models.Teacher{ID: 5, FullName: "Prof. Rao"},
		Questions: []models.ExamQuestion{
			{Position: 0, QuestionText: "Q1", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A"},
			{Position: 1, QuestionText: "Q2", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B"},
			{Position: 2, QuestionText: "Q3", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "C"},
		},
	}
}

func newSubmissionServiceForTest(examRepo *fakeExamRepo, submissionRepo *fakeSubmissionRepo) *submissionService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewSubmissionService(submissionRepo, examRepo, nil, validate, testLogger())
	concrete := svc.(*submissionService)
	concrete.now = func() time.Time { return examClock }
	return concrete
}

func answers(selected ...string) dto.SubmitExamRequest {
	payload := dto.SubmitExamRequest{}
	for _, answer := range selected {
		payload.Answers = append(payload.Answers, dto.SubmittedAnswer{SelectedAnswer: answer})
	}
	return payload
}

func TestSubmitScoresWithRounding(t *testing.T) {
	examRepo := newFakeExamRepo(threeQuestionExam())
	submissionRepo := newFakeSubmissionRepo()
	svc := newSubmissionServiceForTest(examRepo, submissionRepo)

	receipt, err := svc.Submit(context.Background(), 1, 9, answers("A", "B", "X"))
	require.NoError(t, err)
	require.Equal(t, 67, receipt.Score, "round(2/3*100) must be 67")
	require.Equal(t, examClock, receipt.SubmittedAt)

	stored, err := submissionRepo.GetByExamAndStudent(context.Background(), 1, 9)
	require.NoError(t, err)
	require.Equal(t, 67, stored.Score)
	require.Len(t, stored.Answers, 3)
	require.Equal(t, "X", stored.Answers[2].SelectedAnswer)
}

func TestSubmitIsDeterministic(t *testing.T) {
	exam := threeQuestionExam()
	payload := answers("A", "B", "X")

	for i := 0; i < 3; i++ {
		score, _, err := scoreAnswers(exam.Questions, payload.Answers)
		require.NoError(t, err)
		require.Equal(t, 67, score)
	}
}

func TestSubmitRejectsShortAnswerSheet(t *testing.T) {
	examRepo := newFakeExamRepo(threeQuestionExam())
	submissionRepo := newFakeSubmissionRepo()
	svc := newSubmissionServiceForTest(examRepo, submissionRepo)

	_, err := svc.Submit(context.Background(), 1, 9, answers("A", "B"))
	require.ErrorIs(t, err, ErrAnswerCountMismatch)

	_, err = submissionRepo.GetByExamAndStudent(context.Background(), 1, 9)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "nothing may be persisted on rejection")
}

func TestSubmitRejectsUnknownExam(t *testing.T) {
	svc := newSubmissionServiceForTest(newFakeExamRepo(), newFakeSubmissionRepo())

	_, err := svc.Submit(context.Background(), 42, 9, answers("A"))
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestSubmitRejectsBeforeStart(t *testing.T) {
	exam := threeQuestionExam()
	exam.ScheduledAt = examClock.Add(time.Minute)
	svc := newSubmissionServiceForTest(newFakeExamRepo(exam), newFakeSubmissionRepo())

	_, err := svc.Submit(context.Background(), 1, 9, answers("A", "B", "C"))
	require.ErrorIs(t, err, ErrExamNotStarted)
}

func TestSubmitAllowsExactStartInstant(t *testing.T) {
	exam := threeQuestionExam()
	exam.ScheduledAt = examClock
	svc := newSubmissionServiceForTest(newFakeExamRepo(exam), newFakeSubmissionRepo())

	receipt, err := svc.Submit(context.Background(), 1, 9, answers("A", "B", "C"))
	require.NoError(t, err)
	require.Equal(t, 100, receipt.Score)
}

func TestSubmitRejectsSecondAttempt(t *testing.T) {
	examRepo := newFakeExamRepo(threeQuestionExam())
	submissionRepo := newFakeSubmissionRepo()
	svc := newSubmissionServiceForTest(examRepo, submissionRepo)

	_, err := svc.Submit(context.Background(), 1, 9, answers("A", "B", "C"))
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), 1, 9, answers("A", "B", "C"))
	require.ErrorIs(t, err, ErrDuplicateSubmission)

	submissions, err := submissionRepo.ListByExam(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, submissions, 1, "exactly one submission may exist per (exam, student)")
}

func TestSubmitMapsUniqueViolationToDuplicate(t *testing.T) {
	// Simulates losing the insert race: the pre-check saw no submission but
	// the unique index rejected the write.
	examRepo := newFakeExamRepo(threeQuestionExam())
	submissionRepo := newFakeSubmissionRepo()
	submissionRepo.createErr = gorm.ErrDuplicatedKey
	svc := newSubmissionServiceForTest(examRepo, submissionRepo)

	_, err := svc.Submit(context.Background(), 1, 9, answers("A", "B", "C"))
	require.ErrorIs(t, err, ErrDuplicateSubmission)
}

func TestExamDetailNeverLeaksCorrectAnswers(t *testing.T) {
	examRepo := newFakeExamRepo(threeQuestionExam())
	submissionRepo := newFakeSubmissionRepo()
	svc := newSubmissionServiceForTest(examRepo, submissionRepo)

	detail, err := svc.ExamDetail(context.Background(), 1, 9)
	require.NoError(t, err)
	require.Equal(t, models.ExamStatusActive, detail.Status)
	require.Len(t, detail.Questions, 3)

	serialized, err := json.Marshal(detail)
	require.NoError(t, err)
	require.NotContains(t, string(serialized), "correct", "student payload must not carry the answer key")

	// Same property after submission.
	_, err = svc.Submit(context.Background(), 1, 9, answers("A", "B", "C"))
	require.NoError(t, err)

	detail, err = svc.ExamDetail(context.Background(), 1, 9)
	require.NoError(t, err)
	require.Equal(t, models.ExamStatusCompleted, detail.Status)

	serialized, err = json.Marshal(detail)
	require.NoError(t, err)
	require.NotContains(t, string(serialized), "correct")
}

func TestListExamsReportsStatusAndScore(t *testing.T) {
	upcoming := threeQuestionExam()
	upcoming.ID = 2
	upcoming.Name = "Future Exam"
	upcoming.ScheduledAt = examClock.Add(time.Hour)

	examRepo := newFakeExamRepo(threeQuestionExam(), upcoming)
	submissionRepo := newFakeSubmissionRepo()
	svc := newSubmissionServiceForTest(examRepo, submissionRepo)

	_, err := svc.Submit(context.Background(), 1, 9, answers("A", "B", "C"))
	require.NoError(t, err)

	items, err := svc.ListExams(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := make(map[uint]dto.StudentExamListItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	completed := byID[1]
	require.Equal(t, models.ExamStatusCompleted, completed.Status)
	require.True(t, completed.HasSubmitted)
	require.NotNil(t, completed.Score)
	require.Equal(t, 100, *completed.Score)

	future := byID[2]
	require.Equal(t, models.ExamStatusUpcoming, future.Status)
	require.False(t, future.HasSubmitted)
	require.Nil(t, future.Score)
}

func TestScoreAnswersFullAndZero(t *testing.T) {
	exam := threeQuestionExam()

	score, stored, err := scoreAnswers(exam.Questions, answers("A", "B", "C").Answers)
	require.NoError(t, err)
	require.Equal(t, 100, score)
	require.Len(t, stored, 3)

	score, _, err = scoreAnswers(exam.Questions, answers("D", "D", "D").Answers)
	require.NoError(t, err)
	require.Equal(t, 0, score)
}
