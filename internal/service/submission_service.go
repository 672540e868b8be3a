package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/campushq/exam-portal-api/internal/dto"
	"github.com/campushq/exam-portal-api/internal/models"
	"github.com/campushq/exam-portal-api/internal/observability"
	"github.com/campushq/exam-portal-api/internal/repository"
)

// ErrExamNotStarted indicates a submission attempt before the scheduled instant.
var ErrExamNotStarted = errors.New("exam has not started yet")

// ErrDuplicateSubmission indicates the student already holds a submission for
// the exam, whether detected by the pre-check or by the unique index.
var ErrDuplicateSubmission = errors.New("exam already submitted")

// ErrAnswerCountMismatch indicates the answer sheet length does not match the
// exam's question count. Short answer sheets are rejected wholesale; there is
// no partial scoring.
var ErrAnswerCountMismatch = errors.New("answer count does not match question count")

// SubmissionService covers the student-side exam workflow: listing exams with
// their temporal status, viewing a sanitized exam, submitting exactly once
// and reading one's own history.
type SubmissionService interface {
	Submit(ctx context.Context, examID, studentID uint, payload dto.SubmitExamRequest) (dto.SubmissionReceipt, error)
	ListExams(ctx context.Context, studentID uint) ([]dto.StudentExamListItem, error)
	ExamDetail(ctx context.Context, examID, studentID uint) (dto.StudentExamDetail, error)
	ListSubmissions(ctx context.Context, studentID uint) ([]dto.StudentSubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	exams       repository.ExamRepository
	cache       *redis.Client
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissionRepo repository.SubmissionRepository, examRepo repository.ExamRepository, cache *redis.Client, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissionRepo,
		exams:       examRepo,
		cache:       cache,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit runs the admission gates in order (exam exists, exam started, no
// prior submission), scores the answer sheet and persists the result. The
// pre-check gives fast rejection only; the unique index on
// (exam_id, student_id) is the authoritative duplicate guard, and a losing
// race converges to ErrDuplicateSubmission.
func (s *submissionService) Submit(ctx context.Context, examID, studentID uint, payload dto.SubmitExamRequest) (dto.SubmissionReceipt, error) {
	tracer := otel.Tracer("github.com/campushq/exam-portal-api/internal/service/submission")
	ctx, span := tracer.Start(ctx, "submission.submit")
	span.SetAttributes(
		attribute.Int64("exam.id", int64(examID)),
		attribute.Int64("student.id", int64(studentID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionReceipt{}, err
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionReceipt{}, ErrExamNotFound
		}
		return dto.SubmissionReceipt{}, err
	}

	submittedAt := s.now().UTC()
	if !exam.HasStarted(submittedAt) {
		return dto.SubmissionReceipt{}, ErrExamNotStarted
	}

	if _, err := s.submissions.GetByExamAndStudent(ctx, examID, studentID); err == nil {
		return dto.SubmissionReceipt{}, ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionReceipt{}, err
	}

	score, answers, err := scoreAnswers(exam.Questions, payload.Answers)
	if err != nil {
		return dto.SubmissionReceipt{}, err
	}

	submission := models.Submission{
		ExamID:      examID,
		StudentID:   studentID,
		Score:       score,
		SubmittedAt: submittedAt,
		Answers:     answers,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent duplicate attempt lost the insert race.
			return dto.SubmissionReceipt{}, ErrDuplicateSubmission
		}
		span.SetStatus(codes.Error, "submission insert failed")
		return dto.SubmissionReceipt{}, err
	}

	s.invalidateResults(ctx, examID)
	observability.SubmissionsScored().Inc()

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("exam_id", examID).
		Uint("student_id", studentID).
		Int("score", score).
		Msg("submission scored")

	return dto.SubmissionReceipt{
		ID:          submission.ID,
		ExamID:      examID,
		Score:       score,
		SubmittedAt: submittedAt,
	}, nil
}

func (s *submissionService) ListExams(ctx context.Context, studentID uint) ([]dto.StudentExamListItem, error) {
	exams, err := s.exams.List(ctx)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	byExam := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		byExam[submission.ExamID] = submission
	}

	ref := s.now()
	items := make([]dto.StudentExamListItem, 0, len(exams))
	for _, exam := range exams {
		submission, submitted := byExam[exam.ID]

		item := dto.StudentExamListItem{
			ID:            exam.ID,
			Name:          exam.Name,
			TeacherName:   exam.Teacher.FullName,
			ScheduledAt:   exam.ScheduledAt,
			QuestionCount: len(exam.Questions),
			Status:        exam.StatusFor(ref, submitted),
			HasSubmitted:  submitted,
		}
		if submitted {
			score := submission.Score
			item.Score = &score
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *submissionService) ExamDetail(ctx context.Context, examID, studentID uint) (dto.StudentExamDetail, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentExamDetail{}, ErrExamNotFound
		}
		return dto.StudentExamDetail{}, err
	}

	submitted := true
	if _, err := s.submissions.GetByExamAndStudent(ctx, examID, studentID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentExamDetail{}, err
		}
		submitted = false
	}

	questions := make([]dto.StudentExamQuestion, 0, len(exam.Questions))
	for _, question := range exam.Questions {
		questions = append(questions, dto.StudentExamQuestion{
			QuestionText: question.QuestionText,
			Options:      question.Options,
		})
	}

	return dto.StudentExamDetail{
		ID:           exam.ID,
		Name:         exam.Name,
		TeacherName:  exam.Teacher.FullName,
		ScheduledAt:  exam.ScheduledAt,
		Status:       exam.StatusFor(s.now(), submitted),
		HasSubmitted: submitted,
		Questions:    questions,
	}, nil
}

func (s *submissionService) ListSubmissions(ctx context.Context, studentID uint) ([]dto.StudentSubmissionResponse, error) {
	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentSubmissionResponseSlice(submissions), nil
}

// scoreAnswers compares the answer sheet against the question set by
// position, using exact string equality. The score is the percentage of
// correct answers rounded half-up. Stored answers carry only the question
// text and the student's selection, never the correct answer.
func scoreAnswers(questions []models.ExamQuestion, answers []dto.SubmittedAnswer) (int, []models.SubmissionAnswer, error) {
	if len(answers) != len(questions) {
		return 0, nil, fmt.Errorf("%w: got %d answers for %d questions",
			ErrAnswerCountMismatch, len(answers), len(questions))
	}

	correct := 0
	stored := make([]models.SubmissionAnswer, 0, len(questions))
	for i, question := range questions {
		if answers[i].SelectedAnswer == question.CorrectAnswer {
			correct++
		}

		stored = append(stored, models.SubmissionAnswer{
			Position:       i,
			QuestionText:   question.QuestionText,
			SelectedAnswer: answers[i].SelectedAnswer,
		})
	}

	score := int(math.Round(float64(correct) / float64(len(questions)) * 100))

	return score, stored, nil
}

func (s *submissionService) invalidateResults(ctx context.Context, examID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, resultsCacheKey(examID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("exam_id", examID).Msg("failed to invalidate results cache")
	}
}
