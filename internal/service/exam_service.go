package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/exam-portal-api/internal/dto"
	"github.com/campushq/exam-portal-api/internal/importer"
	"github.com/campushq/exam-portal-api/internal/models"
	"github.com/campushq/exam-portal-api/internal/observability"
	"github.com/campushq/exam-portal-api/internal/repository"
)

// ErrExamNotFound indicates the referenced exam has no backing record.
var ErrExamNotFound = errors.New("exam not found")

// ErrOwnershipViolation indicates a teacher touched an exam they do not own.
var ErrOwnershipViolation = errors.New("exam belongs to another teacher")

// ExamService covers the teacher-side exam lifecycle: creation from an
// uploaded question set, metadata updates, cascade deletion and listing.
type ExamService interface {
	Create(ctx context.Context, teacherID uint, payload dto.ExamCreateRequest, rows []importer.QuestionRow) (dto.ExamSummaryResponse, error)
	Update(ctx context.Context, teacherID, examID uint, payload dto.ExamUpdateRequest) (dto.ExamSummaryResponse, error)
	Delete(ctx context.Context, teacherID, examID uint) error
	ListByTeacher(ctx context.Context, teacherID uint) ([]dto.ExamSummaryResponse, error)
}

type examService struct {
	exams     repository.ExamRepository
	cache     *redis.Client
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewExamService constructs an ExamService instance.
func NewExamService(examRepo repository.ExamRepository, cache *redis.Client, validate *validator.Validate, logger zerolog.Logger) ExamService {
	return &examService{
		exams:     examRepo,
		cache:     cache,
		validator: validate,
		logger:    logger.With().Str("component", "exam_service").Logger(),
	}
}

func (s *examService) Create(ctx context.Context, teacherID uint, payload dto.ExamCreateRequest, rows []importer.QuestionRow) (dto.ExamSummaryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSummaryResponse{}, err
	}

	questions, err := BuildQuestionSet(rows)
	if err != nil {
		return dto.ExamSummaryResponse{}, err
	}

	exam := models.Exam{
		TeacherID:   teacherID,
		Name:        payload.Name,
		ScheduledAt: payload.ScheduledAt,
		Questions:   questions,
	}

	if err := s.exams.Create(ctx, &exam); err != nil {
		return dto.ExamSummaryResponse{}, err
	}

	observability.ExamsCreated().Inc()
	s.logger.Info().
		Uint("exam_id", exam.ID).
		Uint("teacher_id", teacherID).
		Int("questions", len(questions)).
		Msg("exam created")

	return dto.NewExamSummaryResponse(exam), nil
}

func (s *examService) Update(ctx context.Context, teacherID, examID uint, payload dto.ExamUpdateRequest) (dto.ExamSummaryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSummaryResponse{}, err
	}

	exam, err := s.ownedExam(ctx, teacherID, examID)
	if err != nil {
		return dto.ExamSummaryResponse{}, err
	}

	if payload.Name != nil {
		exam.Name = *payload.Name
	}
	if payload.ScheduledAt != nil {
		exam.ScheduledAt = *payload.ScheduledAt
	}

	if err := s.exams.Update(ctx, &exam); err != nil {
		return dto.ExamSummaryResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Msg("exam updated")

	return dto.NewExamSummaryResponse(exam), nil
}

func (s *examService) Delete(ctx context.Context, teacherID, examID uint) error {
	if _, err := s.ownedExam(ctx, teacherID, examID); err != nil {
		return err
	}

	if err := s.exams.Delete(ctx, examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return err
	}

	s.invalidateResults(ctx, examID)
	s.logger.Info().Uint("exam_id", examID).Msg("exam and dependent submissions deleted")

	return nil
}

func (s *examService) ListByTeacher(ctx context.Context, teacherID uint) ([]dto.ExamSummaryResponse, error) {
	exams, err := s.exams.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewExamSummaryResponseSlice(exams), nil
}

// ownedExam loads the exam and enforces the ownership gate shared by every
// teacher-side mutation and the results report.
func (s *examService) ownedExam(ctx context.Context, teacherID, examID uint) (models.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Exam{}, ErrExamNotFound
		}
		return models.Exam{}, err
	}

	if !exam.IsOwnedBy(teacherID) {
		return models.Exam{}, ErrOwnershipViolation
	}

	return exam, nil
}

func (s *examService) invalidateResults(ctx context.Context, examID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, resultsCacheKey(examID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("exam_id", examID).Msg("failed to invalidate results cache")
	}
}
