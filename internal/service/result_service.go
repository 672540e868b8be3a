package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/exam-portal-api/internal/dto"
	"github.com/campushq/exam-portal-api/internal/models"
	"github.com/campushq/exam-portal-api/internal/repository"
)

// ResultService produces the teacher-facing attempted / not-attempted report
// for an exam.
type ResultService interface {
	ExamResults(ctx context.Context, teacherID, examID uint) (dto.ExamResultsResponse, error)
}

type resultService struct {
	exams       repository.ExamRepository
	submissions repository.SubmissionRepository
	students    repository.StudentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewResultService builds the results aggregator.
func NewResultService(examRepo repository.ExamRepository, submissionRepo repository.SubmissionRepository, studentRepo repository.StudentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ResultService {
	return &resultService{
		exams:       examRepo,
		submissions: submissionRepo,
		students:    studentRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "result_service").Logger(),
	}
}

// ExamResults left-joins the approved roster against the exam's submissions.
// Every approved student appears exactly once, in PRN order; submissions with
// no matching roster entry are omitted because the report is roster-anchored.
// The ownership gate runs before the cache so a cached report can never leak
// to a foreign teacher.
func (s *resultService) ExamResults(ctx context.Context, teacherID, examID uint) (dto.ExamResultsResponse, error) {
	exam, err := s.ownedExam(ctx, teacherID, examID)
	if err != nil {
		return dto.ExamResultsResponse{}, err
	}

	cacheKey := resultsCacheKey(examID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ExamResultsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("exam_id", examID).Msg("results cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read results cache")
		}
	}

	roster, err := s.students.ListApproved(ctx)
	if err != nil {
		return dto.ExamResultsResponse{}, err
	}

	submissions, err := s.submissions.ListByExam(ctx, examID)
	if err != nil {
		return dto.ExamResultsResponse{}, err
	}

	byStudent := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		byStudent[submission.StudentID] = submission
	}

	results := make([]dto.StudentResult, 0, len(roster))
	for _, student := range roster {
		result := dto.StudentResult{
			Student: dto.NewStudentResponse(student),
			Status:  dto.ResultStatusNotAttempted,
		}

		if submission, ok := byStudent[student.ID]; ok {
			score := submission.Score
			submittedAt := submission.SubmittedAt
			result.Status = dto.ResultStatusAttempted
			result.Score = &score
			result.SubmittedAt = &submittedAt
		}

		results = append(results, result)
	}

	response := dto.ExamResultsResponse{
		Exam:    dto.NewExamSummaryResponse(exam),
		Results: results,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store results cache")
			}
		}
	}

	return response, nil
}

func (s *resultService) ownedExam(ctx context.Context, teacherID, examID uint) (models.Exam, error) {
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

func resultsCacheKey(examID uint) string {
	return fmt.Sprintf("results:exam:%d", examID)
}
