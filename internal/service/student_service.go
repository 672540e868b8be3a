package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/exam-portal-api/internal/dto"
	"github.com/campushq/exam-portal-api/internal/models"
	"github.com/campushq/exam-portal-api/internal/repository"
)

// ErrStudentNotFound indicates the roster has no entry for the given id.
var ErrStudentNotFound = errors.New("student not found")

// ErrStudentAlreadyRegistered indicates the email or PRN is already taken.
var ErrStudentAlreadyRegistered = errors.New("a student with this email or PRN already exists")

// StudentService manages the roster: registration and the approval workflow.
type StudentService interface {
	Register(ctx context.Context, payload dto.StudentRegisterRequest) (dto.StudentResponse, error)
	ListPending(ctx context.Context) ([]dto.StudentResponse, error)
	ListApproved(ctx context.Context) ([]dto.StudentResponse, error)
	Approve(ctx context.Context, studentID uint) (dto.StudentResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(studentRepo repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  studentRepo,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Register(ctx context.Context, payload dto.StudentRegisterRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		FullName: payload.FullName,
		Email:    payload.Email,
		PRN:      payload.PRN,
		Year:     payload.Year,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrStudentAlreadyRegistered
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("prn", student.PRN).Msg("student registered, pending approval")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) ListPending(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) ListApproved(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Approve(ctx context.Context, studentID uint) (dto.StudentResponse, error) {
	student, err := s.students.Approve(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student approved")

	return dto.NewStudentResponse(student), nil
}
