package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/exam-portal-api/internal/models"
)

// StudentRepository exposes persistence helpers for roster entries.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (models.Student, error)
	ListPending(ctx context.Context) ([]models.Student, error)
	ListApproved(ctx context.Context) ([]models.Student, error)
	Approve(ctx context.Context, id uint) (models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs the student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListPending(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at DESC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

// ListApproved returns the roster in PRN order. Result aggregation depends on
// this ordering being stable across calls.
func (r *studentRepository) ListApproved(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("prn ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Approve(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	if !student.IsApproved {
		student.IsApproved = true
		if err := r.db.WithContext(ctx).Model(&student).Update("is_approved", true).Error; err != nil {
			return models.Student{}, err
		}
	}

	return student, nil
}
