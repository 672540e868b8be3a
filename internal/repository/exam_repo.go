package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushq/exam-portal-api/internal/models"
)

// ExamRepository defines persistence operations for exams and their questions.
type ExamRepository interface {
	List(ctx context.Context) ([]models.Exam, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Exam, error)
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id uint) error
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository instantiates a GORM-backed exam repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) List(ctx context.Context) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("scheduled_at ASC").
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("teacher_id = ?", teacherID).
		Order("scheduled_at DESC").
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepository) Update(ctx context.Context, exam *models.Exam) error {
	// Save on the bare struct would cascade into Questions; restrict the
	// write to the mutable exam columns.
	return r.db.WithContext(ctx).Model(&models.Exam{ID: exam.ID}).
		Updates(map[string]interface{}{
			"name":         exam.Name,
			"scheduled_at": exam.ScheduledAt,
		}).Error
}

// Delete removes an exam together with its questions and every submission
// referencing it. The cascade is explicit so it holds regardless of how the
// underlying database was provisioned.
func (r *examRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		submissionIDs := tx.Model(&models.Submission{}).Select("id").Where("exam_id = ?", id)
		if err := tx.Where("submission_id IN (?)", submissionIDs).
			Delete(&models.SubmissionAnswer{}).Error; err != nil {
			return err
		}

		if err := tx.Where("exam_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("exam_id = ?", id).Delete(&models.ExamQuestion{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Exam{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
