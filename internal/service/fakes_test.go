package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/exam-portal-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type fakeExamRepo struct {
	exams       map[uint]models.Exam
	deleteCalls int
}

func newFakeExamRepo(exams ...models.Exam) *fakeExamRepo {
	repo := &fakeExamRepo{exams: make(map[uint]models.Exam)}
	for _, exam := range exams {
		repo.exams[exam.ID] = exam
	}
	return repo
}

func (f *fakeExamRepo) List(ctx context.Context) ([]models.Exam, error) {
	exams := make([]models.Exam, 0, len(f.exams))
	for _, exam := range f.exams {
		exams = append(exams, exam)
	}
	return exams, nil
}

func (f *fakeExamRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Exam, error) {
	var exams []models.Exam
	for _, exam := range f.exams {
		if exam.TeacherID == teacherID {
			exams = append(exams, exam)
		}
	}
	return exams, nil
}

func (f *fakeExamRepo) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	exam, ok := f.exams[id]
	if !ok {
		return models.Exam{}, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (f *fakeExamRepo) Create(ctx context.Context, exam *models.Exam) error {
	exam.ID = uint(len(f.exams) + 1)
	f.exams[exam.ID] = *exam
	return nil
}

func (f *fakeExamRepo) Update(ctx context.Context, exam *models.Exam) error {
	f.exams[exam.ID] = *exam
	return nil
}

func (f *fakeExamRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.exams, id)
	f.deleteCalls++
	return nil
}

type submissionKey struct {
	examID    uint
	studentID uint
}

type fakeSubmissionRepo struct {
	submissions map[submissionKey]models.Submission
	nextID      uint
	createErr   error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[submissionKey]models.Submission)}
}

func (f *fakeSubmissionRepo) GetByExamAndStudent(ctx context.Context, examID, studentID uint) (models.Submission, error) {
	submission, ok := f.submissions[submissionKey{examID, studentID}]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	for _, submission := range f.submissions {
		if submission.StudentID == studentID {
			submissions = append(submissions, submission)
		}
	}
	return submissions, nil
}

func (f *fakeSubmissionRepo) ListByExam(ctx context.Context, examID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	for _, submission := range f.submissions {
		if submission.ExamID == examID {
			submissions = append(submissions, submission)
		}
	}
	return submissions, nil
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}

	key := submissionKey{submission.ExamID, submission.StudentID}
	if _, exists := f.submissions[key]; exists {
		return gorm.ErrDuplicatedKey
	}

	f.nextID++
	submission.ID = f.nextID
	f.submissions[key] = *submission
	return nil
}

type fakeStudentRepo struct {
	students []models.Student
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = uint(len(f.students) + 1)
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	for _, student := range f.students {
		if student.ID == id {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) ListPending(ctx context.Context) ([]models.Student, error) {
	var pending []models.Student
	for _, student := range f.students {
		if !student.IsApproved {
			pending = append(pending, student)
		}
	}
	return pending, nil
}

func (f *fakeStudentRepo) ListApproved(ctx context.Context) ([]models.Student, error) {
	var approved []models.Student
	for _, student := range f.students {
		if student.IsApproved {
			approved = append(approved, student)
		}
	}
	return approved, nil
}

func (f *fakeStudentRepo) Approve(ctx context.Context, id uint) (models.Student, error) {
	for i, student := range f.students {
		if student.ID == id {
			f.students[i].IsApproved = true
			return f.students[i], nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}
