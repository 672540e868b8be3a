package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campushq/exam-portal-api/internal/dto"
	"github.com/campushq/exam-portal-api/internal/middleware"
	"github.com/campushq/exam-portal-api/internal/service"
	"github.com/campushq/exam-portal-api/internal/utils"
)

type fakeSubmissionService struct {
	submitErr      error
	receipt        dto.SubmissionReceipt
	exams          []dto.StudentExamListItem
	detail         dto.StudentExamDetail
	detailErr      error
	submitExamID   uint
	submitCallerID uint
}

func (f *fakeSubmissionService) Submit(_ context.Context, examID, studentID uint, _ dto.SubmitExamRequest) (dto.SubmissionReceipt, error) {
	f.submitExamID = examID
	f.submitCallerID = studentID
	if f.submitErr != nil {
		return dto.SubmissionReceipt{}, f.submitErr
	}
	return f.receipt, nil
}

func (f *fakeSubmissionService) ListExams(_ context.Context, _ uint) ([]dto.StudentExamListItem, error) {
	return f.exams, nil
}

func (f *fakeSubmissionService) ExamDetail(_ context.Context, _, _ uint) (dto.StudentExamDetail, error) {
	if f.detailErr != nil {
		return dto.StudentExamDetail{}, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeSubmissionService) ListSubmissions(_ context.Context, _ uint) ([]dto.StudentSubmissionResponse, error) {
	return nil, nil
}

func newStudentTestApp(t *testing.T, svc service.SubmissionService, identity middleware.Identity) *fiber.App {
	t.Helper()

	app := fiber.New()
	group := app.Group("/api/v1/student", middleware.WithIdentity(identity))
	NewStudentExamHandler(svc, zerolog.New(io.Discard)).Register(group)

	return app
}

func decodeEnvelope(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return envelope
}

func TestSubmitReturnsReceipt(t *testing.T) {
	svc := &fakeSubmissionService{
		receipt: dto.SubmissionReceipt{
			ID:          3,
			ExamID:      7,
			Score:       67,
			SubmittedAt: time.Date(2026, time.March, 2, 10, 30, 0, 0, time.UTC),
		},
	}
	app := newStudentTestApp(t, svc, middleware.Identity{ID: 42, Role: middleware.RoleStudent})

	body, err := json.Marshal(dto.SubmitExamRequest{
		Answers: []dto.SubmittedAnswer{{SelectedAnswer: "A"}, {SelectedAnswer: "B"}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/student/exams/7/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(7), svc.submitExamID)
	require.Equal(t, uint(42), svc.submitCallerID)

	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)

	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var receipt dto.SubmissionReceipt
	require.NoError(t, json.Unmarshal(payload, &receipt))
	require.Equal(t, 67, receipt.Score)
}

func TestSubmitDuplicateReturnsConflict(t *testing.T) {
	svc := &fakeSubmissionService{submitErr: service.ErrDuplicateSubmission}
	app := newStudentTestApp(t, svc, middleware.Identity{ID: 42, Role: middleware.RoleStudent})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/student/exams/7/submit", bytes.NewReader([]byte(`{"answers":[{"selected_answer":"A"}]}`)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.False(t, envelope.Success)
}

func TestSubmitBeforeStartReturnsBadRequest(t *testing.T) {
	svc := &fakeSubmissionService{submitErr: service.ErrExamNotStarted}
	app := newStudentTestApp(t, svc, middleware.Identity{ID: 42, Role: middleware.RoleStudent})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/student/exams/7/submit", bytes.NewReader([]byte(`{"answers":[{"selected_answer":"A"}]}`)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitUnknownExamReturnsNotFound(t *testing.T) {
	svc := &fakeSubmissionService{submitErr: service.ErrExamNotFound}
	app := newStudentTestApp(t, svc, middleware.Identity{ID: 42, Role: middleware.RoleStudent})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/student/exams/999/submit", bytes.NewReader([]byte(`{"answers":[{"selected_answer":"A"}]}`)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitRejectsBadExamID(t *testing.T) {
	svc := &fakeSubmissionService{}
	app := newStudentTestApp(t, svc, middleware.Identity{ID: 42, Role: middleware.RoleStudent})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/student/exams/not-a-number/submit", bytes.NewReader([]byte(`{"answers":[{"selected_answer":"A"}]}`)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExamDetailOmitsCorrectAnswers(t *testing.T) {
	svc := &fakeSubmissionService{
		detail: dto.StudentExamDetail{
			ID:     7,
			Name:   "Databases Midterm",
			Status: "Active",
			Questions: []dto.StudentExamQuestion{
				{QuestionText: "Which clause filters rows?", Options: []string{"WHERE", "ORDER BY", "GROUP BY", "HAVING"}},
			},
		},
	}
	app := newStudentTestApp(t, svc, middleware.Identity{ID: 42, Role: middleware.RoleStudent})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/student/exams/7", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "correct")
}

func TestListExamsRequiresIdentity(t *testing.T) {
	app := fiber.New()
	NewStudentExamHandler(&fakeSubmissionService{}, zerolog.New(io.Discard)).Register(app.Group("/api/v1/student"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/student/exams", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
