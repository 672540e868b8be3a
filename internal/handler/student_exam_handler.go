package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushq/exam-portal-api/internal/dto"
	"github.com/campushq/exam-portal-api/internal/service"
	"github.com/campushq/exam-portal-api/internal/utils"
)

// StudentExamHandler manages the student-side endpoints: exam listing with
// temporal status, the sanitized exam view, submission and history.
type StudentExamHandler struct {
	submissions service.SubmissionService
	logger      zerolog.Logger
}

// NewStudentExamHandler builds a student exam handler instance.
func NewStudentExamHandler(submissions service.SubmissionService, logger zerolog.Logger) *StudentExamHandler {
	return &StudentExamHandler{
		submissions: submissions,
		logger:      logger.With().Str("component", "student_exam_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *StudentExamHandler) Register(router fiber.Router) {
	router.Get("/exams", h.listExams)
	router.Get("/exams/:id", h.examDetail)
	router.Post("/exams/:id/submit", h.submit)
	router.Get("/submissions", h.listSubmissions)
}

func (h *StudentExamHandler) listExams(c *fiber.Ctx) error {
	studentID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	exams, err := h.submissions.ListExams(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exams retrieved", exams)
}

func (h *StudentExamHandler) examDetail(c *fiber.Ctx) error {
	studentID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	detail, err := h.submissions.ExamDetail(c.Context(), examID, studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam retrieved", detail)
}

func (h *StudentExamHandler) submit(c *fiber.Ctx) error {
	studentID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmitExamRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	receipt, err := h.submissions.Submit(c.Context(), examID, studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam submitted successfully", receipt)
}

func (h *StudentExamHandler) listSubmissions(c *fiber.Ctx) error {
	studentID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	submissions, err := h.submissions.ListSubmissions(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *StudentExamHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrExamNotStarted):
		return utils.SendError(c, fiber.StatusBadRequest, "exam has not started yet")
	case errors.Is(err, service.ErrAnswerCountMismatch):
		return utils.SendError(c, fiber.StatusBadRequest, "answers do not match the exam questions")
	case errors.Is(err, service.ErrDuplicateSubmission):
		return utils.SendError(c, fiber.StatusConflict, "you have already submitted this exam")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
