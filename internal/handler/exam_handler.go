package handler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campushq/exam-portal-api/internal/dto"
	"github.com/campushq/exam-portal-api/internal/importer"
	"github.com/campushq/exam-portal-api/internal/service"
	"github.com/campushq/exam-portal-api/internal/utils"
)

// ExamHandler manages the teacher-side exam endpoints: creation from an
// uploaded question sheet, listing, updates, deletion and results.
type ExamHandler struct {
	exams   service.ExamService
	results service.ResultService
	parser  importer.RowParser
	logger  zerolog.Logger
}

// NewExamHandler builds an exam handler instance.
func NewExamHandler(exams service.ExamService, results service.ResultService, parser importer.RowParser, logger zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		exams:   exams,
		results: results,
		parser:  parser,
		logger:  logger.With().Str("component", "exam_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ExamHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:id/results", h.examResults)
}

func (h *ExamHandler) create(c *fiber.Ctx) error {
	teacherID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	payload := dto.ExamCreateRequest{Name: c.FormValue("name")}
	scheduledAt, err := time.Parse(time.RFC3339, c.FormValue("scheduled_at"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "scheduled_at must be an RFC3339 timestamp")
	}
	payload.ScheduledAt = scheduledAt

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "question sheet file is required")
	}

	// The upload is spilled to a scratch file for parsing and removed on
	// every exit path, success or failure.
	scratch := filepath.Join(os.TempDir(), fmt.Sprintf("questionset-%s.xlsx", uuid.NewString()))
	if err := c.SaveFile(file, scratch); err != nil {
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to store upload")
	}
	defer func() {
		if err := os.Remove(scratch); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn().Err(err).Str("path", scratch).Msg("failed to remove upload artifact")
		}
	}()

	rows, err := h.parser.Parse(scratch)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFile) || errors.Is(err, importer.ErrNoWorksheet) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to parse question sheet")
		return utils.SendError(c, fiber.StatusBadRequest, "could not read the uploaded question sheet")
	}

	exam, err := h.exams.Create(c.Context(), teacherID, payload, rows)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exam created", exam)
}

func (h *ExamHandler) list(c *fiber.Ctx) error {
	teacherID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	exams, err := h.exams.ListByTeacher(c.Context(), teacherID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exams retrieved", exams)
}

func (h *ExamHandler) update(c *fiber.Ctx) error {
	teacherID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ExamUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exam, err := h.exams.Update(c.Context(), teacherID, examID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam updated", exam)
}

func (h *ExamHandler) delete(c *fiber.Ctx) error {
	teacherID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.exams.Delete(c.Context(), teacherID, examID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam and all related submissions deleted", nil)
}

func (h *ExamHandler) examResults(c *fiber.Ctx) error {
	teacherID, err := callerID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	examID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.results.ExamResults(c.Context(), teacherID, examID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exam results retrieved", report)
}

func (h *ExamHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exam not found")
	case errors.Is(err, service.ErrOwnershipViolation):
		return utils.SendError(c, fiber.StatusForbidden, "you do not own this exam")
	case errors.Is(err, service.ErrMalformedQuestion),
		errors.Is(err, service.ErrEmptyQuestionSet),
		errors.Is(err, service.ErrCorrectAnswerMissing):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
