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

// RosterHandler manages student registration and the approval workflow.
type RosterHandler struct {
	students service.StudentService
	logger   zerolog.Logger
}

// NewRosterHandler builds a roster handler instance.
func NewRosterHandler(students service.StudentService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		students: students,
		logger:   logger.With().Str("component", "roster_handler").Logger(),
	}
}

// Register attaches the public registration route.
func (h *RosterHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
}

// RegisterTeacherRoutes attaches the teacher-only approval routes.
func (h *RosterHandler) RegisterTeacherRoutes(router fiber.Router) {
	router.Get("/pending", h.listPending)
	router.Get("/approved", h.listApproved)
	router.Patch("/:id/approve", h.approve)
}

func (h *RosterHandler) register(c *fiber.Ctx) error {
	var payload dto.StudentRegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.students.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registration received, awaiting approval", student)
}

func (h *RosterHandler) listPending(c *fiber.Ctx) error {
	students, err := h.students.ListPending(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "pending students retrieved", students)
}

func (h *RosterHandler) listApproved(c *fiber.Ctx) error {
	students, err := h.students.ListApproved(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "approved students retrieved", students)
}

func (h *RosterHandler) approve(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.students.Approve(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "student approved", student)
}

func (h *RosterHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrStudentAlreadyRegistered):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
