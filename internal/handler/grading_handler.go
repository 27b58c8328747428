package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacad/acadledger-api/internal/dto"
	"github.com/openacad/acadledger-api/internal/service"
	"github.com/openacad/acadledger-api/internal/utils"
)

// GradingHandler serves the key holder's endpoints: submission lists,
// on-demand pointer decryption, and grade writes.
type GradingHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(svc service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service: svc,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. guards run
// before every grading route.
func (h *GradingHandler) Register(router fiber.Router, guards ...fiber.Handler) {
	router.Get("/:id/submissions", append(guards, h.listSubmissions)...)
	router.Post("/:id/decrypt", append(guards, h.decrypt)...)
	router.Post("/:id/grade", append(guards, h.grade)...)
}

func (h *GradingHandler) listSubmissions(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submissions, err := h.service.ListSubmissions(c.Context(), assignmentID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *GradingHandler) decrypt(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DecryptRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	// Failed decrypts are routine (wrong key pasted); log without the key.
	result, err := h.service.Decrypt(c.Context(), assignmentID, payload)
	if err != nil {
		h.logger.Warn().Err(err).Uint("assignment_id", assignmentID).Str("student", payload.Student).Msg("pointer decryption failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "pointer decrypted", result)
}

func (h *GradingHandler) grade(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.service.Grade(c.Context(), assignmentID, payload)
	if err != nil {
		h.logger.Warn().Err(err).Uint("assignment_id", assignmentID).Str("student", payload.Student).Msg("grading rejected")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "grade recorded", grade)
}
