package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacad/acadledger-api/internal/service"
	"github.com/openacad/acadledger-api/internal/utils"
)

// SubmissionHandler manages the student-facing submission endpoints. The
// caller's principal address comes from the auth middleware, never from the
// request body.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(svc service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: svc,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. guards run
// before every submission route.
func (h *SubmissionHandler) Register(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/:id/submit", append(guards, h.submit)...)
	router.Get("/:id/status", append(guards, h.status)...)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student := principalFromContext(c)
	if student == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "response artifact file is required")
	}

	submission, err := h.service.Submit(c.Context(), assignmentID, student, file)
	if err != nil {
		h.logger.Warn().Err(err).Uint("assignment_id", assignmentID).Msg("submission rejected")
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission recorded", submission)
}

func (h *SubmissionHandler) status(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student := principalFromContext(c)
	if student == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	status, err := h.service.Status(c.Context(), assignmentID, student)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "submission status retrieved", status)
}
