package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacad/acadledger-api/internal/dto"
	"github.com/openacad/acadledger-api/internal/service"
	"github.com/openacad/acadledger-api/internal/utils"
)

// AssignmentHandler manages assignment creation and listing endpoints.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler builds an assignment handler instance.
func NewAssignmentHandler(svc service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: svc,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. createGuards
// run before the create route only; reads stay open to any authenticated
// caller.
func (h *AssignmentHandler) Register(router fiber.Router, createGuards ...fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", append(createGuards, h.create)...)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	moduleID, err := parseQueryUint(c, "module_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignments, err := h.service.List(c.Context(), moduleID)
	if err != nil {
		return h.fail(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	moduleID, err := parseFormUint(c, "module_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.AssignmentCreateRequest{
		ModuleID: moduleID,
		Title:    c.FormValue("title"),
		Deadline: c.FormValue("deadline"),
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "task artifact file is required")
	}

	created, err := h.service.Create(c.Context(), payload, file)
	if err != nil {
		return h.fail(c, err)
	}

	// The response is the only copy of the private key that will ever exist.
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", created)
}

func (h *AssignmentHandler) fail(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Str("path", c.Path()).Msg("assignment request failed")
	return sendServiceError(c, err)
}
