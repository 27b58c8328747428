package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacad/acadledger-api/internal/dto"
	"github.com/openacad/acadledger-api/internal/service"
	"github.com/openacad/acadledger-api/internal/utils"
)

// RosterHandler serves the administrative surface: role assignment, module
// creation, enrollment, and membership queries.
type RosterHandler struct {
	service service.RosterService
	logger  zerolog.Logger
}

// NewRosterHandler builds a roster handler instance.
func NewRosterHandler(svc service.RosterService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		service: svc,
		logger:  logger.With().Str("component", "roster_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RosterHandler) Register(router fiber.Router) {
	router.Post("/roles", h.assignRole)
	router.Get("/roles/:principal", h.queryRole)
	router.Post("/modules", h.createModule)
	router.Post("/modules/:id/enroll", h.enroll)
	router.Get("/modules/:id/members", h.listMembers)
}

func (h *RosterHandler) assignRole(c *fiber.Ctx) error {
	var payload dto.RoleAssignRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.AssignRole(c.Context(), payload); err != nil {
		h.logger.Warn().Err(err).Str("principal", payload.Principal).Msg("role assignment rejected")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "role assigned", fiber.Map{
		"principal": payload.Principal,
		"role":      payload.Role,
	})
}

func (h *RosterHandler) queryRole(c *fiber.Ctx) error {
	principal := c.Params("principal")
	if principal == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "principal is required")
	}

	role, err := h.service.QueryRole(c.Context(), principal)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "role retrieved", fiber.Map{
		"principal": principal,
		"role":      string(role),
	})
}

func (h *RosterHandler) createModule(c *fiber.Ctx) error {
	var payload dto.ModuleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	module, err := h.service.CreateModule(c.Context(), payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("name", payload.Name).Msg("module creation rejected")
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "module created", module)
}

func (h *RosterHandler) enroll(c *fiber.Ctx) error {
	moduleID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Enroll(c.Context(), moduleID, payload); err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "student enrolled", fiber.Map{
		"module_id": moduleID,
		"student":   payload.Student,
	})
}

func (h *RosterHandler) listMembers(c *fiber.Ctx) error {
	moduleID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	members, err := h.service.ListMembers(c.Context(), moduleID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "members retrieved", members)
}
