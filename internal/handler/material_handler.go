package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacad/acadledger-api/internal/dto"
	"github.com/openacad/acadledger-api/internal/service"
	"github.com/openacad/acadledger-api/internal/utils"
)

// MaterialHandler exposes course material publishing and listing.
type MaterialHandler struct {
	service service.MaterialService
	logger  zerolog.Logger
}

// NewMaterialHandler builds a material handler instance.
func NewMaterialHandler(svc service.MaterialService, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service: svc,
		logger:  logger.With().Str("component", "material_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. createGuards
// run before the publish route only.
func (h *MaterialHandler) Register(router fiber.Router, createGuards ...fiber.Handler) {
	router.Get("", h.list)
	router.Post("", append(createGuards, h.create)...)
}

func (h *MaterialHandler) list(c *fiber.Ctx) error {
	moduleID, err := parseQueryUint(c, "module_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	materials, err := h.service.List(c.Context(), moduleID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "materials retrieved", materials)
}

func (h *MaterialHandler) create(c *fiber.Ctx) error {
	moduleID, err := parseFormUint(c, "module_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.MaterialCreateRequest{
		ModuleID: moduleID,
		Title:    c.FormValue("title"),
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "material file is required")
	}

	material, err := h.service.Add(c.Context(), payload, file)
	if err != nil {
		h.logger.Warn().Err(err).Uint("module_id", moduleID).Msg("material publish rejected")
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "material published", material)
}
