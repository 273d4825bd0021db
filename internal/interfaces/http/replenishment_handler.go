package http

import (
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/scrap-api/internal/application/dto"
	"github.com/jhoicas/scrap-api/internal/application/inventory"
)

// ReplenishmentHandler consulta las solicitudes de reposición generadas por desechos.
type ReplenishmentHandler struct {
	uc       *inventory.ReplenishmentUseCase
	validate *validator.Validate
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(uc *inventory.ReplenishmentUseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc, validate: validator.New()}
}

// ListPending godoc
// @Summary      Solicitudes de reposición pendientes
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/replenishments [get]
func (h *ReplenishmentHandler) ListPending(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	page, err := pageFromQuery(c, h.validate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	list, err := h.uc.ListPending(c.UserContext(), companyID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
