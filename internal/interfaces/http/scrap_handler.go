package http

import (
	"strconv"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/scrap-api/internal/application/dto"
	"github.com/jhoicas/scrap-api/internal/application/scrap"
)

// ScrapHandler maneja las peticiones HTTP de desechos (protegido).
type ScrapHandler struct {
	uc       *scrap.ScrapUseCase
	pdf      *scrap.PDFUseCase
	validate *validator.Validate
}

// NewScrapHandler construye el handler. pdf puede ser nil (sin comprobante).
func NewScrapHandler(uc *scrap.ScrapUseCase, pdf *scrap.PDFUseCase) *ScrapHandler {
	return &ScrapHandler{uc: uc, pdf: pdf, validate: validator.New()}
}

// Create godoc
// @Summary      Crear desecho
// @Description  Con lot_ids informados la cantidad es la suma de las cantidades actuales de los lotes.
// @Tags         scraps
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScrapRequest  true  "producto, ubicaciones, cantidad y/o lotes"
// @Success      201   {object}  dto.ScrapResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/scraps [post]
func (h *ScrapHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ScrapRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Create(c.UserContext(), companyID, GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar desecho en borrador
// @Tags         scraps
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del desecho"
// @Param        body  body  dto.ScrapRequest  true  "campos editables"
// @Success      200   {object}  dto.ScrapResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/scraps/{id} [put]
func (h *ScrapHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ScrapRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Update(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener desecho con sus movimientos
// @Tags         scraps
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del desecho"
// @Success      200  {object}  dto.ScrapResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/scraps/{id} [get]
func (h *ScrapHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar desechos
// @Tags         scraps
// @Security     Bearer
// @Produce      json
// @Param        state   query  string  false  "draft | done"
// @Param        limit   query  int     false  "máximo 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ScrapListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/scraps [get]
func (h *ScrapHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	page, err := pageFromQuery(c, h.validate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	list, err := h.uc.List(c.UserContext(), companyID, c.Query("state"), page)
	if err != nil {
		return writeError(c, err)
	}
	page.DefaultPage()
	return c.JSON(dto.ScrapListResponse{
		Items: list,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// OnchangeLots godoc
// @Summary      Vista previa de la cantidad según los lotes seleccionados
// @Tags         scraps
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OnchangeLotsRequest  true  "producto, lotes y cantidad ingresada"
// @Success      200   {object}  dto.OnchangeLotsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/scraps/onchange-lots [post]
func (h *ScrapHandler) OnchangeLots(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.OnchangeLotsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.OnchangeLots(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Consultar si hay existencias suficientes
// @Tags         scraps
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del desecho"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/scraps/{id}/availability [get]
func (h *ScrapHandler) Availability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	ok, err := h.uc.CheckAvailableQty(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{ScrapID: id, Available: ok})
}

// Validate godoc
// @Summary      Validar desecho
// @Description  Con existencias suficientes ejecuta el desecho (status "done"). Si no alcanzan
//
//	devuelve status "insufficient_quantity" con el aviso; se confirma con /confirm.
//
// @Tags         scraps
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del desecho"
// @Success      200  {object}  dto.ValidateScrapResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/scraps/{id}/validate [post]
func (h *ScrapHandler) Validate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Validate(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Desechar sin controlar existencias
// @Description  Confirmación del aviso de cantidad insuficiente. La cantidad debe ser positiva.
// @Tags         scraps
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del desecho"
// @Success      200  {object}  dto.ValidateScrapResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/scraps/{id}/confirm [post]
func (h *ScrapHandler) Confirm(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.DoScrap(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ValidateScrapResponse{Status: dto.ValidateStatusDone, Scrap: out})
}

// DownloadPDF godoc
// @Summary      Comprobante PDF del desecho ejecutado
// @Tags         scraps
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del desecho"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/scraps/{id}/pdf [get]
func (h *ScrapHandler) DownloadPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "comprobante no disponible"})
	}
	pdfBytes, filename, err := h.pdf.DownloadScrapPDF(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(pdfBytes)))
	return c.Send(pdfBytes)
}

// ListLots godoc
// @Summary      Lotes seleccionables de un producto
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {array}   dto.LotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/lots [get]
func (h *ScrapHandler) ListLots(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	lots, err := h.uc.ListLots(c.UserContext(), companyID, c.Query("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(lots)
}

func pageFromQuery(c *fiber.Ctx, v *validator.Validate) (dto.PageRequest, error) {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	if err := v.Struct(page); err != nil {
		return page, err
	}
	return page, nil
}
