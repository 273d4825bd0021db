package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la respuesta de validación.
const (
	ValidateStatusDone                 = "done"
	ValidateStatusInsufficientQuantity = "insufficient_quantity"
)

// ScrapRequest body para POST /api/scraps y PUT /api/scraps/:id.
// ProductUoMID vacío = UdM del producto. Con LotIDs informados, ScrapQty se ignora
// y se recalcula como la suma de los lotes.
type ScrapRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	ProductUoMID    string          `json:"product_uom_id,omitempty"`
	ScrapQty        decimal.Decimal `json:"scrap_qty"`
	LotID           *string         `json:"lot_id,omitempty"`
	LotIDs          []string        `json:"lot_ids,omitempty" validate:"omitempty,dive,required"`
	PackageID       *string         `json:"package_id,omitempty"`
	OwnerID         *string         `json:"owner_id,omitempty"`
	LocationID      string          `json:"location_id" validate:"required"`
	ScrapLocationID string          `json:"scrap_location_id" validate:"required"`
	Origin          string          `json:"origin,omitempty" validate:"max=200"`
	PickingID       *string         `json:"picking_id,omitempty"`
	ShouldReplenish bool            `json:"should_replenish"`
}

// OnchangeLotsRequest body para POST /api/scraps/onchange-lots (vista previa sin escritura).
type OnchangeLotsRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	LotIDs    []string        `json:"lot_ids" validate:"omitempty,dive,required"`
	ScrapQty  decimal.Decimal `json:"scrap_qty"`
}

// OnchangeLotsResponse cantidades recalculadas para la selección de lotes.
type OnchangeLotsResponse struct {
	ScrapQty    decimal.Decimal `json:"scrap_qty"`
	LotScrapQty decimal.Decimal `json:"lot_scrap_qty"`
}

// MoveLineResponse detalle de un movimiento.
type MoveLineResponse struct {
	LotID     *string         `json:"lot_id,omitempty"`
	PackageID *string         `json:"package_id,omitempty"`
	OwnerID   *string         `json:"owner_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// StockMoveResponse movimiento generado por un desecho.
type StockMoveResponse struct {
	ID             string             `json:"id"`
	Reference      string             `json:"reference"`
	Origin         string             `json:"origin"`
	ProductUoMQty  decimal.Decimal    `json:"product_uom_qty"`
	LocationID     string             `json:"location_id"`
	LocationDestID string             `json:"location_dest_id"`
	State          string             `json:"state"`
	DateDone       *time.Time         `json:"date_done,omitempty"`
	Lines          []MoveLineResponse `json:"lines"`
}

// ScrapResponse salida de un desecho.
type ScrapResponse struct {
	ID              string              `json:"id"`
	CompanyID       string              `json:"company_id"`
	Name            string              `json:"name"`
	Origin          string              `json:"origin,omitempty"`
	PickingID       *string             `json:"picking_id,omitempty"`
	ProductID       string              `json:"product_id"`
	ProductUoMID    string              `json:"product_uom_id"`
	ScrapQty        decimal.Decimal     `json:"scrap_qty"`
	LotID           *string             `json:"lot_id,omitempty"`
	LotIDs          []string            `json:"lot_ids"`
	LotScrapQty     decimal.Decimal     `json:"lot_scrap_qty"`
	PackageID       *string             `json:"package_id,omitempty"`
	OwnerID         *string             `json:"owner_id,omitempty"`
	LocationID      string              `json:"location_id"`
	ScrapLocationID string              `json:"scrap_location_id"`
	State           string              `json:"state"`
	DateDone        *time.Time          `json:"date_done,omitempty"`
	ShouldReplenish bool                `json:"should_replenish"`
	Moves           []StockMoveResponse `json:"moves,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// InsufficientQtyWarning datos para el diálogo "cantidad insuficiente para desechar".
// El usuario puede confirmar igualmente con POST /api/scraps/:id/confirm.
type InsufficientQtyWarning struct {
	Title          string          `json:"title"`
	ScrapID        string          `json:"scrap_id"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Quantity       decimal.Decimal `json:"quantity"` // en la UdM del producto
	ProductUoMName string          `json:"product_uom_name"`
}

// ValidateScrapResponse resultado de validar: desecho ejecutado o aviso de cantidad insuficiente.
type ValidateScrapResponse struct {
	Status  string                  `json:"status"`
	Scrap   *ScrapResponse          `json:"scrap,omitempty"`
	Warning *InsufficientQtyWarning `json:"warning,omitempty"`
}

// AvailabilityResponse resultado de GET /api/scraps/:id/availability.
type AvailabilityResponse struct {
	ScrapID   string `json:"scrap_id"`
	Available bool   `json:"available"`
}

// LotResponse lote seleccionable.
type LotResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ProductID  string          `json:"product_id"`
	ProductQty decimal.Decimal `json:"product_qty"`
}
