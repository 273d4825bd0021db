package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del movimiento de stock.
const (
	MoveStateDraft = "draft"
	MoveStateDone  = "done"
)

// StockMove movimiento de cantidad de un producto entre dos ubicaciones.
type StockMove struct {
	ID             string
	CompanyID      string
	Name           string
	Reference      string
	Origin         string
	ProductID      string
	ProductUoMID   string
	ProductUoMQty  decimal.Decimal
	LocationID     string
	LocationDestID string
	State          string
	Scrapped       bool
	ScrapID        string
	PickingID      *string
	Picked         bool
	DateDone       *time.Time
	Lines          []MoveLine
	CreatedAt      time.Time
}

// MoveLine detalle de un movimiento (lote, paquete y propietario concretos).
type MoveLine struct {
	ID             string
	MoveID         string
	ProductID      string
	ProductUoMID   string
	Quantity       decimal.Decimal
	LocationID     string
	LocationDestID string
	PackageID      *string
	OwnerID        *string
	LotID          *string
}
