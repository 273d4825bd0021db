package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishmentStatePending solicitud aún no atendida.
const ReplenishmentStatePending = "pending"

// ReplenishmentRequest solicitud de reposición generada tras un desecho.
type ReplenishmentRequest struct {
	ID         string
	CompanyID  string
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal // en la UdM del producto
	Origin     string          // referencia del desecho
	State      string
	CreatedAt  time.Time
}
