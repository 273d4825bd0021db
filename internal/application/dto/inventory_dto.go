package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishmentRequestDTO solicitud de reposición generada por un desecho.
type ReplenishmentRequestDTO struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Origin     string          `json:"origin"`
	State      string          `json:"state"`
	CreatedAt  time.Time       `json:"created_at"`
}
