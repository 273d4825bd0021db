package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quant cantidad de un producto en una ubicación para una combinación lote/paquete/propietario.
// Quantity está en la UdM del producto y puede ser negativa (desechos forzados).
type Quant struct {
	ProductID  string
	LocationID string
	LotID      *string
	PackageID  *string
	OwnerID    *string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
