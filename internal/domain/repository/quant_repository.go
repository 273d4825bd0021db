package repository

import (
	"context"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuantFilter alcance estricto de una consulta de disponibilidad:
// la ubicación exacta (sin hijas); lote, paquete y propietario nil significan
// "sin lote", "sin paquete" y "sin propietario", igual que al mover las existencias.
type QuantFilter struct {
	ProductID  string
	LocationID string
	LotID      *string
	PackageID  *string
	OwnerID    *string
}

// QuantRepository define el puerto de existencias por ubicación.
type QuantRepository interface {
	// AvailableQty suma las cantidades en la UdM del producto.
	AvailableQty(ctx context.Context, f QuantFilter) (decimal.Decimal, error)
	// GetForUpdate bloquea el quant (SELECT FOR UPDATE); si no existe devuelve uno en cero.
	GetForUpdate(ctx context.Context, key QuantFilter) (*entity.Quant, error)
	Upsert(ctx context.Context, quant *entity.Quant) error
}
