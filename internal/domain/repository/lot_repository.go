package repository

import (
	"context"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// LotRepository define el puerto de lectura de lotes/series con su cantidad actual.
type LotRepository interface {
	// GetByIDs devuelve los lotes en el orden de ids, sin duplicados.
	// Retorna ErrNotFound si alguno no existe.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Lot, error)
	// ListAvailable lista lotes del producto con cantidad positiva.
	ListAvailable(ctx context.Context, companyID, productID string) ([]*entity.Lot, error)
}
