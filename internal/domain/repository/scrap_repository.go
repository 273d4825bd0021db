package repository

import (
	"context"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// ScrapRepository define el puerto de persistencia para Scrap (DIP).
type ScrapRepository interface {
	Create(ctx context.Context, scrap *entity.Scrap) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Scrap, error)
	// GetForUpdate bloquea la fila del desecho hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Scrap, error)
	Update(ctx context.Context, scrap *entity.Scrap) error
	ListByCompany(ctx context.Context, companyID, state string, limit, offset int) ([]*entity.Scrap, error)
}
