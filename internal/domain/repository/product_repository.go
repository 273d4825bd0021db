package repository

import (
	"context"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos (con su UdM base).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

// UoMRepository puerto de lectura de unidades de medida.
type UoMRepository interface {
	GetByID(ctx context.Context, id string) (*entity.UoM, error)
}

// LocationRepository puerto de lectura de ubicaciones.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
