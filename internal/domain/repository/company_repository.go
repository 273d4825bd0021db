package repository

import (
	"context"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// CompanyRepository define el puerto de lectura de empresas.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}
