package repository

import (
	"context"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// ReplenishmentRepository persiste solicitudes de reposición.
type ReplenishmentRepository interface {
	Create(ctx context.Context, req *entity.ReplenishmentRequest) error
	ListByCompany(ctx context.Context, companyID, state string, limit, offset int) ([]*entity.ReplenishmentRequest, error)
}
