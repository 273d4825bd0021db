package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

var _ repository.ReplenishmentRepository = (*ReplenishmentRepo)(nil)

// ReplenishmentRepo solicitudes de reposición.
type ReplenishmentRepo struct {
	q Querier
}

// NewReplenishmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReplenishmentRepository(q Querier) *ReplenishmentRepo {
	return &ReplenishmentRepo{q: q}
}

// Create inserta la solicitud.
func (r *ReplenishmentRepo) Create(ctx context.Context, req *entity.ReplenishmentRequest) error {
	query := `
		INSERT INTO replenishment_requests (id, company_id, product_id, location_id, quantity, origin, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.CompanyID, req.ProductID, req.LocationID, req.Quantity, req.Origin, req.State, req.CreatedAt,
	)
	if err != nil {
		return writeErr("insert replenishment request", err)
	}
	return nil
}

// ListByCompany lista solicitudes (más recientes primero); state vacío = todas.
func (r *ReplenishmentRepo) ListByCompany(ctx context.Context, companyID, state string, limit, offset int) ([]*entity.ReplenishmentRequest, error) {
	query := `
		SELECT id, company_id, product_id, location_id, quantity, origin, state, created_at
		FROM replenishment_requests
		WHERE company_id = $1 AND ($2 = '' OR state = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, state, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list replenishment requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReplenishmentRequest
	for rows.Next() {
		var req entity.ReplenishmentRequest
		if err := rows.Scan(&req.ID, &req.CompanyID, &req.ProductID, &req.LocationID, &req.Quantity, &req.Origin, &req.State, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan replenishment request: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}
