package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes con su cantidad actual (suma de quants en ubicaciones internas).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotSelect = `
	SELECT l.id, COALESCE(l.company_id::text, ''), l.product_id, l.name,
	       COALESCE((
	           SELECT SUM(q.quantity) FROM quants q
	           JOIN locations loc ON loc.id = q.location_id
	           WHERE q.lot_id = l.id AND loc.usage = 'internal'
	       ), 0) AS product_qty
	FROM lots l`

func scanLots(rows pgx.Rows) ([]*entity.Lot, error) {
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.ProductID, &l.Name, &l.ProductQty); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// GetByIDs devuelve los lotes en el orden pedido, sin duplicados; ErrNotFound si falta alguno.
func (r *LotRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, lotSelect+` WHERE l.id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("get lots: %w", err)
	}
	found, err := scanLots(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Lot, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}
	out := make([]*entity.Lot, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		l, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
		out = append(out, l)
	}
	return out, nil
}

// ListAvailable lotes del producto (propios o compartidos) con cantidad positiva.
func (r *LotRepo) ListAvailable(ctx context.Context, companyID, productID string) ([]*entity.Lot, error) {
	query := `SELECT * FROM (` + lotSelect + `
		WHERE l.product_id = $1 AND (l.company_id IS NULL OR l.company_id = $2)
	) t WHERE t.product_qty > 0 ORDER BY t.name`
	rows, err := r.q.Query(ctx, query, productID, companyID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return scanLots(rows)
}
