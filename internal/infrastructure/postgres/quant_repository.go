package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

var _ repository.QuantRepository = (*QuantRepo)(nil)

// QuantRepo existencias por producto/ubicación/lote/paquete/propietario.
// NULL en lote, paquete o propietario es un valor más: se compara con IS NOT DISTINCT FROM.
type QuantRepo struct {
	q Querier
}

// NewQuantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuantRepository(q Querier) *QuantRepo {
	return &QuantRepo{q: q}
}

// AvailableQty suma en alcance estricto: ubicación, lote, paquete y propietario exactos (NULL = NULL).
func (r *QuantRepo) AvailableQty(ctx context.Context, f repository.QuantFilter) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0) FROM quants
		WHERE product_id = $1 AND location_id = $2
		  AND lot_id IS NOT DISTINCT FROM $3::uuid
		  AND package_id IS NOT DISTINCT FROM $4::uuid
		  AND owner_id IS NOT DISTINCT FROM $5::uuid`
	var qty decimal.Decimal
	if err := r.q.QueryRow(ctx, query, f.ProductID, f.LocationID, f.LotID, f.PackageID, f.OwnerID).Scan(&qty); err != nil {
		return decimal.Zero, fmt.Errorf("available qty: %w", err)
	}
	return qty, nil
}

// GetForUpdate obtiene el quant exacto y bloquea la fila; si no existe devuelve uno en cero.
func (r *QuantRepo) GetForUpdate(ctx context.Context, k repository.QuantFilter) (*entity.Quant, error) {
	query := `
		SELECT product_id, location_id, lot_id, package_id, owner_id, quantity, updated_at
		FROM quants
		WHERE product_id = $1 AND location_id = $2
		  AND lot_id IS NOT DISTINCT FROM $3::uuid
		  AND package_id IS NOT DISTINCT FROM $4::uuid
		  AND owner_id IS NOT DISTINCT FROM $5::uuid
		FOR UPDATE`
	var q entity.Quant
	err := r.q.QueryRow(ctx, query, k.ProductID, k.LocationID, k.LotID, k.PackageID, k.OwnerID).Scan(
		&q.ProductID, &q.LocationID, &q.LotID, &q.PackageID, &q.OwnerID, &q.Quantity, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Quant{
				ProductID: k.ProductID, LocationID: k.LocationID,
				LotID: k.LotID, PackageID: k.PackageID, OwnerID: k.OwnerID,
				Quantity: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get quant for update: %w", err)
	}
	return &q, nil
}

// Upsert actualiza el quant exacto o lo inserta si aún no existe.
func (r *QuantRepo) Upsert(ctx context.Context, q *entity.Quant) error {
	update := `
		UPDATE quants SET quantity = $6, updated_at = $7
		WHERE product_id = $1 AND location_id = $2
		  AND lot_id IS NOT DISTINCT FROM $3::uuid
		  AND package_id IS NOT DISTINCT FROM $4::uuid
		  AND owner_id IS NOT DISTINCT FROM $5::uuid`
	tag, err := r.q.Exec(ctx, update, q.ProductID, q.LocationID, q.LotID, q.PackageID, q.OwnerID, q.Quantity, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update quant: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	insert := `
		INSERT INTO quants (product_id, location_id, lot_id, package_id, owner_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, insert, q.ProductID, q.LocationID, q.LotID, q.PackageID, q.OwnerID, q.Quantity, q.UpdatedAt); err != nil {
		return writeErr("insert quant", err)
	}
	return nil
}
