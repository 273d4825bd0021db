package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

var _ repository.ScrapRepository = (*ScrapRepo)(nil)

// ScrapRepo implementación de ScrapRepository sobre PostgreSQL (usable con pool o tx).
// Los lotes seleccionados viven en scrap_lots, en el orden de selección.
type ScrapRepo struct {
	q Querier
}

// NewScrapRepository construye el adaptador. Pasar pool o tx (Querier).
func NewScrapRepository(q Querier) *ScrapRepo {
	return &ScrapRepo{q: q}
}

const scrapColumns = `
	s.id, s.company_id, s.name, s.origin, s.picking_id, COALESCE(pk.name, ''),
	s.product_id, s.product_uom_id, s.scrap_qty, s.lot_id, s.lot_scrap_qty,
	s.package_id, s.owner_id, s.location_id, s.scrap_location_id,
	s.state, s.date_done, s.should_replenish, COALESCE(s.created_by::text, ''),
	s.created_at, s.updated_at`

func scanScrap(row pgx.Row) (*entity.Scrap, error) {
	var s entity.Scrap
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.Origin, &s.PickingID, &s.PickingName,
		&s.ProductID, &s.ProductUoMID, &s.ScrapQty, &s.LotID, &s.LotScrapQty,
		&s.PackageID, &s.OwnerID, &s.LocationID, &s.ScrapLocationID,
		&s.State, &s.DateDone, &s.ShouldReplenish, &s.CreatedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste el desecho y su selección de lotes.
func (r *ScrapRepo) Create(ctx context.Context, s *entity.Scrap) error {
	query := `
		INSERT INTO scraps (
			id, company_id, name, origin, picking_id, product_id, product_uom_id,
			scrap_qty, lot_id, lot_scrap_qty, package_id, owner_id,
			location_id, scrap_location_id, state, date_done, should_replenish,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NULLIF($18, '')::uuid, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.Name, s.Origin, s.PickingID, s.ProductID, s.ProductUoMID,
		s.ScrapQty, s.LotID, s.LotScrapQty, s.PackageID, s.OwnerID,
		s.LocationID, s.ScrapLocationID, s.State, s.DateDone, s.ShouldReplenish,
		s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert scrap", err)
	}
	return r.saveLots(ctx, s)
}

// GetByID obtiene el desecho con sus lotes; (nil, nil) si no existe.
func (r *ScrapRepo) GetByID(ctx context.Context, id string) (*entity.Scrap, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la fila (SELECT FOR UPDATE OF s).
func (r *ScrapRepo) GetForUpdate(ctx context.Context, id string) (*entity.Scrap, error) {
	return r.get(ctx, id, " FOR UPDATE OF s")
}

func (r *ScrapRepo) get(ctx context.Context, id, lock string) (*entity.Scrap, error) {
	query := `SELECT` + scrapColumns + `
		FROM scraps s
		LEFT JOIN pickings pk ON pk.id = s.picking_id
		WHERE s.id = $1` + lock
	s, err := scanScrap(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scrap: %w", err)
	}
	if s.LotIDs, err = r.loadLots(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// Update actualiza todos los campos editables y reemplaza la selección de lotes.
func (r *ScrapRepo) Update(ctx context.Context, s *entity.Scrap) error {
	query := `
		UPDATE scraps SET
			name = $2, origin = $3, picking_id = $4, product_id = $5, product_uom_id = $6,
			scrap_qty = $7, lot_id = $8, lot_scrap_qty = $9, package_id = $10, owner_id = $11,
			location_id = $12, scrap_location_id = $13, state = $14, date_done = $15,
			should_replenish = $16, updated_at = $17
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Origin, s.PickingID, s.ProductID, s.ProductUoMID,
		s.ScrapQty, s.LotID, s.LotScrapQty, s.PackageID, s.OwnerID,
		s.LocationID, s.ScrapLocationID, s.State, s.DateDone,
		s.ShouldReplenish, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update scrap: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM scrap_lots WHERE scrap_id = $1`, s.ID); err != nil {
		return fmt.Errorf("clear scrap lots: %w", err)
	}
	return r.saveLots(ctx, s)
}

// ListByCompany lista desechos de la empresa (más recientes primero); state vacío = todos.
func (r *ScrapRepo) ListByCompany(ctx context.Context, companyID, state string, limit, offset int) ([]*entity.Scrap, error) {
	query := `SELECT` + scrapColumns + `
		FROM scraps s
		LEFT JOIN pickings pk ON pk.id = s.picking_id
		WHERE s.company_id = $1 AND ($2 = '' OR s.state = $2)
		ORDER BY s.created_at DESC, s.id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, state, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list scraps: %w", err)
	}
	var list []*entity.Scrap
	for rows.Next() {
		s, err := scanScrap(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan scrap: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Las filas deben cerrarse antes de reutilizar la conexión de la tx.
	for _, s := range list {
		if s.LotIDs, err = r.loadLots(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ScrapRepo) saveLots(ctx context.Context, s *entity.Scrap) error {
	for i, lotID := range s.LotIDs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO scrap_lots (scrap_id, lot_id, position) VALUES ($1, $2, $3)`,
			s.ID, lotID, i,
		)
		if err != nil {
			return writeErr("insert scrap lot", err)
		}
	}
	return nil
}

func (r *ScrapRepo) loadLots(ctx context.Context, scrapID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT lot_id FROM scrap_lots WHERE scrap_id = $1 ORDER BY position`, scrapID)
	if err != nil {
		return nil, fmt.Errorf("list scrap lots: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan scrap lots: %w", err)
	}
	return ids, nil
}
