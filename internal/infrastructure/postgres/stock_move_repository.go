package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo movimientos de stock y sus líneas.
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

// Create inserta el movimiento y sus líneas, asignando IDs si vienen vacíos.
func (r *StockMoveRepo) Create(ctx context.Context, m *entity.StockMove) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_moves (
			id, company_id, name, reference, origin, product_id, product_uom_id, product_uom_qty,
			location_id, location_dest_id, state, scrapped, scrap_id, picking_id, picked,
			date_done, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.Name, m.Reference, m.Origin, m.ProductID, m.ProductUoMID, m.ProductUoMQty,
		m.LocationID, m.LocationDestID, m.State, m.Scrapped, m.ScrapID, m.PickingID, m.Picked,
		m.DateDone, m.CreatedAt,
	)
	if err != nil {
		return writeErr("insert stock move", err)
	}
	lineQuery := `
		INSERT INTO stock_move_lines (
			id, move_id, product_id, product_uom_id, quantity,
			location_id, location_dest_id, package_id, owner_id, lot_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i := range m.Lines {
		l := &m.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.MoveID = m.ID
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.MoveID, l.ProductID, l.ProductUoMID, l.Quantity,
			l.LocationID, l.LocationDestID, l.PackageID, l.OwnerID, l.LotID,
		)
		if err != nil {
			return writeErr("insert stock move line", err)
		}
	}
	return nil
}

// MarkDone pasa el movimiento a done con su fecha.
func (r *StockMoveRepo) MarkDone(ctx context.Context, moveID string, doneAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_moves SET state = $2, date_done = $3 WHERE id = $1`,
		moveID, entity.MoveStateDone, doneAt,
	)
	if err != nil {
		return fmt.Errorf("mark stock move done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, moveID)
	}
	return nil
}

// ListByScrap devuelve los movimientos del desecho con sus líneas, en orden de creación.
func (r *StockMoveRepo) ListByScrap(ctx context.Context, scrapID string) ([]*entity.StockMove, error) {
	query := `
		SELECT id, company_id, name, reference, origin, product_id, product_uom_id, product_uom_qty,
		       location_id, location_dest_id, state, scrapped, scrap_id, picking_id, picked,
		       date_done, created_at
		FROM stock_moves WHERE scrap_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, scrapID)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	var moves []*entity.StockMove
	byID := map[string]*entity.StockMove{}
	for rows.Next() {
		var m entity.StockMove
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.Name, &m.Reference, &m.Origin, &m.ProductID, &m.ProductUoMID, &m.ProductUoMQty,
			&m.LocationID, &m.LocationDestID, &m.State, &m.Scrapped, &m.ScrapID, &m.PickingID, &m.Picked,
			&m.DateDone, &m.CreatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		moves = append(moves, &m)
		byID[m.ID] = &m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		return moves, nil
	}

	lineQuery := `
		SELECT l.id, l.move_id, l.product_id, l.product_uom_id, l.quantity,
		       l.location_id, l.location_dest_id, l.package_id, l.owner_id, l.lot_id
		FROM stock_move_lines l
		JOIN stock_moves m ON m.id = l.move_id
		WHERE m.scrap_id = $1
		ORDER BY l.move_id, l.id`
	lrows, err := r.q.Query(ctx, lineQuery, scrapID)
	if err != nil {
		return nil, fmt.Errorf("list stock move lines: %w", err)
	}
	defer lrows.Close()
	for lrows.Next() {
		var l entity.MoveLine
		if err := lrows.Scan(
			&l.ID, &l.MoveID, &l.ProductID, &l.ProductUoMID, &l.Quantity,
			&l.LocationID, &l.LocationDestID, &l.PackageID, &l.OwnerID, &l.LotID,
		); err != nil {
			return nil, fmt.Errorf("scan stock move line: %w", err)
		}
		if m, ok := byID[l.MoveID]; ok {
			m.Lines = append(m.Lines, l)
		}
	}
	return moves, lrows.Err()
}
