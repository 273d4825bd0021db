package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.UoMRepository      = (*UoMRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
)

// ProductRepo lectura de productos con su UdM base.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT p.id, COALESCE(p.company_id::text, ''), p.name, COALESCE(p.default_code, ''),
		       p.tracking, p.is_storable,
		       u.id, u.category_id, u.name, u.factor, u.rounding
		FROM products p
		JOIN uoms u ON u.id = p.uom_id
		WHERE p.id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.DefaultCode, &p.Tracking, &p.IsStorable,
		&p.UoM.ID, &p.UoM.CategoryID, &p.UoM.Name, &p.UoM.Factor, &p.UoM.Rounding,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// UoMRepo lectura de unidades de medida.
type UoMRepo struct {
	q Querier
}

// NewUoMRepository construye el adaptador.
func NewUoMRepository(q Querier) *UoMRepo {
	return &UoMRepo{q: q}
}

// GetByID obtiene una UdM; (nil, nil) si no existe.
func (r *UoMRepo) GetByID(ctx context.Context, id string) (*entity.UoM, error) {
	var u entity.UoM
	err := r.q.QueryRow(ctx,
		`SELECT id, category_id, name, factor, rounding FROM uoms WHERE id = $1`, id,
	).Scan(&u.ID, &u.CategoryID, &u.Name, &u.Factor, &u.Rounding)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get uom: %w", err)
	}
	return &u, nil
}

// LocationRepo lectura de ubicaciones.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetByID obtiene una ubicación; (nil, nil) si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, `
		SELECT id, COALESCE(company_id::text, ''), name, usage, scrap_location
		FROM locations WHERE id = $1`, id,
	).Scan(&l.ID, &l.CompanyID, &l.Name, &l.Usage, &l.ScrapLocation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}
