package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appscrap "github.com/jhoicas/scrap-api/internal/application/scrap"
)

var _ appscrap.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos appscrap.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma el juego de repositorios sobre q (pool o tx).
func NewRepos(q Querier) appscrap.Repos {
	return appscrap.Repos{
		Scraps:         NewScrapRepository(q),
		Lots:           NewLotRepository(q),
		Products:       NewProductRepository(q),
		UoMs:           NewUoMRepository(q),
		Locations:      NewLocationRepository(q),
		Quants:         NewQuantRepository(q),
		Moves:          NewStockMoveRepository(q),
		Sequences:      NewSequenceRepository(q),
		Replenishments: NewReplenishmentRepository(q),
		Companies:      NewCompanyRepository(q),
	}
}
