package repository

import (
	"context"
	"time"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// StockMoveRepository define el puerto de persistencia para movimientos de stock.
type StockMoveRepository interface {
	// Create persiste el movimiento y sus líneas; asigna IDs si vienen vacíos.
	Create(ctx context.Context, move *entity.StockMove) error
	MarkDone(ctx context.Context, moveID string, doneAt time.Time) error
	ListByScrap(ctx context.Context, scrapID string) ([]*entity.StockMove, error)
}
