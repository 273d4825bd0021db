package scrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/scrap-api/internal/application/dto"
	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
	"github.com/jhoicas/scrap-api/internal/domain/scrap"
)

// DoScrap ejecuta el desecho sin controlar disponibilidad (confirmación del aviso
// de cantidad insuficiente). La cantidad debe seguir siendo positiva.
func (uc *ScrapUseCase) DoScrap(ctx context.Context, companyID, id string) (*dto.ScrapResponse, error) {
	var out *dto.ScrapResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		s, err := loadScrapForUpdate(ctx, r, companyID, id)
		if err != nil {
			return err
		}
		out, err = uc.doScrap(ctx, r, s)
		return err
	})
	return out, err
}

// doScrap, en orden: empresa consistente, referencia de secuencia, cantidad recalculada,
// un movimiento por lote (o uno agregado), movimientos realizados, desecho en done y reposición.
// No compensa nada: cualquier error sube y el TxRunner revierte la transacción entera.
func (uc *ScrapUseCase) doScrap(ctx context.Context, r Repos, s *entity.Scrap) (*dto.ScrapResponse, error) {
	if s.IsDone() {
		return nil, fmt.Errorf("%w: el desecho %s ya fue ejecutado", domain.ErrConflict, s.Name)
	}
	product, err := loadProduct(ctx, r, s.ProductID)
	if err != nil {
		return nil, err
	}
	src, err := loadLocation(ctx, r, s.LocationID)
	if err != nil {
		return nil, err
	}
	dst, err := loadLocation(ctx, r, s.ScrapLocationID)
	if err != nil {
		return nil, err
	}
	lots, err := loadLots(ctx, r, s)
	if err != nil {
		return nil, err
	}

	// 1. Empresa
	if err := scrap.CheckCompany(s, product, []*entity.Location{src, dst}, lots); err != nil {
		return nil, err
	}

	// 2. Referencia
	name, err := r.Sequences.NextByCode(ctx, uc.cfg.SequenceCode, s.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("asignar referencia: %w", err)
	}
	if name == "" {
		name = entity.ScrapDefaultName
	}
	s.Name = name

	// 3. Cantidad desde las cantidades actuales de los lotes
	scrap.SyncQuantity(s, lots, scrap.KeepEntered())
	uom, err := loadUoM(ctx, r, s.ProductUoMID)
	if err != nil {
		return nil, err
	}
	if scrap.IsZero(s.ScrapQty, uom.Rounding) || s.ScrapQty.IsNegative() {
		return nil, domain.ErrNonPositiveQty
	}

	// 4. Movimientos
	var moves []*entity.StockMove
	if len(lots) > 0 {
		for _, l := range lots {
			moves = append(moves, scrap.PrepareMoveValuesPerLot(s, l))
		}
	} else {
		moves = append(moves, scrap.PrepareMoveValues(s))
	}
	now := uc.now()
	for _, m := range moves {
		m.CreatedAt = now
		if err := r.Moves.Create(ctx, m); err != nil {
			return nil, err
		}
	}

	// 5. Movimientos realizados
	for _, m := range moves {
		if err := finalizeMove(ctx, r, m, product, uom, now); err != nil {
			return nil, err
		}
	}

	// 6. Desecho ejecutado
	s.State = entity.ScrapStateDone
	s.DateDone = &now
	s.UpdatedAt = now
	if err := r.Scraps.Update(ctx, s); err != nil {
		return nil, err
	}

	// 7. Reposición
	if s.ShouldReplenish && uc.replenisher != nil {
		qty, err := scrap.ComputeQuantity(s.ScrapQty, uom, &product.UoM, true)
		if err != nil {
			return nil, err
		}
		if err := uc.replenisher.Replenish(ctx, r.Replenishments, s, qty); err != nil {
			return nil, err
		}
	}

	uc.log.Info().
		Str("scrap_id", s.ID).
		Str("name", s.Name).
		Int("moves", len(moves)).
		Str("qty", s.ScrapQty.String()).
		Msg("desecho ejecutado")
	return toScrapResponse(s, moves), nil
}

// finalizeMove marca el movimiento como realizado y traslada las existencias de cada
// línea del origen a la ubicación de desecho. Se permiten existencias negativas.
func finalizeMove(
	ctx context.Context,
	r Repos,
	m *entity.StockMove,
	product *entity.Product,
	moveUoM *entity.UoM,
	now time.Time,
) error {
	for _, line := range m.Lines {
		qty, err := scrap.ComputeQuantity(line.Quantity, moveUoM, &product.UoM, true)
		if err != nil {
			return err
		}
		src, err := r.Quants.GetForUpdate(ctx, repository.QuantFilter{
			ProductID:  line.ProductID,
			LocationID: line.LocationID,
			LotID:      line.LotID,
			PackageID:  line.PackageID,
			OwnerID:    line.OwnerID,
		})
		if err != nil {
			return err
		}
		src.Quantity = src.Quantity.Sub(qty)
		src.UpdatedAt = now
		if err := r.Quants.Upsert(ctx, src); err != nil {
			return err
		}
		// En destino el paquete no se conserva.
		dst, err := r.Quants.GetForUpdate(ctx, repository.QuantFilter{
			ProductID:  line.ProductID,
			LocationID: line.LocationDestID,
			LotID:      line.LotID,
			OwnerID:    line.OwnerID,
		})
		if err != nil {
			return err
		}
		dst.Quantity = dst.Quantity.Add(qty)
		dst.UpdatedAt = now
		if err := r.Quants.Upsert(ctx, dst); err != nil {
			return err
		}
	}
	if err := r.Moves.MarkDone(ctx, m.ID, now); err != nil {
		return err
	}
	m.State = entity.MoveStateDone
	m.DateDone = &now
	return nil
}
