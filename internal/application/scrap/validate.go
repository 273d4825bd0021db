package scrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/scrap-api/internal/application/dto"
	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/scrap"
)

// Validate confirma el desecho:
//  1. recalcula la cantidad desde los lotes;
//  2. rechaza cantidad cero (a la precisión de la UdM) con ErrNonPositiveQty, sin escribir nada;
//  3. con existencias suficientes ejecuta el desecho (status "done");
//  4. si no alcanzan, devuelve el aviso de cantidad insuficiente para que el usuario confirme.
func (uc *ScrapUseCase) Validate(ctx context.Context, companyID, id string) (*dto.ValidateScrapResponse, error) {
	var out *dto.ValidateScrapResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		s, err := loadScrapForUpdate(ctx, r, companyID, id)
		if err != nil {
			return err
		}
		if s.IsDone() {
			return fmt.Errorf("%w: el desecho %s ya fue ejecutado", domain.ErrConflict, s.Name)
		}
		lots, err := loadLots(ctx, r, s)
		if err != nil {
			return err
		}
		changed := scrap.SyncQuantity(s, lots, scrap.KeepEntered())

		uom, err := loadUoM(ctx, r, s.ProductUoMID)
		if err != nil {
			return err
		}
		if scrap.IsZero(s.ScrapQty, uom.Rounding) || s.ScrapQty.IsNegative() {
			return domain.ErrNonPositiveQty
		}

		product, err := loadProduct(ctx, r, s.ProductID)
		if err != nil {
			return err
		}
		ok, err := uc.checkAvailableQty(ctx, r, s, product, lots)
		if err != nil {
			return err
		}
		if ok {
			res, err := uc.doScrap(ctx, r, s)
			if err != nil {
				return err
			}
			out = &dto.ValidateScrapResponse{Status: dto.ValidateStatusDone, Scrap: res}
			return nil
		}

		// La cantidad recalculada queda guardada aunque no se ejecute.
		if changed {
			s.UpdatedAt = uc.now()
			if err := r.Scraps.Update(ctx, s); err != nil {
				return err
			}
		}
		qty, err := scrap.ComputeQuantity(s.ScrapQty, uom, &product.UoM, true)
		if err != nil {
			return err
		}
		out = &dto.ValidateScrapResponse{
			Status: dto.ValidateStatusInsufficientQuantity,
			Warning: &dto.InsufficientQtyWarning{
				Title:          fmt.Sprintf("%s: cantidad insuficiente para desechar", product.DisplayName()),
				ScrapID:        s.ID,
				ProductID:      s.ProductID,
				LocationID:     s.LocationID,
				Quantity:       qty,
				ProductUoMName: product.UoM.Name,
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Warning != nil {
		uc.log.Warn().Str("scrap_id", id).Str("qty", out.Warning.Quantity.String()).Msg("cantidad insuficiente para desechar")
	}
	return out, nil
}
