package scrap

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
	"github.com/jhoicas/scrap-api/internal/domain/scrap"
)

// checkAvailableQty compara lo disponible en la ubicación (por lote, paquete y propietario,
// en alcance estricto) con lo pedido convertido a la UdM del producto.
// Sin control de existencias para el producto/ubicación siempre es suficiente.
func (uc *ScrapUseCase) checkAvailableQty(
	ctx context.Context,
	r Repos,
	s *entity.Scrap,
	product *entity.Product,
	lots []*entity.Lot,
) (bool, error) {
	location, err := loadLocation(ctx, r, s.LocationID)
	if err != nil {
		return false, err
	}
	if !scrap.ShouldCheckAvailableQty(product, location) {
		return true, nil
	}

	filter := repository.QuantFilter{
		ProductID:  s.ProductID,
		LocationID: s.LocationID,
		PackageID:  s.PackageID,
		OwnerID:    s.OwnerID,
	}
	available := decimal.Zero
	if len(lots) > 0 {
		for _, l := range lots {
			lotID := l.ID
			f := filter
			f.LotID = &lotID
			qty, err := r.Quants.AvailableQty(ctx, f)
			if err != nil {
				return false, err
			}
			available = available.Add(qty)
		}
	} else {
		filter.LotID = s.LotID
		qty, err := r.Quants.AvailableQty(ctx, filter)
		if err != nil {
			return false, err
		}
		available = qty
	}

	uom, err := loadUoM(ctx, r, s.ProductUoMID)
	if err != nil {
		return false, err
	}
	requested, err := scrap.ComputeQuantity(requestedQty(s, lots), uom, &product.UoM, true)
	if err != nil {
		return false, err
	}
	return scrap.CompareQty(available, requested, uc.cfg.PrecisionDigits) >= 0, nil
}
