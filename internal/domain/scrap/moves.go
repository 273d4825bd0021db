package scrap

import (
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PrepareMoveValues arma el movimiento agregado (sin lotes seleccionados):
// la cantidad total del desecho y, si existe, su lote único.
func PrepareMoveValues(s *entity.Scrap) *entity.StockMove {
	return baseMove(s, s.ScrapQty, s.LotID)
}

// PrepareMoveValuesPerLot arma el movimiento de un lote con su propia cantidad.
func PrepareMoveValuesPerLot(s *entity.Scrap, lot *entity.Lot) *entity.StockMove {
	lotID := lot.ID
	return baseMove(s, lot.ProductQty, &lotID)
}

// baseMove no modifica s: copia los punteros opcionales.
func baseMove(s *entity.Scrap, qty decimal.Decimal, lotID *string) *entity.StockMove {
	return &entity.StockMove{
		CompanyID:      s.CompanyID,
		Name:           s.Name,
		Reference:      s.Name,
		Origin:         moveOrigin(s),
		ProductID:      s.ProductID,
		ProductUoMID:   s.ProductUoMID,
		ProductUoMQty:  qty,
		LocationID:     s.LocationID,
		LocationDestID: s.ScrapLocationID,
		State:          entity.MoveStateDraft,
		Scrapped:       true,
		ScrapID:        s.ID,
		PickingID:      copyStr(s.PickingID),
		Picked:         true,
		Lines: []entity.MoveLine{{
			ProductID:      s.ProductID,
			ProductUoMID:   s.ProductUoMID,
			Quantity:       qty,
			LocationID:     s.LocationID,
			LocationDestID: s.ScrapLocationID,
			PackageID:      copyStr(s.PackageID),
			OwnerID:        copyStr(s.OwnerID),
			LotID:          copyStr(lotID),
		}},
	}
}

func moveOrigin(s *entity.Scrap) string {
	switch {
	case s.Origin != "":
		return s.Origin
	case s.PickingName != "":
		return s.PickingName
	}
	return s.Name
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
