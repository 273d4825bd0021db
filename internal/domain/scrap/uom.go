package scrap

import (
	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComputeQuantity convierte qty de la unidad from a la unidad to.
// Con round=true el resultado se redondea hacia arriba a la precisión de to.
func ComputeQuantity(qty decimal.Decimal, from, to *entity.UoM, round bool) (decimal.Decimal, error) {
	if from == nil || to == nil {
		return decimal.Zero, domain.ErrInvalidInput
	}
	amount := qty
	if from.ID != to.ID {
		if from.CategoryID != to.CategoryID {
			return decimal.Zero, domain.ErrUoMMismatch
		}
		if from.Factor.Sign() <= 0 {
			return decimal.Zero, domain.ErrInvalidInput
		}
		amount = qty.Div(from.Factor).Mul(to.Factor)
	}
	if round {
		amount = RoundToFactor(amount, to.Rounding, RoundUp)
	}
	return amount, nil
}
