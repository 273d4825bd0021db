package entity

import "github.com/shopspring/decimal"

// UoM unidad de medida. Factor es la relación respecto a la unidad de referencia
// de la categoría (referencia = 1); Rounding es la precisión de redondeo (ej. 0.01).
type UoM struct {
	ID         string
	CategoryID string
	Name       string
	Factor     decimal.Decimal
	Rounding   decimal.Decimal
}
