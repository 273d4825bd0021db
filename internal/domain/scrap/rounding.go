package scrap

import "github.com/shopspring/decimal"

// RoundingMode método de redondeo a un factor de precisión.
type RoundingMode int

const (
	// RoundHalfUp redondea al múltiplo más cercano (0.5 se aleja de cero).
	RoundHalfUp RoundingMode = iota
	// RoundUp redondea alejándose de cero.
	RoundUp
)

// normalizePlaces absorbe el ruido de divisiones inexactas antes de redondear
// (59.9999999999999999 no debe subir a 61 ni quedarse en 59).
const normalizePlaces = 10

// RoundToFactor redondea v al múltiplo más cercano de factor (ej. 0.01, 0.5, 1).
// Un factor no positivo devuelve v sin cambios.
func RoundToFactor(v, factor decimal.Decimal, mode RoundingMode) decimal.Decimal {
	if factor.Sign() <= 0 {
		return v
	}
	n := v.Div(factor).Round(normalizePlaces)
	switch mode {
	case RoundUp:
		if n.Sign() >= 0 {
			n = n.Ceil()
		} else {
			n = n.Floor()
		}
	default:
		n = n.Round(0)
	}
	return n.Mul(factor)
}

// IsZero indica si v es cero una vez redondeado a la precisión de la UdM.
func IsZero(v, rounding decimal.Decimal) bool {
	return RoundToFactor(v, rounding, RoundHalfUp).IsZero()
}

// CompareQty compara a y b redondeados a digits decimales: -1, 0 o 1.
func CompareQty(a, b decimal.Decimal, digits int32) int {
	delta := a.Round(digits).Sub(b.Round(digits))
	if delta.Round(digits).IsZero() {
		return 0
	}
	return delta.Sign()
}
