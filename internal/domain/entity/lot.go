package entity

import "github.com/shopspring/decimal"

// Lot representa un lote o número de serie de un producto.
// ProductQty es la cantidad disponible en ubicaciones internas, en la UdM del producto.
type Lot struct {
	ID         string
	CompanyID  string
	ProductID  string
	Name       string
	ProductQty decimal.Decimal
}
