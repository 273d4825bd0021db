package scrap

import (
	"context"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Scraps         repository.ScrapRepository
	Lots           repository.LotRepository
	Products       repository.ProductRepository
	UoMs           repository.UoMRepository
	Locations      repository.LocationRepository
	Quants         repository.QuantRepository
	Moves          repository.StockMoveRepository
	Sequences      repository.SequenceRepository
	Replenishments repository.ReplenishmentRepository
	Companies      repository.CompanyRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error la transacción se revierte completa.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// Replenisher dispara la reposición de lo desechado (qty en la UdM del producto).
type Replenisher interface {
	Replenish(ctx context.Context, repo repository.ReplenishmentRepository, s *entity.Scrap, qty decimal.Decimal) error
}

// ScrapPDFGenerator genera el comprobante de desecho.
type ScrapPDFGenerator interface {
	GenerateScrapPDF(ctx context.Context, slip *ScrapSlip) ([]byte, error)
}

// ScrapSlip datos ya resueltos para imprimir el comprobante.
type ScrapSlip struct {
	Company       *entity.Company
	Scrap         *entity.Scrap
	Product       *entity.Product
	UoMName       string
	Location      *entity.Location
	ScrapLocation *entity.Location
	Lines         []ScrapSlipLine
}

// ScrapSlipLine una línea por movimiento/lote.
type ScrapSlipLine struct {
	Reference string
	LotName   string
	Quantity  decimal.Decimal
}
