package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del desecho.
const (
	ScrapStateDraft = "draft"
	ScrapStateDone  = "done"
)

// ScrapDefaultName nombre provisional hasta que se asigna la secuencia.
const ScrapDefaultName = "Nuevo"

// Scrap representa una orden de desecho: cantidad de un producto que se retira
// de una ubicación hacia la ubicación de desecho.
// LotIDs permite desechar varios lotes/series en una sola operación; en ese caso
// ScrapQty siempre es la suma de las cantidades de los lotes seleccionados.
type Scrap struct {
	ID              string
	CompanyID       string
	Name            string // referencia (SP/00001) o "Nuevo" mientras es borrador
	Origin          string
	PickingID       *string
	PickingName     string // nombre del picking de origen (solo lectura)
	ProductID       string
	ProductUoMID    string
	ScrapQty        decimal.Decimal // en la UdM del desecho
	LotID           *string         // lote único (compatibilidad)
	LotIDs          []string        // lotes/series seleccionados
	LotScrapQty     decimal.Decimal // suma almacenada de los lotes seleccionados
	PackageID       *string
	OwnerID         *string
	LocationID      string
	ScrapLocationID string
	State           string
	DateDone        *time.Time
	ShouldReplenish bool
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsDone indica si el desecho ya fue ejecutado.
func (s *Scrap) IsDone() bool { return s.State == ScrapStateDone }

// HasLots indica si hay lotes seleccionados.
func (s *Scrap) HasLots() bool { return len(s.LotIDs) > 0 }

// Clone devuelve una copia profunda (slices y punteros incluidos).
func (s *Scrap) Clone() *Scrap {
	if s == nil {
		return nil
	}
	c := *s
	c.LotIDs = append([]string(nil), s.LotIDs...)
	c.PickingID = cloneStr(s.PickingID)
	c.LotID = cloneStr(s.LotID)
	c.PackageID = cloneStr(s.PackageID)
	c.OwnerID = cloneStr(s.OwnerID)
	if s.DateDone != nil {
		d := *s.DateDone
		c.DateDone = &d
	}
	return &c
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
