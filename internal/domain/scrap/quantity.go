package scrap

import (
	"fmt"
	"strings"

	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// EmptyLotsPolicy qué hacer con la cantidad cuando no hay lotes seleccionados.
type EmptyLotsPolicy string

const (
	// EmptyLotsKeep deja la cantidad ingresada a mano.
	EmptyLotsKeep EmptyLotsPolicy = "keep"
	// EmptyLotsDefault usa la cantidad por defecto si la ingresada es cero.
	EmptyLotsDefault EmptyLotsPolicy = "default"
)

// ParseEmptyLotsPolicy interpreta el valor de configuración (vacío = keep).
func ParseEmptyLotsPolicy(s string) (EmptyLotsPolicy, error) {
	switch EmptyLotsPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", EmptyLotsKeep:
		return EmptyLotsKeep, nil
	case EmptyLotsDefault:
		return EmptyLotsDefault, nil
	}
	return "", fmt.Errorf("política de cantidad sin lotes desconocida: %q", s)
}

// QtyPolicy parámetros de sincronización de la cantidad.
type QtyPolicy struct {
	EmptyLots  EmptyLotsPolicy
	DefaultQty decimal.Decimal
}

// KeepEntered política usada al validar y ejecutar: nunca inventa cantidad.
func KeepEntered() QtyPolicy {
	return QtyPolicy{EmptyLots: EmptyLotsKeep}
}

// SumLots suma las cantidades actuales de los lotes.
func SumLots(lots []*entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(l.ProductQty)
	}
	return total
}

// SyncQuantity recalcula la cantidad del desecho a partir de los lotes seleccionados.
// Es idempotente: con la misma selección y las mismas cantidades no cambia nada.
// Devuelve true si ScrapQty cambió.
func SyncQuantity(s *entity.Scrap, lots []*entity.Lot, p QtyPolicy) bool {
	before := s.ScrapQty
	s.LotScrapQty = SumLots(lots)
	switch {
	case len(lots) > 0:
		s.ScrapQty = s.LotScrapQty
	case p.EmptyLots == EmptyLotsDefault && s.ScrapQty.IsZero() && p.DefaultQty.IsPositive():
		s.ScrapQty = p.DefaultQty
	}
	return !before.Equal(s.ScrapQty)
}

// NormalizeLotIDs quita vacíos y duplicados conservando el orden.
func NormalizeLotIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
