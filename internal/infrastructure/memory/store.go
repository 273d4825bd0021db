// Package memory implementa los puertos de persistencia en memoria.
// Sirve para STORAGE_DRIVER=memory (demos, desarrollo) y para los tests de casos de uso.
// Cada transacción trabaja sobre el estado vivo y, si falla, se restaura una copia previa.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	appscrap "github.com/jhoicas/scrap-api/internal/application/scrap"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

var _ appscrap.TxRunner = (*Store)(nil)

type sequence struct {
	prefix     string
	padding    int
	numberNext int
	increment  int
}

type state struct {
	companies      map[string]*entity.Company
	users          map[string]*entity.User
	products       map[string]*entity.Product
	uoms           map[string]*entity.UoM
	locations      map[string]*entity.Location
	lots           map[string]*entity.Lot
	pickings       map[string]string
	quants         []*entity.Quant
	scraps         map[string]*entity.Scrap
	moves          []*entity.StockMove
	sequences      map[string]*sequence // code|company
	replenishments []*entity.ReplenishmentRequest
}

func newState() *state {
	return &state{
		companies: map[string]*entity.Company{},
		users:     map[string]*entity.User{},
		products:  map[string]*entity.Product{},
		uoms:      map[string]*entity.UoM{},
		locations: map[string]*entity.Location{},
		lots:      map[string]*entity.Lot{},
		pickings:  map[string]string{},
		scraps:    map[string]*entity.Scrap{},
		sequences: map[string]*sequence{},
	}
}

// clone copia todo lo que una transacción puede modificar.
func (st *state) clone() *state {
	c := *st
	c.scraps = make(map[string]*entity.Scrap, len(st.scraps))
	for k, v := range st.scraps {
		c.scraps[k] = v.Clone()
	}
	c.quants = make([]*entity.Quant, len(st.quants))
	for i, q := range st.quants {
		cp := *q
		c.quants[i] = &cp
	}
	c.moves = make([]*entity.StockMove, len(st.moves))
	for i, m := range st.moves {
		cp := *m
		cp.Lines = append([]entity.MoveLine(nil), m.Lines...)
		c.moves[i] = &cp
	}
	c.sequences = make(map[string]*sequence, len(st.sequences))
	for k, v := range st.sequences {
		cp := *v
		c.sequences[k] = &cp
	}
	c.replenishments = append([]*entity.ReplenishmentRequest(nil), st.replenishments...)
	return &c
}

// Store base de datos en memoria, segura para uso concurrente (una transacción a la vez).
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios sobre el estado actual; si fn falla se revierte todo.
func (s *Store) Run(ctx context.Context, fn func(repos appscrap.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	v := &view{st: s.st}
	if err := fn(v.repos()); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) locked(fn func(v *view)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&view{st: s.st})
}

// ── Carga de datos ───────────────────────────────────────────────────────────

// AddCompany registra una empresa.
func (s *Store) AddCompany(c entity.Company) { s.locked(func(v *view) { v.st.companies[c.ID] = &c }) }

// AddUser registra un usuario.
func (s *Store) AddUser(u entity.User) { s.locked(func(v *view) { v.st.users[u.ID] = &u }) }

// AddUoM registra una unidad de medida.
func (s *Store) AddUoM(u entity.UoM) { s.locked(func(v *view) { v.st.uoms[u.ID] = &u }) }

// AddProduct registra un producto (su UoM también queda disponible).
func (s *Store) AddProduct(p entity.Product) {
	s.locked(func(v *view) {
		v.st.products[p.ID] = &p
		if _, ok := v.st.uoms[p.UoM.ID]; !ok {
			u := p.UoM
			v.st.uoms[u.ID] = &u
		}
	})
}

// AddLocation registra una ubicación.
func (s *Store) AddLocation(l entity.Location) { s.locked(func(v *view) { v.st.locations[l.ID] = &l }) }

// AddLot registra un lote; su cantidad sale de los quants.
func (s *Store) AddLot(l entity.Lot) { s.locked(func(v *view) { v.st.lots[l.ID] = &l }) }

// AddPicking registra el nombre de un picking.
func (s *Store) AddPicking(id, name string) { s.locked(func(v *view) { v.st.pickings[id] = name }) }

// AddSequence configura una secuencia; companyID vacío = compartida.
func (s *Store) AddSequence(code, companyID, prefix string, padding, next int) {
	s.locked(func(v *view) {
		v.st.sequences[code+"|"+companyID] = &sequence{prefix: prefix, padding: padding, numberNext: next, increment: 1}
	})
}

// SetQuant fija la cantidad exacta para la combinación producto/ubicación/lote/paquete/propietario.
func (s *Store) SetQuant(q entity.Quant) {
	s.locked(func(v *view) {
		if existing := v.findQuant(q.ProductID, q.LocationID, q.LotID, q.PackageID, q.OwnerID); existing != nil {
			existing.Quantity = q.Quantity
			return
		}
		v.st.quants = append(v.st.quants, &q)
	})
}

// ── Lecturas para tests ──────────────────────────────────────────────────────

// Scrap devuelve una copia del desecho.
func (s *Store) Scrap(id string) *entity.Scrap {
	var out *entity.Scrap
	s.locked(func(v *view) { out = v.st.scraps[id].Clone() })
	return out
}

// Moves devuelve copias de los movimientos del desecho.
func (s *Store) Moves(scrapID string) []*entity.StockMove {
	var out []*entity.StockMove
	s.locked(func(v *view) { out, _ = v.ListByScrap(context.Background(), scrapID) })
	return out
}

// QuantQty cantidad exacta de una combinación (cero si no existe).
func (s *Store) QuantQty(productID, locationID string, lotID, packageID, ownerID *string) decimal.Decimal {
	qty := decimal.Zero
	s.locked(func(v *view) {
		if q := v.findQuant(productID, locationID, lotID, packageID, ownerID); q != nil {
			qty = q.Quantity
		}
	})
	return qty
}

// Replenishments devuelve las solicitudes registradas.
func (s *Store) Replenishments() []entity.ReplenishmentRequest {
	var out []entity.ReplenishmentRequest
	s.locked(func(v *view) {
		for _, r := range v.st.replenishments {
			out = append(out, *r)
		}
	})
	return out
}

func sortScraps(list []*entity.Scrap) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
