package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appscrap "github.com/jhoicas/scrap-api/internal/application/scrap"
	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
)

// view implementa todos los repositorios sobre un estado; el bloqueo lo hace el Store.
type view struct {
	st *state
}

func (v *view) repos() appscrap.Repos {
	return appscrap.Repos{
		Scraps:         scrapRepo{v},
		Lots:           lotRepo{v},
		Products:       productRepo{v},
		UoMs:           uomRepo{v},
		Locations:      locationRepo{v},
		Quants:         quantRepo{v},
		Moves:          v,
		Sequences:      sequenceRepo{v},
		Replenishments: replenishmentRepo{v},
		Companies:      companyRepo{v},
	}
}

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (v *view) findQuant(productID, locationID string, lotID, packageID, ownerID *string) *entity.Quant {
	for _, q := range v.st.quants {
		if q.ProductID == productID && q.LocationID == locationID &&
			eqPtr(q.LotID, lotID) && eqPtr(q.PackageID, packageID) && eqPtr(q.OwnerID, ownerID) {
			return q
		}
	}
	return nil
}

// lotQty cantidad del lote en ubicaciones internas.
func (v *view) lotQty(lotID string) decimal.Decimal {
	total := decimal.Zero
	for _, q := range v.st.quants {
		if q.LotID == nil || *q.LotID != lotID {
			continue
		}
		if loc, ok := v.st.locations[q.LocationID]; ok && loc.Usage == entity.LocationUsageInternal {
			total = total.Add(q.Quantity)
		}
	}
	return total
}

func (v *view) lotCopy(l *entity.Lot) *entity.Lot {
	cp := *l
	cp.ProductQty = v.lotQty(l.ID)
	return &cp
}

// ── Scraps ───────────────────────────────────────────────────────────────────

type scrapRepo struct{ v *view }

func (r scrapRepo) Create(_ context.Context, s *entity.Scrap) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if _, ok := r.v.st.scraps[s.ID]; ok {
		return fmt.Errorf("%w: desecho %s", domain.ErrConflict, s.ID)
	}
	r.v.st.scraps[s.ID] = r.withPicking(s.Clone())
	return nil
}

func (r scrapRepo) GetByID(_ context.Context, id string) (*entity.Scrap, error) {
	s, ok := r.v.st.scraps[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (r scrapRepo) GetForUpdate(ctx context.Context, id string) (*entity.Scrap, error) {
	return r.GetByID(ctx, id)
}

func (r scrapRepo) Update(_ context.Context, s *entity.Scrap) error {
	if _, ok := r.v.st.scraps[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.v.st.scraps[s.ID] = r.withPicking(s.Clone())
	return nil
}

func (r scrapRepo) ListByCompany(_ context.Context, companyID, state string, limit, offset int) ([]*entity.Scrap, error) {
	var list []*entity.Scrap
	for _, s := range r.v.st.scraps {
		if s.CompanyID != companyID || (state != "" && s.State != state) {
			continue
		}
		list = append(list, s.Clone())
	}
	sortScraps(list)
	return page(list, limit, offset), nil
}

func (r scrapRepo) withPicking(s *entity.Scrap) *entity.Scrap {
	s.PickingName = ""
	if s.PickingID != nil {
		s.PickingName = r.v.st.pickings[*s.PickingID]
	}
	return s
}

// ── Lots / products / UoM / locations / companies ────────────────────────────

type lotRepo struct{ v *view }

func (r lotRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Lot, error) {
	seen := map[string]bool{}
	out := make([]*entity.Lot, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		l, ok := r.v.st.lots[id]
		if !ok {
			return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
		out = append(out, r.v.lotCopy(l))
	}
	return out, nil
}

func (r lotRepo) ListAvailable(_ context.Context, companyID, productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.v.st.lots {
		if l.ProductID != productID || (l.CompanyID != "" && l.CompanyID != companyID) {
			continue
		}
		cp := r.v.lotCopy(l)
		if cp.ProductQty.IsPositive() {
			out = append(out, cp)
		}
	}
	sortLots(out)
	return out, nil
}

type productRepo struct{ v *view }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.v.st.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	if u, ok := r.v.st.uoms[p.UoM.ID]; ok {
		cp.UoM = *u
	}
	return &cp, nil
}

type uomRepo struct{ v *view }

func (r uomRepo) GetByID(_ context.Context, id string) (*entity.UoM, error) {
	u, ok := r.v.st.uoms[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type locationRepo struct{ v *view }

func (r locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.v.st.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

type companyRepo struct{ v *view }

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := r.v.st.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// ── Quants ───────────────────────────────────────────────────────────────────

type quantRepo struct{ v *view }

func (r quantRepo) AvailableQty(_ context.Context, f repository.QuantFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, q := range r.v.st.quants {
		if q.ProductID != f.ProductID || q.LocationID != f.LocationID {
			continue
		}
		if !eqPtr(q.LotID, f.LotID) || !eqPtr(q.PackageID, f.PackageID) || !eqPtr(q.OwnerID, f.OwnerID) {
			continue
		}
		total = total.Add(q.Quantity)
	}
	return total, nil
}

func (r quantRepo) GetForUpdate(_ context.Context, k repository.QuantFilter) (*entity.Quant, error) {
	if q := r.v.findQuant(k.ProductID, k.LocationID, k.LotID, k.PackageID, k.OwnerID); q != nil {
		cp := *q
		return &cp, nil
	}
	return &entity.Quant{
		ProductID: k.ProductID, LocationID: k.LocationID,
		LotID: k.LotID, PackageID: k.PackageID, OwnerID: k.OwnerID,
		Quantity: decimal.Zero,
	}, nil
}

func (r quantRepo) Upsert(_ context.Context, q *entity.Quant) error {
	if existing := r.v.findQuant(q.ProductID, q.LocationID, q.LotID, q.PackageID, q.OwnerID); existing != nil {
		existing.Quantity = q.Quantity
		existing.UpdatedAt = q.UpdatedAt
		return nil
	}
	cp := *q
	r.v.st.quants = append(r.v.st.quants, &cp)
	return nil
}

// ── Moves (implementados directamente por view) ──────────────────────────────

func (v *view) Create(_ context.Context, m *entity.StockMove) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	for i := range m.Lines {
		if m.Lines[i].ID == "" {
			m.Lines[i].ID = uuid.New().String()
		}
		m.Lines[i].MoveID = m.ID
	}
	cp := *m
	cp.Lines = append([]entity.MoveLine(nil), m.Lines...)
	v.st.moves = append(v.st.moves, &cp)
	return nil
}

func (v *view) MarkDone(_ context.Context, moveID string, doneAt time.Time) error {
	for _, m := range v.st.moves {
		if m.ID == moveID {
			m.State = entity.MoveStateDone
			t := doneAt
			m.DateDone = &t
			return nil
		}
	}
	return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, moveID)
}

func (v *view) ListByScrap(_ context.Context, scrapID string) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, m := range v.st.moves {
		if m.ScrapID == scrapID {
			cp := *m
			cp.Lines = append([]entity.MoveLine(nil), m.Lines...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Sequences ────────────────────────────────────────────────────────────────

type sequenceRepo struct{ v *view }

func (r sequenceRepo) NextByCode(_ context.Context, code, companyID string) (string, error) {
	seq, ok := r.v.st.sequences[code+"|"+companyID]
	if !ok {
		seq, ok = r.v.st.sequences[code+"|"]
	}
	if !ok {
		return "", nil
	}
	n := seq.numberNext
	seq.numberNext += seq.increment
	return fmt.Sprintf("%s%0*d", seq.prefix, seq.padding, n), nil
}

// ── Replenishments ───────────────────────────────────────────────────────────

type replenishmentRepo struct{ v *view }

func (r replenishmentRepo) Create(_ context.Context, req *entity.ReplenishmentRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	cp := *req
	r.v.st.replenishments = append(r.v.st.replenishments, &cp)
	return nil
}

func (r replenishmentRepo) ListByCompany(_ context.Context, companyID, state string, limit, offset int) ([]*entity.ReplenishmentRequest, error) {
	var out []*entity.ReplenishmentRequest
	for i := len(r.v.st.replenishments) - 1; i >= 0; i-- {
		req := r.v.st.replenishments[i]
		if req.CompanyID != companyID || (state != "" && req.State != state) {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	return page(out, limit, offset), nil
}
