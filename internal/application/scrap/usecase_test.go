package scrap_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/scrap-api/internal/application/dto"
	"github.com/jhoicas/scrap-api/internal/application/inventory"
	appscrap "github.com/jhoicas/scrap-api/internal/application/scrap"
	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
	"github.com/jhoicas/scrap-api/internal/domain/scrap"
	"github.com/jhoicas/scrap-api/internal/infrastructure/memory"
	"github.com/jhoicas/scrap-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID   = "c1"
	otherCo     = "c2"
	userID      = "u1"
	unitsID     = "uom-units"
	dozenID     = "uom-dozen"
	kgID        = "uom-kg"
	productID   = "p-yogur"
	consumable  = "p-bolsas"
	otherProdID = "p-otro"
	stockID     = "loc-stock"
	stock2ID    = "loc-stock2"
	scrapLocID  = "loc-scrap"
	foreignLoc  = "loc-c2"
	lot1        = "lot-1"
	lot2        = "lot-2"
	lotOther    = "lot-otro"
)

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	uc    *appscrap.ScrapUseCase
	ctx   context.Context
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *string { return &s }

func seed(withSequence bool) *memory.Store {
	st := memory.NewStore()
	st.AddCompany(entity.Company{ID: companyID, Name: "Lácteos S.A.S."})
	st.AddCompany(entity.Company{ID: otherCo, Name: "Otra"})
	units := entity.UoM{ID: unitsID, CategoryID: "unit", Name: "Unidades", Factor: d("1"), Rounding: d("0.01")}
	st.AddUoM(units)
	st.AddUoM(entity.UoM{ID: dozenID, CategoryID: "unit", Name: "Docenas", Factor: d("0.0833333333333333"), Rounding: d("0.01")})
	st.AddUoM(entity.UoM{ID: kgID, CategoryID: "weight", Name: "kg", Factor: d("1"), Rounding: d("0.001")})
	st.AddProduct(entity.Product{ID: productID, CompanyID: companyID, Name: "Yogur", DefaultCode: "YOG", UoM: units, Tracking: entity.TrackingLot, IsStorable: true})
	st.AddProduct(entity.Product{ID: consumable, Name: "Bolsas", UoM: units, Tracking: entity.TrackingNone})
	st.AddProduct(entity.Product{ID: otherProdID, Name: "Otro", UoM: units, IsStorable: true})
	st.AddLocation(entity.Location{ID: stockID, CompanyID: companyID, Name: "BOD/Stock", Usage: entity.LocationUsageInternal})
	st.AddLocation(entity.Location{ID: stock2ID, CompanyID: companyID, Name: "BOD/Stock2", Usage: entity.LocationUsageInternal})
	st.AddLocation(entity.Location{ID: scrapLocID, Name: "Desecho", Usage: entity.LocationUsageInventory, ScrapLocation: true})
	st.AddLocation(entity.Location{ID: foreignLoc, CompanyID: otherCo, Name: "C2/Stock", Usage: entity.LocationUsageInternal})
	st.AddLot(entity.Lot{ID: lot1, CompanyID: companyID, ProductID: productID, Name: "L1"})
	st.AddLot(entity.Lot{ID: lot2, CompanyID: companyID, ProductID: productID, Name: "L2"})
	st.AddLot(entity.Lot{ID: lotOther, ProductID: otherProdID, Name: "LX"})
	st.SetQuant(entity.Quant{ProductID: productID, LocationID: stockID, LotID: ptr(lot1), Quantity: d("10")})
	st.SetQuant(entity.Quant{ProductID: productID, LocationID: stockID, LotID: ptr(lot2), Quantity: d("5")})
	st.AddPicking("pick-1", "BOD/IN/00007")
	if withSequence {
		st.AddSequence("stock.scrap", companyID, "SP/", 5, 1)
	}
	return st
}

func newFixture(t *testing.T, opts ...func(*appscrap.Config)) *fixture {
	t.Helper()
	return newFixtureWith(t, seed(true), nil, opts...)
}

func newFixtureWith(t *testing.T, st *memory.Store, runner appscrap.TxRunner, opts ...func(*appscrap.Config)) *fixture {
	t.Helper()
	cfg := appscrap.DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if runner == nil {
		runner = st
	}
	log := logger.Nop()
	repl := inventory.NewReplenishmentUseCase(memory.NewReplenishmentRepository(st), log)
	uc := appscrap.NewScrapUseCase(runner, repl, cfg, log).WithClock(func() time.Time { return fixedNow })
	return &fixture{store: st, uc: uc, ctx: context.Background()}
}

func (f *fixture) create(t *testing.T, in dto.ScrapRequest) *dto.ScrapResponse {
	t.Helper()
	out, err := f.uc.Create(f.ctx, companyID, userID, in)
	require.NoError(t, err)
	return out
}

func req(qty string, lots ...string) dto.ScrapRequest {
	return dto.ScrapRequest{
		ProductID:       productID,
		ScrapQty:        d(qty),
		LotIDs:          lots,
		LocationID:      stockID,
		ScrapLocationID: scrapLocID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ConLotes_CantidadEsLaSumaDeLotes(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, req("1", lot1, lot2))

	assert.True(t, out.ScrapQty.Equal(d("15")))
	assert.True(t, out.LotScrapQty.Equal(d("15")))
	assert.Equal(t, entity.ScrapDefaultName, out.Name)
	assert.Equal(t, entity.ScrapStateDraft, out.State)
	assert.Equal(t, []string{lot1, lot2}, out.LotIDs)
}

func TestCreate_SinLotes_ConservaCantidadIngresada(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, req("7"))

	assert.True(t, out.ScrapQty.Equal(d("7")))
	assert.True(t, out.LotScrapQty.IsZero())
}

func TestCreate_PoliticaDefault_UsaCantidadPorDefectoSoloSiEsCero(t *testing.T) {
	f := newFixture(t, func(c *appscrap.Config) {
		c.EntryPolicy = scrap.QtyPolicy{EmptyLots: scrap.EmptyLotsDefault, DefaultQty: d("1")}
	})

	assert.True(t, f.create(t, req("0")).ScrapQty.Equal(d("1")))
	assert.True(t, f.create(t, req("4")).ScrapQty.Equal(d("4")))
}

func TestCreate_ReferenciasInvalidas(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		in   dto.ScrapRequest
		want error
	}{
		{"lote de otro producto", req("1", lotOther), domain.ErrInvalidInput},
		{"lote inexistente", req("1", "no-existe"), domain.ErrNotFound},
		{"ubicación de otra empresa", func() dto.ScrapRequest { r := req("1"); r.LocationID = foreignLoc; return r }(), domain.ErrCompanyMismatch},
		{"destino que no es de desecho", func() dto.ScrapRequest { r := req("1"); r.ScrapLocationID = stock2ID; return r }(), domain.ErrInvalidInput},
		{"UdM de otra categoría", func() dto.ScrapRequest { r := req("1"); r.ProductUoMID = kgID; return r }(), domain.ErrUoMMismatch},
		{"UdM distinta con lotes", func() dto.ScrapRequest { r := req("1", lot1); r.ProductUoMID = dozenID; return r }(), domain.ErrUoMMismatch},
		{"cantidad negativa", req("-2"), domain.ErrNonPositiveQty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(f.ctx, companyID, userID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdate_RecalculaConNuevaSeleccion(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, req("1", lot1))

	out, err := f.uc.Update(f.ctx, companyID, created.ID, req("1", lot2))

	require.NoError(t, err)
	assert.True(t, out.ScrapQty.Equal(d("5")))
	assert.Equal(t, []string{lot2}, f.store.Scrap(created.ID).LotIDs)
}

func TestGet_DesechoDeOtraEmpresa_Prohibido(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, req("1"))

	_, err := f.uc.Get(f.ctx, otherCo, created.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOnchangeLots_SumaSinDuplicadosYSinEscribir(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.OnchangeLots(f.ctx, companyID, dto.OnchangeLotsRequest{
		ProductID: productID, LotIDs: []string{lot1, lot1, lot2}, ScrapQty: d("3"),
	})
	require.NoError(t, err)
	assert.True(t, out.ScrapQty.Equal(d("15")))

	out, err = f.uc.OnchangeLots(f.ctx, companyID, dto.OnchangeLotsRequest{ProductID: productID, ScrapQty: d("3")})
	require.NoError(t, err)
	assert.True(t, out.ScrapQty.Equal(d("3")), "sin lotes la cantidad queda como se ingresó")

	list, err := f.uc.List(f.ctx, companyID, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_Suficiente_UnMovimientoPorLote(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, req("1", lot1, lot2))

	res, err := f.uc.Validate(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	require.Equal(t, dto.ValidateStatusDone, res.Status)
	assert.Nil(t, res.Warning)
	assert.Equal(t, "SP/00001", res.Scrap.Name)
	require.NotNil(t, res.Scrap.DateDone)
	assert.True(t, res.Scrap.DateDone.Equal(fixedNow))

	moves := f.store.Moves(created.ID)
	require.Len(t, moves, 2)
	byLot := map[string]*entity.StockMove{}
	for _, m := range moves {
		require.Len(t, m.Lines, 1)
		require.NotNil(t, m.Lines[0].LotID)
		byLot[*m.Lines[0].LotID] = m
		assert.Equal(t, entity.MoveStateDone, m.State)
		assert.True(t, m.Scrapped)
		assert.True(t, m.Picked)
		assert.Equal(t, "SP/00001", m.Reference)
		assert.Equal(t, "SP/00001", m.Origin, "sin origen ni picking el origen es la referencia")
		assert.Equal(t, scrapLocID, m.LocationDestID)
	}
	assert.True(t, byLot[lot1].ProductUoMQty.Equal(d("10")))
	assert.True(t, byLot[lot2].ProductUoMQty.Equal(d("5")))

	assert.True(t, f.store.QuantQty(productID, stockID, ptr(lot1), nil, nil).IsZero())
	assert.True(t, f.store.QuantQty(productID, scrapLocID, ptr(lot2), nil, nil).Equal(d("5")))
	assert.Equal(t, entity.ScrapStateDone, f.store.Scrap(created.ID).State)
}

func TestValidate_SinLotes_UnMovimientoAgregadoConOrigenDelPicking(t *testing.T) {
	f := newFixture(t)
	f.store.SetQuant(entity.Quant{ProductID: productID, LocationID: stockID, Quantity: d("20")})
	in := req("6")
	in.PickingID = ptr("pick-1")
	created := f.create(t, in)

	res, err := f.uc.Validate(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	require.Equal(t, dto.ValidateStatusDone, res.Status)
	moves := f.store.Moves(created.ID)
	require.Len(t, moves, 1)
	assert.True(t, moves[0].ProductUoMQty.Equal(d("6")))
	assert.Nil(t, moves[0].Lines[0].LotID)
	assert.Equal(t, "BOD/IN/00007", moves[0].Origin)
	assert.True(t, f.store.QuantQty(productID, stockID, nil, nil, nil).Equal(d("14")))
}

func TestValidate_ConvierteUdMDelDesechoAUdMDelProducto(t *testing.T) {
	f := newFixture(t)
	f.store.SetQuant(entity.Quant{ProductID: productID, LocationID: stockID, Quantity: d("12")})
	in := req("1")
	in.ProductUoMID = dozenID
	created := f.create(t, in)

	res, err := f.uc.Validate(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	assert.Equal(t, dto.ValidateStatusDone, res.Status, "1 docena = 12 unidades disponibles")
	assert.True(t, f.store.QuantQty(productID, stockID, nil, nil, nil).IsZero())
}

func TestValidate_CantidadCero_ErrNonPositiveQtySinEscrituras(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, req("0"))

	_, err := f.uc.Validate(f.ctx, companyID, created.ID)

	assert.ErrorIs(t, err, domain.ErrNonPositiveQty)
	assert.Empty(t, f.store.Moves(created.ID))
	assert.Equal(t, entity.ScrapStateDraft, f.store.Scrap(created.ID).State)

	// La secuencia no se consumió.
	f.store.SetQuant(entity.Quant{ProductID: productID, LocationID: stockID, Quantity: d("1")})
	res, err := f.uc.Validate(f.ctx, companyID, f.create(t, req("1")).ID)
	require.NoError(t, err)
	assert.Equal(t, "SP/00001", res.Scrap.Name)
}

func TestValidate_CantidadBajoElRedondeo_EsCero(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, req("0.001"))

	_, err := f.uc.Validate(f.ctx, companyID, created.ID)

	assert.ErrorIs(t, err, domain.ErrNonPositiveQty)
}

func TestValidate_Insuficiente_DevuelveAvisoYGuardaCantidadRecalculada(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, req("1", lot1))
	// El lote ahora tiene 4 más en otra ubicación interna: su cantidad total es 14,
	// pero en la ubicación del desecho solo hay 10.
	f.store.SetQuant(entity.Quant{ProductID: productID, LocationID: stock2ID, LotID: ptr(lot1), Quantity: d("4")})

	res, err := f.uc.Validate(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	require.Equal(t, dto.ValidateStatusInsufficientQuantity, res.Status)
	require.NotNil(t, res.Warning)
	assert.Equal(t, "[YOG] Yogur: cantidad insuficiente para desechar", res.Warning.Title)
	assert.Equal(t, created.ID, res.Warning.ScrapID)
	assert.Equal(t, productID, res.Warning.ProductID)
	assert.Equal(t, stockID, res.Warning.LocationID)
	assert.Equal(t, "Unidades", res.Warning.ProductUoMName)
	assert.True(t, res.Warning.Quantity.Equal(d("14")))

	saved := f.store.Scrap(created.ID)
	assert.Equal(t, entity.ScrapStateDraft, saved.State)
	assert.True(t, saved.ScrapQty.Equal(d("14")))
	assert.Empty(t, f.store.Moves(created.ID))
}

func TestValidate_PaqueteYPropietarioSonAlcanceEstricto(t *testing.T) {
	f := newFixture(t)
	f.store.SetQuant(entity.Quant{ProductID: productID, LocationID: stockID, PackageID: ptr("pack-1"), Quantity: d("50")})
	f.store.SetQuant(entity.Quant{ProductID: productID, LocationID: stockID, Quantity: d("3")})
	// Sin lote ni paquete hay 3; los 50 del paquete no cuentan.
	created := f.create(t, req("5"))

	ok, err := f.uc.CheckAvailableQty(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate_SinLotesSeleccionados_SoloCuentaStockSinLote(t *testing.T) {
	f := newFixture(t)
	// Hay 15 en lotes (L1 y L2) y nada sin lote: el movimiento sin lote no tiene de dónde sacar.
	created := f.create(t, req("12"))

	ok, err := f.uc.CheckAvailableQty(f.ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := f.uc.Validate(f.ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ValidateStatusInsufficientQuantity, res.Status)
	assert.Empty(t, f.store.Moves(created.ID))
	assert.True(t, f.store.QuantQty(productID, stockID, nil, nil, nil).IsZero())
	assert.True(t, f.store.QuantQty(productID, stockID, ptr(lot1), nil, nil).Equal(d("10")))
}

func TestCheckAvailableQty_ProductoNoAlmacenable_SiempreSuficiente(t *testing.T) {
	f := newFixture(t)
	in := req("100")
	in.ProductID = consumable
	created := f.create(t, in)

	ok, err := f.uc.CheckAvailableQty(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	assert.True(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ejecución
// ──────────────────────────────────────────────────────────────────────────────

func TestDoScrap_ForzadoDejaExistenciasNegativas(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, req("3"))

	out, err := f.uc.DoScrap(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.ScrapStateDone, out.State)
	assert.True(t, f.store.QuantQty(productID, stockID, nil, nil, nil).Equal(d("-3")))
	assert.True(t, f.store.QuantQty(productID, scrapLocID, nil, nil, nil).Equal(d("3")))
}

func TestDoScrap_DosVeces_Conflicto(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, req("1", lot2))
	_, err := f.uc.DoScrap(f.ctx, companyID, created.ID)
	require.NoError(t, err)

	_, err = f.uc.DoScrap(f.ctx, companyID, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Validate(f.ctx, companyID, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Update(f.ctx, companyID, created.ID, req("1"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Len(t, f.store.Moves(created.ID), 1)
}

func TestDoScrap_SinSecuencia_UsaNombrePorDefecto(t *testing.T) {
	f := newFixtureWith(t, seed(false), nil)
	created := f.create(t, req("1", lot1))

	out, err := f.uc.DoScrap(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.ScrapDefaultName, out.Name)
}

func TestDoScrap_ConReposicion_CreaSolicitudPendiente(t *testing.T) {
	f := newFixture(t)
	in := req("1", lot1)
	in.ShouldReplenish = true
	created := f.create(t, in)

	_, err := f.uc.DoScrap(f.ctx, companyID, created.ID)

	require.NoError(t, err)
	reqs := f.store.Replenishments()
	require.Len(t, reqs, 1)
	assert.Equal(t, "SP/00001", reqs[0].Origin)
	assert.Equal(t, stockID, reqs[0].LocationID)
	assert.Equal(t, entity.ReplenishmentStatePending, reqs[0].State)
	assert.True(t, reqs[0].Quantity.Equal(d("10")))
}

// ── Fallos: la transacción se revierte completa ──────────────────────────────

type failingMoves struct {
	repository.StockMoveRepository
	calls  *int
	failAt int
}

var errBoom = errors.New("boom")

func (m failingMoves) Create(ctx context.Context, move *entity.StockMove) error {
	*m.calls++
	if *m.calls == m.failAt {
		return errBoom
	}
	return m.StockMoveRepository.Create(ctx, move)
}

type wrappingRunner struct {
	inner appscrap.TxRunner
	wrap  func(appscrap.Repos) appscrap.Repos
}

func (w wrappingRunner) Run(ctx context.Context, fn func(appscrap.Repos) error) error {
	return w.inner.Run(ctx, func(r appscrap.Repos) error { return fn(w.wrap(r)) })
}

func TestDoScrap_FallaSegundoMovimiento_RevierteTodo(t *testing.T) {
	st := seed(true)
	calls := 0
	runner := wrappingRunner{inner: st, wrap: func(r appscrap.Repos) appscrap.Repos {
		r.Moves = failingMoves{StockMoveRepository: r.Moves, calls: &calls, failAt: 2}
		return r
	}}
	f := newFixtureWith(t, st, runner)
	created := f.create(t, req("1", lot1, lot2))

	_, err := f.uc.Validate(f.ctx, companyID, created.ID)

	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, st.Moves(created.ID))
	assert.Equal(t, entity.ScrapStateDraft, st.Scrap(created.ID).State)
	assert.Equal(t, entity.ScrapDefaultName, st.Scrap(created.ID).Name)
	assert.True(t, st.QuantQty(productID, stockID, ptr(lot1), nil, nil).Equal(d("10")))

	// Sin el fallo, la secuencia sigue en 1: nada quedó consumido.
	ok := newFixtureWith(t, st, nil)
	res, err := ok.uc.Validate(ok.ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "SP/00001", res.Scrap.Name)
}

func TestCreate_SinEmpresa_NoAutorizado(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(f.ctx, "", userID, req("1"))

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
