package scrap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/scrap"
)

func strp(s string) *string { return &s }

func draftScrap() *entity.Scrap {
	return &entity.Scrap{
		ID:              "s1",
		CompanyID:       "c1",
		Name:            "SP/00001",
		ProductID:       "p1",
		ProductUoMID:    "unit",
		ScrapQty:        d("5"),
		LotID:           strp("single"),
		PackageID:       strp("pack"),
		OwnerID:         strp("owner"),
		LocationID:      "stock",
		ScrapLocationID: "scrap",
		State:           entity.ScrapStateDraft,
	}
}

func TestPrepareMoveValues_Agregado(t *testing.T) {
	s := draftScrap()
	m := scrap.PrepareMoveValues(s)

	assert.Equal(t, "SP/00001", m.Name)
	assert.Equal(t, "SP/00001", m.Origin, "sin origen ni picking se usa el nombre")
	assert.True(t, m.ProductUoMQty.Equal(d("5")))
	assert.Equal(t, "stock", m.LocationID)
	assert.Equal(t, "scrap", m.LocationDestID)
	assert.True(t, m.Scrapped)
	assert.True(t, m.Picked)
	assert.Equal(t, entity.MoveStateDraft, m.State)
	require.Len(t, m.Lines, 1)
	assert.Equal(t, "single", *m.Lines[0].LotID)
	assert.Equal(t, "pack", *m.Lines[0].PackageID)
	assert.Equal(t, "owner", *m.Lines[0].OwnerID)
}

func TestPrepareMoveValuesPerLot_CantidadDelLote(t *testing.T) {
	s := draftScrap()
	s.Origin = "OUT/0042"
	m := scrap.PrepareMoveValuesPerLot(s, lot("a", "2.5"))

	assert.Equal(t, "OUT/0042", m.Origin)
	assert.True(t, m.ProductUoMQty.Equal(d("2.5")))
	require.Len(t, m.Lines, 1)
	assert.True(t, m.Lines[0].Quantity.Equal(d("2.5")))
	assert.Equal(t, "a", *m.Lines[0].LotID)
}

func TestPrepareMoveValues_OrigenDelPicking(t *testing.T) {
	s := draftScrap()
	s.PickingID = strp("pick1")
	s.PickingName = "WH/OUT/0007"
	m := scrap.PrepareMoveValues(s)

	assert.Equal(t, "WH/OUT/0007", m.Origin)
	assert.Equal(t, "pick1", *m.PickingID)
}

func TestPrepareMoveValues_NoModificaElDesecho(t *testing.T) {
	s := draftScrap()
	before := s.Clone()

	m := scrap.PrepareMoveValuesPerLot(s, lot("a", "1"))
	*m.Lines[0].PackageID = "otro"
	*m.Lines[0].OwnerID = "otro"

	assert.Equal(t, before, s)
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckCompany / ShouldCheckAvailableQty
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckCompany(t *testing.T) {
	s := draftScrap()
	product := &entity.Product{ID: "p1"}
	stock := &entity.Location{ID: "stock", CompanyID: "c1"}

	require.NoError(t, scrap.CheckCompany(s, product, []*entity.Location{stock}, []*entity.Lot{lot("a", "1")}))

	foreign := &entity.Lot{ID: "x", Name: "X", CompanyID: "c2"}
	err := scrap.CheckCompany(s, product, []*entity.Location{stock}, []*entity.Lot{foreign})
	assert.ErrorIs(t, err, domain.ErrCompanyMismatch)

	err = scrap.CheckCompany(s, product, []*entity.Location{{ID: "o", CompanyID: "c9"}}, nil)
	assert.ErrorIs(t, err, domain.ErrCompanyMismatch)
}

func TestShouldCheckAvailableQty(t *testing.T) {
	storable := &entity.Product{IsStorable: true}
	consumable := &entity.Product{IsStorable: false}
	internal := &entity.Location{Usage: entity.LocationUsageInternal}
	virtual := &entity.Location{Usage: entity.LocationUsageInventory}

	assert.True(t, scrap.ShouldCheckAvailableQty(storable, internal))
	assert.False(t, scrap.ShouldCheckAvailableQty(consumable, internal))
	assert.False(t, scrap.ShouldCheckAvailableQty(storable, virtual))
}
