package scrap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/scrap-api/internal/domain"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/domain/scrap"
)

func TestRoundToFactor(t *testing.T) {
	assert.True(t, scrap.RoundToFactor(d("1.234"), d("0.01"), scrap.RoundHalfUp).Equal(d("1.23")))
	assert.True(t, scrap.RoundToFactor(d("1.235"), d("0.01"), scrap.RoundHalfUp).Equal(d("1.24")))
	assert.True(t, scrap.RoundToFactor(d("1.231"), d("0.01"), scrap.RoundUp).Equal(d("1.24")))
	assert.True(t, scrap.RoundToFactor(d("2.2"), d("0.5"), scrap.RoundUp).Equal(d("2.5")))
	assert.True(t, scrap.RoundToFactor(d("3.3"), d("0"), scrap.RoundUp).Equal(d("3.3")), "factor cero no redondea")
}

func TestRoundToFactor_RuidoDeDivision(t *testing.T) {
	// 60 unidades representadas con ruido de una división inexacta
	noisy := d("60.00000000000000001")
	assert.True(t, scrap.RoundToFactor(noisy, d("1"), scrap.RoundUp).Equal(d("60")))
}

func TestIsZero(t *testing.T) {
	assert.True(t, scrap.IsZero(d("0"), d("0.01")))
	assert.True(t, scrap.IsZero(d("0.004"), d("0.01")), "por debajo de la precisión es cero")
	assert.False(t, scrap.IsZero(d("0.005"), d("0.01")))
	assert.False(t, scrap.IsZero(d("-1"), d("0.01")))
}

func TestCompareQty(t *testing.T) {
	assert.Equal(t, 0, scrap.CompareQty(d("10.001"), d("10"), 2))
	assert.Equal(t, 1, scrap.CompareQty(d("10.01"), d("10"), 2))
	assert.Equal(t, -1, scrap.CompareQty(d("9.99"), d("10"), 2))
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeQuantity
// ──────────────────────────────────────────────────────────────────────────────

var (
	unit  = &entity.UoM{ID: "unit", CategoryID: "qty", Name: "Unidades", Factor: d("1"), Rounding: d("1")}
	dozen = &entity.UoM{ID: "dozen", CategoryID: "qty", Name: "Docenas", Factor: d("0.0833333333333333"), Rounding: d("0.01")}
	kg    = &entity.UoM{ID: "kg", CategoryID: "weight", Name: "kg", Factor: d("1"), Rounding: d("0.001")}
)

func TestComputeQuantity_DocenasAUnidades(t *testing.T) {
	got, err := scrap.ComputeQuantity(d("5"), dozen, unit, true)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("60")), "5 docenas = %s unidades", got)
}

func TestComputeQuantity_MismaUnidad(t *testing.T) {
	got, err := scrap.ComputeQuantity(d("3"), unit, unit, true)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("3")))
}

func TestComputeQuantity_CategoriaDistinta(t *testing.T) {
	_, err := scrap.ComputeQuantity(d("3"), unit, kg, true)
	assert.ErrorIs(t, err, domain.ErrUoMMismatch)
}
