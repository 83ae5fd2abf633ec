package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/caja-pos/internal/domain/inventory"
)

func TestWeightedCostCents(t *testing.T) {
	// (10*1000 + 10*2000) / 20 = 1500
	got := inventory.WeightedCostCents(decimal.NewFromInt(10), 1000, decimal.NewFromInt(10), 2000)
	assert.Equal(t, int64(1500), got)
}

func TestWeightedCostCents_SinExistencia(t *testing.T) {
	got := inventory.WeightedCostCents(decimal.Zero, 1000, decimal.NewFromInt(3), 700)
	assert.Equal(t, int64(700), got)
}

func TestWeightedCostCents_Redondeo(t *testing.T) {
	// (1*100 + 2*101) / 3 = 100.67 -> 101
	got := inventory.WeightedCostCents(decimal.NewFromInt(1), 100, decimal.NewFromInt(2), 101)
	assert.Equal(t, int64(101), got)
}
