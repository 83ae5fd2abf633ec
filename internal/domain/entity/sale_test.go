package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

func TestLineTotal_RedondeaAlCentavo(t *testing.T) {
	assert.EqualValues(t, 1000, entity.LineTotal(1999, decimal.RequireFromString("0.5")))
	assert.EqualValues(t, 3000, entity.LineTotal(1000, decimal.NewFromInt(3)))
}

func TestChargedCents_RepartoPorMayorResto(t *testing.T) {
	got := entity.ChargedCents([]int64{1000, 2000, 3000}, 100)
	assert.Equal(t, []int64{983, 1967, 2950}, got)
}

func TestChargedCents_SumaIgualAlTotalCobrado(t *testing.T) {
	lines := []int64{333, 333, 334, 1}
	got := entity.ChargedCents(lines, 7)
	var sum int64
	for i, c := range got {
		assert.LessOrEqual(t, c, lines[i])
		assert.GreaterOrEqual(t, c, int64(0))
		sum += c
	}
	assert.EqualValues(t, 1001-7, sum)
}

func TestChargedCents_CasosLimite(t *testing.T) {
	assert.Equal(t, []int64{500, 700}, entity.ChargedCents([]int64{500, 700}, 0))
	assert.Equal(t, []int64{0, 0}, entity.ChargedCents([]int64{500, 700}, 5000), "el descuento se acota al subtotal")
	assert.Equal(t, []int64{0}, entity.ChargedCents([]int64{0}, 100))
	assert.Empty(t, entity.ChargedCents(nil, 100))
}
