package commission

import (
	"testing"

	"github.com/eksporyuk/payment-core-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		rate   float64
		want   int64
	}{
		{"thirty percent of a million", 1_000_000, 30, 300_000},
		{"zero rate yields zero", 1_000_000, 0, 0},
		{"zero amount yields zero", 0, 30, 0},
		{"negative amount yields zero", -500, 30, 0},
		{"negative rate yields zero", 1_000_000, -10, 0},
		{"rounds half up", 333, 10, 33},
		{"rounds .5 up", 150_000, 10.5, 15_750},
		{"full rate equals amount", 250_000, 100, 250_000},
		{"rate above hundred capped at amount", 100_000, 150, 100_000},
		{"fractional rate", 1_000_000, 12.5, 125_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.amount, tt.rate))
		})
	}
}

func TestCalculateNeverNegativeNorAboveAmount(t *testing.T) {
	amounts := []int64{0, 1, 99, 10_000, 1_000_000, 987_654_321}
	rates := []float64{0, 0.1, 1, 33.3, 50, 99.9, 100}

	for _, amount := range amounts {
		for _, rate := range rates {
			got := Calculate(amount, rate)
			assert.GreaterOrEqual(t, got, int64(0))
			assert.LessOrEqual(t, got, amount)
		}
	}
}

func TestCalculateTypedFlat(t *testing.T) {
	assert.Equal(t, int64(50_000), CalculateTyped(1_000_000, 50_000, domain.CommissionFlat))
	// flat commission capped at the transaction amount
	assert.Equal(t, int64(40_000), CalculateTyped(40_000, 50_000, domain.CommissionFlat))
	assert.Equal(t, int64(0), CalculateTyped(1_000_000, 0, domain.CommissionFlat))
	// default percentage path
	assert.Equal(t, int64(300_000), CalculateTyped(1_000_000, 30, domain.CommissionPercentage))
}

func TestSplit(t *testing.T) {
	b := Split(1_000_000, 30, domain.CommissionPercentage)
	assert.Equal(t, int64(1_000_000), b.Total)
	assert.Equal(t, int64(300_000), b.AffiliateShare)
	assert.Equal(t, int64(700_000), b.Remainder)
}
