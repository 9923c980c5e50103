package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		expected int
	}{
		{
			name:     "referral with high value and tenure",
			input:    Input{DealValue: 60000, Source: "indicacao", Priority: 8, TenureDays: 400},
			expected: 94, // 40 + 20 + 24 + 10
		},
		{
			name:     "zero input gets source baseline only",
			input:    Input{},
			expected: 5,
		},
		{
			name:     "unknown source falls back to baseline",
			input:    Input{Source: "linkedin", Priority: 5},
			expected: 20, // 5 + 15
		},
		{
			name:     "google lead mid value",
			input:    Input{DealValue: 20000, Source: "google", Priority: 5, TenureDays: 90},
			expected: 65, // 30 + 15 + 15 + 5
		},
		{
			name:     "facebook lead low bands",
			input:    Input{DealValue: 5000, Source: "facebook", Priority: 1, TenureDays: 30},
			expected: 26, // 10 + 10 + 3 + 3
		},
		{
			name:     "result capped at 100",
			input:    Input{DealValue: 100000, Source: "indicacao", Priority: 10, TenureDays: 1000},
			expected: 100,
		},
		{
			name:     "negative values contribute nothing",
			input:    Input{DealValue: -10, Source: "", Priority: -2, TenureDays: -30},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeScore(tt.input))
		})
	}
}

func TestComputeScoreBounds(t *testing.T) {
	inputs := []Input{
		{},
		{DealValue: 999999, Source: "indicacao", Priority: 10, TenureDays: 9999},
		{DealValue: 49999.99, Source: "google", Priority: 10, TenureDays: 364},
		{DealValue: 4999, Source: "outro", Priority: 1, TenureDays: 29},
	}

	for _, in := range inputs {
		got := ComputeScore(in)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, MaxScore)
	}
}

// Each input dimension must never decrease the score when it grows,
// holding the other dimensions fixed.
func TestComputeScoreMonotonic(t *testing.T) {
	base := Input{DealValue: 8000, Source: "facebook", Priority: 4, TenureDays: 60}

	t.Run("deal value", func(t *testing.T) {
		prev := -1
		for _, v := range []float64{0, 4999, 5000, 9999, 10000, 20000, 50000, 80000} {
			in := base
			in.DealValue = v
			got := ComputeScore(in)
			assert.GreaterOrEqual(t, got, prev, "deal value %v", v)
			prev = got
		}
	})

	t.Run("priority", func(t *testing.T) {
		prev := -1
		for p := 1; p <= 10; p++ {
			in := base
			in.Priority = p
			got := ComputeScore(in)
			assert.GreaterOrEqual(t, got, prev, "priority %d", p)
			prev = got
		}
	})

	t.Run("tenure", func(t *testing.T) {
		prev := -1
		for _, d := range []int{0, 29, 30, 89, 90, 179, 180, 364, 365, 1000} {
			in := base
			in.TenureDays = d
			got := ComputeScore(in)
			assert.GreaterOrEqual(t, got, prev, "tenure %d", d)
			prev = got
		}
	})
}
