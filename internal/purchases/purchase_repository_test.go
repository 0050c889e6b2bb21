package purchases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestDeriveTotalCost(t *testing.T) {
	tests := []struct {
		name      string
		totalCost *float64
		unitCost  *float64
		quantity  int
		expected  *float64
	}{
		{
			name:      "explicit total wins over derivation",
			totalCost: floatPtr(999.99),
			unitCost:  floatPtr(10),
			quantity:  5,
			expected:  floatPtr(999.99),
		},
		{
			name:     "derived from unit cost and quantity",
			unitCost: floatPtr(12.50),
			quantity: 4,
			expected: floatPtr(50),
		},
		{
			name:     "no costs at all",
			quantity: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTotalCost(tt.totalCost, tt.unitCost, tt.quantity)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			assert.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 0.001)
		})
	}
}
