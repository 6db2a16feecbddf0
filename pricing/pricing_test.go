package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		in := Input{
			NewCost: 1000,
			Pie1:    2,
			Pie2:    0,
			ICUI:    50,
			TaxRate: 19,
			Margin:  30,
			PDV:     100,
		}

		out := Calculate(in)

		assert.InDelta(t, 20.0, out.FeeValue, 1e-9)
		assert.InDelta(t, 980.0, out.CostAfterFee, 1e-9)
		assert.InDelta(t, 1030.0, out.CostPlusICUI, 1e-9)
		assert.InDelta(t, 195.7, out.TaxValue, 1e-9)
		assert.InDelta(t, 1225.7, out.CostPlusTax, 1e-9)
		assert.InDelta(t, 1593.41, out.FinalPrice, 1e-9)
		assert.InDelta(t, 1693.41, out.POSPrice, 1e-9)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		in := Input{
			NewCost: 123.45,
			Pie1:    1.5,
			Pie2:    0.75,
			ICUI:    12.3,
			TaxRate: 19,
			Margin:  33.33,
			PDV:     7.89,
		}

		first := Calculate(in)
		second := Calculate(in)

		assert.Equal(t, first, second)
	})

	t.Run("both invoice-foot percentages combine", func(t *testing.T) {
		out := Calculate(Input{NewCost: 200, Pie1: 3, Pie2: 2})

		assert.InDelta(t, 10.0, out.FeeValue, 1e-9)
		assert.InDelta(t, 190.0, out.CostAfterFee, 1e-9)
	})

	t.Run("zero margin applies no markup", func(t *testing.T) {
		out := Calculate(Input{NewCost: 100, TaxRate: 19})

		assert.InDelta(t, out.CostPlusTax, out.FinalPrice, 1e-9)
	})

	t.Run("zero input yields zero output", func(t *testing.T) {
		out := Calculate(Input{})

		assert.Zero(t, out.FinalPrice)
		assert.Zero(t, out.POSPrice)
	})
}

func TestParseAmount(t *testing.T) {
	t.Run("parses plain decimals", func(t *testing.T) {
		assert.InDelta(t, 1234.56, ParseAmount("1234.56"), 1e-9)
		assert.InDelta(t, -3.5, ParseAmount("-3.5"), 1e-9)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.InDelta(t, 42.0, ParseAmount("  42  "), 1e-9)
	})

	t.Run("defaults to zero instead of failing", func(t *testing.T) {
		assert.Zero(t, ParseAmount(""))
		assert.Zero(t, ParseAmount("abc"))
		assert.Zero(t, ParseAmount("12,5"))
	})
}
