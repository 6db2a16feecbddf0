package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMargin(t *testing.T) {
	t.Run("boundary values", func(t *testing.T) {
		assert.False(t, ValidateMargin("0").Valid)
		assert.True(t, ValidateMargin("0.01").Valid)
		assert.True(t, ValidateMargin("1000").Valid)
		assert.False(t, ValidateMargin("1000.01").Valid)
	})

	t.Run("format rules", func(t *testing.T) {
		assert.True(t, ValidateMargin("30").Valid)
		assert.True(t, ValidateMargin("30.5").Valid)
		assert.True(t, ValidateMargin("0.5").Valid)

		assert.False(t, ValidateMargin("").Valid, "empty")
		assert.False(t, ValidateMargin("abc").Valid, "non-numeric")
		assert.False(t, ValidateMargin("05").Valid, "leading zero")
		assert.False(t, ValidateMargin("30.123").Valid, "three decimal digits")
		assert.False(t, ValidateMargin("-5").Valid, "negative")
	})
}

func TestValidatePDV(t *testing.T) {
	t.Run("boundary values", func(t *testing.T) {
		assert.False(t, ValidatePDV("-0.01").Valid)
		assert.True(t, ValidatePDV("0").Valid, "zero is a legal boundary")
		assert.True(t, ValidatePDV("100").Valid)
	})

	t.Run("format rules", func(t *testing.T) {
		assert.True(t, ValidatePDV("0.25").Valid)
		assert.True(t, ValidatePDV("1250.99").Valid)

		assert.False(t, ValidatePDV("").Valid, "empty")
		assert.False(t, ValidatePDV("x").Valid, "non-numeric")
		assert.False(t, ValidatePDV("07").Valid, "leading zero")
		assert.False(t, ValidatePDV("1.999").Valid, "three decimal digits")
	})
}

func TestValidateApplicationDate(t *testing.T) {
	assert.True(t, ValidateApplicationDate("2026-03-15").Valid)

	assert.False(t, ValidateApplicationDate("").Valid)
	assert.False(t, ValidateApplicationDate("0000-00-00").Valid, "sentinel means unset")
	assert.False(t, ValidateApplicationDate("15/03/2026").Valid)
}

func TestCountCompletedFields(t *testing.T) {
	t.Run("counters use the gate predicate", func(t *testing.T) {
		items := []FinalizeItemInput{
			{LineItemID: 1, Margin: "30", PDV: "100"},
			{LineItemID: 2, Margin: "12.5", PDV: "0"},
			{LineItemID: 3, Margin: "8", PDV: ""},
		}

		report := CountCompletedFields(items, "2026-03-15")

		assert.Equal(t, 3, report.TotalItems)
		assert.Equal(t, 3, report.MarginCompleted)
		assert.Equal(t, 2, report.PDVCompleted, "item missing pdv is not counted")
		assert.True(t, report.DateSet)
		assert.False(t, report.Complete())
	})

	t.Run("complete when every field is valid", func(t *testing.T) {
		items := []FinalizeItemInput{
			{LineItemID: 1, Margin: "30", PDV: "100"},
			{LineItemID: 2, Margin: "0.01", PDV: "0"},
		}

		report := CountCompletedFields(items, "2026-03-15")

		assert.True(t, report.Complete())
	})

	t.Run("sentinel date blocks the gate", func(t *testing.T) {
		items := []FinalizeItemInput{{LineItemID: 1, Margin: "30", PDV: "0"}}

		report := CountCompletedFields(items, "0000-00-00")

		assert.False(t, report.DateSet)
		assert.False(t, report.Complete())
	})

	t.Run("empty item set never completes", func(t *testing.T) {
		report := CountCompletedFields(nil, "2026-03-15")

		assert.False(t, report.Complete())
	})
}
