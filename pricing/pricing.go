// Package pricing computes the derived monetary fields of a cost-update
// line item. All functions are pure: no I/O, no state, identical inputs
// always yield identical outputs.
package pricing

import (
	"strconv"
	"strings"
)

// Input represents the line-item values the calculation starts from.
// Percentages are expressed as whole numbers (19 means 19%).
type Input struct {
	NewCost float64
	Pie1    float64
	Pie2    float64
	ICUI    float64
	TaxRate float64
	Margin  float64
	PDV     float64
}

// Breakdown contains every intermediate and final value of the calculation,
// in the order the steps produce them.
type Breakdown struct {
	FeeValue     float64
	CostAfterFee float64
	CostPlusICUI float64
	TaxValue     float64
	CostPlusTax  float64
	FinalPrice   float64
	POSPrice     float64
}

// Calculate computes the derived fields from a line-item input. The step
// order is fixed; each value feeds the next:
//
//  1. feeValue     = newCost * (pie1 + pie2) / 100
//  2. costAfterFee = newCost - feeValue
//  3. costPlusICUI = costAfterFee + ICUI
//  4. taxValue     = costPlusICUI * taxRate / 100
//  5. costPlusTax  = costPlusICUI + taxValue
//  6. finalPrice   = costPlusTax * (1 + margin / 100)
//  7. posPrice     = finalPrice + pdv
func Calculate(in Input) Breakdown {
	feeValue := in.NewCost * (in.Pie1 + in.Pie2) / 100.0
	costAfterFee := in.NewCost - feeValue
	costPlusICUI := costAfterFee + in.ICUI
	taxValue := costPlusICUI * (in.TaxRate / 100.0)
	costPlusTax := costPlusICUI + taxValue
	finalPrice := costPlusTax * (1.0 + in.Margin/100.0)
	posPrice := finalPrice + in.PDV

	return Breakdown{
		FeeValue:     feeValue,
		CostAfterFee: costAfterFee,
		CostPlusICUI: costPlusICUI,
		TaxValue:     taxValue,
		CostPlusTax:  costPlusTax,
		FinalPrice:   finalPrice,
		POSPrice:     posPrice,
	}
}

// ParseAmount converts a wire-level numeric string to a float64. Missing or
// unparseable values default to 0 rather than erroring; the calculation never
// aborts mid-request over a blank field.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
