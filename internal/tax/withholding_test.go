package tax_test

import (
	"testing"
	"time"

	"go-payroll/internal/tax"

	"github.com/stretchr/testify/assert"
)

// simplifiedRegime mirrors a no-itemized-deduction rule set: 50,000
// standard deduction, 4% cess, progressive bands up to an open 30% band.
// Amounts are in minor units.
func simplifiedRegime() tax.TaxRegime {
	return tax.TaxRegime{
		Code:              "SIMPLIFIED",
		AllowsItemized:    false,
		StandardDeduction: 50000_00,
		CessPctBp:         400,
		Slabs: []tax.TaxSlab{
			{From: 0, To: 300000_00, RatePctBp: 0, Position: 0},
			{From: 300000_00, To: 600000_00, RatePctBp: 500, Position: 1},
			{From: 600000_00, To: 900000_00, RatePctBp: 1000, Position: 2},
			{From: 900000_00, To: 1200000_00, RatePctBp: 1500, Position: 3},
			{From: 1200000_00, To: 1500000_00, RatePctBp: 2000, Position: 4},
			{From: 1500000_00, To: 0, RatePctBp: 3000, Position: 5},
		},
	}
}

func legacyRegime() tax.TaxRegime {
	r := simplifiedRegime()
	r.Code = "LEGACY"
	r.AllowsItemized = true
	return r
}

func TestComputeWithholding_ProgressiveSlabWalk(t *testing.T) {
	// 10,00,000 gross − 50,000 standard = 9,50,000 taxable.
	// Slab tax: 0 + 5%·3,00,000 + 10%·3,00,000 + 15%·50,000 = 52,500.
	// Cess 4% = 2,100; annual liability 54,600 over 12 periods = 4,550.
	result := tax.ComputeWithholding(tax.WithholdingInput{
		AnnualGrossIncome: 1000000_00,
		Regime:            simplifiedRegime(),
		RemainingPeriods:  12,
	})

	assert.Equal(t, int64(950000_00), result.TaxableIncome)
	assert.Equal(t, int64(52500_00), result.SlabTax)
	assert.Equal(t, int64(2100_00), result.Cess)
	assert.Equal(t, int64(54600_00), result.AnnualLiability)
	assert.Equal(t, int64(4550_00), result.PeriodWithholding)
}

func TestComputeWithholding_BelowFirstSlabIsZero(t *testing.T) {
	result := tax.ComputeWithholding(tax.WithholdingInput{
		AnnualGrossIncome: 300000_00, // 2,50,000 after standard deduction
		Regime:            simplifiedRegime(),
		RemainingPeriods:  12,
	})

	assert.Equal(t, int64(0), result.SlabTax)
	assert.Equal(t, int64(0), result.PeriodWithholding)
}

func TestComputeWithholding_MonotonicInIncome(t *testing.T) {
	regime := simplifiedRegime()
	var prev int64
	for income := int64(200000_00); income <= 3000000_00; income += 37000_00 {
		result := tax.ComputeWithholding(tax.WithholdingInput{
			AnnualGrossIncome: income,
			Regime:            regime,
			RemainingPeriods:  12,
		})
		assert.GreaterOrEqual(t, result.AnnualLiability, prev, "income %d", income)
		prev = result.AnnualLiability
	}
}

func TestComputeWithholding_ItemizedDeductionsGatedByRegime(t *testing.T) {
	deductions := []tax.ApprovedDeduction{{Section: "80C", Amount: 100000_00}}

	withItemized := tax.ComputeWithholding(tax.WithholdingInput{
		AnnualGrossIncome: 1000000_00,
		Regime:            legacyRegime(),
		Deductions:        deductions,
		RemainingPeriods:  12,
	})
	withoutItemized := tax.ComputeWithholding(tax.WithholdingInput{
		AnnualGrossIncome: 1000000_00,
		Regime:            simplifiedRegime(),
		Deductions:        deductions,
		RemainingPeriods:  12,
	})

	assert.Equal(t, int64(850000_00), withItemized.TaxableIncome)
	assert.Equal(t, int64(950000_00), withoutItemized.TaxableIncome)
	assert.Less(t, withItemized.AnnualLiability, withoutItemized.AnnualLiability)
}

func TestComputeWithholding_SectionCeilingsApplied(t *testing.T) {
	// 2,00,000 declared under 80C caps at 1,50,000; 40,000 under 80D caps
	// at 25,000; HRA has no fixed ceiling.
	result := tax.ComputeWithholding(tax.WithholdingInput{
		AnnualGrossIncome: 1000000_00,
		Regime:            legacyRegime(),
		Deductions: []tax.ApprovedDeduction{
			{Section: "80C", Amount: 200000_00},
			{Section: "80D", Amount: 40000_00},
			{Section: "HRA", Amount: 60000_00},
		},
		RemainingPeriods: 12,
	})

	assert.Equal(t, int64(950000_00-150000_00-25000_00-60000_00), result.TaxableIncome)
}

func TestComputeWithholding_SplitDeclarationsShareOneCeiling(t *testing.T) {
	// Two approved 80C declarations of 1,00,000 each still cap at the
	// 1,50,000 section total.
	result := tax.ComputeWithholding(tax.WithholdingInput{
		AnnualGrossIncome: 1000000_00,
		Regime:            legacyRegime(),
		Deductions: []tax.ApprovedDeduction{
			{Section: "80C", Amount: 100000_00},
			{Section: "80C", Amount: 100000_00},
		},
		RemainingPeriods: 12,
	})

	assert.Equal(t, int64(800000_00), result.TaxableIncome)
}

func TestComputeWithholding_TaxableIncomeFlooredAtZero(t *testing.T) {
	result := tax.ComputeWithholding(tax.WithholdingInput{
		AnnualGrossIncome: 100000_00,
		Regime:            legacyRegime(),
		Deductions:        []tax.ApprovedDeduction{{Section: "80C", Amount: 150000_00}},
		RemainingPeriods:  12,
	})

	assert.Equal(t, int64(0), result.TaxableIncome)
	assert.Equal(t, int64(0), result.PeriodWithholding)
}

func TestComputeWithholding_NetsOffWithheldTax(t *testing.T) {
	base := tax.WithholdingInput{
		AnnualGrossIncome: 1000000_00,
		Regime:            simplifiedRegime(),
		RemainingPeriods:  3,
	}

	full := tax.ComputeWithholding(base)
	assert.Equal(t, int64(18200_00), full.PeriodWithholding) // 54,600 / 3

	base.TaxWithheldSoFar = 45500_00
	partial := tax.ComputeWithholding(base)
	assert.Equal(t, int64(9100_00), partial.AnnualLiability)

	base.TaxWithheldSoFar = 60000_00
	over := tax.ComputeWithholding(base)
	assert.Equal(t, int64(0), over.PeriodWithholding)
}

func TestComputeWithholding_RemainingPeriodsFlooredAtOne(t *testing.T) {
	result := tax.ComputeWithholding(tax.WithholdingInput{
		AnnualGrossIncome: 1000000_00,
		Regime:            simplifiedRegime(),
		RemainingPeriods:  0,
	})

	assert.Equal(t, result.AnnualLiability, result.PeriodWithholding)
}

func TestRemainingPeriodsInFiscalYear(t *testing.T) {
	assert.Equal(t, 12, tax.RemainingPeriodsInFiscalYear(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, tax.RemainingPeriodsInFiscalYear(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, tax.RemainingPeriodsInFiscalYear(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFiscalYearOf(t *testing.T) {
	assert.Equal(t, "2026-27", tax.FiscalYearOf(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-26", tax.FiscalYearOf(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}
