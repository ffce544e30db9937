package tax

import (
	"time"

	"go-payroll/internal/shared/money"
)

// ApprovedDeduction is one reviewed declaration feeding the withholding
// computation, already reduced to its approved amount.
type ApprovedDeduction struct {
	Section string
	Amount  int64
}

// WithholdingInput carries everything ComputeWithholding needs. All amounts
// are annual figures in minor currency units unless noted.
type WithholdingInput struct {
	AnnualGrossIncome   int64
	PriorEmployerIncome int64
	Regime              TaxRegime
	Deductions          []ApprovedDeduction
	TaxWithheldSoFar    int64
	PriorEmployerTax    int64
	RemainingPeriods    int
}

// WithholdingResult breaks the computation down for audit on the entry.
type WithholdingResult struct {
	TaxableIncome     int64
	SlabTax           int64
	Cess              int64
	AnnualLiability   int64
	PeriodWithholding int64
}

// ComputeWithholding estimates the current period's statutory withholding:
// annualize income, apply the regime's deductions and progressive slabs,
// add cess, net off tax already withheld, and spread the remainder over the
// remaining pay periods of the fiscal year. Never returns a negative amount.
func ComputeWithholding(in WithholdingInput) WithholdingResult {
	taxable := in.AnnualGrossIncome + in.PriorEmployerIncome
	taxable -= in.Regime.StandardDeduction

	if in.Regime.AllowsItemized {
		// The statutory ceiling binds the section total, not each
		// declaration, so split declarations cannot stack past it.
		bySection := make(map[string]int64)
		for _, d := range in.Deductions {
			bySection[d.Section] += d.Amount
		}
		for section, amount := range bySection {
			taxable -= SectionCeiling(section, amount)
		}
	}
	if taxable < 0 {
		taxable = 0
	}

	slabTax := slabTaxOn(taxable, in.Regime.Slabs)
	cess := money.MulFracRoundHalfUp(slabTax, in.Regime.CessPctBp, 10000)

	liability := slabTax + cess - in.TaxWithheldSoFar - in.PriorEmployerTax

	periods := in.RemainingPeriods
	if periods < 1 {
		periods = 1
	}
	withholding := int64(0)
	if liability > 0 {
		withholding = money.DivRoundHalfUp(liability, int64(periods))
	}

	return WithholdingResult{
		TaxableIncome:     taxable,
		SlabTax:           slabTax,
		Cess:              cess,
		AnnualLiability:   liability,
		PeriodWithholding: withholding,
	}
}

// slabTaxOn walks the ordered slabs and taxes the portion of taxable income
// inside each band at that band's marginal rate. A zero upper bound marks
// the top, unbounded band.
func slabTaxOn(taxable int64, slabs []TaxSlab) int64 {
	var tax int64
	for _, slab := range slabs {
		if taxable <= slab.From {
			break
		}
		upper := slab.To
		if upper == 0 || upper > taxable {
			upper = taxable
		}
		portion := upper - slab.From
		tax += money.MulFracRoundHalfUp(portion, slab.RatePctBp, 10000)
	}
	return tax
}

// RemainingPeriodsInFiscalYear counts the monthly pay periods left in the
// April–March fiscal year, the given period included. April yields 12,
// March yields 1.
func RemainingPeriodsInFiscalYear(period time.Time) int {
	return (3-int(period.Month())+12)%12 + 1
}

// FiscalYearOf formats the April–March fiscal year a period falls in, e.g.
// 2026-27 for any month from April 2026 through March 2027.
func FiscalYearOf(period time.Time) string {
	year := period.Year()
	if period.Month() < time.April {
		year--
	}
	return formatFiscalYear(year)
}

func formatFiscalYear(startYear int) string {
	return time.Date(startYear, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006") +
		"-" +
		time.Date(startYear+1, 1, 1, 0, 0, 0, 0, time.UTC).Format("06")
}
