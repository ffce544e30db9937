package payroll

import (
	"errors"
	"time"

	"go-payroll/internal/compensation"
	"go-payroll/internal/shared/money"
)

// ErrZeroWorkingDays is a computation anomaly: the employee is excluded
// from the run and flagged, the run itself keeps going.
var ErrZeroWorkingDays = errors.New("period has zero working days")

// ErrNegativeProratedAmount guards against malformed structures producing
// negative component amounts. Same anomaly handling as zero working days.
var ErrNegativeProratedAmount = errors.New("prorated component amount is negative")

// ProratedComponent is one breakdown line of an entry.
type ProratedComponent struct {
	Name          string
	Kind          string
	AnnualAmount  int64
	MonthlyAmount int64
	Taxable       bool
	DisplayOrder  int
}

// ProrationResult carries the per-component breakdown and the sums the
// entry invariants are stated over. AbsenceDeduction is derived by exactly
// one formula: full-month earnings minus prorated earnings.
type ProrationResult struct {
	WorkingDays      int
	LwpDays          int
	PaidDays         int
	Components       []ProratedComponent
	GrossEarnings    int64
	BaseDeductions   int64
	AbsenceDeduction int64
}

// WorkingDays counts the non-weekend calendar days in [periodStart,
// periodEnd]. Holiday calendars are out of scope.
func WorkingDays(periodStart, periodEnd time.Time) int {
	count := 0
	for d := periodStart; !d.After(periodEnd); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// Prorate scales every component of the structure by paid/working days.
// Each monthly amount is round(annual/12 × paid/working) computed in one
// integer division with half-up rounding, so a zero-absence month yields
// exactly round(annual/12) and summed totals are reproducible.
func Prorate(workingDays, absenceDays int, components []compensation.Component) (ProrationResult, error) {
	if workingDays <= 0 {
		return ProrationResult{}, ErrZeroWorkingDays
	}
	if absenceDays < 0 {
		absenceDays = 0
	}
	paidDays := workingDays - absenceDays
	if paidDays < 0 {
		paidDays = 0
	}
	lwpDays := workingDays - paidDays

	result := ProrationResult{
		WorkingDays: workingDays,
		LwpDays:     lwpDays,
		PaidDays:    paidDays,
		Components:  make([]ProratedComponent, 0, len(components)),
	}

	var fullMonthEarnings int64
	for _, component := range components {
		monthly := money.DivRoundHalfUp(
			component.AnnualAmount*int64(paidDays),
			12*int64(workingDays),
		)
		if monthly < 0 {
			return ProrationResult{}, ErrNegativeProratedAmount
		}

		result.Components = append(result.Components, ProratedComponent{
			Name:          component.Name,
			Kind:          component.Kind,
			AnnualAmount:  component.AnnualAmount,
			MonthlyAmount: monthly,
			Taxable:       component.Taxable,
			DisplayOrder:  component.DisplayOrder,
		})

		switch component.Kind {
		case compensation.ComponentKindEarning:
			result.GrossEarnings += monthly
			fullMonthEarnings += money.DivRoundHalfUp(component.AnnualAmount, 12)
		case compensation.ComponentKindDeduction:
			result.BaseDeductions += monthly
		}
	}

	result.AbsenceDeduction = fullMonthEarnings - result.GrossEarnings
	return result, nil
}

// AnnualTaxableEarnings sums the annual amounts of taxable earning
// components, the figure the withholding engine annualizes from.
func AnnualTaxableEarnings(components []compensation.Component) int64 {
	var total int64
	for _, component := range components {
		if component.Kind == compensation.ComponentKindEarning && component.Taxable {
			total += component.AnnualAmount
		}
	}
	return total
}
