package payroll_test

import (
	"testing"
	"time"

	"go-payroll/internal/compensation"
	"go-payroll/internal/payroll"

	"github.com/stretchr/testify/assert"
)

func earning(name string, annual int64) compensation.Component {
	return compensation.Component{Name: name, Kind: compensation.ComponentKindEarning, AnnualAmount: annual, Taxable: true}
}

func deduction(name string, annual int64) compensation.Component {
	return compensation.Component{Name: name, Kind: compensation.ComponentKindDeduction, AnnualAmount: annual}
}

func TestWorkingDays_SkipsWeekends(t *testing.T) {
	// January 2026: 31 days, 9 weekend days.
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 22, payroll.WorkingDays(start, end))
}

func TestProrate_TwentyOfTwentyTwoDays(t *testing.T) {
	// 6,00,000/yr → 50,000/month → 20/22 paid → 45,455 after half-up.
	result, err := payroll.Prorate(22, 2, []compensation.Component{earning("Basic", 600000)})

	assert.NoError(t, err)
	assert.Equal(t, 20, result.PaidDays)
	assert.Equal(t, 2, result.LwpDays)
	assert.Equal(t, int64(45455), result.Components[0].MonthlyAmount)
	assert.Equal(t, int64(45455), result.GrossEarnings)
	assert.Equal(t, int64(50000-45455), result.AbsenceDeduction)
}

func TestProrate_ZeroAbsenceIsExactMonthly(t *testing.T) {
	result, err := payroll.Prorate(22, 0, []compensation.Component{
		earning("Basic", 600000),
		earning("HRA", 250000),
		deduction("PF", 21600),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(50000), result.Components[0].MonthlyAmount)
	assert.Equal(t, int64(20833), result.Components[1].MonthlyAmount) // 250000/12 half-up
	assert.Equal(t, int64(1800), result.Components[2].MonthlyAmount)
	assert.Equal(t, int64(70833), result.GrossEarnings)
	assert.Equal(t, int64(1800), result.BaseDeductions)
	assert.Equal(t, int64(0), result.AbsenceDeduction)
}

func TestProrate_FullAbsenceIsZeroGross(t *testing.T) {
	result, err := payroll.Prorate(22, 22, []compensation.Component{earning("Basic", 600000)})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.PaidDays)
	assert.Equal(t, 22, result.LwpDays)
	assert.Equal(t, int64(0), result.GrossEarnings)
	assert.Equal(t, int64(50000), result.AbsenceDeduction)
}

func TestProrate_AbsenceBeyondWorkingDaysFloorsPaidDays(t *testing.T) {
	result, err := payroll.Prorate(22, 30, []compensation.Component{earning("Basic", 600000)})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.PaidDays)
	assert.Equal(t, 22, result.LwpDays)
	assert.Equal(t, result.WorkingDays, result.PaidDays+result.LwpDays)
}

func TestProrate_ZeroWorkingDaysIsAnomaly(t *testing.T) {
	_, err := payroll.Prorate(0, 0, []compensation.Component{earning("Basic", 600000)})

	assert.ErrorIs(t, err, payroll.ErrZeroWorkingDays)
}

func TestProrate_DaysIdentityHolds(t *testing.T) {
	for absence := 0; absence <= 25; absence++ {
		result, err := payroll.Prorate(22, absence, nil)
		assert.NoError(t, err)
		assert.Equal(t, result.WorkingDays, result.PaidDays+result.LwpDays, "absence %d", absence)
	}
}

func TestAnnualTaxableEarnings_SkipsDeductionsAndNonTaxable(t *testing.T) {
	nonTaxable := earning("Reimbursement", 50000)
	nonTaxable.Taxable = false

	total := payroll.AnnualTaxableEarnings([]compensation.Component{
		earning("Basic", 600000),
		nonTaxable,
		deduction("PF", 21600),
	})

	assert.Equal(t, int64(600000), total)
}
