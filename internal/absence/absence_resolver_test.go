package absence_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/absence"
	"go-payroll/internal/leave"

	"github.com/stretchr/testify/assert"
)

type fakeUnpaidLeaveReader struct {
	leaves []leave.Leave
	err    error
}

func (f *fakeUnpaidLeaveReader) FindApprovedUnpaidInPeriod(ctx context.Context, orgID, employeeID string, periodStart, periodEnd time.Time) ([]leave.Leave, error) {
	return f.leaves, f.err
}

type fakeAbsentDayReader struct {
	dates []time.Time
	err   error
}

func (f *fakeAbsentDayReader) FindAbsentDatesInPeriod(ctx context.Context, orgID, employeeID string, from, to time.Time) ([]time.Time, error) {
	return f.dates, f.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolver_UnionsLeaveAndAttendance(t *testing.T) {
	leaves := &fakeUnpaidLeaveReader{leaves: []leave.Leave{
		{StartDate: day(2026, 1, 12), EndDate: day(2026, 1, 13)},
	}}
	attendance := &fakeAbsentDayReader{dates: []time.Time{
		day(2026, 1, 13), // overlaps the leave day
		day(2026, 1, 20),
	}}

	r := absence.NewResolver(leaves, attendance)
	summary, err := r.Resolve(context.Background(), "org", "emp", day(2026, 1, 1), day(2026, 1, 31))

	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, []time.Time{day(2026, 1, 12), day(2026, 1, 13), day(2026, 1, 20)}, summary.Days)
}

func TestResolver_ClipsLeaveToPeriod(t *testing.T) {
	// Leave spans December into January; only January days count.
	leaves := &fakeUnpaidLeaveReader{leaves: []leave.Leave{
		{StartDate: day(2025, 12, 29), EndDate: day(2026, 1, 2)},
	}}

	r := absence.NewResolver(leaves, &fakeAbsentDayReader{})
	summary, err := r.Resolve(context.Background(), "org", "emp", day(2026, 1, 1), day(2026, 1, 31))

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, []time.Time{day(2026, 1, 1), day(2026, 1, 2)}, summary.Days)
}

func TestResolver_EmptySources(t *testing.T) {
	r := absence.NewResolver(&fakeUnpaidLeaveReader{}, &fakeAbsentDayReader{})
	summary, err := r.Resolve(context.Background(), "org", "emp", day(2026, 1, 1), day(2026, 1, 31))

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.Empty(t, summary.Days)
}

func TestResolver_NormalizesTimestamps(t *testing.T) {
	// Attendance dates may carry a non-midnight time from the driver.
	attendance := &fakeAbsentDayReader{dates: []time.Time{
		time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC),
	}}

	r := absence.NewResolver(&fakeUnpaidLeaveReader{}, attendance)
	summary, err := r.Resolve(context.Background(), "org", "emp", day(2026, 1, 1), day(2026, 1, 31))

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, []time.Time{day(2026, 1, 15)}, summary.Days)
}
