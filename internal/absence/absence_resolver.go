package absence

import (
	"context"
	"sort"
	"time"

	"go-payroll/internal/leave"

	"go.uber.org/zap"
)

// UnpaidLeaveReader is the slice of the leave repository the resolver needs.
type UnpaidLeaveReader interface {
	FindApprovedUnpaidInPeriod(ctx context.Context, orgID string, employeeID string, periodStart, periodEnd time.Time) ([]leave.Leave, error)
}

// AbsentDayReader is the slice of the attendance repository the resolver needs.
type AbsentDayReader interface {
	FindAbsentDatesInPeriod(ctx context.Context, orgID string, employeeID string, from, to time.Time) ([]time.Time, error)
}

// AbsenceSummary lists the distinct unpaid days of an employee in a pay
// period. A day covered by both an approved unpaid leave and an ABSENT
// attendance mark counts once.
type AbsenceSummary struct {
	Days  []time.Time
	Count int
}

//go:generate mockgen -source=absence_resolver.go -destination=mock/absence_resolver_mock.go -package=mock
type Resolver interface {
	Resolve(ctx context.Context, orgID, employeeID string, periodStart, periodEnd time.Time) (AbsenceSummary, error)
}

type resolver struct {
	leaves     UnpaidLeaveReader
	attendance AbsentDayReader
	logger     *zap.Logger
}

func NewResolver(leaves UnpaidLeaveReader, attendance AbsentDayReader) Resolver {
	return &resolver{
		leaves:     leaves,
		attendance: attendance,
		logger:     zap.L().Named("absence.resolver"),
	}
}

func (r *resolver) Resolve(ctx context.Context, orgID, employeeID string, periodStart, periodEnd time.Time) (AbsenceSummary, error) {
	seen := make(map[string]time.Time)

	leaves, err := r.leaves.FindApprovedUnpaidInPeriod(ctx, orgID, employeeID, periodStart, periodEnd)
	if err != nil {
		r.logger.Error("resolve absence leave lookup failed",
			zap.String("org_id", orgID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return AbsenceSummary{}, err
	}
	for _, l := range leaves {
		from := maxDate(truncateToDate(l.StartDate), truncateToDate(periodStart))
		to := minDate(truncateToDate(l.EndDate), truncateToDate(periodEnd))
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			seen[d.Format("2006-01-02")] = d
		}
	}

	absentDates, err := r.attendance.FindAbsentDatesInPeriod(ctx, orgID, employeeID, periodStart, periodEnd)
	if err != nil {
		r.logger.Error("resolve absence attendance lookup failed",
			zap.String("org_id", orgID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return AbsenceSummary{}, err
	}
	for _, d := range absentDates {
		d = truncateToDate(d)
		seen[d.Format("2006-01-02")] = d
	}

	days := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	return AbsenceSummary{Days: days, Count: len(days)}, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
