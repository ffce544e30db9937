package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRunPersistenceError translates the unique (org, period) violation into
// the domain conflict. The raw pg error shows up when the insert bypasses
// gorm's error translation.
func mapRunPersistenceError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return payrollerrors.ErrDuplicateRun
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payroll_runs_org_period" {
			return payrollerrors.ErrDuplicateRun
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_payroll_runs_org_period") {
		return payrollerrors.ErrDuplicateRun
	}

	return err
}
