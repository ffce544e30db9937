package compensationerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidOrgID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid organization id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective_from must be before or equal effective_to",
		http.StatusBadRequest,
	)
	ErrInvalidComponentKind = apperror.New(
		apperror.CodeInvalidInput,
		"component kind must be EARNING or DEDUCTION",
		http.StatusBadRequest,
	)
	ErrStructureOverlap = apperror.New(
		apperror.CodeConflict,
		"a compensation structure already covers this effective range",
		http.StatusConflict,
	)
	ErrStructureNotFound = apperror.New(
		apperror.CodeNotFound,
		"compensation structure not found",
		http.StatusNotFound,
	)

	// ErrNoActiveStructure is a condition, not a failure: run generation
	// treats it as "employee excluded from this run".
	ErrNoActiveStructure = apperror.New(
		apperror.CodeNotFound,
		"no active compensation structure for employee on this date",
		http.StatusNotFound,
	)
)
