package taxerrors

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
	ErrInvalidFiscalYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid fiscal year, expected YYYY-YY",
		http.StatusBadRequest,
	)
	ErrInvalidSlabOrder = apperror.New(
		apperror.CodeInvalidInput,
		"tax slabs must be ordered and non-overlapping",
		http.StatusBadRequest,
	)
	ErrInvalidDeclaredAmount = apperror.New(
		apperror.CodeInvalidInput,
		"declared_amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidApprovedAmount = apperror.New(
		apperror.CodeInvalidInput,
		"approved_amount must be between zero and the declared amount",
		http.StatusBadRequest,
	)
	ErrRegimeNotFound = apperror.New(
		apperror.CodeNotFound,
		"tax regime not found",
		http.StatusNotFound,
	)
	ErrRegimeExists = apperror.New(
		apperror.CodeConflict,
		"tax regime with this code already exists",
		http.StatusConflict,
	)
	ErrSettingsNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee tax settings not found",
		http.StatusNotFound,
	)
	ErrDeclarationNotFound = apperror.New(
		apperror.CodeNotFound,
		"investment declaration not found",
		http.StatusNotFound,
	)
	ErrDeclarationNotPending = apperror.New(
		apperror.CodeInvalidState,
		"investment declaration has already been reviewed",
		http.StatusBadRequest,
	)
)
