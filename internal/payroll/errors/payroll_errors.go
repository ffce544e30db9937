package payrollerrors

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
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrDuplicateRun = apperror.New(
		apperror.CodeConflict,
		"a payroll run already exists for this period",
		http.StatusConflict,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll entry not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll status transition",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting a run",
		http.StatusBadRequest,
	)
	// ErrPartialPersistence marks a run that failed mid-write; the run
	// ends FAILED, never COMPLETED with totals that do not add up.
	ErrPartialPersistence = apperror.New(
		apperror.CodeInternalError,
		"payroll run persistence failed before completion",
		http.StatusInternalServerError,
	)
	// Batch concurrency conditions, distinguishable per id.
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeConflict,
		"entry has already been transitioned",
		http.StatusConflict,
	)
	ErrCurrentlyProcessing = apperror.New(
		apperror.CodeConflict,
		"entry is currently being processed by another request",
		http.StatusConflict,
	)
	ErrEmptyBatch = apperror.New(
		apperror.CodeInvalidInput,
		"ids must contain at least one entry id",
		http.StatusBadRequest,
	)
)
