package disputeerrors

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
	ErrInvalidEntryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll entry id",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"invalid dispute category",
		http.StatusBadRequest,
	)
	ErrDisputeNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip dispute not found",
		http.StatusNotFound,
	)
	ErrEntryNotLocked = apperror.New(
		apperror.CodeInvalidState,
		"disputes may only be raised against locked entries",
		http.StatusBadRequest,
	)
	ErrEntrySuperseded = apperror.New(
		apperror.CodeInvalidState,
		"entry has already been superseded by a correction",
		http.StatusBadRequest,
	)
	ErrDisputeAlreadyOpen = apperror.New(
		apperror.CodeConflict,
		"an open dispute already exists for this entry",
		http.StatusConflict,
	)
	ErrInvalidStageTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid dispute stage transition",
		http.StatusBadRequest,
	)
	ErrInvalidCorrection = apperror.New(
		apperror.CodeInvalidInput,
		"correction amounts must not be negative",
		http.StatusBadRequest,
	)
)
