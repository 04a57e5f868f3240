package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
	ErrInvalidChannel = apperror.New(
		apperror.CodeInvalidInput,
		"channel must be dashboard or email",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeNotFound,
		"manager not found",
		http.StatusNotFound,
	)
	ErrNotAManager = apperror.New(
		apperror.CodeInvalidInput,
		"manager_email does not belong to a manager",
		http.StatusBadRequest,
	)
	ErrSelfApproval = apperror.New(
		apperror.CodeInvalidInput,
		"employee cannot be their own approver",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrLeaveAccessDenied = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to view this leave",
		http.StatusForbidden,
	)
	ErrAlreadyResolved = apperror.New(
		apperror.CodeAlreadyResolved,
		"action already taken on this leave request",
		http.StatusConflict,
	)
	ErrUnauthorizedApprover = apperror.New(
		apperror.CodeForbidden,
		"only the assigned manager can act on this leave request",
		http.StatusForbidden,
	)
	ErrSecurityMismatch = apperror.New(
		apperror.CodeSecurityMismatch,
		"approval link does not belong to this leave request",
		http.StatusForbidden,
	)
	ErrInvalidCredential = apperror.New(
		apperror.CodeInvalidCredential,
		"invalid manager password",
		http.StatusUnauthorized,
	)
)
