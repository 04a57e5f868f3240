package approvaltokenerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	// ErrTokenInvalid covers missing, used, revoked and expired tokens alike so
	// callers cannot probe which case applied.
	ErrTokenInvalid = apperror.New(
		apperror.CodeInvalidToken,
		"approval link is invalid or has expired",
		http.StatusUnauthorized,
	)
	ErrInvalidAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to generate approval token",
		http.StatusInternalServerError,
	)
)
