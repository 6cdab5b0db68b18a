package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HandleHTTPError handles http errors
func HandleHTTPError(w http.ResponseWriter, err error) {
	httpErr := toHTTPError(err)

	w.Header().Set("Content-Type", "application/json")
	if httpErr.Code == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	w.WriteHeader(httpErr.Code)
	json.NewEncoder(w).Encode(httpErr)
}

func toHTTPError(err error) *HTTPError {
	var (
		badRequest   *BadRequestError
		notFound     *AccountNotFoundError
		funds        *InsufficientFundsError
		amount       *InvalidAmountError
		self         *SelfTransferError
		conflict     *TransientLockConflictError
		userNotFound *UserNotFoundError
		userExists   *UserAlreadyExistsError
		credentials  *InvalidCredentialsError
		unauthorized *UnauthorizedError
		forbidden    *ForbiddenError
	)

	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &badRequest), errors.As(err, &funds), errors.As(err, &amount),
		errors.As(err, &self), errors.As(err, &userExists):
		code = http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &userNotFound):
		code = http.StatusNotFound
	case errors.As(err, &credentials), errors.As(err, &unauthorized):
		code = http.StatusUnauthorized
	case errors.As(err, &forbidden):
		code = http.StatusForbidden
	case errors.As(err, &conflict):
		code = http.StatusServiceUnavailable
	default:
		return &HTTPError{
			Code:    code,
			Message: "Internal server error",
		}
	}

	return &HTTPError{Code: code, Message: err.Error()}
}
