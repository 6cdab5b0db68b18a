package errors

import (
	"errors"
	"fmt"
)

const (
	ErrReconcileFailed                = "Failed to reconcile the ledger"
	ErrLedgerDrift                    = "Ledger drift detected"
	ErrorFailedToConnectToTheDatabase = "Failed to connect to the database"
	ErrorFailedToConnectToTheBroker   = "Failed to connect to the event broker"
	ErrorFailedToRunTheServer         = "Failed to run the server"
	ErrorFailedToShutdownTheServer    = "Failed to shutdown the server"
	ErrFailedDecodeRequestBody        = "Failed to decode request body"
	ErrInvalidRequestBody             = "Invalid request body"
	ErrFailedProcessTransfer          = "Failed to process transfer"
	ErrFailedPublishEvent             = "Failed to publish event"
	ErrFailedWriteJournal             = "Failed to write audit journal"
	ErrAuthorizationRequired          = "Authorization header required"
	ErrInvalidAuthorizationHeader     = "Invalid authorization header format"
	ErrInvalidToken                   = "Invalid or expired token"
	ErrUserIDRequired                 = "User ID is required"
	ErrAccountIDRequired              = "Account ID is required"
	ErrInvalidLimit                   = "Invalid limit"
)

type BadRequestError struct {
	Message string
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{Message: message}
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("Bad request: %s", e.Message)
}

func (e *BadRequestError) Is(target error) bool {
	_, ok := target.(*BadRequestError)
	return ok
}

// AccountNotFoundError is returned when an account id or number does not resolve.
type AccountNotFoundError struct {
	Ref string
}

func NewAccountNotFoundError(ref string) *AccountNotFoundError {
	return &AccountNotFoundError{Ref: ref}
}

func (e *AccountNotFoundError) Error() string {
	if e.Ref == "" {
		return "account not found"
	}
	return fmt.Sprintf("account not found: %s", e.Ref)
}

func (e *AccountNotFoundError) Is(target error) bool {
	_, ok := target.(*AccountNotFoundError)
	return ok
}

type InsufficientFundsError struct{}

func NewInsufficientFundsError() *InsufficientFundsError {
	return &InsufficientFundsError{}
}

func (e *InsufficientFundsError) Error() string {
	return "insufficient funds"
}

func (e *InsufficientFundsError) Is(target error) bool {
	_, ok := target.(*InsufficientFundsError)
	return ok
}

// InvalidAmountError covers non-positive, unparsable and out-of-range amounts.
type InvalidAmountError struct {
	Reason string
}

func NewInvalidAmountError(reason string) *InvalidAmountError {
	return &InvalidAmountError{Reason: reason}
}

func (e *InvalidAmountError) Error() string {
	if e.Reason == "" {
		return "invalid amount"
	}
	return fmt.Sprintf("invalid amount: %s", e.Reason)
}

func (e *InvalidAmountError) Is(target error) bool {
	_, ok := target.(*InvalidAmountError)
	return ok
}

type SelfTransferError struct{}

func NewSelfTransferError() *SelfTransferError {
	return &SelfTransferError{}
}

func (e *SelfTransferError) Error() string {
	return "cannot transfer to the same account"
}

func (e *SelfTransferError) Is(target error) bool {
	_, ok := target.(*SelfTransferError)
	return ok
}

// TransientLockConflictError means an account lock could not be taken within the retry budget.
// It is the only ledger error worth retrying.
type TransientLockConflictError struct {
	AccountID string
}

func NewTransientLockConflictError(accountID string) *TransientLockConflictError {
	return &TransientLockConflictError{AccountID: accountID}
}

func (e *TransientLockConflictError) Error() string {
	return fmt.Sprintf("account %s is busy, retry later", e.AccountID)
}

func (e *TransientLockConflictError) Is(target error) bool {
	_, ok := target.(*TransientLockConflictError)
	return ok
}

type UserNotFoundError struct{}

func NewUserNotFoundError() *UserNotFoundError {
	return &UserNotFoundError{}
}

func (e *UserNotFoundError) Error() string {
	return "user not found"
}

func (e *UserNotFoundError) Is(target error) bool {
	_, ok := target.(*UserNotFoundError)
	return ok
}

type UserAlreadyExistsError struct{}

func NewUserAlreadyExistsError() *UserAlreadyExistsError {
	return &UserAlreadyExistsError{}
}

func (e *UserAlreadyExistsError) Error() string {
	return "email already registered"
}

func (e *UserAlreadyExistsError) Is(target error) bool {
	_, ok := target.(*UserAlreadyExistsError)
	return ok
}

type InvalidCredentialsError struct{}

func NewInvalidCredentialsError() *InvalidCredentialsError {
	return &InvalidCredentialsError{}
}

func (e *InvalidCredentialsError) Error() string {
	return "invalid credentials"
}

func (e *InvalidCredentialsError) Is(target error) bool {
	_, ok := target.(*InvalidCredentialsError)
	return ok
}

type UnauthorizedError struct {
	Message string
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func (e *UnauthorizedError) Is(target error) bool {
	_, ok := target.(*UnauthorizedError)
	return ok
}

type ForbiddenError struct{}

func NewForbiddenError() *ForbiddenError {
	return &ForbiddenError{}
}

func (e *ForbiddenError) Error() string {
	return "forbidden"
}

func (e *ForbiddenError) Is(target error) bool {
	_, ok := target.(*ForbiddenError)
	return ok
}

func IsRetryable(err error) bool {
	return errors.Is(err, &TransientLockConflictError{})
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
