package domain

// 以下错误都会原样展示给调用方，StorageError 除外

type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrMissingDates          ValidationError = "missing or invalid dates"
	ErrOverlappingRequest    ValidationError = "overlapping request"
	ErrInsufficientAllowance ValidationError = "insufficient allowance"
	ErrInvalidRequestType    ValidationError = "invalid request type"
	ErrInvalidDecision       ValidationError = "decision must be approved or rejected"
	ErrInvalidAllowance      ValidationError = "allowance must be a non-negative integer"
	ErrNegativeAllowance     ValidationError = "allowance cannot go negative"
	ErrAllowanceOutOfRange   ValidationError = "allowance adjustment out of range"
	ErrRangeTooLong          ValidationError = "date range too long"
	ErrNotValidated          ValidationError = "request has not been validated"
)

type NotFoundError string

func (e NotFoundError) Error() string { return string(e) }

const (
	ErrRequestNotFound  NotFoundError = "time-off request not found"
	ErrEmployeeNotFound NotFoundError = "employee not found"
	ErrCompanyNotFound  NotFoundError = "company not found"
)

type AuthorizationError string

func (e AuthorizationError) Error() string { return string(e) }

const ErrForbidden AuthorizationError = "operation not permitted"

type InvalidStateError string

func (e InvalidStateError) Error() string { return string(e) }

const (
	ErrRequestNotPending  InvalidStateError = "request has already been reviewed"
	ErrAllowanceConflict  InvalidStateError = "allowance was modified concurrently, please retry"
	ErrEmployeeNotOnboard InvalidStateError = "employee has not joined a company"
)

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }
