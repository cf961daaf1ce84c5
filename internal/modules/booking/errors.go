package booking

import "errors"

var (
	ErrNotFound         = errors.New("booking not found")
	ErrCannotModify     = errors.New("booking can no longer be modified")
	ErrCannotCancel     = errors.New("completed booking cannot be cancelled")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrForbidden        = errors.New("operation requires elevated role")
	ErrUpdateFailed     = errors.New("booking update failed")
)
