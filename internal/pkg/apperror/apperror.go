package apperror

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Stable error codes consumed by the front-end for branching.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeBookingNotFound  = "BOOKING_NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeUniqueViolation  = "UNIQUE_CONSTRAINT_VIOLATION"
	CodeCannotModify     = "CANNOT_MODIFY"
	CodeCannotCancel     = "CANNOT_CANCEL"
	CodeAlreadyCancelled = "ALREADY_CANCELLED"
	CodeInvalidDateRange = "INVALID_DATE_RANGE"
	CodeUpdateFailed     = "UPDATE_FAILED"
	CodeDatabase         = "DATABASE_ERROR"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

var codeStatus = map[string]int{
	CodeValidation:       http.StatusBadRequest,
	CodeInvalidJSON:      http.StatusBadRequest,
	CodeUnauthorized:     http.StatusUnauthorized,
	CodeForbidden:        http.StatusForbidden,
	CodeNotFound:         http.StatusNotFound,
	CodeBookingNotFound:  http.StatusNotFound,
	CodeConflict:         http.StatusConflict,
	CodeUniqueViolation:  http.StatusConflict,
	CodeCannotModify:     http.StatusBadRequest,
	CodeCannotCancel:     http.StatusBadRequest,
	CodeAlreadyCancelled: http.StatusBadRequest,
	CodeInvalidDateRange: http.StatusBadRequest,
	CodeUpdateFailed:     http.StatusInternalServerError,
	CodeDatabase:         http.StatusInternalServerError,
	CodeExternalService:  http.StatusBadGateway,
	CodeInternal:         http.StatusInternalServerError,
}

// FieldIssue describes a single schema violation.
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error is a business or infrastructure failure with a stable code.
// Services return it instead of raising; handlers feed it to the
// response formatter unchanged.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func New(code, message string) *Error {
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &Error{Code: code, Message: message, Status: status}
}

func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// Validation wraps per-field issues into a single 400.
func Validation(issues []FieldIssue) *Error {
	return New(CodeValidation, "Request validation failed").WithDetails(issues)
}

// FromDB translates persistence-layer failures into taxonomy errors so
// raw driver error objects never reach the client.
func FromDB(err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return New(CodeNotFound, "Resource not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return New(CodeUniqueViolation, "Resource already exists")
		case "23503":
			return New(CodeConflict, "Related resource constraint violated")
		}
	}
	return New(CodeDatabase, "Database operation failed")
}

// IsNotFound reports whether err is the persistence layer's missing-row
// error. Owner-scoped reads return it both for absent rows and rows
// owned by someone else; callers must not distinguish the two.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
