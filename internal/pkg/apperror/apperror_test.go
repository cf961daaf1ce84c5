package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNew_ResolvesStatusFromCode(t *testing.T) {
	cases := []struct {
		code   string
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidJSON, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeBookingNotFound, http.StatusNotFound},
		{CodeUniqueViolation, http.StatusConflict},
		{CodeAlreadyCancelled, http.StatusBadRequest},
		{CodeInvalidDateRange, http.StatusBadRequest},
		{CodeDatabase, http.StatusInternalServerError},
		{CodeExternalService, http.StatusBadGateway},
	}

	for _, tc := range cases {
		err := New(tc.code, "boom")
		assert.Equal(t, tc.status, err.Status, tc.code)
		assert.Equal(t, tc.code, err.Code)
	}

	// Unknown codes degrade to a 500 rather than a zero status.
	assert.Equal(t, http.StatusInternalServerError, New("MADE_UP", "x").Status)
}

func TestError_Error(t *testing.T) {
	err := New(CodeNotFound, "Resource not found")
	assert.Equal(t, "NOT_FOUND: Resource not found", err.Error())
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil))

	err := FromDB(gorm.ErrRecordNotFound)
	assert.Equal(t, CodeNotFound, err.Code)

	err = FromDB(&pgconn.PgError{Code: "23505"})
	assert.Equal(t, CodeUniqueViolation, err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)

	err = FromDB(&pgconn.PgError{Code: "23503"})
	assert.Equal(t, CodeConflict, err.Code)

	// Anything unrecognized collapses to a generic database failure so
	// driver details never leak to the client.
	err = FromDB(errors.New("connection refused"))
	assert.Equal(t, CodeDatabase, err.Code)
	assert.Equal(t, "Database operation failed", err.Message)
}

func TestValidation(t *testing.T) {
	issues := []FieldIssue{{Path: "guests", Message: "must be at least 1", Code: "gte"}}
	err := Validation(issues)

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, issues, err.Details)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.True(t, IsNotFound(errors.Join(errors.New("wrap"), gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(nil))
}
