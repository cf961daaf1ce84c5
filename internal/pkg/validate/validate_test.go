package validate

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"homebound/internal/pkg/apperror"
)

func testContext(t *testing.T, method, target, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	return c
}

func TestQueryMap_CoalescesRepeatedKeys(t *testing.T) {
	c := testContext(t, "GET", "/listings?amenities=wifi&amenities=pool&city=Accra", "")

	m := QueryMap(c)

	assert.Equal(t, []string{"wifi", "pool"}, m["amenities"])
	assert.Equal(t, "Accra", m["city"])
}

func TestQueryString_RejectsRepeatedKey(t *testing.T) {
	c := testContext(t, "GET", "/bookings?status=confirmed&status=pending", "")
	m := QueryMap(c)

	// An array where a single enum string is expected is a schema
	// violation, not a silent first-value pick.
	_, err := QueryString(m, "status")
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeValidation, err.Code)

	s, err := QueryString(m, "missing")
	assert.Nil(t, err)
	assert.Equal(t, "", s)
}

func TestQueryInt(t *testing.T) {
	c := testContext(t, "GET", "/bookings?page=3&limit=abc", "")
	m := QueryMap(c)

	page, err := QueryInt(m, "page", 1)
	assert.Nil(t, err)
	assert.Equal(t, 3, page)

	def, err := QueryInt(m, "absent", 20)
	assert.Nil(t, err)
	assert.Equal(t, 20, def)

	_, err = QueryInt(m, "limit", 20)
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeValidation, err.Code)
}

func TestDateRange(t *testing.T) {
	start, end, err := DateRange("2025-03-01", "2025-03-05")
	assert.Nil(t, err)
	assert.True(t, end.After(start))

	// Equal dates fail the strict comparison.
	_, _, err = DateRange("2025-03-01", "2025-03-01")
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeInvalidDateRange, err.Code)

	_, _, err = DateRange("2025-03-05", "2025-03-01")
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeInvalidDateRange, err.Code)

	// Both bounds must parse before any comparison happens.
	_, _, err = DateRange("not-a-date", "2025-03-01")
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeValidation, err.Code)

	_, _, err = DateRange("2025-03-01", "later")
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeValidation, err.Code)

	// RFC3339 timestamps are accepted too.
	_, _, err = DateRange("2025-03-01T10:00:00Z", "2025-03-01T12:00:00Z")
	assert.Nil(t, err)
}

func TestEnum(t *testing.T) {
	allowed := []string{"pending", "confirmed"}

	assert.Nil(t, Enum("pending", allowed, "status"))

	err := Enum("shipped", allowed, "status")
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeValidation, err.Code)
	assert.Equal(t, "status", err.Field)
}

func TestUUIDParam(t *testing.T) {
	assert.Nil(t, UUIDParam("9f3a6a0a-3d2e-4f7b-8a11-6f58a0c2b901", "id"))

	err := UUIDParam("123", "id")
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeValidation, err.Code)
	assert.Equal(t, "id", err.Field)
}

type sampleBody struct {
	Name   string `json:"name" validate:"required"`
	Guests int    `json:"guests" validate:"required,gte=1"`
}

func TestBody_MalformedJSON(t *testing.T) {
	c := testContext(t, "POST", "/bookings", `{"name": `)

	var dst sampleBody
	err := Body(c, &dst)
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeInvalidJSON, err.Code)
}

func TestBody_EmptyBody(t *testing.T) {
	c := testContext(t, "POST", "/bookings", "")

	var dst sampleBody
	err := Body(c, &dst)
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeInvalidJSON, err.Code)
}

func TestBody_SchemaViolationListsEveryField(t *testing.T) {
	c := testContext(t, "POST", "/bookings", `{"guests": 0}`)

	var dst sampleBody
	err := Body(c, &dst)
	assert.NotNil(t, err)
	assert.Equal(t, apperror.CodeValidation, err.Code)

	issues, ok := err.Details.([]apperror.FieldIssue)
	assert.True(t, ok)
	assert.Len(t, issues, 2)

	paths := []string{issues[0].Path, issues[1].Path}
	assert.Contains(t, paths, "Name")
	assert.Contains(t, paths, "Guests")
}

func TestBody_Valid(t *testing.T) {
	c := testContext(t, "POST", "/bookings", `{"name": "Ama", "guests": 2}`)

	var dst sampleBody
	assert.Nil(t, Body(c, &dst))
	assert.Equal(t, "Ama", dst.Name)
	assert.Equal(t, 2, dst.Guests)
}
