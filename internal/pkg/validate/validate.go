package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"homebound/internal/pkg/apperror"
)

var validate = validator.New()

// Struct runs tag validation and returns one issue per failing field.
func Struct(v any) []apperror.FieldIssue {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperror.FieldIssue{{Path: "", Message: err.Error(), Code: "invalid"}}
	}

	issues := make([]apperror.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperror.FieldIssue{
			Path:    fieldPath(fe),
			Message: issueMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return issues
}

// Body decodes the JSON body into dst and validates it. Malformed JSON
// and schema violations produce distinct codes; this never panics.
func Body(c *gin.Context, dst any) *apperror.Error {
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil {
		if err == io.EOF {
			return apperror.New(apperror.CodeInvalidJSON, "Request body is empty")
		}
		return apperror.New(apperror.CodeInvalidJSON, "Request body is not valid JSON")
	}
	if issues := Struct(dst); len(issues) > 0 {
		return apperror.Validation(issues)
	}
	return nil
}

// QueryMap converts the raw query string to a plain object, coalescing
// repeated keys into arrays: ?amenities=wifi&amenities=pool yields
// amenities: ["wifi","pool"].
func QueryMap(c *gin.Context) map[string]any {
	out := make(map[string]any)
	for key, values := range c.Request.URL.Query() {
		if len(values) == 1 {
			out[key] = values[0]
		} else {
			out[key] = values
		}
	}
	return out
}

// QueryString extracts a single-valued key from a QueryMap result. A
// repeated key is an array where a string was expected, which is a
// schema violation rather than a silent first-value pick.
func QueryString(m map[string]any, key string) (string, *apperror.Error) {
	v, ok := m[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", apperror.Validation([]apperror.FieldIssue{{
			Path:    key,
			Message: "expected a single value",
			Code:    "single",
		}})
	}
	return s, nil
}

// QueryInt parses an optional positive integer, falling back to def
// when the key is absent.
func QueryInt(m map[string]any, key string, def int) (int, *apperror.Error) {
	s, err := QueryString(m, key)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	n, convErr := strconv.Atoi(s)
	if convErr != nil || n < 1 {
		return 0, apperror.Validation([]apperror.FieldIssue{{
			Path:    key,
			Message: "must be a positive integer",
			Code:    "gte",
		}})
	}
	return n, nil
}

// UUIDParam guards a path parameter that must be a UUID.
func UUIDParam(value, name string) *apperror.Error {
	if _, err := uuid.Parse(value); err != nil {
		return apperror.New(apperror.CodeValidation, fmt.Sprintf("%s must be a valid UUID", name)).WithField(name)
	}
	return nil
}

// DateRange parses both bounds and requires end strictly after start.
func DateRange(start, end string) (time.Time, time.Time, *apperror.Error) {
	startT, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.New(apperror.CodeValidation, "start date is not a valid date").WithField("start_date")
	}
	endT, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.New(apperror.CodeValidation, "end date is not a valid date").WithField("end_date")
	}
	if !endT.After(startT) {
		return time.Time{}, time.Time{}, apperror.New(apperror.CodeInvalidDateRange, "end date must be after start date")
	}
	return startT, endT, nil
}

// Enum guards a value against an allowed set.
func Enum(value string, allowed []string, field string) *apperror.Error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	msg := fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))
	return apperror.New(apperror.CodeValidation, msg).WithField(field)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func fieldPath(fe validator.FieldError) string {
	// StructNamespace is Type.Field[.Nested]; drop the type prefix.
	ns := fe.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	default:
		return "failed validation rule " + fe.Tag()
	}
}
