package realtime

import (
	"fmt"
	"strings"
)

// Filters are comma-joined key=value conditions; the hub treats the
// comma as AND. Builders only emit the conditions that are set.

type BookingChanges struct {
	UserID      string
	BookingType string
	Status      string
}

func (f BookingChanges) Filter() string {
	parts := make([]string, 0, 3)
	if f.UserID != "" {
		parts = append(parts, "user_id="+f.UserID)
	}
	if f.BookingType != "" {
		parts = append(parts, "booking_type="+f.BookingType)
	}
	if f.Status != "" {
		parts = append(parts, "status="+f.Status)
	}
	return strings.Join(parts, ",")
}

type SafetyChanges struct {
	UserID string
}

func (f SafetyChanges) Filter() string {
	if f.UserID == "" {
		return ""
	}
	return "user_id=" + f.UserID
}

// matchFilter checks every key=value condition against the record.
// Missing keys and malformed conditions fail closed.
func matchFilter(fields map[string]any, filter string) bool {
	if filter == "" {
		return true
	}
	for _, cond := range strings.Split(filter, ",") {
		key, want, ok := strings.Cut(cond, "=")
		if !ok {
			return false
		}
		got, present := fields[key]
		if !present || fmt.Sprint(got) != want {
			return false
		}
	}
	return true
}
