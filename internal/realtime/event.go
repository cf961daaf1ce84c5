package realtime

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent is one row change pushed to subscribed clients, emitted
// by the service layer after a successful write.
type ChangeEvent struct {
	Type      EventType `json:"type"`
	Table     string    `json:"table"`
	Record    any       `json:"record,omitempty"`
	OldRecord any       `json:"old_record,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChange(t EventType, table string, record, oldRecord any) ChangeEvent {
	return ChangeEvent{
		Type:      t,
		Table:     table,
		Record:    record,
		OldRecord: oldRecord,
		Timestamp: time.Now().UTC(),
	}
}

// recordFields flattens the event record to a string-keyed map for
// filter matching. Delete events match on the old record.
func recordFields(evt ChangeEvent) map[string]any {
	rec := evt.Record
	if evt.Type == EventDelete && rec == nil {
		rec = evt.OldRecord
	}
	if rec == nil {
		return nil
	}
	if m, ok := rec.(map[string]any); ok {
		return m
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
