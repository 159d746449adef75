package models

import (
	"encoding/json"
	"time"
)

// SyncOperation is the kind of mutation a queue item propagates.
type SyncOperation string

const (
	SyncOpCreate SyncOperation = "create"
	SyncOpUpdate SyncOperation = "update"
	SyncOpDelete SyncOperation = "delete"
)

// EntityType names the collection a queue item refers to.
type EntityType string

const (
	EntityTrail         EntityType = "trail"
	EntityPOI           EntityType = "poi"
	EntityBrochureSetup EntityType = "brochure_setup"
)

// SyncQueueItem is one append-only outbound work record. SyncedAt nil means
// the item is still pending; once set it is immutable except through the
// abandonment path.
type SyncQueueItem struct {
	ID         string
	Operation  SyncOperation
	EntityType EntityType
	EntityID   string
	Payload    string
	CreatedAt  time.Time
	SyncedAt   *time.Time
	Attempts   int
}

// Pending reports whether the item still awaits propagation.
func (i *SyncQueueItem) Pending() bool {
	return i.SyncedAt == nil || i.SyncedAt.IsZero()
}

// Abandoned reports whether the item was given up on after exhausting its
// retry budget.
func (i *SyncQueueItem) Abandoned() bool {
	if i.Payload == "" {
		return false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(i.Payload), &m); err != nil {
		return false
	}
	flag, _ := m["_abandoned"].(bool)
	return flag
}

// AbandonPayload flags a payload as abandoned, preserving existing payload
// fields and the last error seen.
func AbandonPayload(payload, lastError string) string {
	m := map[string]any{}
	if payload != "" {
		// Existing payload is opaque context; keep whatever parses.
		_ = json.Unmarshal([]byte(payload), &m)
	}
	m["_abandoned"] = true
	m["_lastError"] = lastError
	b, err := json.Marshal(m)
	if err != nil {
		return `{"_abandoned":true}`
	}
	return string(b)
}
