package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultCategory is recorded when a session was saved without an
// explicit category.
const DefaultCategory = "General"

// Record is one persisted focus session, finished or partially saved.
// Records are immutable once appended to the store; the JSON field names
// are the on-disk format and must not change.
type Record struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	DurationSeconds  int       `json:"duration"`
	Category         string    `json:"category"`
	DistractionCount int       `json:"distractionCount"`
}

// NewRecord builds a record stamped at the given save instant.
// DurationSeconds is the focused time actually counted, not necessarily
// the configured session length.
func NewRecord(savedAt time.Time, durationSeconds int, category string, distractions int) Record {
	if category == "" {
		category = DefaultCategory
	}
	return Record{
		ID:               newRecordID(savedAt),
		Date:             savedAt,
		DurationSeconds:  durationSeconds,
		Category:         category,
		DistractionCount: distractions,
	}
}

// newRecordID returns an ID that is unique and sorts by save time,
// so ties between records saved in the same millisecond stay stable.
func newRecordID(savedAt time.Time) string {
	return fmt.Sprintf("%d-%s", savedAt.UnixMilli(), uuid.NewString()[:8])
}
