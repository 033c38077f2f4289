package feeds

import (
	"errors"
	"fmt"
)

var (
	// ErrUnusableRecord marks a game that cannot be placed on a calendar.
	ErrUnusableRecord = errors.New("unusable record")
	// ErrNoData marks a team whose schedule could not be fetched this run.
	ErrNoData = errors.New("no schedule data available")
)

// UnusableRecordError describes a game dropped from output because a required
// field could not be repaired.
type UnusableRecordError struct {
	SourceID string
	Field    string
	Value    string
}

func (e *UnusableRecordError) Error() string {
	id := e.SourceID
	if id == "" {
		id = "<no id>"
	}
	if e.Value == "" {
		return fmt.Sprintf("unusable record %s: missing %s", id, e.Field)
	}
	return fmt.Sprintf("unusable record %s: unparsable %s %q", id, e.Field, e.Value)
}

func (e *UnusableRecordError) Unwrap() error {
	return ErrUnusableRecord
}
