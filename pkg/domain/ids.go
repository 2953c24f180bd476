// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strconv"

	dErrors "tracker-gateway/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a ProjectID where a
// ResourceID is expected. All Teamdeck identifiers are unsigned 64-bit
// integers on the wire.
type (
	ResourceID  uint64
	ProjectID   uint64
	TimeEntryID uint64
	TagID       uint64
)

// Parse functions - use at trust boundaries (handlers, URL params).

func ParseResourceID(s string) (ResourceID, error) {
	v, err := parseUint(s, "resource ID")
	return ResourceID(v), err
}

func ParseProjectID(s string) (ProjectID, error) {
	v, err := parseUint(s, "project ID")
	return ProjectID(v), err
}

func ParseTimeEntryID(s string) (TimeEntryID, error) {
	v, err := parseUint(s, "time entry ID")
	return TimeEntryID(v), err
}

func ParseTagID(s string) (TagID, error) {
	v, err := parseUint(s, "tag ID")
	return TagID(v), err
}

// String methods - for logging and URL building.

func (id ResourceID) String() string  { return strconv.FormatUint(uint64(id), 10) }
func (id ProjectID) String() string   { return strconv.FormatUint(uint64(id), 10) }
func (id TimeEntryID) String() string { return strconv.FormatUint(uint64(id), 10) }
func (id TagID) String() string       { return strconv.FormatUint(uint64(id), 10) }

// IsZero checks - used for service-layer validation.

func (id ResourceID) IsZero() bool  { return id == 0 }
func (id ProjectID) IsZero() bool   { return id == 0 }
func (id TimeEntryID) IsZero() bool { return id == 0 }
func (id TagID) IsZero() bool       { return id == 0 }

// parseUint is the shared validation logic.
func parseUint(s, label string) (uint64, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return v, nil
}
