package teamdeck

import (
	"encoding/json"
	"fmt"
	"time"

	"tracker-gateway/pkg/domain"
)

// DateFormat is the wire format Teamdeck uses for calendar dates.
const DateFormat = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD wire format.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// Today returns the current UTC calendar day.
func Today() Date {
	return Date{Time: time.Now().UTC().Truncate(24 * time.Hour)}
}

func (d Date) String() string {
	return d.Format(DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IntBool handles boolean fields Teamdeck serializes as 0/1.
type IntBool bool

func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0", "false":
		*b = false
	case "1", "true":
		*b = true
	default:
		return fmt.Errorf("expected zero or one, got %s", data)
	}
	return nil
}

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Resource is a Teamdeck account record. Its ID is the identity the whole
// protected API surface is keyed on.
type Resource struct {
	ID     domain.ResourceID `json:"id"`
	Name   string            `json:"name"`
	Active bool              `json:"active"`
	Avatar *string           `json:"avatar"`
	Email  string            `json:"email"`
	Role   string            `json:"role"`
}

type Project struct {
	ID       domain.ProjectID `json:"id"`
	Name     string           `json:"name"`
	Color    string           `json:"color"`
	Archived bool             `json:"archived"`
}

type TimeEntryTag struct {
	ID       domain.TagID `json:"id"`
	Name     string       `json:"name"`
	Icon     *string      `json:"icon"`
	Color    *string      `json:"color"`
	Archived IntBool      `json:"archived"`
}

type TimeEntry struct {
	ID                domain.TimeEntryID `json:"id"`
	ResourceID        domain.ResourceID  `json:"resource_id"`
	ProjectID         domain.ProjectID   `json:"project_id"`
	Minutes           uint64             `json:"minutes"`
	WeekendBooking    bool               `json:"weekend_booking"`
	HolidaysBooking   bool               `json:"holidays_booking"`
	VacationsBooking  bool               `json:"vacations_booking"`
	Description       *string            `json:"description"`
	ExternalID        *string            `json:"external_id"`
	StartDate         Date               `json:"start_date"`
	EndDate           Date               `json:"end_date"`
	CreatorResourceID *domain.ResourceID `json:"creator_resource_id"`
	EditorResourceID  *domain.ResourceID `json:"editor_resource_id"`
	Tags              []TimeEntryTag     `json:"tags,omitempty"`
}

// CreateTimeEntryRequest is the body for creating a time entry. Creator and
// editor are always the authenticated resource.
type CreateTimeEntryRequest struct {
	ResourceID        domain.ResourceID `json:"resource_id"`
	ProjectID         domain.ProjectID  `json:"project_id"`
	Minutes           uint64            `json:"minutes"`
	WeekendBooking    *bool             `json:"weekend_booking,omitempty"`
	HolidaysBooking   *bool             `json:"holidays_booking,omitempty"`
	VacationsBooking  *bool             `json:"vacations_booking,omitempty"`
	Description       *string           `json:"description,omitempty"`
	StartDate         Date              `json:"start_date"`
	EndDate           Date              `json:"end_date"`
	CreatorResourceID domain.ResourceID `json:"creator_resource_id"`
	EditorResourceID  domain.ResourceID `json:"editor_resource_id"`
}

// UpdateTimeEntryRequest is the body for updating an existing time entry.
type UpdateTimeEntryRequest struct {
	ProjectID        domain.ProjectID  `json:"project_id"`
	Minutes          uint64            `json:"minutes"`
	WeekendBooking   *bool             `json:"weekend_booking,omitempty"`
	HolidaysBooking  *bool             `json:"holidays_booking,omitempty"`
	VacationsBooking *bool             `json:"vacations_booking,omitempty"`
	Description      *string           `json:"description,omitempty"`
	StartDate        Date              `json:"start_date"`
	EndDate          Date              `json:"end_date"`
	EditorResourceID domain.ResourceID `json:"editor_resource_id"`
}

// Timer is a running or finished stopwatch on a resource. Timestamps are
// Unix seconds; a nil EndedAt means the timer is still running.
type Timer struct {
	ID          uint64            `json:"id"`
	ResourceID  domain.ResourceID `json:"resource_id"`
	ProjectID   domain.ProjectID  `json:"project_id"`
	StartedAt   *uint64           `json:"started_at"`
	EndedAt     *uint64           `json:"ended_at"`
	Description *string           `json:"description"`
}

// Running reports whether the timer has not been stopped yet.
func (t *Timer) Running() bool {
	return t.EndedAt == nil
}

// PaginationInfo is read from the x-pagination-* response headers.
type PaginationInfo struct {
	TotalCount   uint64
	PagesCount   uint64
	CurrentPage  uint64
	ItemsPerPage uint64
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T
	Pagination PaginationInfo
}
