package models

import "time"

// Event categories, matching the event_category enum.
const (
	CategoryWorkshop  = "workshop"
	CategorySeminar   = "seminar"
	CategoryLomba     = "lomba"
	CategoryPelatihan = "pelatihan"
	CategoryLainnya   = "lainnya"
)

// Categories lists every valid event category.
var Categories = []string{CategoryWorkshop, CategorySeminar, CategoryLomba, CategoryPelatihan, CategoryLainnya}

// DateLayout is the wire and storage layout of Event.Date.
const DateLayout = "2006-01-02"

type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Date        string     `json:"date"`
	Time        *string    `json:"time"`
	Location    string     `json:"location"`
	Category    string     `json:"category"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// EventInput carries the writable event fields. Nil pointers mean "not
// provided": on update they keep the stored value.
type EventInput struct {
	Name        *string
	Date        *string
	Time        *string
	Location    *string
	Category    *string
	Description *string
}

// EventFilter narrows and pages an event listing.
type EventFilter struct {
	Location string
	Category string
	Search   string
	Page     int
	Limit    int
}

// EventPage is one page of an event listing.
type EventPage struct {
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Items []*Event `json:"items"`
}
