package models

import "time"

// Registration statuses, matching the registration_status enum.
const (
	StatusRegistered = "registered"
	StatusCancelled  = "cancelled"
)

// Registration links one account to one event.
type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status"`
}

// EventRegistration is a registration as listed for an event: enriched with
// the participant's display fields.
type EventRegistration struct {
	Registration
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// UserRegistration is a registration as listed for an account: enriched with
// the event's display fields.
type UserRegistration struct {
	Registration
	EventName string  `json:"event_name"`
	Date      string  `json:"date"`
	Time      *string `json:"time"`
	Location  string  `json:"location"`
	Category  string  `json:"category"`
}
