// Package calendar records confirmed bookings as calendar events.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Scheduler creates calendar events for confirmed bookings.
type Scheduler interface {
	// CreateEvent inserts an event and returns the created event.
	CreateEvent(ctx context.Context, event *Event) (*CreatedEvent, error)
}

// Event describes an event to create.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

// CreatedEvent is the result of a successful insert.
type CreatedEvent struct {
	ID       string
	HTMLLink string
}

// Unavailable is a Scheduler used when no calendar is configured.
// Every booking fails with a clear reason.
type Unavailable struct{}

// CreateEvent always fails.
func (Unavailable) CreateEvent(ctx context.Context, event *Event) (*CreatedEvent, error) {
	return nil, errors.New("calendar: not configured")
}

var _ Scheduler = Unavailable{}

// TravelDateLayout is the wire format for travel dates.
const TravelDateLayout = "2006-01-02"

// NewTripEvent builds the standard booking event for a destination:
// a one-hour block from 10:00 to 11:00 UTC on the travel date.
func NewTripEvent(city, travelDate string, attendees []string) (*Event, error) {
	day, err := time.ParseInLocation(TravelDateLayout, travelDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("calendar: parse travel date %q: %w", travelDate, err)
	}

	start := day.Add(10 * time.Hour)
	return &Event{
		Summary:     "Trip to " + city,
		Description: fmt.Sprintf("Flight booking to %s confirmed via FlightAI.", city),
		Start:       start,
		End:         start.Add(time.Hour),
		Attendees:   attendees,
	}, nil
}
