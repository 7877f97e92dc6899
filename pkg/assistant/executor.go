package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsyssauw/flightai/internal/log"
	"github.com/jsyssauw/flightai/pkg/calendar"
	"github.com/jsyssauw/flightai/pkg/fares"
	"github.com/jsyssauw/flightai/pkg/inference"
)

// Executor dispatches validated tool calls to domain actions.
type Executor struct {
	catalog   *Catalog
	fares     *fares.PriceBook
	scheduler calendar.Scheduler
	attendees []string
	logger    *slog.Logger
}

// Outcome is the result of executing one tool call. Content always
// carries the tool turn payload; Err records recoverable failures
// (malformed arguments, invalid fields, booking failure) that were
// folded into Content for the model to react to.
type Outcome struct {
	Kind    ToolKind
	Content string
	Booked  bool
	City    string
	Err     error
}

// NewExecutor creates a tool executor.
func NewExecutor(catalog *Catalog, book *fares.PriceBook, scheduler calendar.Scheduler, attendees []string) *Executor {
	return &Executor{
		catalog:   catalog,
		fares:     book,
		scheduler: scheduler,
		attendees: attendees,
		logger:    log.L().With("component", "assistant.executor"),
	}
}

// Execute runs one tool call. The returned error is non-nil only for
// protocol violations (unknown tool); every other failure is
// recoverable and reported through the Outcome so the round continues.
func (e *Executor) Execute(ctx context.Context, call inference.ToolCall) (*Outcome, error) {
	kind, err := e.catalog.Lookup(call.Name)
	if err != nil {
		e.logger.Warn("undeclared tool requested",
			"tool", call.Name,
			"call_id", call.ID,
		)
		return nil, err
	}

	switch kind {
	case ToolGetTicketPrice:
		return e.lookupPrice(call), nil
	case ToolBookFlight:
		return e.bookFlight(ctx, call), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
	}
}

// priceArgs are the declared arguments of get_ticket_price.
type priceArgs struct {
	DestinationCity string `json:"destination_city"`
}

// lookupPrice answers a ticket price query. An unlisted destination is
// data, not an error: the payload reports the Unknown sentinel.
func (e *Executor) lookupPrice(call inference.ToolCall) *Outcome {
	outcome := &Outcome{Kind: ToolGetTicketPrice}

	var args priceArgs
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrMalformedArguments, err)
		outcome.Content = errorPayload("malformed tool arguments", err.Error())
		return outcome
	}

	city := strings.TrimSpace(args.DestinationCity)
	if city == "" {
		outcome.Err = fmt.Errorf("%w: destination_city must not be empty", ErrInvalidArgument)
		outcome.Content = errorPayload("invalid argument", "destination_city must not be empty")
		return outcome
	}

	price := e.fares.Lookup(city)
	outcome.City = city
	outcome.Content = mustJSON(map[string]string{
		"destination_city": strings.ToLower(city),
		"price":            price,
	})

	e.logger.Info("price lookup",
		"destination", strings.ToLower(city),
		"price", price,
	)
	return outcome
}

// bookingArgs are the declared arguments of book_flight.
type bookingArgs struct {
	DestinationCity string `json:"destination_city"`
	TravelDate      string `json:"travel_date"`
}

// bookFlight creates a calendar event for the trip. Collaborator
// failures become a booking_failed payload the model can relay.
func (e *Executor) bookFlight(ctx context.Context, call inference.ToolCall) *Outcome {
	outcome := &Outcome{Kind: ToolBookFlight}

	var args bookingArgs
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrMalformedArguments, err)
		outcome.Content = errorPayload("malformed tool arguments", err.Error())
		return outcome
	}

	city := strings.TrimSpace(args.DestinationCity)
	if city == "" {
		outcome.Err = fmt.Errorf("%w: destination_city must not be empty", ErrInvalidArgument)
		outcome.Content = errorPayload("invalid argument", "destination_city must not be empty")
		return outcome
	}
	outcome.City = city

	event, err := calendar.NewTripEvent(city, args.TravelDate, e.attendees)
	if err != nil {
		outcome.Err = fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		outcome.Content = errorPayload("invalid argument", "travel_date must be in YYYY-MM-DD format")
		return outcome
	}

	created, err := e.scheduler.CreateEvent(ctx, event)
	if err != nil {
		e.logger.Warn("booking failed",
			"destination", city,
			"travel_date", args.TravelDate,
			"error", err,
		)
		outcome.Err = fmt.Errorf("%w: %v", ErrBookingFailed, err)
		outcome.Content = errorPayload("booking_failed", err.Error())
		return outcome
	}

	outcome.Booked = true
	outcome.Content = mustJSON(map[string]string{
		"destination_city": city,
		"travel_date":      args.TravelDate,
		"status":           "confirmed",
	})

	e.logger.Info("flight booked",
		"destination", city,
		"travel_date", args.TravelDate,
		"event_id", created.ID,
	)
	return outcome
}

// errorPayload formats a recoverable failure as a tool turn payload.
func errorPayload(kind, detail string) string {
	return mustJSON(map[string]string{
		"error":  kind,
		"detail": detail,
	})
}

// mustJSON marshals a payload that cannot fail (flat string maps).
func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":"encode payload: %v"}`, err)
	}
	return string(data)
}
