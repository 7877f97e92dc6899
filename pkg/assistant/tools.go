package assistant

import (
	"fmt"

	"github.com/jsyssauw/flightai/pkg/inference"
)

// ToolKind identifies a declared tool.
type ToolKind int

const (
	ToolGetTicketPrice ToolKind = iota
	ToolBookFlight
)

// String returns the wire name of the tool.
func (k ToolKind) String() string {
	switch k {
	case ToolGetTicketPrice:
		return "get_ticket_price"
	case ToolBookFlight:
		return "book_flight"
	default:
		return fmt.Sprintf("ToolKind(%d)", int(k))
	}
}

// Catalog declares the tools the model may request. Immutable after
// construction.
type Catalog struct {
	definitions []inference.Tool
	kinds       map[string]ToolKind
}

// NewCatalog builds the standard FlightAI tool catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		definitions: []inference.Tool{
			inference.NewTool(
				ToolGetTicketPrice.String(),
				"Get the price of a return ticket to the destination city. "+
					"Call this whenever you need to know the ticket price, "+
					"for example when a customer asks 'How much is a ticket to this city'.",
				map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"destination_city": map[string]interface{}{
							"type":        "string",
							"description": "The city that the customer wants to travel to",
						},
					},
					"required":             []string{"destination_city"},
					"additionalProperties": false,
				},
			),
			inference.NewTool(
				ToolBookFlight.String(),
				"Book a flight to the destination city on the given date. "+
					"Call this when the customer confirms they want to book, "+
					"after they have been quoted a price.",
				map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"destination_city": map[string]interface{}{
							"type":        "string",
							"description": "The city that the customer wants to travel to",
						},
						"travel_date": map[string]interface{}{
							"type":        "string",
							"description": "The travel date in YYYY-MM-DD format",
						},
					},
					"required":             []string{"destination_city", "travel_date"},
					"additionalProperties": false,
				},
			),
		},
		kinds: map[string]ToolKind{
			ToolGetTicketPrice.String(): ToolGetTicketPrice,
			ToolBookFlight.String():     ToolBookFlight,
		},
	}
}

// Definitions returns the tool definitions to advertise to the model.
func (c *Catalog) Definitions() []inference.Tool {
	return c.definitions
}

// Lookup resolves a tool name to its kind.
func (c *Catalog) Lookup(name string) (ToolKind, error) {
	kind, ok := c.kinds[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return kind, nil
}
