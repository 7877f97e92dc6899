package calendar

import (
	"context"
	"sync"
)

// Mock implements Scheduler for testing.
type Mock struct {
	// CreateEventFunc is called when CreateEvent is invoked.
	CreateEventFunc func(ctx context.Context, event *Event) (*CreatedEvent, error)

	mu     sync.Mutex
	events []*Event
}

// NewMock creates a mock scheduler that accepts every event.
func NewMock() *Mock {
	return &Mock{
		CreateEventFunc: func(ctx context.Context, event *Event) (*CreatedEvent, error) {
			return &CreatedEvent{ID: "mock-event"}, nil
		},
	}
}

// WithError returns a mock whose CreateEvent always fails with err.
func WithError(err error) *Mock {
	return &Mock{
		CreateEventFunc: func(ctx context.Context, event *Event) (*CreatedEvent, error) {
			return nil, err
		},
	}
}

// CreateEvent records the event and calls CreateEventFunc.
func (m *Mock) CreateEvent(ctx context.Context, event *Event) (*CreatedEvent, error) {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, event)
	}
	return &CreatedEvent{ID: "mock-event"}, nil
}

// Events returns all recorded events in order.
func (m *Mock) Events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*Event, len(m.events))
	copy(result, m.events)
	return result
}

var _ Scheduler = (*Mock)(nil)
