package events

import (
	"context"
	"log/slog"
	"sync"
)

// MockPublisher records published events for tests.
type MockPublisher struct {
	mu     sync.Mutex
	logger *slog.Logger

	Reviewed []DocumentReviewedEvent
}

func NewMockPublisher(logger *slog.Logger) *MockPublisher {
	return &MockPublisher{logger: logger}
}

func (m *MockPublisher) PublishDocumentReviewed(_ context.Context, event DocumentReviewedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reviewed = append(m.Reviewed, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// Published returns a copy of the recorded review events.
func (m *MockPublisher) Published() []DocumentReviewedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DocumentReviewedEvent, len(m.Reviewed))
	copy(out, m.Reviewed)
	return out
}
