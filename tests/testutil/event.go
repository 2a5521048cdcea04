// Package testutil holds helpers shared by the integration suites.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
)

// RecordingHandler is a shared.EventHandler that keeps every event it
// receives.
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingHandler creates a handler subscribed to eventTypes
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

// EventTypes returns the event types this handler subscribes to.
func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records the event and returns the configured error
func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the recorded events
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]shared.DomainEvent, len(h.handled))
	copy(result, h.handled)
	return result
}

// Count returns how many recorded events have the given type
func (h *RecordingHandler) Count(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.handled {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// SetError makes subsequent Handle calls fail with err
func (h *RecordingHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// WaitForCondition polls condition until it holds or timeout elapses.
// It reports whether the condition was met.
func WaitForCondition(t *testing.T, condition func() bool, timeout, interval time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return condition()
}

// WaitForEventCount waits until the handler has recorded at least count
// events of eventType.
func WaitForEventCount(t *testing.T, handler *RecordingHandler, eventType string, count int, timeout time.Duration) bool {
	t.Helper()

	return WaitForCondition(t, func() bool {
		return handler.Count(eventType) >= count
	}, timeout, 10*time.Millisecond)
}
