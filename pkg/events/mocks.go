package events

import (
	"context"
	"sync"
)

// NoOpPublisher is a publisher that does nothing. Used when no event transport
// is configured.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, message Message) error {
	return nil
}

// RecordingPublisher captures every published message for assertions in tests.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []Message
}

// Publish records the message.
func (p *RecordingPublisher) Publish(ctx context.Context, message Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	return nil
}

// Messages returns a copy of everything published so far.
func (p *RecordingPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

// ByType returns the captured messages of one event type.
func (p *RecordingPublisher) ByType(t EventType) []Message {
	var out []Message
	for _, m := range p.Messages() {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}
