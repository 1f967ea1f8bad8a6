// Package events provides the in-process hub that fans applied flow
// transitions out to consumers, such as the websocket stream.
package events

import (
	"sync"
	"time"

	"github.com/cellworks/mesflow/pkg/api"
)

type (
	// TransitionEvent announces one applied transition
	TransitionEvent struct {
		FlowType   api.FlowType   `json:"flowType"`
		InstanceID api.InstanceID `json:"instanceId"`
		Action     api.Action     `json:"action"`
		Role       api.Role       `json:"actorRole"`
		From       api.State      `json:"fromState"`
		To         api.State      `json:"toState"`
		At         time.Time      `json:"timestamp"`
	}

	// Consumer receives published events over a buffered channel
	Consumer struct {
		hub  *Hub
		ch   chan TransitionEvent
		once sync.Once
	}

	// Hub fans transition events out to registered consumers. Publishing
	// never blocks; events are dropped for consumers whose buffer is full
	Hub struct {
		mu        sync.Mutex
		consumers map[*Consumer]struct{}
	}
)

const consumerBufferSize = 64

// NewHub creates an empty event hub
func NewHub() *Hub {
	return &Hub{
		consumers: map[*Consumer]struct{}{},
	}
}

// NewConsumer registers a consumer with the hub
func (h *Hub) NewConsumer() *Consumer {
	c := &Consumer{
		hub: h,
		ch:  make(chan TransitionEvent, consumerBufferSize),
	}
	h.mu.Lock()
	h.consumers[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Publish delivers an event to every registered consumer without blocking
func (h *Hub) Publish(ev TransitionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.consumers {
		select {
		case c.ch <- ev:
		default:
			// slow consumer, drop
		}
	}
}

// Receive returns the consumer's event channel. It is closed by Close
func (c *Consumer) Receive() <-chan TransitionEvent {
	return c.ch
}

// Close unregisters the consumer and closes its channel
func (c *Consumer) Close() {
	c.once.Do(func() {
		c.hub.mu.Lock()
		delete(c.hub.consumers, c)
		c.hub.mu.Unlock()
		close(c.ch)
	})
}
