// Package stream carries assessment events from a running job to its
// subscribers through per-job bounded channels.
//
// Publishing never blocks the producing job: when a channel is full the
// oldest buffered event is dropped so the terminal done event can
// always land.
package stream

import (
	"sync"

	"github.com/okian/viva/internal/domain/model"
	"github.com/okian/viva/pkg/metrics"
)

// Default channel configuration constants.
const defaultBufferSize = 256

// Event represents the payload type flowing through a channel.
// Using the model.Event type for type safety.
type Event = model.Event

// Channel is the bounded event stream for one job.
type Channel struct {
	events chan Event

	mu       sync.Mutex
	finished bool
}

func newChannel(bufferSize int) *Channel {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Channel{events: make(chan Event, bufferSize)}
}

// Publish delivers an event to the channel without ever blocking. When
// the buffer is full the oldest event is dropped to make room. Returns
// false once the channel has been finished.
func (c *Channel) Publish(e Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finished {
		return false
	}

	for {
		select {
		case c.events <- e:
			metrics.RecordEventPublished(string(e.Type))
			return true
		default:
		}
		select {
		case <-c.events:
			metrics.RecordEventDropped()
		default:
		}
	}
}

// Finish marks the stream complete. Buffered events stay readable;
// Events() is closed once they drain. Safe to call more than once.
func (c *Channel) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finished {
		return
	}
	c.finished = true
	close(c.events)
}

// Finished reports whether the producing job has finished the stream.
func (c *Channel) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

// Events returns the receive side of the stream. The channel is closed
// after Finish once all buffered events are consumed.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Len returns the current number of buffered events.
func (c *Channel) Len() int {
	return len(c.events)
}
