package stream

import "sync"

// Registry tracks the event channel for every known job. Channels stay
// registered after their job finishes so late subscribers can still
// drain the buffered tail; the transport removes them once drained.
type Registry struct {
	mu         sync.RWMutex
	channels   map[string]*Channel
	bufferSize int
}

// NewRegistry creates a registry with configuration options.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		channels:   make(map[string]*Channel),
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the channel for a job, creating it on first use.
func (r *Registry) GetOrCreate(jobID string) *Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.channels[jobID]; ok {
		return c
	}
	c := newChannel(r.bufferSize)
	r.channels[jobID] = c
	return c
}

// Lookup returns the channel for a job if one exists.
func (r *Registry) Lookup(jobID string) (*Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.channels[jobID]
	return c, ok
}

// Remove drops a job's channel from the registry.
func (r *Registry) Remove(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, jobID)
}

// Len returns the number of registered jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
