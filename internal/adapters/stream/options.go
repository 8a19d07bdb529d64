package stream

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithBufferSize sets the per-job event buffer capacity.
func WithBufferSize(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.bufferSize = n
		}
	}
}
