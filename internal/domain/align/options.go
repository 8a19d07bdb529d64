package align

import "github.com/okian/viva/pkg/logger"

// Option applies a configuration option to the Aligner.
type Option func(*Aligner)

// WithLogger sets a custom logger for the aligner.
func WithLogger(l logger.Logger) Option {
	return func(a *Aligner) {
		if l != nil {
			a.logger = l
		}
	}
}
