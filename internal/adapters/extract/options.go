package extract

import "github.com/okian/viva/pkg/logger"

// Option applies a configuration option to the DocumentExtractor.
type Option func(*DocumentExtractor)

// WithLogger sets the logger used for extraction warnings.
func WithLogger(l logger.Logger) Option {
	return func(e *DocumentExtractor) {
		if l != nil {
			e.log = l
		}
	}
}
