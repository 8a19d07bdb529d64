package scoring

import (
	"net/http"
	"time"

	"github.com/okian/viva/pkg/logger"
)

// Option applies a configuration option to the LLMScorer.
type Option func(*LLMScorer)

// WithBaseURL sets the OpenAI-compatible endpoint root.
func WithBaseURL(u string) Option {
	return func(s *LLMScorer) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithModel sets the completion model name.
func WithModel(m string) Option {
	return func(s *LLMScorer) {
		if m != "" {
			s.model = m
		}
	}
}

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(k string) Option {
	return func(s *LLMScorer) {
		s.apiKey = k
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(s *LLMScorer) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// WithTimeout sets the per-request timeout. Ignored when a custom HTTP
// client is supplied.
func WithTimeout(d time.Duration) Option {
	return func(s *LLMScorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *LLMScorer) {
		if c != nil {
			s.http = c
		}
	}
}

// WithLogger sets the logger used for degraded-grade warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *LLMScorer) {
		if l != nil {
			s.log = l
		}
	}
}
