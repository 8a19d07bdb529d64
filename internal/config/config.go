// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "time"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MarkerLabel is the literal that announces an item in uploaded
	// documents, e.g. "Question" matches "Question 1:".
	MarkerLabel string `koanf:"marker_label"`

	// MaxUploadBytes caps the size of a single multipart upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// JobBufferSize bounds each job's in-memory event channel.
	JobBufferSize int `koanf:"job_buffer_size"`

	// LLMBaseURL points at an OpenAI-compatible chat completions endpoint.
	LLMBaseURL string `koanf:"llm_base_url"`

	// LLMModel names the model used for grading.
	LLMModel string `koanf:"llm_model"`

	// LLMAPIKey authenticates against the scoring endpoint. Optional for
	// local gateways.
	LLMAPIKey string `koanf:"llm_api_key"`

	// LLMTimeoutSeconds bounds a single scoring call.
	LLMTimeoutSeconds int `koanf:"llm_timeout_seconds"`

	// LLMTemperature controls grading determinism.
	LLMTemperature float64 `koanf:"llm_temperature"`
}

// Default configuration constants.
const (
	defaultMaxUploadBytes = 20 << 20 // 20 MiB per upload
	defaultJobBufferSize  = 256
	defaultLLMTimeout     = 120
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		MarkerLabel:       "Question",
		MaxUploadBytes:    defaultMaxUploadBytes,
		JobBufferSize:     defaultJobBufferSize,
		LLMBaseURL:        "https://api.openai.com/v1",
		LLMModel:          "gpt-4o-mini",
		LLMTimeoutSeconds: defaultLLMTimeout,
		LLMTemperature:    0.2,
	}
}

// LLMTimeout returns the scoring call timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}
