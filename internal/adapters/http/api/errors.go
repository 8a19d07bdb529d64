package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest           = errors.New("bad request")
	ErrUploadTooLarge       = errors.New("upload too large")
	ErrJobNotFound          = errors.New("job not found")
	ErrStreamingUnsupported = errors.New("streaming unsupported")
)
