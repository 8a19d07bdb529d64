package scoring

import "errors"

var (
	// ErrEmptyCompletion is returned when the endpoint answers without
	// any usable message content.
	ErrEmptyCompletion = errors.New("completion carried no content")
	// ErrMalformedGrade is returned when no JSON grade object can be
	// recovered from the completion.
	ErrMalformedGrade = errors.New("no grade object found in completion")
)
