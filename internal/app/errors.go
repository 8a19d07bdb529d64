package service

import "errors"

// ErrNotStarted is returned when an assessment is requested before the
// service components are initialized.
var ErrNotStarted = errors.New("service not started")
