package httphandler

import (
	"errors"
	"time"
)

// timeFormat is the timestamp format used in API responses.
const timeFormat = time.RFC3339

// Query parameter validation errors.
var (
	errInvalidCreatedBy = errors.New("invalid created_by format")
	errInvalidOffset    = errors.New("invalid offset parameter")
	errInvalidLimit     = errors.New("invalid limit parameter")
)
