package httpserver

import "errors"

var (
	errBadInterval = errors.New("interval_ms must be between 1 and 10000")
	errBadLoop     = errors.New("loop must be a boolean")
	errBadSource   = errors.New("source must be logs or network")
)
