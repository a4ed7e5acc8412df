package eventsource

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a load failed.
type ErrorKind int

const (
	FetchFailure ErrorKind = iota + 1 // non-success status or transport error
	ParseFailure                      // malformed JSON, NDJSON line or protobuf body
	EmptyPayload                      // parsed fine but held zero events
)

// Sentinels for errors.Is matching on the failure kind.
var (
	ErrFetch = errors.New("fetch failure")
	ErrParse = errors.New("parse failure")
	ErrEmpty = errors.New("no events found in payload")
)

func (k ErrorKind) String() string {
	switch k {
	case FetchFailure:
		return "fetch"
	case ParseFailure:
		return "parse"
	case EmptyPayload:
		return "empty"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case FetchFailure:
		return ErrFetch
	case ParseFailure:
		return ErrParse
	default:
		return ErrEmpty
	}
}

// LoadError is returned for every failed load.
type LoadError struct {
	Kind   ErrorKind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func fetchErr(source string, err error) *LoadError {
	return &LoadError{Kind: FetchFailure, Source: source, Err: err}
}

func parseErr(source string, err error) *LoadError {
	return &LoadError{Kind: ParseFailure, Source: source, Err: err}
}

func emptyErr(source string) *LoadError {
	return &LoadError{Kind: EmptyPayload, Source: source}
}
