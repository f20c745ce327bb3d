package models

import "errors"

// ErrorKind classifies itinerary failures for callers
type ErrorKind string

const (
	KindInvalidCoordinate   ErrorKind = "InvalidCoordinate"
	KindLocationNotResolved ErrorKind = "LocationNotResolved"
	KindStationFetchFailed  ErrorKind = "StationFetchFailed"
	KindRouteUnavailable    ErrorKind = "RouteUnavailable"
	KindUpstreamUnreachable ErrorKind = "UpstreamUnreachable"
	KindUnexpected          ErrorKind = "Unexpected"
)

// Error is a classified failure with a user-facing message
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError builds an Error wrapping err (which may be nil)
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Classify returns err unchanged if it already carries a kind,
// otherwise wraps it with the given kind and message.
func Classify(err error, kind ErrorKind, message string) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != "" {
		return err
	}
	return NewError(kind, message, err)
}
