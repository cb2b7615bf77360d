package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindValidation
	KindConflict
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	default:
		return "transport"
	}
}

// APIError is every failure the booking client reports.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Messages   []string
	Required   []string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error (%d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the person booking.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindConflict:
		return "This time is no longer available. Please pick another slot."
	case KindNotFound:
		return "Appointment not found."
	case KindValidation:
		if len(e.Messages) > 0 {
			return strings.Join(e.Messages, "; ")
		}
		if e.Message != "" {
			return e.Message
		}
		return "Please check the form and try again."
	default:
		return "Service temporarily unavailable, please try again."
	}
}

// UserMessage returns the display text for any error from this package.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsConflict reports whether err means the slot was taken.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindConflict
}
