package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownResource      = errors.New("unknown resource")
	ErrNoMatchingUnit       = errors.New("no unit in the requested state")
	ErrRefreshDenied        = errors.New("refresh denied: a waitlisted request is waiting on this station")
	ErrAdmissionNotReady    = errors.New("request is not ready to be checked out")
	ErrSessionNotFound      = errors.New("session not found")
	ErrEntryNotFound        = errors.New("waitlist entry not found")
	ErrSessionClosed        = errors.New("session is closed")
	ErrBannerActive         = errors.New("banner already has an active session")
	ErrEquipmentNotAccepted = errors.New("equipment is not accepted by station")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInvalidInventory     = errors.New("invalid inventory")
)

// RequestFailure reports a resource accounting step that could not be
// applied. It wraps the underlying cause, usually ErrNoMatchingUnit or
// ErrUnknownResource.
type RequestFailure struct {
	Op       string
	Kind     ResourceKind
	Resource string
	Err      error
}

func NewRequestFailure(op string, kind ResourceKind, resource string, err error) *RequestFailure {
	return &RequestFailure{Op: op, Kind: kind, Resource: resource, Err: err}
}

func (e *RequestFailure) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("request failure: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("request failure: %s %s %q: %v", e.Op, e.Kind, e.Resource, e.Err)
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}
