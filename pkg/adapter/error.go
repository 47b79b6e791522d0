package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// AdapterError is a failed provider call. Status is the HTTP status the
// provider answered with, zero when the request never got a response.
type AdapterError struct {
	Provider  string
	Status    int
	Temporary bool
	Err       error
}

func newAdapterError(provider string, status int, err error) *AdapterError {
	return &AdapterError{Provider: provider, Status: status, Err: err}
}

func (e *AdapterError) Error() string {
	if e == nil {
		return "adapter error"
	}
	provider := e.Provider
	if provider == "" {
		provider = "adapter"
	}
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", provider, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", provider, e.Err)
	}
	return fmt.Sprintf("%s: status %d %s", provider, e.Status, http.StatusText(e.Status))
}

func (e *AdapterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Transient reports whether resubmitting the same stage may succeed.
func (e *AdapterError) Transient() bool {
	if e == nil {
		return false
	}
	return e.Temporary || e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError && e.Status <= 599
}

// IsTransient reports whether an error is likely to go away if the run is
// submitted again. Nothing in this module retries on its own.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var adapterErr *AdapterError
	return errors.As(err, &adapterErr) && adapterErr.Transient()
}
