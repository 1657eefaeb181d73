// Package fetch describes the lifecycle of a single asynchronous data load
// and the errors that can end it.
package fetch

// Status identifies which variant a State holds
type Status int

const (
	// StatusNotFetching is the initial status, no request has been issued.
	StatusNotFetching Status = iota
	// StatusFetching means a request is in flight.
	StatusFetching
	// StatusSuccess means the last request produced a payload.
	StatusSuccess
	// StatusFailed means the last request produced an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusNotFetching:
		return "not-fetching"
	case StatusFetching:
		return "fetching"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the lifecycle of one data load. Exactly one variant is held at a
// time; the zero value is NotFetching. A Fetching state never retains the
// payload of an earlier load.
type State[T any] struct {
	status Status
	value  T
	err    *Error
}

// NotFetching returns the initial state
func NotFetching[T any]() State[T] {
	return State[T]{status: StatusNotFetching}
}

// Fetching returns the in-flight state
func Fetching[T any]() State[T] {
	return State[T]{status: StatusFetching}
}

// Success returns a state holding a decoded payload
func Success[T any](value T) State[T] {
	return State[T]{status: StatusSuccess, value: value}
}

// Failed returns a state holding the error of the most recent attempt.
// A nil error is recorded as an unknown transport failure so a Failed state
// always carries a diagnostic.
func Failed[T any](err *Error) State[T] {
	if err == nil {
		err = Transport(nil, "unknown failure")
	}
	return State[T]{status: StatusFailed, err: err}
}

// Status returns the held variant
func (s State[T]) Status() Status {
	return s.status
}

// Value returns the payload when the state is Success
func (s State[T]) Value() (T, bool) {
	if s.status != StatusSuccess {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Err returns the error when the state is Failed, nil otherwise
func (s State[T]) Err() *Error {
	if s.status != StatusFailed {
		return nil
	}
	return s.err
}

// IsNotFetching reports whether no request has been issued
func (s State[T]) IsNotFetching() bool { return s.status == StatusNotFetching }

// IsFetching reports whether a request is in flight
func (s State[T]) IsFetching() bool { return s.status == StatusFetching }

// IsSuccess reports whether the state holds a value
func (s State[T]) IsSuccess() bool { return s.status == StatusSuccess }

// IsFailed reports whether the state holds an error
func (s State[T]) IsFailed() bool { return s.status == StatusFailed }

// FromResult converts the outcome of a fetch into Success or Failed.
// Errors that are not already an *Error are treated as transport failures.
func FromResult[T any](value T, err error) State[T] {
	if err != nil {
		return Failed[T](From(err))
	}
	return Success(value)
}
