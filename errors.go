package evalreport

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAuth               = errors.New("authentication failed")
	ErrNetwork            = errors.New("network failure")
	ErrMissingCredentials = errors.New("langfuse public and secret keys are required")
)

// FetchErrorKind classifies failures talking to Langfuse
type FetchErrorKind int

const (
	FetchErrorUnexpected FetchErrorKind = iota
	FetchErrorNotFound
	FetchErrorAuth
	FetchErrorNetwork
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchErrorNotFound:
		return "not_found"
	case FetchErrorAuth:
		return "auth"
	case FetchErrorNetwork:
		return "network"
	default:
		return "unexpected"
	}
}

// FetchError is returned by Client when a run or trace cannot be retrieved
type FetchError struct {
	Kind FetchErrorKind
	Op   string // what was being fetched, e.g. "dataset run my-run"
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrNotFound) and friends to match on kind
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == FetchErrorNotFound
	case ErrAuth:
		return e.Kind == FetchErrorAuth
	case ErrNetwork:
		return e.Kind == FetchErrorNetwork
	}
	return false
}
