package verstore

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocument        = errors.New("verstore: window exposes neither local storage nor a document")
	ErrNoStorage         = errors.New("verstore: local store needs a host storage")
	ErrInvalidCookieName = errors.New("verstore: namespace is not a valid cookie name")
)

// SweepError reports the removals that failed during Flush or a sweep.
// The pass itself runs to completion; Keys[i] failed with Errs[i].
type SweepError struct {
	Kind Kind
	Op   string
	Keys []string
	Errs []error
}

func (e *SweepError) Error() string {
	switch len(e.Errs) {
	case 0:
		return fmt.Sprintf("%s %s: unknown error", e.Kind, e.Op)
	case 1:
		return fmt.Sprintf("%s %s: remove %q: %v", e.Kind, e.Op, e.Keys[0], e.Errs[0])
	default:
		return fmt.Sprintf("%s %s: %d removals failed; first %q: %v",
			e.Kind, e.Op, len(e.Errs), e.Keys[0], e.Errs[0])
	}
}

func (e *SweepError) Unwrap() []error {
	return e.Errs
}
