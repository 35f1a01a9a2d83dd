/*
NAME
  wrap.go

DESCRIPTION
  wrap.go provides pkg/errors-based helpers for non-hot-path callers
  (parsing, construction, screenplay assembly) that want a human-readable
  error chain on top of a Kind, without forcing every hot-path evaluator
  to pay for that allocation.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

package xerr

import "github.com/pkg/errors"

// Wrapped pairs a Kind with a wrapped chain of context, for callers
// outside the hot path (parsers, constructors) that want both the closed
// classification and a readable message.
type Wrapped struct {
	Kind Kind
	err  error
}

// Wrap returns a Wrapped that classifies as kind and carries msg as
// additional context on top of cause. If cause is nil, Wrap returns nil.
func Wrap(cause error, kind Kind, msg string) error {
	if cause == nil {
		return nil
	}
	return &Wrapped{Kind: kind, err: errors.Wrap(cause, msg)}
}

// Wrapf is Wrap with a format string.
func Wrapf(cause error, kind Kind, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &Wrapped{Kind: kind, err: errors.Wrapf(cause, format, args...)}
}

// New returns a Wrapped carrying kind and msg with no further cause.
func New(kind Kind, msg string) error {
	return &Wrapped{Kind: kind, err: errors.New(msg)}
}

func (w *Wrapped) Error() string { return w.err.Error() }

// Unwrap returns the root cause of the wrapped chain, so errors.Is and
// errors.As reach it. Wrapped has no Cause method, so pkg/errors' Cause
// stops at the Wrapped itself.
func (w *Wrapped) Unwrap() error { return errors.Cause(w.err) }

// As extracts the Kind classifying err, if any. Plain Kind values (as
// returned directly by hot-path evaluators) classify as themselves.
func As(err error) (Kind, bool) {
	if err == nil {
		return SUCCESS, true
	}
	switch e := err.(type) {
	case Kind:
		return e, true
	case *Wrapped:
		return e.Kind, true
	default:
		return FAILURE, false
	}
}
