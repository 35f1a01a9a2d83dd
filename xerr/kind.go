/*
NAME
  kind.go

DESCRIPTION
  kind.go defines the closed set of error kinds returned by the hot-path
  playback evaluators. Kind is deliberately a small integer enum rather
  than a wrapped error chain so that evaluators can return it without
  allocating.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package xerr defines the closed error-kind enum shared by every playback
// package, and the pkg/errors-based wrapping helpers used outside the hot
// path.
package xerr

// Kind is a closed set of error conditions a playback evaluator may
// signal. Hot-path methods return a bare Kind as their error (a nil error
// on the non-error path) so that no allocation is required to report
// failure.
type Kind int

// The closed set of error kinds, per the engine's error handling design.
const (
	SUCCESS Kind = iota
	ENOMEM
	EINVAL
	EREAD
	EPARSE
	EOVERFLOW
	EUNSUPPORTED
	EUNIMPLEMENTED
	EEMPTY
	ENOENT
	ECORRUPTED
	TIMEOUT
	EAGAIN
	EPERM
	EFULL
	FAILURE
)

var names = [...]string{
	SUCCESS:        "SUCCESS",
	ENOMEM:         "ENOMEM",
	EINVAL:         "EINVAL",
	EREAD:          "EREAD",
	EPARSE:         "EPARSE",
	EOVERFLOW:      "EOVERFLOW",
	EUNSUPPORTED:   "EUNSUPPORTED",
	EUNIMPLEMENTED: "EUNIMPLEMENTED",
	EEMPTY:         "EEMPTY",
	ENOENT:         "ENOENT",
	ECORRUPTED:     "ECORRUPTED",
	TIMEOUT:        "TIMEOUT",
	EAGAIN:         "EAGAIN",
	EPERM:          "EPERM",
	EFULL:          "EFULL",
	FAILURE:        "FAILURE",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(names) {
		return "UNKNOWN"
	}
	return names[k]
}

// Error implements the error interface so a Kind can be returned directly
// wherever an error is expected, without allocating.
func (k Kind) Error() string { return k.String() }

// OK reports whether k is SUCCESS.
func (k Kind) OK() bool { return k == SUCCESS }
