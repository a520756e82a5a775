package srp

import "errors"

// Sentinel errors returned by Engine. All are unrecoverable within a single
// handshake; the caller must discard the Engine and start over with a fresh
// one.
var (
	ErrRngFailure   = errors.New("srp: random number generator failure")
	ErrZeroScalar   = errors.New("srp: computed scalar was zero")
	ErrArithFailure = errors.New("srp: modular arithmetic failure")
)
