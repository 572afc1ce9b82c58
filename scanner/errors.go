package scanner

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrTimeout       = errors.New("communication timeout")
	ErrNoResponse    = errors.New("no response from scanner")
	ErrShortReply    = errors.New("reply shorter than minimum frame length")
	ErrInvalidHeader = errors.New("invalid reply header")
	ErrClosed        = errors.New("scanner is closed")
)

// CommError represents a communication-level error.
type CommError struct {
	Op  string // Operation that failed (e.g., "read register", "start scan")
	Err error  // Underlying error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("communication error during %s: %v", e.Op, e.Err)
}

func (e *CommError) Unwrap() error {
	return e.Err
}

// StatusError is a failure reported by the device itself: a reply with
// a non-zero status byte.
type StatusError struct {
	Code byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scanner reported an unsuccessful operation, rc: %d", e.Code)
}

// ChecksumError indicates that a reply's trailing checksum does not
// match the checksum computed over its contents.
type ChecksumError struct {
	Expected uint16 // checksum received on the wire
	Computed uint16 // checksum calculated over the reply
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksums don't match, expected %04X computed %04X", e.Expected, e.Computed)
}

// UnsupportedSymbologyError indicates a scan payload carried a Code ID
// the driver cannot classify. Distinct from a scan timeout, which is
// not an error.
type UnsupportedSymbologyError struct {
	CodeID byte
}

func (e *UnsupportedSymbologyError) Error() string {
	return fmt.Sprintf("unsupported barcode type received: %02X", e.CodeID)
}

// IsTimeout returns true if the error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsNoResponse returns true if the error indicates no reply was received.
func IsNoResponse(err error) bool {
	return errors.Is(err, ErrNoResponse)
}
