package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated = errors.New("input ended mid-snapshot")
	ErrBadCount  = errors.New("count out of range")
	ErrNegative  = errors.New("negative value")
	ErrBadAction = errors.New("malformed action line")
)

// ProtocolError reports which field of the input could not be read.
type ProtocolError struct {
	Field string
	Token string // offending token, empty on truncation
	Err   error
}

func (e *ProtocolError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("protocol: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("protocol: %s: bad token %q: %v", e.Field, e.Token, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
