package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWidth    = errors.New("protocol: invalid field bit width")
	ErrUnaligned       = errors.New("protocol: header not byte aligned")
	ErrInvalidLength   = errors.New("protocol: invalid length")
	ErrShortInput      = errors.New("protocol: short input")
	ErrFieldNotFound   = errors.New("protocol: field not found")
	ErrWindowNotFound  = errors.New("protocol: sub-window not found")
	ErrSchemaNotFound  = errors.New("protocol: schema not found")
	ErrDuplicateSchema = errors.New("protocol: duplicate schema")
	ErrEmptySchema     = errors.New("protocol: empty schema")
	ErrUnknownChecksum = errors.New("protocol: unknown checksum")
)

// ConfigurationError reports a schema that cannot be built or serialized:
// a field width outside [1,32] or a header that is not byte aligned.
type ConfigurationError struct {
	Schema string
	Field  string
	Reason string
	Err    error
}

func (e ConfigurationError) Error() string {
	msg := "protocol:"
	if e.Schema != "" {
		msg += " schema=" + e.Schema
	}
	if e.Field != "" {
		msg += " field=" + e.Field
	}
	return msg + ": " + e.Reason
}

func (e ConfigurationError) Unwrap() error {
	return e.Err
}

// ShortInputError is returned when fewer bytes than the header needs were
// supplied. The input has been zero padded and dismantled anyway; payload and
// checksum state of the instance are not meaningful.
type ShortInputError struct {
	Schema string
	Got    int
	Want   int
}

func (e *ShortInputError) Error() string {
	return fmt.Sprintf("protocol: schema=%s: short input (%d < %d), padded %d bytes", e.Schema, e.Got, e.Want, e.Want-e.Got)
}

func (e *ShortInputError) Is(target error) bool {
	return target == ErrShortInput
}

// NotFound wraps sentinel with the missing name and the schema it was looked up in.
func NotFound(sentinel error, schema, name string) error {
	return fmt.Errorf("%w: %q in %s", sentinel, name, schema)
}
