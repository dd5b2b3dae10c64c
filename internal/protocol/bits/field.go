// Package bits implements fixed-width unsigned fields and the MSB-first
// packing of an ordered run of fields into bytes.
package bits

import (
	"fmt"

	"github.com/danmuck/spwkit/internal/protocol"
)

const (
	MinWidth = 1
	MaxWidth = 32
)

// Field is a named unsigned value of a fixed bit width. Value never exceeds
// Mask(Width).
type Field struct {
	Name  string
	Width int
	Value uint32
}

// NewField creates a field with initial masked to width.
func NewField(name string, width int, initial uint32) (Field, error) {
	if err := CheckWidth(name, width); err != nil {
		return Field{}, err
	}
	return Field{Name: name, Width: width, Value: initial & Mask(width)}, nil
}

// CheckWidth returns a ConfigurationError when width is outside [MinWidth, MaxWidth].
func CheckWidth(name string, width int) error {
	if width < MinWidth || width > MaxWidth {
		return protocol.ConfigurationError{
			Field:  name,
			Reason: fmt.Sprintf("bit width %d must be at least %d and no more than %d", width, MinWidth, MaxWidth),
			Err:    protocol.ErrInvalidWidth,
		}
	}
	return nil
}

// Mask returns 2^width-1 for width in [0,32].
func Mask(width int) uint32 {
	if width >= MaxWidth {
		return 0xFFFFFFFF
	}
	return uint32(1)<<width - 1
}

func (f Field) Mask() uint32 {
	return Mask(f.Width)
}

// Max is the largest value the field can hold.
func (f Field) Max() uint32 {
	return f.Mask()
}

// Set stores v truncated to the field width.
func (f *Field) Set(v uint32) {
	f.Value = v & f.Mask()
}

// Increment adds one modulo 2^Width and returns the new value.
func (f *Field) Increment() uint32 {
	f.Set(f.Value + 1)
	return f.Value
}

// Decrement subtracts one modulo 2^Width and returns the new value.
func (f *Field) Decrement() uint32 {
	f.Set(f.Value - 1)
	return f.Value
}

// Join reads f followed by other as one f.Width+other.Width bit number,
// f in the high-order bits. Neither field is modified.
func (f Field) Join(other Field) uint64 {
	return uint64(f.Value)<<other.Width | uint64(other.Value)
}

// JoinLeft is Join with the operands swapped: other in the high-order bits.
func (f Field) JoinLeft(other Field) uint64 {
	return other.Join(f)
}

func (f Field) String() string {
	return fmt.Sprintf("'%s': bits: %2d, value: 0x%X", f.Name, f.Width, f.Value)
}
