// Package schema defines frozen header blueprints. A Schema is assembled once
// with a Builder and never changes afterwards; packets cloned from it carry
// their own field values.
package schema

import (
	"fmt"

	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/danmuck/spwkit/internal/protocol/checksum"
)

// FieldSpec declares one field of a header layout.
type FieldSpec struct {
	Name    string
	Width   int
	Default uint32
}

// Window is a named, inclusive run [Start, End] of a schema's fields that was
// appended from another schema.
type Window struct {
	Name  string
	Start int
	End   int
}

// Len is the number of fields covered by the window.
func (w Window) Len() int {
	return w.End - w.Start + 1
}

// Schema is an immutable header blueprint.
type Schema struct {
	name     string
	fields   []FieldSpec
	index    map[string]int
	windows  []Window
	windowAt map[string]int
	checksum checksum.Strategy
	separate bool
	bitWidth int
}

func (s *Schema) Name() string {
	return s.name
}

// Fields returns a copy of the layout in declaration order.
func (s *Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *Schema) Len() int {
	return len(s.fields)
}

// Field returns the last field declared under name.
func (s *Schema) Field(name string) (FieldSpec, error) {
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, protocol.NotFound(protocol.ErrFieldNotFound, s.name, name)
	}
	return s.fields[i], nil
}

// FieldIndex returns the layout index of the last field declared under name.
func (s *Schema) FieldIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Window returns the sub-window registered under name.
func (s *Schema) Window(name string) (Window, error) {
	i, ok := s.windowAt[name]
	if !ok {
		return Window{}, protocol.NotFound(protocol.ErrWindowNotFound, s.name, name)
	}
	return s.windows[i], nil
}

// Windows returns the sub-windows in the order they were added.
func (s *Schema) Windows() []Window {
	out := make([]Window, len(s.windows))
	copy(out, s.windows)
	return out
}

// BitWidth is the sum of all field widths.
func (s *Schema) BitWidth() int {
	return s.bitWidth
}

// Aligned reports whether the header is a whole number of bytes.
func (s *Schema) Aligned() bool {
	return s.bitWidth%8 == 0
}

// HeaderSize is the compiled header length in bytes, excluding any digest.
func (s *Schema) HeaderSize() int {
	return s.bitWidth / 8
}

// CheckAligned returns a ConfigurationError when the header cannot be
// serialized as whole bytes.
func (s *Schema) CheckAligned() error {
	if s.Aligned() {
		return nil
	}
	return protocol.ConfigurationError{
		Schema: s.name,
		Reason: fmt.Sprintf("invalid number of bits in header (has %d bits), must be a multiple of 8", s.bitWidth),
		Err:    protocol.ErrUnaligned,
	}
}

// Checksum returns the configured strategy; checksum.None when unset.
func (s *Schema) Checksum() checksum.Strategy {
	return s.checksum
}

// SeparateChecksum reports whether header and payload carry their own digests.
func (s *Schema) SeparateChecksum() bool {
	return s.separate
}

// DigestSize is the size of one digest, zero without a checksum.
func (s *Schema) DigestSize() int {
	return s.checksum.DigestSize()
}

// Sub returns a standalone schema holding exactly the fields of window name,
// with their defaults and nested windows. No checksum is applied to it.
func (s *Schema) Sub(name string) (*Schema, error) {
	w, err := s.Window(name)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(w.Name)
	for _, f := range s.fields[w.Start : w.End+1] {
		b.AddField(f.Name, f.Width, f.Default)
	}
	for _, inner := range s.windows {
		if inner.Name == w.Name || inner.Start < w.Start || inner.End > w.End {
			continue
		}
		b.addWindow(Window{Name: inner.Name, Start: inner.Start - w.Start, End: inner.End - w.Start})
	}
	return b.Build()
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s(%d fields, %d bits, %s)", s.name, len(s.fields), s.bitWidth, s.checksum.Name())
}
