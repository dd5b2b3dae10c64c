package schema

import (
	"errors"
	"fmt"

	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/danmuck/spwkit/internal/protocol/bits"
	"github.com/danmuck/spwkit/internal/protocol/checksum"
	"github.com/rs/zerolog/log"
)

type Option func(*Schema)

// WithChecksum applies strategy to packets of the schema. With separate set,
// header and payload get a digest each; otherwise one digest covers both.
func WithChecksum(strategy checksum.Strategy, separate bool) Option {
	return func(s *Schema) {
		if strategy != nil {
			s.checksum = strategy
		}
		s.separate = separate
	}
}

// Builder assembles a Schema. The first error is kept and returned by Build;
// calls after it are ignored.
type Builder struct {
	s   *Schema
	err error
}

func NewBuilder(name string, opts ...Option) *Builder {
	s := &Schema{
		name:     name,
		index:    make(map[string]int),
		windowAt: make(map[string]int),
		checksum: checksum.None,
	}
	for _, opt := range opts {
		opt(s)
	}
	return &Builder{s: s}
}

// AddField appends a field. Duplicate names are allowed; lookups resolve to the
// last one added.
func (b *Builder) AddField(name string, width int, def uint32) *Builder {
	if b.err != nil {
		return b
	}
	if err := bits.CheckWidth(name, width); err != nil {
		var cfgErr protocol.ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Schema = b.s.name
			err = cfgErr
		}
		b.err = err
		return b
	}
	b.s.fields = append(b.s.fields, FieldSpec{Name: name, Width: width, Default: def & bits.Mask(width)})
	b.s.index[name] = len(b.s.fields) - 1
	b.s.bitWidth += width
	return b
}

// AddFieldsFrom appends copies of every field of other, re-creates the windows
// of other over the appended run, and registers a window named after other
// spanning the whole run. Inclusion is by value, one level deep.
func (b *Builder) AddFieldsFrom(other *Schema) *Builder {
	if b.err != nil {
		return b
	}
	if other == nil || len(other.fields) == 0 {
		name := "<nil>"
		if other != nil {
			name = other.name
		}
		b.err = fmt.Errorf("%w: cannot include %s into %s", protocol.ErrEmptySchema, name, b.s.name)
		return b
	}
	offset := len(b.s.fields)
	for _, f := range other.fields {
		b.AddField(f.Name, f.Width, f.Default)
	}
	for _, w := range other.windows {
		b.addWindow(Window{Name: w.Name, Start: w.Start + offset, End: w.End + offset})
	}
	b.addWindow(Window{Name: other.name, Start: offset, End: len(b.s.fields) - 1})
	return b
}

// SetDefault changes the default of the field that name resolves to.
func (b *Builder) SetDefault(name string, v uint32) *Builder {
	if b.err != nil {
		return b
	}
	i, ok := b.s.index[name]
	if !ok {
		b.err = protocol.NotFound(protocol.ErrFieldNotFound, b.s.name, name)
		return b
	}
	f := &b.s.fields[i]
	f.Default = v & bits.Mask(f.Width)
	return b
}

// Err returns the first error recorded so far.
func (b *Builder) Err() error {
	return b.err
}

// Build freezes the schema. The builder must not be used afterwards.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.s
	b.s = nil
	b.err = fmt.Errorf("schema: builder for %s already built", s.name)
	log.Debug().
		Str("schema", s.name).
		Int("fields", len(s.fields)).
		Int("bits", s.bitWidth).
		Int("windows", len(s.windows)).
		Str("checksum", s.checksum.Name()).
		Bool("separate", s.separate).
		Msg("schema built")
	return s, nil
}

// MustBuild is Build for statically declared prototypes; it panics on error.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// addWindow registers w; a window with the same name replaces the earlier one.
func (b *Builder) addWindow(w Window) {
	if i, ok := b.s.windowAt[w.Name]; ok {
		b.s.windows[i] = w
		return
	}
	b.s.windows = append(b.s.windows, w)
	b.s.windowAt[w.Name] = len(b.s.windows) - 1
}
