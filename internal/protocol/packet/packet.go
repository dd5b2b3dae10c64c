// Package packet holds mutable header instances cloned from a frozen schema.
//
// A Packet owns its field values, its payload and, after FromBytes, the raw
// record it was parsed from. Windows returned by Sub share the packet's field
// storage: writes through either side are visible through the other. A Packet
// is not safe for concurrent use.
package packet

import (
	"encoding"
	"fmt"

	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/danmuck/spwkit/internal/protocol/bits"
	"github.com/danmuck/spwkit/internal/protocol/schema"
)

var (
	_ = (encoding.BinaryMarshaler)(&Packet{})
	_ = (encoding.BinaryUnmarshaler)(&Packet{})
)

type Packet struct {
	schema  *schema.Schema
	chain   *bits.Chain
	payload []byte
	raw     []byte
}

// New clones the prototype s into a fresh instance holding the schema defaults.
func New(s *schema.Schema) *Packet {
	chain := bits.NewChain()
	for _, f := range s.Fields() {
		// Widths were validated when s was built.
		if _, err := chain.Append(f.Name, f.Width, f.Default); err != nil {
			panic(err)
		}
	}
	return &Packet{schema: s, chain: chain, payload: []byte{}}
}

// Clone returns an independent copy of p, including values, payload and raw record.
func (p *Packet) Clone() *Packet {
	out := &Packet{
		schema:  p.schema,
		chain:   p.chain.Clone(),
		payload: append([]byte{}, p.payload...),
	}
	if p.raw != nil {
		out.raw = append([]byte{}, p.raw...)
	}
	return out
}

func (p *Packet) Name() string {
	return p.schema.Name()
}

func (p *Packet) Schema() *schema.Schema {
	return p.schema
}

// Field returns the field name resolves to. The pointer aliases the packet's
// storage.
func (p *Packet) Field(name string) (*bits.Field, error) {
	i, ok := p.chain.Lookup(name)
	if !ok {
		return nil, protocol.NotFound(protocol.ErrFieldNotFound, p.Name(), name)
	}
	return p.chain.At(i), nil
}

// Fields returns a snapshot of every field in layout order.
func (p *Packet) Fields() []bits.Field {
	out := make([]bits.Field, p.chain.Len())
	for i := range out {
		out[i] = *p.chain.At(i)
	}
	return out
}

func (p *Packet) Get(name string) (uint32, error) {
	f, err := p.Field(name)
	if err != nil {
		return 0, err
	}
	return f.Value, nil
}

// Set stores v masked to the width of field name.
func (p *Packet) Set(name string, v uint32) error {
	f, err := p.Field(name)
	if err != nil {
		return err
	}
	f.Set(v)
	return nil
}

// SetPayload replaces the payload with a copy of data and drops the raw record.
func (p *Packet) SetPayload(data []byte) *Packet {
	p.payload = append([]byte{}, data...)
	p.raw = nil
	return p
}

func (p *Packet) Payload() []byte {
	return p.payload
}

// Raw returns the record retained by the last FromBytes, or nil.
func (p *Packet) Raw() []byte {
	return p.raw
}

// Dismantled reports whether the packet holds a raw record from FromBytes.
func (p *Packet) Dismantled() bool {
	return p.raw != nil
}

// Clear zeroes every field and drops payload and raw record so the instance
// can be reused.
func (p *Packet) Clear() {
	p.chain.ClearAll()
	p.payload = []byte{}
	p.raw = nil
}

// Windows lists the names of the sub-windows, in the order they were added.
func (p *Packet) Windows() []string {
	ws := p.schema.Windows()
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Name
	}
	return out
}

// Sub returns a view over the fields of window name.
func (p *Packet) Sub(name string) (*Window, error) {
	w, err := p.schema.Window(name)
	if err != nil {
		return nil, err
	}
	return &Window{name: w.Name, owner: p.Name(), chain: p.chain, start: w.Start, end: w.End}, nil
}

// SetSub dismantles data into exactly the fields of window name. Short input
// is padded as in Window.FromBytes.
func (p *Packet) SetSub(name string, data []byte) error {
	w, err := p.Sub(name)
	if err != nil {
		return err
	}
	return w.FromBytes(data)
}

// HeaderSize is the compiled header length, excluding digests.
func (p *Packet) HeaderSize() int {
	return p.schema.HeaderSize()
}

func (p *Packet) PayloadSize() int {
	return len(p.payload)
}

// ChecksumSize is the number of digest bytes ToBytes appends for the current
// payload.
func (p *Packet) ChecksumSize() int {
	d := p.schema.DigestSize()
	if d == 0 {
		return 0
	}
	if !p.schema.SeparateChecksum() || len(p.payload) == 0 {
		return d
	}
	return 2 * d
}

// Size is the length of the retained raw record if there is one, otherwise the
// length ToBytes would produce.
func (p *Packet) Size() int {
	if p.raw != nil {
		return len(p.raw)
	}
	return p.HeaderSize() + p.PayloadSize() + p.ChecksumSize()
}

func (p *Packet) String() string {
	state := "compiled"
	if p.Dismantled() {
		state = "dismantled"
	}
	return fmt.Sprintf("%s[%s size=%d header=%d payload=%d]", p.Name(), state, p.Size(), p.HeaderSize(), p.PayloadSize())
}
