package packet

import (
	"fmt"

	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/danmuck/spwkit/internal/protocol/bits"
	"github.com/rs/zerolog/log"
)

// Window is a view over a contiguous run of a packet's fields. It does not own
// the fields: every read and write goes to the packet's storage.
//
// The bit width of a window is not required to be a multiple of 8. ToBytes
// and FromBytes then work on ceil(bits/8) bytes with the unused low-order bits
// of the last byte zero; keeping windows aligned is up to the schema author.
type Window struct {
	name  string
	owner string
	chain *bits.Chain
	start int
	end   int
}

func (w *Window) Name() string {
	return w.name
}

// Range returns the inclusive field indices of the window within its packet.
func (w *Window) Range() (start, end int) {
	return w.start, w.end
}

// Field returns the last field named name inside the window.
func (w *Window) Field(name string) (*bits.Field, error) {
	i, ok := w.chain.LookupRange(name, w.start, w.end)
	if !ok {
		return nil, protocol.NotFound(protocol.ErrFieldNotFound, w.owner+"/"+w.name, name)
	}
	return w.chain.At(i), nil
}

func (w *Window) Get(name string) (uint32, error) {
	f, err := w.Field(name)
	if err != nil {
		return 0, err
	}
	return f.Value, nil
}

func (w *Window) Set(name string, v uint32) error {
	f, err := w.Field(name)
	if err != nil {
		return err
	}
	f.Set(v)
	return nil
}

// Fields returns a snapshot of the window's fields in order.
func (w *Window) Fields() []bits.Field {
	out := make([]bits.Field, 0, w.end-w.start+1)
	for i := w.start; i <= w.end; i++ {
		out = append(out, *w.chain.At(i))
	}
	return out
}

func (w *Window) BitWidth() int {
	return w.chain.BitWidth(w.start, w.end)
}

// Size is the number of bytes ToBytes produces.
func (w *Window) Size() int {
	return w.chain.ByteLen(w.start, w.end)
}

// Value reads the whole window as one number, first field most significant.
// Windows wider than 64 bits return ErrInvalidLength; use ToBytes for those.
func (w *Window) Value() (uint64, error) {
	if n := w.BitWidth(); n > 64 {
		return 0, fmt.Errorf("%w: window %s/%s is %d bits, value holds at most 64", protocol.ErrInvalidLength, w.owner, w.name, n)
	}
	var v uint64
	for i := w.start; i <= w.end; i++ {
		f := w.chain.At(i)
		v = v<<f.Width | uint64(f.Value)
	}
	return v, nil
}

// Clear zeroes the window's fields.
func (w *Window) Clear() {
	w.chain.ClearRange(w.start, w.end)
}

// ToBytes compiles only the window's fields. No checksum is applied.
func (w *Window) ToBytes() ([]byte, error) {
	buf := make([]byte, w.Size())
	if err := w.chain.Compile(buf, w.start, w.end); err != nil {
		return nil, err
	}
	return buf, nil
}

// FromBytes dismantles data into the window's fields, leaving the rest of the
// packet untouched. Bytes beyond Size are ignored. Short data is zero padded
// and reported with a *protocol.ShortInputError after the fields were set.
func (w *Window) FromBytes(data []byte) error {
	n := w.Size()
	buf := make([]byte, n)
	copy(buf, data)
	if err := w.chain.Dismantle(buf, w.start, w.end); err != nil {
		return err
	}
	if len(data) < n {
		log.Warn().
			Str("schema", w.owner).
			Str("window", w.name).
			Int("got", len(data)).
			Int("want", n).
			Msg("window input too small, padded")
		return &protocol.ShortInputError{Schema: w.owner + "/" + w.name, Got: len(data), Want: n}
	}
	return nil
}

func (w *Window) String() string {
	return fmt.Sprintf("%s/%s[%d..%d %d bits]", w.owner, w.name, w.start, w.end, w.BitWidth())
}
