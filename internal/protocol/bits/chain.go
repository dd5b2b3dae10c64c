package bits

import (
	"fmt"

	"github.com/danmuck/spwkit/internal/protocol"
)

// Chain is an ordered arena of fields addressed by index. Sub-ranges of the
// chain are described by inclusive (start, end) index pairs; any holder of
// such a pair shares the same field storage.
//
// Names need not be unique. Lookup returns the last field appended under a
// name, so later definitions shadow earlier ones.
type Chain struct {
	fields []Field
	index  map[string]int
}

func NewChain() *Chain {
	return &Chain{index: make(map[string]int)}
}

// Append adds a field at the tail and returns its index.
func (c *Chain) Append(name string, width int, value uint32) (int, error) {
	f, err := NewField(name, width, value)
	if err != nil {
		return -1, err
	}
	c.fields = append(c.fields, f)
	i := len(c.fields) - 1
	c.index[name] = i
	return i, nil
}

func (c *Chain) Len() int {
	return len(c.fields)
}

// At returns the field stored at index i. The pointer aliases chain storage
// until the next Append.
func (c *Chain) At(i int) *Field {
	return &c.fields[i]
}

// Lookup returns the index of the last field named name.
func (c *Chain) Lookup(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// LookupRange returns the index of the last field named name within [start, end].
func (c *Chain) LookupRange(name string, start, end int) (int, bool) {
	if i, ok := c.index[name]; ok && i >= start && i <= end {
		return i, true
	}
	for i := end; i >= start; i-- {
		if c.fields[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// BitWidth sums the widths of fields in [start, end].
func (c *Chain) BitWidth(start, end int) int {
	total := 0
	for i := start; i <= end; i++ {
		total += c.fields[i].Width
	}
	return total
}

// ByteLen is the number of bytes needed to hold [start, end].
func (c *Chain) ByteLen(start, end int) int {
	return (c.BitWidth(start, end) + 7) / 8
}

// Compile packs the fields in [start, end] into buf, most significant bit
// first: the field at start lands in the high-order bits of buf[0]. Values are
// OR-ed in, so buf is expected to be zeroed. When the range is not a multiple
// of 8 bits the trailing low-order bits of the last byte are left untouched.
func (c *Chain) Compile(buf []byte, start, end int) error {
	if err := c.checkRange(buf, start, end); err != nil {
		return err
	}
	offset := 0
	for i := start; i <= end; i++ {
		f := c.fields[i]
		putBits(buf, offset, f.Width, f.Value)
		offset += f.Width
	}
	return nil
}

// Dismantle is the inverse of Compile: it reads each field in [start, end]
// from buf in order and stores it masked to the field width.
func (c *Chain) Dismantle(buf []byte, start, end int) error {
	if err := c.checkRange(buf, start, end); err != nil {
		return err
	}
	offset := 0
	for i := start; i <= end; i++ {
		f := &c.fields[i]
		f.Set(getBits(buf, offset, f.Width))
		offset += f.Width
	}
	return nil
}

// ClearAll zeroes every field from head to tail.
func (c *Chain) ClearAll() {
	for i := range c.fields {
		c.fields[i].Value = 0
	}
}

// ClearRange zeroes the fields in [start, end].
func (c *Chain) ClearRange(start, end int) {
	for i := start; i <= end; i++ {
		c.fields[i].Value = 0
	}
}

// Clone copies names, widths and current values into an independent chain.
func (c *Chain) Clone() *Chain {
	out := &Chain{
		fields: make([]Field, len(c.fields)),
		index:  make(map[string]int, len(c.index)),
	}
	copy(out.fields, c.fields)
	for k, v := range c.index {
		out.index[k] = v
	}
	return out
}

func (c *Chain) checkRange(buf []byte, start, end int) error {
	if start < 0 || end >= len(c.fields) || start > end {
		return fmt.Errorf("%w: range [%d,%d] outside chain of %d fields", protocol.ErrInvalidLength, start, end, len(c.fields))
	}
	if want := c.ByteLen(start, end); len(buf) != want {
		return fmt.Errorf("%w: buffer is %d bytes, range needs %d", protocol.ErrInvalidLength, len(buf), want)
	}
	return nil
}
