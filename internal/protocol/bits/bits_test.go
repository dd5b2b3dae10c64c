package bits

import (
	"errors"
	"testing"

	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/danmuck/spwkit/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFieldRejectsInvalidWidth(t *testing.T) {
	testlog.Start(t)
	for _, width := range []int{-1, 0, 33, 64} {
		_, err := NewField("f", width, 0)
		require.Error(t, err, "width %d", width)
		assert.True(t, errors.Is(err, protocol.ErrInvalidWidth))
		var cfgErr protocol.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "f", cfgErr.Field)
	}
}

func TestSetMasksToWidth(t *testing.T) {
	testlog.Start(t)
	values := []uint32{0, 1, 0x5A, 0xFF, 0x1234, 0xDEADBEEF, 0xFFFFFFFF}
	for width := MinWidth; width <= MaxWidth; width++ {
		f, err := NewField("f", width, 0)
		require.NoError(t, err)
		for _, v := range values {
			f.Set(v)
			want := uint32(uint64(v) & (uint64(1)<<width - 1))
			assert.Equal(t, want, f.Value, "width=%d v=%#x", width, v)
		}
	}
}

func TestNewFieldMasksInitial(t *testing.T) {
	f, err := NewField("nibble", 4, 0xAB)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xB), f.Value)
	assert.Equal(t, uint32(0xF), f.Max())
}

func TestIncrementDecrementWrap(t *testing.T) {
	f, err := NewField("seq", 3, 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), f.Increment())
	assert.Equal(t, uint32(7), f.Decrement())
	assert.Equal(t, uint32(6), f.Decrement())

	wide, err := NewField("wide", 32, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), wide.Decrement())
	assert.Equal(t, uint32(0), wide.Increment())
}

func TestJoinDoesNotMutate(t *testing.T) {
	hi, _ := NewField("hi", 4, 0xA)
	lo, _ := NewField("lo", 8, 0xBC)
	assert.Equal(t, uint64(0xABC), hi.Join(lo))
	assert.Equal(t, uint64(0xBCA), hi.JoinLeft(lo))
	assert.Equal(t, uint32(0xA), hi.Value)
	assert.Equal(t, uint32(0xBC), lo.Value)

	a, _ := NewField("a", 32, 0xFFFFFFFF)
	b, _ := NewField("b", 32, 1)
	assert.Equal(t, uint64(0xFFFFFFFF00000001), a.Join(b))
}

func buildChain(t *testing.T, defs ...Field) *Chain {
	t.Helper()
	c := NewChain()
	for _, d := range defs {
		_, err := c.Append(d.Name, d.Width, d.Value)
		require.NoError(t, err)
	}
	return c
}

func TestCompileMSBFirst(t *testing.T) {
	testlog.Start(t)
	c := buildChain(t,
		Field{Name: "version", Width: 3, Value: 0},
		Field{Name: "type", Width: 1, Value: 1},
		Field{Name: "secHdr", Width: 1, Value: 1},
		Field{Name: "apid", Width: 11, Value: 0x7FF},
		Field{Name: "flags", Width: 2, Value: 3},
		Field{Name: "count", Width: 14, Value: 0x1234},
	)
	buf := make([]byte, 4)
	require.NoError(t, c.Compile(buf, 0, c.Len()-1))
	assert.Equal(t, []byte{0x1F, 0xFF, 0xD2, 0x34}, buf)
}

func TestCompileDismantleAcrossByteBoundaries(t *testing.T) {
	testlog.Start(t)
	c := buildChain(t,
		Field{Name: "a", Width: 5, Value: 0x15},
		Field{Name: "b", Width: 13, Value: 0x1ABC},
		Field{Name: "c", Width: 32, Value: 0xCAFEBABE},
		Field{Name: "d", Width: 6, Value: 0x2A},
	)
	require.Equal(t, 56, c.BitWidth(0, c.Len()-1))
	buf := make([]byte, c.ByteLen(0, c.Len()-1))
	require.NoError(t, c.Compile(buf, 0, c.Len()-1))

	out := c.Clone()
	out.ClearAll()
	require.NoError(t, out.Dismantle(buf, 0, out.Len()-1))
	for i := 0; i < c.Len(); i++ {
		assert.Equal(t, c.At(i).Value, out.At(i).Value, "field %s", c.At(i).Name)
	}
}

func TestCompileSubRange(t *testing.T) {
	c := buildChain(t,
		Field{Name: "logicAddress", Width: 8, Value: 0xFE},
		Field{Name: "reserved", Width: 1, Value: 0},
		Field{Name: "isCommand", Width: 1, Value: 1},
		Field{Name: "isWrite", Width: 1, Value: 1},
		Field{Name: "verify", Width: 1, Value: 0},
		Field{Name: "reply", Width: 1, Value: 1},
		Field{Name: "increment", Width: 1, Value: 1},
		Field{Name: "replyAddressLength", Width: 2, Value: 0},
		Field{Name: "key", Width: 8, Value: 0x20},
	)
	buf := make([]byte, 1)
	require.NoError(t, c.Compile(buf, 1, 7))
	assert.Equal(t, []byte{0x6C}, buf)

	require.NoError(t, c.Dismantle([]byte{0x4D}, 1, 7))
	assert.Equal(t, uint32(0xFE), c.At(0).Value)
	assert.Equal(t, uint32(1), c.At(2).Value)
	assert.Equal(t, uint32(0), c.At(3).Value)
	assert.Equal(t, uint32(1), c.At(5).Value)
	assert.Equal(t, uint32(1), c.At(7).Value)
	assert.Equal(t, uint32(0x20), c.At(8).Value)
}

func TestCompileUnalignedRangeLeavesLowBitsZero(t *testing.T) {
	c := buildChain(t,
		Field{Name: "a", Width: 3, Value: 7},
		Field{Name: "b", Width: 6, Value: 0x3F},
	)
	buf := make([]byte, 2)
	require.NoError(t, c.Compile(buf, 0, 1))
	assert.Equal(t, []byte{0xFF, 0x80}, buf)
}

func TestCompileRejectsWrongBufferLength(t *testing.T) {
	c := buildChain(t, Field{Name: "a", Width: 16})
	err := c.Compile(make([]byte, 3), 0, 0)
	assert.True(t, errors.Is(err, protocol.ErrInvalidLength))
	err = c.Dismantle(make([]byte, 1), 0, 0)
	assert.True(t, errors.Is(err, protocol.ErrInvalidLength))
	err = c.Compile(make([]byte, 2), 0, 1)
	assert.True(t, errors.Is(err, protocol.ErrInvalidLength))
}

func TestLookupShadowsDuplicates(t *testing.T) {
	c := buildChain(t,
		Field{Name: "reserved", Width: 1, Value: 1},
		Field{Name: "x", Width: 7},
		Field{Name: "reserved", Width: 8, Value: 0x55},
	)
	i, ok := c.Lookup("reserved")
	require.True(t, ok)
	assert.Equal(t, 2, i)

	i, ok = c.LookupRange("reserved", 0, 1)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = c.LookupRange("x", 2, 2)
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	c := buildChain(t, Field{Name: "a", Width: 8, Value: 1})
	d := c.Clone()
	d.At(0).Set(2)
	assert.Equal(t, uint32(1), c.At(0).Value)
	assert.Equal(t, uint32(2), d.At(0).Value)
}

func TestClearRange(t *testing.T) {
	c := buildChain(t,
		Field{Name: "a", Width: 8, Value: 1},
		Field{Name: "b", Width: 8, Value: 2},
		Field{Name: "c", Width: 8, Value: 3},
	)
	c.ClearRange(1, 1)
	assert.Equal(t, uint32(1), c.At(0).Value)
	assert.Equal(t, uint32(0), c.At(1).Value)
	assert.Equal(t, uint32(3), c.At(2).Value)
	c.ClearAll()
	assert.Equal(t, uint32(0), c.At(0).Value)
	assert.Equal(t, uint32(0), c.At(2).Value)
}
