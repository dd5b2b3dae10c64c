package checksum

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/danmuck/spwkit/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyInput(t *testing.T) {
	testlog.Start(t)
	assert.Equal(t, []byte{0x00}, CRC8RMAP.Compute(nil))
	assert.Equal(t, []byte{0xFF, 0xFF}, CRC16PUS.Compute(nil))
	assert.Equal(t, []byte{}, None.Compute(nil))
}

func TestCRC16PUSVectors(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"two zero bytes", []byte{0x00, 0x00}, []byte{0x1D, 0x0F}},
		{"three zero bytes", []byte{0x00, 0x00, 0x00}, []byte{0xCC, 0x9C}},
		{"abcdef01", []byte{0xAB, 0xCD, 0xEF, 0x01}, []byte{0x04, 0xA2}},
		{"1456f89a0001", []byte{0x14, 0x56, 0xF8, 0x9A, 0x00, 0x01}, []byte{0x7F, 0xD5}},
		{"check string", []byte("123456789"), []byte{0x29, 0xB1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CRC16PUS.Compute(tc.in))
		})
	}
}

func TestCRC8RMAPVectors(t *testing.T) {
	testlog.Start(t)
	assert.Equal(t, []byte{0x91}, CRC8RMAP.Compute([]byte{0x01}))
	assert.Equal(t, []byte{0x20}, CRC8RMAP.Compute([]byte("123456789")))
	header := []byte{0xFE, 0x01, 0x6C, 0x00, 0x67, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x10}
	assert.Equal(t, []byte{0xA8}, CRC8RMAP.Compute(header))
}

func TestCRC8RMAPTableMatchesGenerator(t *testing.T) {
	// x^8 + x^2 + x + 1 bit reversed is 0xE0.
	for i := 0; i < 256; i++ {
		c := byte(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = c>>1 ^ 0xE0
			} else {
				c >>= 1
			}
		}
		require.Equal(t, c, crc8RMAPTable[i], "index %d", i)
	}
}

func TestVerifyAcceptsComputedDigest(t *testing.T) {
	testlog.Start(t)
	rng := rand.New(rand.NewSource(7))
	for _, s := range []Strategy{CRC8RMAP, CRC16PUS, None} {
		for n := 0; n < 64; n++ {
			data := make([]byte, n)
			rng.Read(data)
			digest := s.Compute(data)
			require.Len(t, digest, s.DigestSize())
			framed := append(append([]byte{}, data...), digest...)
			assert.True(t, s.Verify(framed), "%s len=%d", s.Name(), n)
		}
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	for _, s := range []Strategy{CRC8RMAP, CRC16PUS} {
		data := []byte{0x12, 0x34, 0x56, 0x78}
		framed := append(append([]byte{}, data...), s.Compute(data)...)
		framed[1] ^= 0x01
		assert.False(t, s.Verify(framed), s.Name())
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup("CRC8-RMAP")
	require.NoError(t, err)
	assert.Equal(t, CRC8RMAP, s)

	s, err = Lookup("")
	require.NoError(t, err)
	assert.Equal(t, None, s)
	assert.False(t, Enabled(s))
	assert.True(t, Enabled(CRC16PUS))

	_, err = Lookup("adler32")
	assert.True(t, errors.Is(err, protocol.ErrUnknownChecksum))
	assert.Equal(t, []string{KindCRC16PUS, KindCRC8RMAP, KindNone}, Kinds())
}
