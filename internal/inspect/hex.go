package inspect

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseHex decodes a byte string written as hex. Whitespace, colons and
// underscores between digits and a leading 0x are ignored.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', '_':
			return -1
		}
		return r
	}, s)
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("inspect: invalid hex %q: %w", s, err)
	}
	return b, nil
}
