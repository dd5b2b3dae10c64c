// Package checksum provides the digest strategies a schema can apply to its
// header and payload. Strategies are stateless values shared by every schema
// and packet that references them.
package checksum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/spwkit/internal/protocol"
)

// Strategy computes and checks a fixed-size digest.
type Strategy interface {
	// Name is the configuration key of the strategy (e.g. "crc8-rmap").
	Name() string
	// Description is a human readable label for dumps.
	Description() string
	// DigestSize is the digest length in bytes. Zero means no checksum.
	DigestSize() int
	// Compute returns the digest of data.
	Compute(data []byte) []byte
	// Verify reports whether data, which ends with its digest, folds to the
	// zero syndrome.
	Verify(data []byte) bool
}

// Kinds accepted by Lookup.
const (
	KindNone     = "none"
	KindCRC8RMAP = "crc8-rmap"
	KindCRC16PUS = "crc16-pus"
)

var (
	None     Strategy = none{}
	CRC8RMAP Strategy = crc8RMAP{}
	CRC16PUS Strategy = crc16PUS{}

	strategies = map[string]Strategy{
		KindNone:     None,
		KindCRC8RMAP: CRC8RMAP,
		KindCRC16PUS: CRC16PUS,
	}
)

// Lookup returns the shared strategy registered under kind. An empty kind
// selects None.
func Lookup(kind string) (Strategy, error) {
	k := strings.ToLower(strings.TrimSpace(kind))
	if k == "" {
		return None, nil
	}
	s, ok := strategies[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", protocol.ErrUnknownChecksum, kind, strings.Join(Kinds(), ", "))
	}
	return s, nil
}

// Kinds lists the accepted strategy names in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(strategies))
	for k := range strategies {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Enabled reports whether s produces digest bytes.
func Enabled(s Strategy) bool {
	return s != nil && s.DigestSize() > 0
}

type none struct{}

func (none) Name() string            { return KindNone }
func (none) Description() string     { return "no checksum" }
func (none) DigestSize() int         { return 0 }
func (none) Compute(_ []byte) []byte { return []byte{} }
func (none) Verify(_ []byte) bool    { return true }
