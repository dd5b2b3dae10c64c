package packet

import (
	"github.com/danmuck/spwkit/internal/observability"
	"github.com/danmuck/spwkit/internal/protocol/checksum"
	"github.com/rs/zerolog/log"
)

// Checksum scopes reported to metrics.
const (
	scopeHeader  = "header"
	scopePayload = "payload"
	scopePacket  = "packet"
)

// IsHeaderChecksumOk verifies the header digest of the raw record. In combined
// mode the single trailing digest covers the header, so the whole record is
// verified. True when no checksum is configured or nothing was dismantled.
func (p *Packet) IsHeaderChecksumOk() bool {
	if !p.verifiable() {
		return true
	}
	if !p.schema.SeparateChecksum() {
		return p.verify(scopeHeader, p.raw)
	}
	end := p.HeaderSize() + p.schema.DigestSize()
	if len(p.raw) < end {
		return p.record(scopeHeader, false)
	}
	return p.verify(scopeHeader, p.raw[:end])
}

// IsPayloadChecksumOk verifies the payload digest of the raw record. A record
// without payload bytes passes. In combined mode the whole record is verified.
func (p *Packet) IsPayloadChecksumOk() bool {
	if !p.verifiable() {
		return true
	}
	if !p.schema.SeparateChecksum() {
		return p.verify(scopePayload, p.raw)
	}
	start := p.HeaderSize() + p.schema.DigestSize()
	if len(p.raw) <= start {
		return true
	}
	return p.verify(scopePayload, p.raw[start:])
}

// IsChecksumOk verifies every digest carried by the raw record.
func (p *Packet) IsChecksumOk() bool {
	if !p.verifiable() {
		return true
	}
	if p.schema.SeparateChecksum() {
		return p.IsHeaderChecksumOk() && p.IsPayloadChecksumOk()
	}
	return p.verify(scopePacket, p.raw)
}

func (p *Packet) verifiable() bool {
	return p.raw != nil && checksum.Enabled(p.schema.Checksum())
}

func (p *Packet) verify(scope string, data []byte) bool {
	return p.record(scope, p.schema.Checksum().Verify(data))
}

func (p *Packet) record(scope string, ok bool) bool {
	if !ok {
		log.Debug().
			Str("schema", p.Name()).
			Str("scope", scope).
			Str("checksum", p.schema.Checksum().Description()).
			Msg("checksum mismatch")
	}
	observability.RecordChecksum(p.Name(), scope, ok)
	return ok
}
