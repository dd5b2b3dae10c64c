package packet

import (
	"github.com/danmuck/spwkit/internal/observability"
	"github.com/danmuck/spwkit/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Header compiles the header fields into HeaderSize bytes.
func (p *Packet) Header() ([]byte, error) {
	if err := p.schema.CheckAligned(); err != nil {
		return nil, err
	}
	buf := make([]byte, p.HeaderSize())
	if p.chain.Len() == 0 {
		return buf, nil
	}
	if err := p.chain.Compile(buf, 0, p.chain.Len()-1); err != nil {
		return nil, err
	}
	return buf, nil
}

// HeaderChecksum is the digest of the compiled header. Empty without a checksum.
func (p *Packet) HeaderChecksum() ([]byte, error) {
	header, err := p.Header()
	if err != nil {
		return nil, err
	}
	return p.schema.Checksum().Compute(header), nil
}

// PayloadChecksum is the digest of the payload alone. Empty without a
// checksum or without payload.
func (p *Packet) PayloadChecksum() []byte {
	if len(p.payload) == 0 {
		return []byte{}
	}
	return p.schema.Checksum().Compute(p.payload)
}

// Checksum is the digest over header and payload together.
func (p *Packet) Checksum() ([]byte, error) {
	header, err := p.Header()
	if err != nil {
		return nil, err
	}
	return p.schema.Checksum().Compute(append(header, p.payload...)), nil
}

// ToBytes assembles the wire image. In separate mode the layout is
// header | header digest | payload | payload digest, where the payload digest
// is omitted for an empty payload. In combined mode it is
// header | payload | digest(header|payload). Without a checksum it is
// header | payload. The raw record of a previous FromBytes is dropped.
func (p *Packet) ToBytes() ([]byte, error) {
	header, err := p.Header()
	if err != nil {
		return nil, err
	}
	p.raw = nil
	sum := p.schema.Checksum()

	out := make([]byte, 0, p.Size())
	out = append(out, header...)
	if p.schema.SeparateChecksum() {
		out = append(out, sum.Compute(header)...)
		out = append(out, p.payload...)
		out = append(out, p.PayloadChecksum()...)
	} else {
		out = append(out, p.payload...)
		out = append(out, sum.Compute(out)...)
	}
	observability.RecordEncode(p.Name(), len(out))
	return out, nil
}

// FromBytes dismantles data into the header fields and the payload and keeps
// a copy of data as the raw record for checksum verification.
//
// When data is shorter than the header it is zero padded at the end, the
// header is dismantled from the padded buffer, the payload is emptied and a
// *protocol.ShortInputError is returned. The packet is still usable, but its
// payload and checksum state are not meaningful.
//
// Digest bytes are not part of the payload: the header digest (separate mode)
// and the trailing digest are cut away when the input is long enough to hold
// them.
func (p *Packet) FromBytes(data []byte) error {
	if err := p.schema.CheckAligned(); err != nil {
		return err
	}
	n := p.HeaderSize()
	if len(data) < n {
		short := &protocol.ShortInputError{Schema: p.Name(), Got: len(data), Want: n}
		log.Warn().
			Str("schema", p.Name()).
			Int("got", len(data)).
			Int("want", n).
			Msg("input too small, padded to header size")
		if err := p.dismantleHeaderPadded(data); err != nil {
			return err
		}
		observability.RecordDecode(p.Name(), observability.OutcomeShortInput)
		return short
	}

	if err := p.dismantleHeader(data[:n]); err != nil {
		return err
	}
	p.raw = append([]byte{}, data...)
	p.payload = p.splitPayload(data[n:])
	observability.RecordDecode(p.Name(), observability.OutcomeOK)
	return nil
}

// Remainder returns the bytes of the raw record that follow the header,
// digests included, or nil when nothing was dismantled. Payload is the same
// run with the digests cut away.
func (p *Packet) Remainder() []byte {
	n := p.HeaderSize()
	if p.raw == nil || len(p.raw) <= n {
		return nil
	}
	return p.raw[n:]
}

// FromBytesHeaderOnly dismantles the header from data, padding or truncating
// it to the header size, and leaves the payload empty. No error is raised for
// short input.
func (p *Packet) FromBytesHeaderOnly(data []byte) error {
	if err := p.schema.CheckAligned(); err != nil {
		return err
	}
	return p.dismantleHeaderPadded(data)
}

func (p *Packet) MarshalBinary() ([]byte, error) {
	return p.ToBytes()
}

// UnmarshalBinary is FromBytes. Short input still yields a usable packet but
// reports a *protocol.ShortInputError; callers of encoding.BinaryUnmarshaler
// that treat every error as fatal should test errors.Is(err,
// protocol.ErrShortInput) first.
func (p *Packet) UnmarshalBinary(data []byte) error {
	return p.FromBytes(data)
}

func (p *Packet) dismantleHeaderPadded(data []byte) error {
	padded := make([]byte, p.HeaderSize())
	copy(padded, data)
	if err := p.dismantleHeader(padded); err != nil {
		return err
	}
	p.payload = []byte{}
	p.raw = padded
	return nil
}

func (p *Packet) dismantleHeader(header []byte) error {
	if p.chain.Len() == 0 {
		return nil
	}
	return p.chain.Dismantle(header, 0, p.chain.Len()-1)
}

// splitPayload strips digest bytes from the bytes following the header.
func (p *Packet) splitPayload(rest []byte) []byte {
	d := p.schema.DigestSize()
	if d == 0 {
		return append([]byte{}, rest...)
	}
	if p.schema.SeparateChecksum() {
		if len(rest) < d {
			return append([]byte{}, rest...)
		}
		rest = rest[d:]
		if len(rest) == 0 {
			return []byte{}
		}
	}
	if len(rest) < d {
		return append([]byte{}, rest...)
	}
	return append([]byte{}, rest[:len(rest)-d]...)
}
