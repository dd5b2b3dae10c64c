package inspect

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/spwkit/internal/protocol/checksum"
	"github.com/danmuck/spwkit/internal/protocol/packet"
)

type ValueRow struct {
	Name  string `json:"name" yaml:"name"`
	Bits  int    `json:"bits" yaml:"bits"`
	Value uint32 `json:"value" yaml:"value"`
}

// ChecksumState holds verification results for a dismantled packet, or the
// digests a compiled packet carries.
type ChecksumState struct {
	Kind      string `json:"kind" yaml:"kind"`
	Separate  bool   `json:"separate" yaml:"separate"`
	HeaderOK  *bool  `json:"header_ok,omitempty" yaml:"header_ok,omitempty"`
	PayloadOK *bool  `json:"payload_ok,omitempty" yaml:"payload_ok,omitempty"`
	PacketOK  *bool  `json:"packet_ok,omitempty" yaml:"packet_ok,omitempty"`
	Header    string `json:"header_digest,omitempty" yaml:"header_digest,omitempty"`
	Payload   string `json:"payload_digest,omitempty" yaml:"payload_digest,omitempty"`
	Packet    string `json:"packet_digest,omitempty" yaml:"packet_digest,omitempty"`
}

type PacketReport struct {
	Schema   string        `json:"schema" yaml:"schema"`
	State    string        `json:"state" yaml:"state"`
	Size     int           `json:"size" yaml:"size"`
	Fields   []ValueRow    `json:"fields" yaml:"fields"`
	Header   string        `json:"header" yaml:"header"`
	Payload  string        `json:"payload" yaml:"payload"`
	Checksum ChecksumState `json:"checksum" yaml:"checksum"`
	Wire     string        `json:"wire" yaml:"wire"`
}

// DescribePacket snapshots p. A dismantled packet reports its raw record and
// the verification results; a compiled one is serialized to show its digests.
func DescribePacket(p *packet.Packet) (PacketReport, error) {
	s := p.Schema()
	header, err := p.Header()
	if err != nil {
		return PacketReport{}, err
	}
	r := PacketReport{
		Schema:  p.Name(),
		State:   "compiled",
		Size:    p.Size(),
		Header:  Hex(header),
		Payload: Hex(p.Payload()),
		Checksum: ChecksumState{
			Kind:     s.Checksum().Name(),
			Separate: s.SeparateChecksum(),
		},
	}
	for _, f := range p.Fields() {
		r.Fields = append(r.Fields, ValueRow{Name: f.Name, Bits: f.Width, Value: f.Value})
	}

	if p.Dismantled() {
		r.State = "dismantled"
		r.Wire = Hex(p.Raw())
		if checksum.Enabled(s.Checksum()) {
			headerOK, payloadOK, packetOK := p.IsHeaderChecksumOk(), p.IsPayloadChecksumOk(), p.IsChecksumOk()
			r.Checksum.HeaderOK = &headerOK
			r.Checksum.PayloadOK = &payloadOK
			r.Checksum.PacketOK = &packetOK
		}
		return r, nil
	}

	wire, err := p.ToBytes()
	if err != nil {
		return PacketReport{}, err
	}
	r.Wire = Hex(wire)
	if checksum.Enabled(s.Checksum()) {
		if s.SeparateChecksum() {
			r.Checksum.Header = Hex(s.Checksum().Compute(header))
			r.Checksum.Payload = Hex(p.PayloadChecksum())
		} else {
			sum, err := p.Checksum()
			if err != nil {
				return PacketReport{}, err
			}
			r.Checksum.Packet = Hex(sum)
		}
	}
	return r, nil
}

func (r PacketReport) renderTables(w io.Writer) error {
	pairs(w, [][2]string{
		{"Schema", r.Schema},
		{"State", r.State},
		{"Size", fmt.Sprintf("%d bytes", r.Size)},
		{"Header", orDash(r.Header)},
		{"Payload", orDash(r.Payload)},
		{"Checksum", r.Checksum.summary()},
		{"Package", orDash(r.Wire)},
	})
	fmt.Fprintln(w)

	table := newTable(w, "Field", "Bits", "Value")
	for _, f := range r.Fields {
		table.Append([]string{f.Name, strconv.Itoa(f.Bits), fmt.Sprintf("0x%X", f.Value)})
	}
	table.Render()
	return nil
}

func (c ChecksumState) summary() string {
	if c.Kind == "none" {
		return "none"
	}
	parts := []string{c.Kind}
	switch {
	case c.PacketOK != nil && c.Separate:
		parts = append(parts, "header="+okFail(*c.HeaderOK), "payload="+okFail(*c.PayloadOK))
	case c.PacketOK != nil:
		parts = append(parts, okFail(*c.PacketOK))
	case c.Separate:
		parts = append(parts, "header="+orDash(c.Header), "payload="+orDash(c.Payload))
	default:
		parts = append(parts, orDash(c.Packet))
	}
	return strings.Join(parts, " ")
}

// PrintPacket writes the field values, payload and checksum state of p.
func PrintPacket(w io.Writer, p *packet.Packet, format Format) error {
	r, err := DescribePacket(p)
	if err != nil {
		return err
	}
	return render(w, format, r)
}

// Hex renders b as space separated upper-case byte pairs.
func Hex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

func okFail(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
