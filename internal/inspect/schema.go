package inspect

import (
	"fmt"
	"io"
	"strconv"

	"github.com/danmuck/spwkit/internal/portfolio"
	"github.com/danmuck/spwkit/internal/protocol/schema"
)

type FieldRow struct {
	Index   int    `json:"index" yaml:"index"`
	Name    string `json:"name" yaml:"name"`
	Bits    int    `json:"bits" yaml:"bits"`
	Offset  int    `json:"offset" yaml:"offset"`
	Default uint32 `json:"default" yaml:"default"`
}

type WindowRow struct {
	Name  string `json:"name" yaml:"name"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Bits  int    `json:"bits" yaml:"bits"`
}

// SchemaReport describes the layout of a schema.
type SchemaReport struct {
	Name       string      `json:"name" yaml:"name"`
	Bits       int         `json:"bits" yaml:"bits"`
	HeaderSize int         `json:"header_size" yaml:"header_size"`
	Aligned    bool        `json:"aligned" yaml:"aligned"`
	Checksum   string      `json:"checksum" yaml:"checksum"`
	Separate   bool        `json:"separate_checksum" yaml:"separate_checksum"`
	Fields     []FieldRow  `json:"fields" yaml:"fields"`
	Windows    []WindowRow `json:"windows,omitempty" yaml:"windows,omitempty"`
}

func DescribeSchema(s *schema.Schema) SchemaReport {
	fields := s.Fields()
	r := SchemaReport{
		Name:       s.Name(),
		Bits:       s.BitWidth(),
		HeaderSize: s.HeaderSize(),
		Aligned:    s.Aligned(),
		Checksum:   s.Checksum().Name(),
		Separate:   s.SeparateChecksum(),
		Fields:     make([]FieldRow, 0, len(fields)),
	}
	offset := 0
	for i, f := range fields {
		r.Fields = append(r.Fields, FieldRow{Index: i, Name: f.Name, Bits: f.Width, Offset: offset, Default: f.Default})
		offset += f.Width
	}
	for _, w := range s.Windows() {
		bits := 0
		for _, f := range fields[w.Start : w.End+1] {
			bits += f.Width
		}
		r.Windows = append(r.Windows, WindowRow{Name: w.Name, Start: w.Start, End: w.End, Bits: bits})
	}
	return r
}

func (r SchemaReport) renderTables(w io.Writer) error {
	separate := "-"
	if r.Checksum != "none" {
		separate = strconv.FormatBool(r.Separate)
	}
	pairs(w, [][2]string{
		{"Schema", r.Name},
		{"Bits", strconv.Itoa(r.Bits)},
		{"Header", fmt.Sprintf("%d bytes", r.HeaderSize)},
		{"Checksum", r.Checksum},
		{"Separate", separate},
	})
	fmt.Fprintln(w)

	table := newTable(w, "#", "Field", "Bits", "Offset", "Default")
	for _, f := range r.Fields {
		table.Append([]string{
			strconv.Itoa(f.Index),
			f.Name,
			strconv.Itoa(f.Bits),
			strconv.Itoa(f.Offset),
			fmt.Sprintf("0x%X", f.Default),
		})
	}
	table.Render()

	if len(r.Windows) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	windows := newTable(w, "Window", "Fields", "Bits")
	for _, win := range r.Windows {
		windows.Append([]string{win.Name, fmt.Sprintf("%d..%d", win.Start, win.End), strconv.Itoa(win.Bits)})
	}
	windows.Render()
	return nil
}

// PrintSchema writes the layout of s in format.
func PrintSchema(w io.Writer, s *schema.Schema, format Format) error {
	return render(w, format, DescribeSchema(s))
}

type RegistryRow struct {
	Name       string `json:"name" yaml:"name"`
	Fields     int    `json:"fields" yaml:"fields"`
	Bits       int    `json:"bits" yaml:"bits"`
	HeaderSize int    `json:"header_size" yaml:"header_size"`
	Checksum   string `json:"checksum" yaml:"checksum"`
	Separate   bool   `json:"separate_checksum" yaml:"separate_checksum"`
	Windows    int    `json:"windows" yaml:"windows"`
}

type RegistryReport struct {
	Schemas []RegistryRow `json:"schemas" yaml:"schemas"`
}

func DescribeRegistry(reg *portfolio.Registry) RegistryReport {
	r := RegistryReport{Schemas: make([]RegistryRow, 0, reg.Len())}
	for _, s := range reg.Schemas() {
		r.Schemas = append(r.Schemas, RegistryRow{
			Name:       s.Name(),
			Fields:     s.Len(),
			Bits:       s.BitWidth(),
			HeaderSize: s.HeaderSize(),
			Checksum:   s.Checksum().Name(),
			Separate:   s.SeparateChecksum(),
			Windows:    len(s.Windows()),
		})
	}
	return r
}

func (r RegistryReport) renderTables(w io.Writer) error {
	table := newTable(w, "Name", "Fields", "Bits", "Header", "Checksum", "Windows")
	for _, s := range r.Schemas {
		sum := s.Checksum
		if s.Checksum != "none" && s.Separate {
			sum += " (separate)"
		}
		table.Append([]string{
			s.Name,
			strconv.Itoa(s.Fields),
			strconv.Itoa(s.Bits),
			strconv.Itoa(s.HeaderSize),
			sum,
			strconv.Itoa(s.Windows),
		})
	}
	table.Render()
	return nil
}

// PrintRegistry lists every schema of reg in registration order.
func PrintRegistry(w io.Writer, reg *portfolio.Registry, format Format) error {
	return render(w, format, DescribeRegistry(reg))
}
