package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/spwkit/internal/protocol/bits"
	"github.com/danmuck/spwkit/internal/protocol/checksum"
)

// SchemaFile is a TOML document of header definitions.
type SchemaFile struct {
	Schemas []SchemaDef `toml:"schemas"`
}

// SchemaDef declares one schema. Fields are laid out in order; an entry with
// Include copies every field of an already registered schema.
type SchemaDef struct {
	Name             string            `toml:"name"`
	Checksum         string            `toml:"checksum"`
	SeparateChecksum bool              `toml:"separate_checksum"`
	Defaults         map[string]uint32 `toml:"defaults"`
	Fields           []FieldDef        `toml:"fields"`
}

type FieldDef struct {
	Include string `toml:"include"`
	Name    string `toml:"name"`
	Bits    int    `toml:"bits"`
	Default uint32 `toml:"default"`
}

// LoadSchemaFile decodes and validates path. Unknown keys are rejected.
func LoadSchemaFile(path string) (SchemaFile, error) {
	var file SchemaFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return SchemaFile{}, fmt.Errorf("load schema file: %w", err)
	}
	if !meta.IsDefined("schemas") {
		return SchemaFile{}, fmt.Errorf("schema file %s defines no schemas", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return SchemaFile{}, fmt.Errorf("schema file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for i := range file.Schemas {
		normalizeSchemaDef(&file.Schemas[i])
	}
	if err := ValidateSchemaConfig(file); err != nil {
		return SchemaFile{}, fmt.Errorf("schema file %s: %w", path, err)
	}
	return file, nil
}

func normalizeSchemaDef(def *SchemaDef) {
	def.Name = strings.TrimSpace(def.Name)
	def.Checksum = strings.TrimSpace(def.Checksum)
	for i := range def.Fields {
		def.Fields[i].Include = strings.TrimSpace(def.Fields[i].Include)
		def.Fields[i].Name = strings.TrimSpace(def.Fields[i].Name)
	}
}

func ValidateSchemaConfig(file SchemaFile) error {
	seen := map[string]bool{}
	for i, def := range file.Schemas {
		if err := ValidateSchemaDef(def); err != nil {
			return fmt.Errorf("schemas[%d] invalid: %w", i, err)
		}
		if seen[def.Name] {
			return fmt.Errorf("schemas[%d] invalid: duplicate name %q", i, def.Name)
		}
		seen[def.Name] = true
	}
	return nil
}

func ValidateSchemaDef(def SchemaDef) error {
	if def.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := checksum.Lookup(def.Checksum); err != nil {
		return err
	}
	if len(def.Fields) == 0 {
		return fmt.Errorf("%s has no fields", def.Name)
	}
	for i, f := range def.Fields {
		if err := ValidateFieldDef(f); err != nil {
			return fmt.Errorf("%s fields[%d] invalid: %w", def.Name, i, err)
		}
	}
	return nil
}

func ValidateFieldDef(f FieldDef) error {
	switch {
	case f.Include != "" && f.Name != "":
		return fmt.Errorf("include and name are exclusive")
	case f.Include != "":
		if f.Bits != 0 || f.Default != 0 {
			return fmt.Errorf("include %s cannot set bits or default", f.Include)
		}
		return nil
	case f.Name == "":
		return fmt.Errorf("one of include or name is required")
	}
	return bits.CheckWidth(f.Name, f.Bits)
}

// sortedDefaults returns the default overrides of def in name order.
func sortedDefaults(def SchemaDef) []string {
	names := make([]string, 0, len(def.Defaults))
	for name := range def.Defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
