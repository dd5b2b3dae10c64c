package config

import (
	"fmt"

	"github.com/danmuck/spwkit/internal/portfolio"
	"github.com/danmuck/spwkit/internal/protocol/checksum"
	"github.com/danmuck/spwkit/internal/protocol/schema"
)

// BuildSchema turns def into a schema. Includes resolve against reg.
func BuildSchema(reg *portfolio.Registry, def SchemaDef) (*schema.Schema, error) {
	strategy, err := checksum.Lookup(def.Checksum)
	if err != nil {
		return nil, err
	}
	b := schema.NewBuilder(def.Name, schema.WithChecksum(strategy, def.SeparateChecksum))
	for _, f := range def.Fields {
		if f.Include == "" {
			b.AddField(f.Name, f.Bits, f.Default)
			continue
		}
		inc, err := reg.Get(f.Include)
		if err != nil {
			return nil, fmt.Errorf("%s: include: %w", def.Name, err)
		}
		b.AddFieldsFrom(inc)
	}
	for _, name := range sortedDefaults(def) {
		b.SetDefault(name, def.Defaults[name])
	}
	return b.Build()
}

// Apply builds every definition of file in order and registers it, so later
// definitions can include earlier ones.
func Apply(reg *portfolio.Registry, file SchemaFile) error {
	for _, def := range file.Schemas {
		s, err := BuildSchema(reg, def)
		if err != nil {
			return err
		}
		if err := reg.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// LoadInto loads each schema file and applies it to reg.
func LoadInto(reg *portfolio.Registry, paths ...string) error {
	for _, path := range paths {
		file, err := LoadSchemaFile(path)
		if err != nil {
			return err
		}
		if err := Apply(reg, file); err != nil {
			return fmt.Errorf("apply %s: %w", path, err)
		}
	}
	return nil
}
