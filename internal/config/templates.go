package config

import (
	"fmt"
	"os"
	"strings"
)

// Template kinds accepted by Template and WriteTemplate.
const (
	KindTool   = "tool"
	KindSchema = "schema"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindTool:
		return toolTemplate, nil
	case KindSchema:
		return schemaTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const toolTemplate = `log_level = "info"
output = "table"
schema_files = ["schemas.toml"]
metrics_file = ""
`

const schemaTemplate = `# Fields are packed MSB first in declaration order. An include entry copies
# every field of a registered schema and exposes it as a window.

[[schemas]]
name = "HK_REPORT"
checksum = "crc16-pus"
separate_checksum = false
defaults = { pkgType = 0, secondHeaderFlag = 1, service = 3, subService = 25 }

  [[schemas.fields]]
  include = "PUS_PRIME_HEADER"

  [[schemas.fields]]
  name = "length"
  bits = 16

  [[schemas.fields]]
  name = "pusVersion"
  bits = 4
  default = 2

  [[schemas.fields]]
  name = "timeRefStatus"
  bits = 4

  [[schemas.fields]]
  name = "service"
  bits = 8

  [[schemas.fields]]
  name = "subService"
  bits = 8

  [[schemas.fields]]
  name = "structureId"
  bits = 16

[[schemas]]
name = "CPTP_ECHO"
checksum = "none"
defaults = { userApplication = 0x42 }

  [[schemas.fields]]
  include = "CPTP"

  [[schemas.fields]]
  name = "sequence"
  bits = 16
`
