package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/spwkit/internal/inspect"
	"github.com/pelletier/go-toml/v2"
)

// ToolConfig is the spwkit command line configuration.
type ToolConfig struct {
	LogLevel    string   `toml:"log_level"`
	Output      string   `toml:"output"`
	SchemaFiles []string `toml:"schema_files"`
	MetricsFile string   `toml:"metrics_file"`
}

func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		LogLevel: "info",
		Output:   string(inspect.FormatTable),
	}
}

// LoadToolConfig reads path over the defaults. Relative schema and metrics
// paths are resolved against the directory of path.
func LoadToolConfig(path string) (ToolConfig, error) {
	cfg := DefaultToolConfig()
	if err := loadToml(path, &cfg); err != nil {
		return ToolConfig{}, err
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	if strings.TrimSpace(cfg.Output) == "" {
		cfg.Output = string(inspect.FormatTable)
	}
	base := filepath.Dir(path)
	for i, f := range cfg.SchemaFiles {
		cfg.SchemaFiles[i] = resolve(base, f)
	}
	if cfg.MetricsFile != "" {
		cfg.MetricsFile = resolve(base, cfg.MetricsFile)
	}
	if err := ValidateToolConfig(cfg); err != nil {
		return ToolConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateToolConfig(cfg ToolConfig) error {
	if !validLevel(cfg.LogLevel) {
		return fmt.Errorf("tool config log_level invalid: %q", cfg.LogLevel)
	}
	if _, err := inspect.ParseFormat(cfg.Output); err != nil {
		return fmt.Errorf("tool config output invalid: %w", err)
	}
	for i, f := range cfg.SchemaFiles {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("schema_files[%d] is empty", i)
		}
	}
	return nil
}

func validLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
		return true
	default:
		return false
	}
}

func resolve(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
