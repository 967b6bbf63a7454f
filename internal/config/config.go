package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "binfmt.toml"

// Output modes for encoded bytes. Decoded records are always YAML.
const (
	OutputHex = "hex"
	OutputRaw = "raw"
)

// Byte orders.
const (
	OrderBig    = "big"
	OrderLittle = "little"
)

// Config holds binfmtctl runtime settings.
type Config struct {
	ByteOrder string
	Output    string
	LogLevel  string
	Metrics   bool
}

// binfmt.toml key mapping to Config.
type fileConfig struct {
	ByteOrder string `toml:"byte_order"`
	Output    string `toml:"output"`
	LogLevel  string `toml:"log_level"`
	Metrics   bool   `toml:"metrics"`
}

func Default() Config {
	return Config{
		ByteOrder: OrderBig,
		Output:    OutputHex,
		LogLevel:  "info",
	}
}

// LittleEndian reports whether the configured byte order is little-endian.
func (c Config) LittleEndian() bool {
	return c.ByteOrder == OrderLittle
}

// Load overlays the keys present in path onto Default and validates the
// result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config unknown key (%s): %s", path, undecoded[0])
	}

	if meta.IsDefined("byte_order") {
		cfg.ByteOrder = strings.ToLower(strings.TrimSpace(raw.ByteOrder))
	}
	if meta.IsDefined("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = raw.Metrics
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.ByteOrder {
	case OrderBig, OrderLittle:
	default:
		return fmt.Errorf("byte_order must be %q or %q, got %q", OrderBig, OrderLittle, cfg.ByteOrder)
	}
	switch cfg.Output {
	case OutputHex, OutputRaw:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputHex, OutputRaw, cfg.Output)
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		return fmt.Errorf("log_level is required")
	}
	return nil
}
