package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/danmuck/binfmt/internal/config"
	"github.com/danmuck/binfmt/internal/logging"
	"github.com/danmuck/binfmt/internal/observability"
	"github.com/danmuck/binfmt/internal/protocol/codec"
	"github.com/spf13/pflag"
)

// codecFlags are shared by decode and encode.
type codecFlags struct {
	configPath string
	format     string
	byteOrder  string
	output     string
	logLevel   string
	metrics    bool
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	return flags
}

func (o *codecFlags) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&o.format, "format", "f", "", "registered format name (see: binfmtctl formats)")
	flags.StringVarP(&o.configPath, "config", "c", config.DefaultPath, "config file")
	flags.StringVar(&o.byteOrder, "byte-order", "", "override byte_order: big or little")
	flags.StringVarP(&o.output, "output", "o", "", "override output: hex or raw")
	flags.StringVar(&o.logLevel, "log-level", "", "override log_level")
	flags.BoolVar(&o.metrics, "metrics", false, "print codec metrics to stderr after the run")
}

// resolve loads the config file and applies flag overrides. A missing
// default config file is not an error.
func (o *codecFlags) resolve(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	loaded, err := config.Load(o.configPath)
	switch {
	case err == nil:
		cfg = loaded
	case !flags.Changed("config") && errors.Is(err, fs.ErrNotExist):
	default:
		return config.Config{}, err
	}

	if flags.Changed("byte-order") {
		cfg.ByteOrder = strings.ToLower(strings.TrimSpace(o.byteOrder))
	}
	if flags.Changed("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(o.output))
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.TrimSpace(o.logLevel)
	}
	if flags.Changed("metrics") {
		cfg.Metrics = o.metrics
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	if o.format == "" {
		return config.Config{}, fmt.Errorf("--format is required")
	}
	return cfg, nil
}

// newCodec applies the log level and builds a codec for cfg.
func newCodec(cfg config.Config) *codec.Codec {
	logging.SetLevel(cfg.LogLevel)
	opts := []codec.Option{
		codec.WithLogger(logging.Logger().With().Str("component", "codec").Logger()),
	}
	if cfg.Metrics {
		opts = append(opts, codec.WithObserver(observability.CodecObserver{}))
	}
	return codec.New(cfg.LittleEndian(), opts...)
}

func finish(cfg config.Config, stderr io.Writer) error {
	if !cfg.Metrics {
		return nil
	}
	return observability.WriteText(stderr)
}

// readInput reads the named file, or stdin when path is empty or "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// parseHex accepts hex digits with any whitespace between them.
func parseHex(text []byte) ([]byte, error) {
	compact := bytes.Join(bytes.Fields(text), nil)
	out := make([]byte, hex.DecodedLen(len(compact)))
	if _, err := hex.Decode(out, compact); err != nil {
		return nil, fmt.Errorf("parse hex input: %w", err)
	}
	return out, nil
}
