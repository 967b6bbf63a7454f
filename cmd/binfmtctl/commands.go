package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/danmuck/binfmt/internal/config"
	"github.com/danmuck/binfmt/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := newFlagSet("decode", stderr)
	var opts codecFlags
	opts.bind(flags)
	hexIn := flags.Bool("hex", false, "input is hex text")
	if err := flags.Parse(args); err != nil {
		return err
	}
	cfg, err := opts.resolve(flags)
	if err != nil {
		return err
	}
	f, err := schema.Lookup(opts.format)
	if err != nil {
		return err
	}

	data, err := readInput(flags.Arg(0), stdin)
	if err != nil {
		return err
	}
	if *hexIn {
		if data, err = parseHex(data); err != nil {
			return err
		}
	}

	rec, n, err := newCodec(cfg).DecodeN(data, f)
	if err != nil {
		return err
	}
	if n < len(data) {
		log.Debug().Str("format", opts.format).Int("trailing", len(data)-n).Msg("binfmtctl decode ignored trailing bytes")
	}
	if err := writeRecord(stdout, rec); err != nil {
		return err
	}
	return finish(cfg, stderr)
}

func runEncode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := newFlagSet("encode", stderr)
	var opts codecFlags
	opts.bind(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	cfg, err := opts.resolve(flags)
	if err != nil {
		return err
	}
	f, err := schema.Lookup(opts.format)
	if err != nil {
		return err
	}

	data, err := readInput(flags.Arg(0), stdin)
	if err != nil {
		return err
	}
	rec, err := readRecord(data)
	if err != nil {
		return err
	}
	if err := schema.Validate(opts.format, rec); err != nil {
		return err
	}

	out, err := newCodec(cfg).Encode(rec, f)
	if err != nil {
		return err
	}
	switch cfg.Output {
	case config.OutputRaw:
		_, err = stdout.Write(out)
	default:
		_, err = fmt.Fprintln(stdout, hex.EncodeToString(out))
	}
	if err != nil {
		return err
	}
	return finish(cfg, stderr)
}

func runFormats(args []string, stdout, stderr io.Writer) error {
	flags := newFlagSet("formats", stderr)
	verbose := flags.BoolP("verbose", "v", false, "print each format's fields")
	if err := flags.Parse(args); err != nil {
		return err
	}
	for _, name := range schema.Names() {
		if !*verbose {
			fmt.Fprintln(stdout, name)
			continue
		}
		f, err := schema.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s (min %d bytes)\n", name, f.MinSize())
		for _, s := range f.Fields() {
			fmt.Fprintf(stdout, "  %s\n", s)
		}
	}
	return nil
}

func runInit(args []string, stdout, stderr io.Writer) error {
	flags := newFlagSet("init", stderr)
	path := flags.String("path", config.DefaultPath, "where to write the config")
	force := flags.Bool("force", false, "overwrite an existing file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := config.WriteTemplate(*path, *force); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", *path)
	return nil
}
