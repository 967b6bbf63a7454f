package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/binfmt/internal/logging"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logging.ConfigureRuntime()
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "decode":
		err = runDecode(args[1:], stdin, stdout, stderr)
	case "encode":
		err = runEncode(args[1:], stdin, stdout, stderr)
	case "formats":
		err = runFormats(args[1:], stdout, stderr)
	case "init":
		err = runInit(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "binfmtctl: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "binfmtctl: %v\n", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: binfmtctl <command> [flags]

commands:
  decode -f <format> [file]   decode bytes (raw, or hex with --hex) to a YAML record
  encode -f <format> [file]   encode a YAML record to hex or raw bytes
  formats [-v]                list registered formats
  init [--path p] [--force]   write a template binfmt.toml
`)
}
