package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/binfmt/internal/protocol/codec"
	"github.com/danmuck/binfmt/internal/protocol/schema"
	"github.com/danmuck/binfmt/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// runCLI runs binfmtctl in an empty working directory so no binfmt.toml is
// picked up.
func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestDecodeGreetingHex(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "01 00 05 05 48 65 6c 6c 6f\n", "decode", "-f", schema.FormatGreeting, "--hex")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "flag: 1\ncount: 5\nname: Hello\n", res.stdout)
}

func TestDecodeLittleEndianOverride(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "00 2a 00 00 00", "decode", "-f", schema.FormatPaddedID, "--hex", "--byte-order", "little")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "id: 42\n", res.stdout)
}

func TestDecodeRawFromFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "in.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x00, 0x02, 0x02, 'h', 'i', 0xFF}, 0o600))
	res := runCLI(t, "", "decode", "-f", schema.FormatGreeting, path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "flag: 1\ncount: 2\nname: hi\n", res.stdout)
}

func TestEncodeGreeting(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "flag: 1\ncount: 5\nname: Hello\n", "encode", "-f", schema.FormatGreeting)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "0100050548656c6c6f\n", res.stdout)
}

func TestEncodeRawOutput(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "id: 42\n", "encode", "-f", schema.FormatPaddedID, "-o", "raw")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, string([]byte{0, 0, 0, 0, 42}), res.stdout)
}

func TestEncodeMissingFieldFails(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "flag: 1\nname: Hello\n", "encode", "-f", schema.FormatGreeting)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "field=count")
}

func TestEncodeRejectsNonMapping(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "- 1\n- 2\n", "encode", "-f", schema.FormatGreeting)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "not a YAML mapping")
}

func TestSampleRoundTripThroughYAML(t *testing.T) {
	testlog.Start(t)
	f, err := schema.Lookup(schema.FormatSample)
	require.NoError(t, err)
	rec := codec.NewRecord().
		Set("code", "ABCD").
		Set("delta", -3).
		Set("offset", 70000).
		Set("stamp", int64(-1)<<40).
		Set("ratio", 0.5).
		Set("digest", []byte{0, 1, 2, 3, 4, 5, 6, 7}).
		Set("note", "hi")
	buf, err := codec.Encode(rec, f, false)
	require.NoError(t, err)

	dec := runCLI(t, hex.EncodeToString(buf), "decode", "-f", schema.FormatSample, "--hex")
	require.Equal(t, 0, dec.code, dec.stderr)
	assert.Contains(t, dec.stdout, "digest: !!binary AAECAwQFBgc=")

	enc := runCLI(t, dec.stdout, "encode", "-f", schema.FormatSample)
	require.Equal(t, 0, enc.code, enc.stderr)
	assert.Equal(t, hex.EncodeToString(buf)+"\n", enc.stdout)
}

func TestDecodeShortInputFails(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "01 00", "decode", "-f", schema.FormatGreeting, "--hex")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "out of range")
}

func TestUnknownFormat(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "", "decode", "-f", "nope")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown format")
}

func TestFormatRequired(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "", "encode")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--format is required")
}

func TestMetricsDump(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "00 00 00 00 07", "decode", "-f", schema.FormatPaddedID, "--hex", "--metrics")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, `binfmt_codec_calls_total{format="padded-id",op="decode",result="ok"}`)
}

func TestConfigFileApplies(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "binfmt.toml")
	require.NoError(t, os.WriteFile(path, []byte("byte_order = \"little\"\n"), 0o600))
	res := runCLI(t, "id: 1\n", "encode", "-f", schema.FormatPaddedID, "-c", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "0001000000\n", res.stdout)
}

func TestExplicitMissingConfigFails(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "id: 1\n", "encode", "-f", schema.FormatPaddedID, "-c", "absent.toml")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "config load failed")
}

func TestFormatsList(t *testing.T) {
	testlog.Start(t)
	res := runCLI(t, "", "formats")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, strings.Join(schema.Names(), "\n")+"\n", res.stdout)

	res = runCLI(t, "", "formats", "-v")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "greeting (min 4 bytes)\n  byte flag\n  ushort count\n  string name<byte>\n")
}

func TestInitWritesTemplateOnce(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "binfmt.toml")
	res := runCLI(t, "", "init", "--path", path)
	require.Equal(t, 0, res.code, res.stderr)
	_, err := os.Stat(path)
	require.NoError(t, err)

	res = runCLI(t, "", "init", "--path", path)
	assert.Equal(t, 1, res.code)
	res = runCLI(t, "", "init", "--path", path, "--force")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestUsageAndUnknownCommand(t *testing.T) {
	testlog.Start(t)
	assert.Equal(t, 2, runCLI(t, "").code)
	res := runCLI(t, "", "bogus")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, `unknown command "bogus"`)
	res = runCLI(t, "", "help")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "usage: binfmtctl")
}
