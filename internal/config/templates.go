package config

import (
	"fmt"
	"os"
)

func Template() string {
	return template
}

// WriteTemplate writes the commented default config to path. An existing
// file is kept unless overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const template = `# byte order for multi-byte numbers and length prefixes: "big" or "little"
byte_order = "big"

# encode output: "hex" text or "raw" bytes
output = "hex"

# trace, debug, info, warn, error
log_level = "info"

# print codec metrics in Prometheus text format after each run
metrics = false
`
