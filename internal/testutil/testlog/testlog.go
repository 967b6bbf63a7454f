package testlog

import (
	"testing"

	"github.com/danmuck/binfmt/internal/logging"
	"github.com/rs/zerolog"
)

// Start configures test logging and returns a logger tagged with the test
// name.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	logging.ConfigureTests()
	l := logging.Logger().With().Str("test", t.Name()).Logger()
	l.Info().Msg("start")
	return l
}
