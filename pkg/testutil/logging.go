package testutil

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// QuietLogs switches component logging off for a test binary. Call it from
// TestMain; tests that assert on log output install their own logger.
func QuietLogs() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	log.Logger = zerolog.New(io.Discard)
}
