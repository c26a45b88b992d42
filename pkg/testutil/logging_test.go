package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestQuietLogs(t *testing.T) {
	level, logger := zerolog.GlobalLevel(), log.Logger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		log.Logger = logger
	})
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	QuietLogs()

	assert.Equal(t, zerolog.Disabled, zerolog.GlobalLevel())
	assert.False(t, log.Trace().Enabled())
	assert.False(t, log.Error().Enabled())
}
