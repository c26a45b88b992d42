package core

import (
	"testing"

	"github.com/arthur-debert/addonlink/pkg/testutil"
)

func TestMain(m *testing.M) {
	// component loggers stay silent unless a test installs its own
	testutil.QuietLogs()
	m.Run()
}
