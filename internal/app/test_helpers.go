package app

import (
	"os"
	"testing"

	"github.com/vk/codephy/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. It returns
// the app with its output and log buffers.
func SetupAppTest(t *testing.T, cfg *Config) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.LogLevel = "debug"
	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(outBuffer, logBuffer, cfg)

	t.Cleanup(func() {
		if os.Getenv("CODEPHY_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
