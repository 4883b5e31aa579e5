package app

import (
	"os"
	"testing"

	"github.com/vk/odegraph/internal/hcl"
	"github.com/vk/odegraph/internal/registry"
	"github.com/vk/odegraph/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing, backed by the
// HCL loader and a debug logger writing into the returned buffer.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer, error) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp, err := NewApp(logBuffer, cfg, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("ODEGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer, err
}
