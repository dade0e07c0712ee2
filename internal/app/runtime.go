package app

import (
	"os"
	"strings"
	"sync/atomic"
)

const testModeEnv = "ODYSSEY_TEST_MODE"

var testMode atomic.Bool

func init() {
	RefreshTestMode()
}

// InTestMode reports whether the binaries should skip external side effects such as
// listening, migrating or scheduling jobs.
func InTestMode() bool {
	return testMode.Load()
}

// RefreshTestMode re-reads ODYSSEY_TEST_MODE after environment changes.
func RefreshTestMode() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(testModeEnv))) {
	case "1", "true", "yes":
		testMode.Store(true)
	default:
		testMode.Store(false)
	}
}
