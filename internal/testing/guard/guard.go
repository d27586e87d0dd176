// Package guard switches the process into test mode when imported for side
// effects from a test binary.
package guard

import (
	"os"
	"sync"
)

// EnvTestMode is the variable app.InTestMode consults.
const EnvTestMode = "MUDIR_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(EnvTestMode) == "" {
			_ = os.Setenv(EnvTestMode, "1")
		}
	})
}
