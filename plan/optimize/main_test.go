package optimize

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// The engine logs batch progress and winners at Info and failed
	// strategies at Warn; the evolutionary strategies log at Debug.
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./plan/optimize/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}
