package acceptance

import (
	"os"
	"testing"
)

const binPath = "../../bin/skilldo"

// TestMain runs setup and teardown for acceptance tests
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// requireBinary skips the test when the skilldo binary has not been built
func requireBinary(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(binPath); err != nil {
		t.Skipf("skilldo binary not found at %s, build it first", binPath)
	}
}
