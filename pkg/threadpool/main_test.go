package threadpool

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// This catches workers that outlive their pool's shutdown.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
