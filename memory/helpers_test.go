package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// requirePanicIs asserts that f panics with an error wrapping target.
func requirePanicIs(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
	}()
	f()
}

func requireAligned(t *testing.T, p []byte) {
	t.Helper()
	require.Zero(t, addressOf(p)%uintptr(MaxAlign), "address %#x not aligned to %d", addressOf(p), MaxAlign)
}
