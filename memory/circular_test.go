package memory

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCircularHeapAdvances(t *testing.T) {
	h := NewCircularHeap(NewHeap(KiB), 128)
	a := h.Allocate(10)
	b := h.Allocate(10)
	requireAligned(t, a)
	requireAligned(t, b)
	require.Equal(t, Size(26), h.Head())
	require.Equal(t, Size(26), h.CurrentSize())
	require.Zero(t, h.Resets())
}

func TestCircularHeapWrapWithoutTailResets(t *testing.T) {
	h := NewCircularHeap(NewHeap(KiB), 64)
	h.Allocate(48)
	require.False(t, h.CanAlloc(32))

	p := h.Allocate(32)
	require.Equal(t, 1, h.Resets(), "wrapping onto live data forces a reset")
	require.Equal(t, Size(32), h.Head())
	require.Zero(t, h.Tail())
	requireAligned(t, p)
}

func TestCircularHeapRetireAllowsWrap(t *testing.T) {
	h := NewCircularHeap(NewHeap(KiB), 64)
	h.Allocate(48)
	h.Retire()
	require.Zero(t, h.CurrentSize())

	require.True(t, h.CanAlloc(32))
	h.Allocate(32)
	require.Zero(t, h.Resets(), "retired region can be reused")
	require.Equal(t, Size(32), h.Head())
	require.Equal(t, Size(48), h.Tail())
	require.Equal(t, Size(64-48+32), h.CurrentSize())

	// head < tail: the next request is treated as not fitting.
	require.False(t, h.HasSpace(32, 8))
	h.Allocate(8)
	require.Equal(t, 1, h.Resets())
}

func TestCircularHeapHasSpace(t *testing.T) {
	h := NewCircularHeap(NewHeap(KiB), 128)
	h.Allocate(64)
	h.Retire()
	h.Allocate(32) // live [64, 96)

	require.True(t, h.HasSpace(96, 32))
	require.False(t, h.HasSpace(96, 33), "past the end of the ring")
	require.True(t, h.HasSpace(0, 64), "wrapped, ends at tail")
	require.False(t, h.HasSpace(0, 65), "wrapped, crosses tail")
	require.False(t, h.HasSpace(70, 8), "inside live data")
}

func TestCircularHeapFailures(t *testing.T) {
	h := NewCircularHeap(NewHeap(KiB), 64)
	requirePanicIs(t, ErrOutOfMemory, func() { h.Allocate(65) })

	p := h.Allocate(8)
	requirePanicIs(t, ErrDeallocateUnsupported, func() { h.Deallocate(p) })
	h.Deallocate(nil)
}

func TestCircularHeapFree(t *testing.T) {
	h := NewCircularHeap(NewHeap(KiB), 64)
	h.Allocate(40)
	h.Retire()
	h.Allocate(8)
	h.Free()
	require.Zero(t, h.Head())
	require.Zero(t, h.Tail())
	require.Zero(t, h.CurrentSize())
}

type interval struct{ start, end uintptr }

// TestCircularHeapWrapSafety checks that live allocations never overlap.
// Allocations are live from the last reset or Retire until the next one.
func TestCircularHeapWrapSafety(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, 11))
		h := NewCircularHeap(NewHeap(8*KiB), 4*KiB)

		var live []interval
		resets := 0
		for range 2000 {
			if rng.IntN(10) == 0 {
				h.Retire()
				live = live[:0]
			}
			p := h.Allocate(Size(1 + rng.IntN(700)))
			if h.Resets() != resets {
				resets = h.Resets()
				live = live[:0]
			}
			cur := interval{addressOf(p), addressOf(p) + uintptr(len(p))}
			requireAligned(t, p)
			for _, iv := range live {
				require.True(t, cur.end <= iv.start || cur.start >= iv.end,
					"seed %d: live allocations overlap", seed)
			}
			live = append(live, cur)
			require.LessOrEqual(t, h.CurrentSize(), h.TotalSize())
		}
	}
}
