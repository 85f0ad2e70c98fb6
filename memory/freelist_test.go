package memory

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFreeListHeapAllocate(t *testing.T) {
	h := NewFreeListHeap(NewHeap(KiB), 256)
	require.Equal(t, Size(256), h.TotalSize())
	require.Equal(t, 1, h.FreeBlocks())

	p := h.Allocate(20)
	require.Len(t, p, 20)
	requireAligned(t, p)
	require.Equal(t, Size(32+HeaderSize), h.CurrentSize())
	require.Equal(t, 1, h.FreeBlocks(), "remainder split off")
	require.Equal(t, Size(256-48), h.LargestFreeBlock())
}

func TestFreeListHeapCoalescing(t *testing.T) {
	h := NewFreeListHeap(NewHeap(KiB), 512)
	a := h.Allocate(16)
	b := h.Allocate(16)
	c := h.Allocate(16)
	d := h.Allocate(16)

	h.Deallocate(b)
	require.Equal(t, 2, h.FreeBlocks(), "b is isolated between a and c")

	h.Deallocate(d)
	require.Equal(t, 2, h.FreeBlocks(), "d merges with the trailing free block")

	h.Deallocate(c)
	require.Equal(t, 1, h.FreeBlocks(), "c bridges b and the trailing block")

	h.Deallocate(a)
	require.Equal(t, 1, h.FreeBlocks())
	require.Zero(t, h.CurrentSize())
	require.Equal(t, Size(512), h.LargestFreeBlock())
}

func TestFreeListHeapReuseFirstFit(t *testing.T) {
	h := NewFreeListHeap(NewHeap(KiB), 512)
	a := h.Allocate(64)
	h.Allocate(16)
	h.Deallocate(a)

	again := h.Allocate(32)
	require.Equal(t, addressOf(a), addressOf(again), "first fit reuses the lowest block")
}

func TestFreeListHeapExactFitNotSplit(t *testing.T) {
	h := NewFreeListHeap(NewHeap(KiB), 64)
	// blockSize(48) == 64: the whole heap, nothing left to split.
	p := h.Allocate(48)
	require.Equal(t, 48, len(p))
	require.Equal(t, Size(64), h.CurrentSize())
	require.Zero(t, h.FreeBlocks())
	require.False(t, h.CanAlloc(1))
}

func TestFreeListHeapSmallRemainderConsumed(t *testing.T) {
	h := NewFreeListHeap(NewHeap(KiB), 64)
	// blockSize(16) == 32 leaves 32 > HeaderSize: split.
	h.Allocate(16)
	require.Equal(t, 1, h.FreeBlocks())

	h2 := NewFreeListHeap(NewHeap(KiB), 48)
	// blockSize(16) == 32 leaves 16 == HeaderSize: consumed whole.
	p := h2.Allocate(16)
	require.Zero(t, h2.FreeBlocks())
	require.Equal(t, Size(48), h2.CurrentSize())
	require.Equal(t, 16, cap(p), "block slack is not exposed")
}

func TestFreeListHeapCapacityCapped(t *testing.T) {
	h := NewFreeListHeap(NewHeap(KiB), 256)
	p := h.Allocate(5)
	require.Equal(t, 5, len(p))
	require.Equal(t, 5, cap(p))

	next := h.Allocate(8)
	p = append(p, 0xFF)
	require.Zero(t, next[0], "appending past an allocation must not reach the next block")
	h.Deallocate(next)

	require.Nil(t, h.Allocate(0))
	require.Equal(t, Size(32), h.CurrentSize())
}

func TestFreeListHeapFailures(t *testing.T) {
	t.Run("zero sized", func(t *testing.T) {
		h := NewFreeListHeap(NewHeap(KiB), 0)
		require.False(t, h.CanAlloc(0))
		requirePanicIs(t, ErrOutOfMemory, func() { h.Allocate(1) })
	})
	t.Run("out of memory", func(t *testing.T) {
		h := NewFreeListHeap(NewHeap(KiB), 128)
		require.True(t, h.CanAlloc(112))
		require.False(t, h.CanAlloc(113))
		requirePanicIs(t, ErrOutOfMemory, func() { h.Allocate(113) })
	})
	t.Run("nil is a no-op", func(t *testing.T) {
		h := NewFreeListHeap(NewHeap(KiB), 128)
		h.Deallocate(nil)
		require.Equal(t, 1, h.FreeBlocks())
	})
	t.Run("double free", func(t *testing.T) {
		h := NewFreeListHeap(NewHeap(KiB), 128)
		p := h.Allocate(8)
		h.Deallocate(p)
		requirePanicIs(t, ErrInvalidPointer, func() { h.Deallocate(p) })
	})
	t.Run("foreign pointer", func(t *testing.T) {
		h := NewFreeListHeap(NewHeap(KiB), 128)
		requirePanicIs(t, ErrInvalidPointer, func() { h.Deallocate(make([]byte, 8)) })
	})
}

func TestFreeListHeapCanAllocDoesNotMutate(t *testing.T) {
	h := NewFreeListHeap(NewHeap(KiB), 256)
	h.Allocate(40)
	before, blocks := h.CurrentSize(), h.FreeBlocks()
	for _, size := range []Size{0, 1, 100, 1000} {
		h.CanAlloc(size)
	}
	require.Equal(t, before, h.CurrentSize())
	require.Equal(t, blocks, h.FreeBlocks())
}

// TestFreeListHeapRoundTrip allocates and frees random sizes in random
// order and checks that the heap coalesces back into a single block.
func TestFreeListHeapRoundTrip(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		h := NewFreeListHeap(NewHeap(64*KiB), 32*KiB)

		var live [][]byte
		for range 500 {
			if len(live) > 0 && rng.IntN(3) == 0 {
				i := rng.IntN(len(live))
				h.Deallocate(live[i])
				live = append(live[:i], live[i+1:]...)
				continue
			}
			size := Size(rng.IntN(300))
			if !h.CanAlloc(size) {
				continue
			}
			p := h.Allocate(size)
			requireAligned(t, p)
			require.Len(t, p, int(size))
			live = append(live, p)
		}

		rng.Shuffle(len(live), func(i, j int) { live[i], live[j] = live[j], live[i] })
		for _, p := range live {
			h.Deallocate(p)
		}
		require.Zero(t, h.CurrentSize(), "seed %d", seed)
		require.Equal(t, 1, h.FreeBlocks(), "seed %d", seed)
		require.Equal(t, h.TotalSize(), h.LargestFreeBlock(), "seed %d", seed)
	}
}

func TestFreeListHeapNoOverlap(t *testing.T) {
	h := NewFreeListHeap(NewHeap(16*KiB), 8*KiB)
	rng := rand.New(rand.NewPCG(3, 9))
	var live [][]byte
	for range 300 {
		if len(live) > 0 && rng.IntN(4) == 0 {
			i := rng.IntN(len(live))
			h.Deallocate(live[i])
			live = append(live[:i], live[i+1:]...)
		}
		size := Size(1 + rng.IntN(200))
		if !h.CanAlloc(size) {
			continue
		}
		p := h.Allocate(size)
		start, end := addressOf(p), addressOf(p)+uintptr(len(p))
		for _, q := range live {
			qs, qe := addressOf(q), addressOf(q)+uintptr(len(q))
			require.True(t, end <= qs || start >= qe, "allocations overlap")
		}
		live = append(live, p)
	}
}

func BenchmarkFreeListHeapAllocateDeallocate(b *testing.B) {
	h := NewFreeListHeap(NewHeap(MiB), MiB/2)
	b.ReportAllocs()
	for b.Loop() {
		p := h.Allocate(128)
		q := h.Allocate(64)
		h.Deallocate(p)
		h.Deallocate(q)
	}
}
