// Package memory provides the allocators that back sketch's host-side
// buffers without per-frame allocation spikes.
//
// All allocators compose over a single root [Heap] that owns one raw block:
//
//	root := memory.NewHeap(64 * memory.MiB)
//	frame := memory.NewDoubleBufferedHeap(root, 8*memory.MiB)
//	scratch := memory.NewCircularHeap(root, 4*memory.MiB)
//	pool := memory.NewFreeListHeap(root, 32*memory.MiB)
//
// Sizes are always expressed as [Size], never raw integers. Every slice
// returned by Allocate starts at an address aligned to [MaxAlign].
//
// # Failure model
//
// Allocators do not return errors. Running out of memory, deallocating a
// pointer that was never issued, or deallocating from a [CircularHeap] is a
// programming error: it is logged and then panics with an error wrapping one
// of the package sentinels ([ErrOutOfMemory], [ErrInvalidPointer],
// [ErrDeallocateUnsupported], [ErrHeapReleased]). Use CanAlloc to check
// beforehand on paths where content size is not known ahead of time.
//
// Allocators are not safe for concurrent use.
package memory
