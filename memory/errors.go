package memory

import (
	"errors"
	"fmt"

	"github.com/gogpu/sketch"
)

// Allocator errors. They are raised as panic values wrapped with context.
var (
	// ErrOutOfMemory is raised when an allocation does not fit.
	ErrOutOfMemory = errors.New("memory: out of memory")

	// ErrInvalidPointer is raised when deallocating a slice that the heap did
	// not issue or that was already deallocated.
	ErrInvalidPointer = errors.New("memory: pointer not allocated by this heap")

	// ErrDeallocateUnsupported is raised by allocators that only free in bulk.
	ErrDeallocateUnsupported = errors.New("memory: deallocate is not supported")

	// ErrHeapReleased is raised when allocating from a released root heap.
	ErrHeapReleased = errors.New("memory: heap has been released")

	// ErrInvalidSize is returned when parsing a malformed size string.
	ErrInvalidSize = errors.New("memory: invalid size")
)

// fatal logs the failure and panics with err wrapped by msg.
func fatal(err error, msg string, args ...any) {
	wrapped := fmt.Errorf("%s: %w", msg, err)
	sketch.Logger().Error(msg, append(args, "error", err)...)
	panic(wrapped)
}
