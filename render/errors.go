package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/sketch"
)

var (
	// ErrInvalidLayout is returned for attribute layouts with an unsupported
	// count or a repeated attribute type.
	ErrInvalidLayout = errors.New("render: invalid layout")

	// ErrCapacityExceeded means a write went past a buffer's capacity. It
	// indicates that a CanAdd pre-check was skipped.
	ErrCapacityExceeded = errors.New("render: capacity exceeded")

	// ErrWindowOpen means Open was called on a buffer with an open window.
	ErrWindowOpen = errors.New("render: append window already open")

	// ErrWindowClosed means a windowed write or Close happened without Open.
	ErrWindowClosed = errors.New("render: no append window open")

	// ErrReleased means a buffer was used after Release.
	ErrReleased = errors.New("render: buffer released")

	// ErrSamplerTableFull means a batch ran out of texture sampler slots.
	ErrSamplerTableFull = errors.New("render: sampler table full")

	// ErrItemTooLarge means a render item does not fit an empty batch or
	// instance.
	ErrItemTooLarge = errors.New("render: item too large")
)

// fatal logs msg at error level and panics with err wrapped under msg.
func fatal(err error, msg string, args ...any) {
	sketch.Logger().Error(msg, append(args, "err", err)...)
	panic(fmt.Errorf("%s: %w", msg, err))
}
