// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sketch

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled is false, so disabled call sites
// never build their attributes.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var silent = slog.New(discard{})

var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger routes diagnostics from memory, render, device and shader to
// l. A nil l silences them again, which is also the initial state.
//
// What each package reports:
//
//	package  level  message
//	memory   debug  ring reset when an allocation would cross the tail
//	memory   error  out of memory or invalid pointer, then panics
//	render   debug  batch and instance spills, released batches,
//	                submitted frames, sampler slots a device could not bind
//	render   warn   allocator exhausted, buffer falls back to the Go heap
//	render   error  unknown attribute or short value (write skipped)
//	device   debug  buffer creation on the headless and HAL devices
//	device   warn   destroy of an unknown buffer
//	shader   debug  program compiled
//	shader   error  program failed to compile
//
// SetLogger is safe to call while a frame is being recorded:
//
//	sketch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger. Sub-packages call it on
// every log site, so a later SetLogger takes effect immediately.
func Logger() *slog.Logger { return current.Load() }
