// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader holds the WGSL programs for the batch and instance
// pipelines and compiles them to SPIR-V with naga.
//
// Vertex locations match the default layouts in package render: the
// vertex layout occupies locations 0-4 and the instance layout 5-10.
// Instance materials are read from a storage buffer at group 0,
// binding 0.
package shader

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/naga"

	"github.com/gogpu/sketch"
)

//go:embed wgsl/batch.wgsl
var batchSource string

//go:embed wgsl/instance.wgsl
var instanceSource string

// ErrInvalidSPIRV is returned when the compiler output is not a whole
// number of 32-bit words.
var ErrInvalidSPIRV = errors.New("shader: SPIR-V length is not a multiple of 4")

// Program identifies one of the embedded shaders.
type Program uint8

// Embedded programs.
const (
	Batch Program = iota
	Instance
)

func (p Program) String() string {
	switch p {
	case Batch:
		return "batch"
	case Instance:
		return "instance"
	}
	return fmt.Sprintf("Program(%d)", uint8(p))
}

// Source returns the WGSL source of p.
func (p Program) Source() string {
	switch p {
	case Batch:
		return batchSource
	case Instance:
		return instanceSource
	}
	return ""
}

// Compile compiles WGSL source to SPIR-V words.
func Compile(source string) ([]uint32, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	return Words(spirv)
}

// Words converts little-endian SPIR-V bytes to 32-bit words.
func Words(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, ErrInvalidSPIRV
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}

type compiled struct {
	once  sync.Once
	words []uint32
	err   error
}

var cache [2]compiled

// SPIRV returns the compiled program. Compilation runs once per program;
// later calls return the cached result.
func (p Program) SPIRV() ([]uint32, error) {
	if int(p) >= len(cache) {
		return nil, fmt.Errorf("shader: unknown program %v", p)
	}
	c := &cache[p]
	c.once.Do(func() {
		c.words, c.err = Compile(p.Source())
		if c.err != nil {
			sketch.Logger().Error("shader: compile failed", "program", p, "err", c.err)
			return
		}
		sketch.Logger().Debug("shader: compiled", "program", p, "words", len(c.words))
	})
	return c.words, c.err
}

// BatchSPIRV returns the compiled batch program.
func BatchSPIRV() ([]uint32, error) { return Batch.SPIRV() }

// InstanceSPIRV returns the compiled instance program.
func InstanceSPIRV() ([]uint32, error) { return Instance.SPIRV() }
