// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads renderer capacities, buffer policy, heap size and
// log level from a YAML or TOML file with SKETCH_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/sketch/memory"
	"github.com/gogpu/sketch/render"
)

// EnvPrefix prefixes every environment override, for example
// SKETCH_MAX_VERTICES.
const EnvPrefix = "SKETCH"

// Allocator names accepted by Config.Allocator.
const (
	AllocatorFreeList = "freelist"
	AllocatorLinear   = "linear"
	AllocatorRing     = "ring"
	AllocatorGo       = "go"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the renderer settings.
type Config struct {
	MaxVertices  int                 `yaml:"maxVertices"  toml:"max_vertices"  envconfig:"MAX_VERTICES"`
	MaxIndices   int                 `yaml:"maxIndices"   toml:"max_indices"   envconfig:"MAX_INDICES"`
	MaxTextures  int                 `yaml:"maxTextures"  toml:"max_textures"  envconfig:"MAX_TEXTURES"`
	MaxInstances int                 `yaml:"maxInstances" toml:"max_instances" envconfig:"MAX_INSTANCES"`
	MaxMaterials int                 `yaml:"maxMaterials" toml:"max_materials" envconfig:"MAX_MATERIALS"`
	Instanced    bool                `yaml:"instanced"    toml:"instanced"     envconfig:"INSTANCED"`
	Policy       render.BufferPolicy `yaml:"policy"       toml:"policy"        envconfig:"POLICY"`
	HeapSize     memory.Size         `yaml:"heapSize"     toml:"heap_size"     envconfig:"HEAP_SIZE"`
	Allocator    string              `yaml:"allocator"    toml:"allocator"     envconfig:"ALLOCATOR"`
	LogLevel     string              `yaml:"logLevel"     toml:"log_level"     envconfig:"LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxVertices:  render.DefaultMaxVertices,
		MaxIndices:   render.DefaultMaxIndices,
		MaxTextures:  render.DefaultMaxTextures,
		MaxInstances: render.DefaultMaxInstances,
		MaxMaterials: render.DefaultMaxMaterials,
		Policy:       render.PolicyImmediate,
		HeapSize:     64 * memory.MiB,
		Allocator:    AllocatorFreeList,
		LogLevel:     "warn",
	}
}

// Load starts from Default, applies the file at path (when path is not
// empty) and then the environment. The file format follows the extension:
// .yaml, .yml or .toml. The result is validated.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		if err := c.decodeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment variables: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return nil
}

// Validate reports the first setting that cannot configure a renderer.
func (c Config) Validate() error {
	if field, problem := func() (string, string) {
		switch {
		case c.MaxVertices <= 0:
			return "maxVertices", "must be positive"
		case c.MaxIndices <= 0:
			return "maxIndices", "must be positive"
		case c.MaxTextures < 0:
			return "maxTextures", "must not be negative"
		case c.MaxInstances <= 0:
			return "maxInstances", "must be positive"
		case c.MaxMaterials < 0:
			return "maxMaterials", "must not be negative"
		case c.Policy != render.PolicyImmediate && c.Policy != render.PolicyRetained:
			return "policy", "must be immediate or retained"
		}
		switch c.Allocator {
		case AllocatorFreeList, AllocatorLinear, AllocatorRing:
			if c.HeapSize == 0 {
				return "heapSize", "must be positive for allocator " + c.Allocator
			}
		case AllocatorGo:
		default:
			return "allocator", fmt.Sprintf("unknown allocator %q", c.Allocator)
		}
		if _, err := c.Level(); err != nil {
			return "logLevel", err.Error()
		}
		return "", ""
	}(); field != "" {
		return fmt.Errorf("%w: %s (%s_%s): %s", ErrInvalid, field, EnvPrefix, envName(field), problem)
	}
	return nil
}

// envName converts a camel-case field name to its environment suffix.
func envName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Level parses LogLevel. An empty level is warn.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return l, nil
}

// NewAllocator builds the host allocator for render buffers. The go
// allocator returns nil, which makes buffers allocate from the Go heap.
func (c Config) NewAllocator() memory.Allocator {
	switch c.Allocator {
	case AllocatorFreeList:
		return memory.NewFreeListHeap(memory.NewHeap(c.HeapSize), c.HeapSize)
	case AllocatorLinear:
		return memory.NewLinearHeap(memory.NewHeap(c.HeapSize), c.HeapSize)
	case AllocatorRing:
		return memory.NewCircularHeap(memory.NewHeap(c.HeapSize), c.HeapSize)
	}
	return nil
}

// BatchConfig returns the batch capacities backed by alloc.
func (c Config) BatchConfig(alloc memory.Allocator) render.BatchConfig {
	return render.BatchConfig{
		MaxVertices: c.MaxVertices,
		MaxIndices:  c.MaxIndices,
		MaxTextures: c.MaxTextures,
		Allocator:   alloc,
	}
}

// InstanceConfig returns the instance capacities backed by alloc.
func (c Config) InstanceConfig(alloc memory.Allocator) render.InstanceConfig {
	return render.InstanceConfig{
		MaxInstances: c.MaxInstances,
		MaxMaterials: c.MaxMaterials,
		MaxTextures:  c.MaxTextures,
		Allocator:    alloc,
	}
}

// BufferPolicy returns the configured policy.
func (c Config) BufferPolicy() render.BufferPolicy { return c.Policy }
