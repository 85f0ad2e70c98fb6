package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/sketch/memory"
	"github.com/gogpu/sketch/render"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, render.PolicyImmediate, c.BufferPolicy())
	require.Equal(t, 64*memory.MiB, c.HeapSize)

	l, err := c.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, l)
}

func TestLoadNoFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "sketch.yaml", `
maxVertices: 1024
maxIndices: 2048
instanced: true
policy: retained
heapSize: 8MiB
allocator: linear
logLevel: debug
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1024, c.MaxVertices)
	require.Equal(t, 2048, c.MaxIndices)
	require.Equal(t, render.DefaultMaxTextures, c.MaxTextures, "unset fields keep defaults")
	require.True(t, c.Instanced)
	require.Equal(t, render.PolicyRetained, c.Policy)
	require.Equal(t, 8*memory.MiB, c.HeapSize)
	require.Equal(t, AllocatorLinear, c.Allocator)

	l, err := c.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, l)
}

func TestYAMLRoundTrip(t *testing.T) {
	c := Default()
	c.HeapSize = 3*memory.MiB + 7
	c.Policy = render.PolicyRetained
	c.Allocator = AllocatorRing

	out, err := yaml.Marshal(c)
	require.NoError(t, err)
	require.Contains(t, string(out), "3145735")

	got, err := Load(writeFile(t, "sketch.yaml", string(out)))
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "sketch.toml", `
max_instances = 16
max_materials = 4
policy = "retained"
heap_size = 4096
allocator = "go"
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 16, c.MaxInstances)
	require.Equal(t, 4, c.MaxMaterials)
	require.Equal(t, render.PolicyRetained, c.Policy)
	require.Equal(t, 4*memory.KiB, c.HeapSize)
	require.Nil(t, c.NewAllocator())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "sketch.yml", "maxVertices: 1024\nheapSize: 1MiB\n")
	t.Setenv("SKETCH_MAX_VERTICES", "4096")
	t.Setenv("SKETCH_HEAP_SIZE", "2 MiB")
	t.Setenv("SKETCH_POLICY", "RETAINED")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4096, c.MaxVertices)
	require.Equal(t, 2*memory.MiB, c.HeapSize)
	require.Equal(t, render.PolicyRetained, c.Policy)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		env  map[string]string
	}{
		{name: "unknown extension", file: "sketch.json", body: "{}"},
		{name: "bad yaml", file: "sketch.yaml", body: "maxVertices: [1"},
		{name: "bad toml", file: "sketch.toml", body: "max_vertices = "},
		{name: "bad policy", file: "sketch.yaml", body: "policy: sometimes"},
		{name: "bad size", file: "sketch.yaml", body: "heapSize: lots"},
		{name: "bad env", file: "sketch.yaml", body: "", env: map[string]string{"SKETCH_MAX_INDICES": "many"}},
		{name: "invalid value", file: "sketch.yaml", body: "maxVertices: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		env    string
	}{
		{"vertices", func(c *Config) { c.MaxVertices = 0 }, "SKETCH_MAX_VERTICES"},
		{"indices", func(c *Config) { c.MaxIndices = -1 }, "SKETCH_MAX_INDICES"},
		{"textures", func(c *Config) { c.MaxTextures = -1 }, "SKETCH_MAX_TEXTURES"},
		{"instances", func(c *Config) { c.MaxInstances = 0 }, "SKETCH_MAX_INSTANCES"},
		{"materials", func(c *Config) { c.MaxMaterials = -2 }, "SKETCH_MAX_MATERIALS"},
		{"policy", func(c *Config) { c.Policy = render.BufferPolicy(7) }, "SKETCH_POLICY"},
		{"heap", func(c *Config) { c.HeapSize = 0 }, "SKETCH_HEAP_SIZE"},
		{"allocator", func(c *Config) { c.Allocator = "slab" }, "SKETCH_ALLOCATOR"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "SKETCH_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			require.Contains(t, err.Error(), tt.env)
		})
	}

	c := Default()
	c.Allocator = AllocatorGo
	c.HeapSize = 0
	require.NoError(t, c.Validate(), "the Go heap needs no heap size")
}

func TestConverters(t *testing.T) {
	c := Default()
	c.MaxVertices = 100
	c.MaxIndices = 200
	c.MaxTextures = 3
	c.MaxInstances = 10
	c.MaxMaterials = 5
	c.HeapSize = memory.MiB

	alloc := c.NewAllocator()
	require.IsType(t, &memory.FreeListHeap{}, alloc)
	require.Equal(t, memory.MiB, alloc.TotalSize())

	bc := c.BatchConfig(alloc)
	require.Equal(t, render.BatchConfig{MaxVertices: 100, MaxIndices: 200, MaxTextures: 3, Allocator: alloc}, bc)

	ic := c.InstanceConfig(alloc)
	require.Equal(t, 10, ic.MaxInstances)
	require.Equal(t, 5, ic.MaxMaterials)
	require.Equal(t, 3, ic.MaxTextures)
	require.Same(t, alloc, ic.Allocator)

	c.Allocator = AllocatorLinear
	require.IsType(t, &memory.LinearHeap{}, c.NewAllocator())
	c.Allocator = AllocatorRing
	require.IsType(t, &memory.CircularHeap{}, c.NewAllocator())
}

func TestEnvName(t *testing.T) {
	require.Equal(t, "MAX_VERTICES", envName("maxVertices"))
	require.Equal(t, "POLICY", envName("policy"))
	require.Equal(t, "LOG_LEVEL", envName("logLevel"))
}
