// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command sketchbench drives synthetic frames through the batching and
// instancing core on a headless device and reports what was submitted.
package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/image/math/f32"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/config"
	"github.com/gogpu/sketch/device"
	"github.com/gogpu/sketch/render"
	"github.com/gogpu/sketch/shader"
)

func main() {
	app := cli.App{
		Name:        "sketchbench",
		Usage:       "benchmark render batching on a headless device",
		Description: "appends synthetic quads each frame, submits them and prints the totals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or TOML configuration file",
			},
			&cli.IntFlag{
				Name:  "frames",
				Value: 60,
				Usage: "number of frames to run",
			},
			&cli.IntFlag{
				Name:  "items",
				Value: 1000,
				Usage: "items drawn per frame",
			},
			&cli.BoolFlag{
				Name:  "instanced",
				Usage: "draw items through the instancing path",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "buffer policy: immediate or retained",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "shaders",
				Usage: "compile the embedded shaders before running",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.Load(ctx.String("config"))
			if err != nil {
				return err
			}
			if ctx.IsSet("instanced") {
				cfg.Instanced = ctx.Bool("instanced")
			}
			if ctx.IsSet("policy") {
				if err := cfg.Policy.UnmarshalText([]byte(ctx.String("policy"))); err != nil {
					return err
				}
			}
			if ctx.IsSet("log-level") {
				cfg.LogLevel = ctx.String("log-level")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(options{
				cfg:     cfg,
				frames:  ctx.Int("frames"),
				items:   ctx.Int("items"),
				shaders: ctx.Bool("shaders"),
			}, os.Stdout, os.Stderr)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	cfg     config.Config
	frames  int
	items   int
	shaders bool
}

// result is the outcome of one run.
type result struct {
	total   render.SubmitStats
	frames  int
	buffers int
	elapsed time.Duration
}

func run(opts options, out, logOut io.Writer) error {
	level, err := opts.cfg.Level()
	if err != nil {
		return err
	}
	sketch.SetLogger(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level})))
	defer sketch.SetLogger(nil)

	if opts.shaders {
		for _, p := range []shader.Program{shader.Batch, shader.Instance} {
			words, err := p.SPIRV()
			if err != nil {
				return fmt.Errorf("compiling %v shader: %w", p, err)
			}
			sketch.Logger().Info("shader compiled", "program", p, "words", len(words))
		}
	}

	res, err := bench(opts)
	if err != nil {
		return err
	}
	report(out, opts, res)
	return nil
}

func bench(opts options) (result, error) {
	cfg := opts.cfg
	alloc := cfg.NewAllocator()
	r := render.NewRenderer(cfg.BatchConfig(alloc), cfg.InstanceConfig(alloc), cfg.BufferPolicy())
	dev := device.NewHeadless()
	sc := newScene(opts.items)

	var res result
	start := time.Now()
	for frame := range opts.frames {
		// Retained content is appended once and redrawn afterwards.
		if cfg.BufferPolicy() == render.PolicyImmediate || frame == 0 {
			sc.draw(r, cfg.Instanced, frame)
		}
		stats, err := r.EndFrame(dev)
		if err != nil {
			r.Release(dev)
			return res, fmt.Errorf("frame %d: %w", frame, err)
		}
		res.total.Add(stats)
		dev.ClearCommands()
	}
	res.elapsed = time.Since(start)
	res.frames = r.Frames()
	res.buffers = dev.CreatedBuffers()

	r.Release(dev)
	if n := dev.LiveBuffers(); n != 0 {
		return res, fmt.Errorf("%d device buffers still live after release", n)
	}
	return res, nil
}

func report(w io.Writer, opts options, res result) {
	p := message.NewPrinter(language.English)
	mode := "batched"
	if opts.cfg.Instanced {
		mode = "instanced"
	}
	p.Fprintf(w, "%s, %v policy: %d frames of %d items in %v\n",
		mode, opts.cfg.BufferPolicy(), res.frames, opts.items, res.elapsed.Round(time.Microsecond))
	p.Fprintf(w, "  draw calls %d\n", res.total.DrawCalls)
	p.Fprintf(w, "  vertices   %d\n", res.total.Vertices)
	p.Fprintf(w, "  indices    %d\n", res.total.Indices)
	p.Fprintf(w, "  instances  %d\n", res.total.Instances)
	p.Fprintf(w, "  uploaded   %d bytes\n", res.total.Bytes)
	p.Fprintf(w, "  buffers    %d created\n", res.buffers)
}

// scene is a grid of quads in a few shapes and materials.
type scene struct {
	items     int
	shapes    []*render.RenderItem
	materials []render.Material
}

func newScene(items int) *scene {
	s := &scene{items: items}
	for id := range 4 {
		w := float32(id + 1)
		s.shapes = append(s.shapes, &render.RenderItem{
			GeometryID: uint64(id + 1),
			Positions:  []f32.Vec3{{0, 0, 0}, {w, 0, 0}, {w, 1, 0}, {0, 1, 0}},
			Normals:    []f32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
			UVs:        []f32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			Indices:    []uint32{0, 1, 2, 0, 2, 3},
			Textures:   []device.TextureID{device.TextureID(id%2 + 1)},
		})
	}
	for i := range 3 {
		m := render.DefaultMaterial()
		shininess := 8 << i
		m.Shininess = float32(shininess)
		s.materials = append(s.materials, m)
	}
	return s
}

func (s *scene) draw(r *render.Renderer, instanced bool, frame int) {
	const columns = 64
	for i := range s.items {
		item := *s.shapes[i%len(s.shapes)]
		x := float32(i%columns) * 5
		y := float32(i/columns) * 2
		world := render.Translation(x, y, float32(frame%8))
		color := f32.Vec4{float32(i%3) / 2, float32(i%5) / 4, 1, 1}
		if instanced {
			item.Material = &s.materials[i%len(s.materials)]
			r.DrawInstanced(&item, color, world)
			continue
		}
		r.Draw(&item, color, world)
	}
}
