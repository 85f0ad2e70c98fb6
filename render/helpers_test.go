package render

import (
	"errors"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/sketch/device"
)

var red = f32.Vec4{1, 0, 0, 1}

// quadItem returns a unit quad with 4 vertices and 6 indices.
func quadItem(id uint64, textures ...device.TextureID) *RenderItem {
	return &RenderItem{
		GeometryID: id,
		Positions:  []f32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Normals:    []f32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:        []f32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:    []uint32{0, 1, 2, 0, 2, 3},
		Textures:   textures,
	}
}

// triangleItem returns a triangle without indices.
func triangleItem(id uint64) *RenderItem {
	return &RenderItem{
		GeometryID: id,
		Positions:  []f32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}
}

// expectPanic fails unless f panics with an error wrapping target.
func expectPanic(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("panic = %v, want error wrapping %v", r, target)
		}
	}()
	f()
}

func floatsEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		d := a[i] - b[i]
		if d > 1e-5 || d < -1e-5 {
			return false
		}
	}
	return true
}
