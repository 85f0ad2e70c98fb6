package render

import (
	"unsafe"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Identity returns the identity transform.
func Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform that moves points by (x, y, z).
func Translation(x, y, z float32) f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Scaling returns a transform that scales by (x, y, z).
func Scaling(x, y, z float32) f32.Mat4 {
	return f32.Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotationZ returns a rotation of angle radians around the z axis.
func RotationZ(angle float32) f32.Mat4 {
	s, c := math32.Sincos(angle)
	return f32.Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a*b. Matrices are row-major and transform column vectors, so
// Mul(a, b) applies b first.
func Mul(a, b f32.Mat4) f32.Mat4 {
	var m f32.Mat4
	for r := range 4 {
		for c := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[r*4+k] * b[k*4+c]
			}
			m[r*4+c] = sum
		}
	}
	return m
}

// transformPoint applies m to the point in v[:3].
func transformPoint(m *f32.Mat4, v []float32) {
	x, y, z := v[0], v[1], v[2]
	px := m[0]*x + m[1]*y + m[2]*z + m[3]
	py := m[4]*x + m[5]*y + m[6]*z + m[7]
	pz := m[8]*x + m[9]*y + m[10]*z + m[11]
	w := m[12]*x + m[13]*y + m[14]*z + m[15]
	if w != 0 && w != 1 {
		px, py, pz = px/w, py/w, pz/w
	}
	v[0], v[1], v[2] = px, py, pz
}

// normalMatrix returns the cofactor matrix of m's upper 3x3, negated when
// the determinant is negative. That is the inverse transpose up to a
// positive scale, which renormalisation removes.
func normalMatrix(m *f32.Mat4) [9]float32 {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[4], m[5], m[6]
	g, h, i := m[8], m[9], m[10]
	n := [9]float32{
		e*i - f*h, f*g - d*i, d*h - e*g,
		c*h - b*i, a*i - c*g, b*g - a*h,
		b*f - c*e, c*d - a*f, a*e - b*d,
	}
	if a*n[0]+b*n[1]+c*n[2] < 0 {
		for k := range n {
			n[k] = -n[k]
		}
	}
	return n
}

// transformNormal applies n to the direction in v[:3] and renormalises.
func transformNormal(n *[9]float32, v []float32) {
	x, y, z := v[0], v[1], v[2]
	nx := n[0]*x + n[1]*y + n[2]*z
	ny := n[3]*x + n[4]*y + n[5]*z
	nz := n[6]*x + n[7]*y + n[8]*z
	if l := math32.Sqrt(nx*nx + ny*ny + nz*nz); l > 0 {
		nx, ny, nz = nx/l, ny/l, nz/l
	}
	v[0], v[1], v[2] = nx, ny, nz
}

// column returns column j of m.
func column(m *f32.Mat4, j int) f32.Vec4 {
	return f32.Vec4{m[j], m[4+j], m[8+j], m[12+j]}
}

// flatVec3 views p as tightly packed float32s without copying.
func flatVec3(p []f32.Vec3) []float32 {
	if len(p) == 0 {
		return nil
	}
	return unsafe.Slice(&p[0][0], len(p)*3)
}

// flatVec2 views p as tightly packed float32s without copying.
func flatVec2(p []f32.Vec2) []float32 {
	if len(p) == 0 {
		return nil
	}
	return unsafe.Slice(&p[0][0], len(p)*2)
}
