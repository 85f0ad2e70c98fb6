package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// AttributeType names one per-vertex or per-instance attribute.
type AttributeType uint8

// Attribute types.
const (
	AttributePosition AttributeType = iota
	AttributeNormal
	AttributeTexCoord
	AttributeColor
	AttributeDiffuseTextureIndex
	AttributeModelMatrixColumn0
	AttributeModelMatrixColumn1
	AttributeModelMatrixColumn2
	AttributeModelMatrixColumn3
	AttributeInstanceColor
	AttributeMaterialIndex
)

var attributeNames = [...]string{
	AttributePosition:            "position",
	AttributeNormal:              "normal",
	AttributeTexCoord:            "texcoord",
	AttributeColor:               "color",
	AttributeDiffuseTextureIndex: "diffuse_texture_index",
	AttributeModelMatrixColumn0:  "model_matrix_col0",
	AttributeModelMatrixColumn1:  "model_matrix_col1",
	AttributeModelMatrixColumn2:  "model_matrix_col2",
	AttributeModelMatrixColumn3:  "model_matrix_col3",
	AttributeInstanceColor:       "instance_color",
	AttributeMaterialIndex:       "material_index",
}

func (t AttributeType) String() string {
	if int(t) < len(attributeNames) {
		return attributeNames[t]
	}
	return fmt.Sprintf("attribute(%d)", uint8(t))
}

// DataType is the scalar type of an attribute component.
// Every data type is 4 bytes wide.
type DataType uint8

// Data types.
const (
	DataTypeFloat32 DataType = iota
	DataTypeInt32
	DataTypeUint32
)

// Size returns the width of one component in bytes.
func (DataType) Size() int { return 4 }

func (d DataType) String() string {
	switch d {
	case DataTypeFloat32:
		return "f32"
	case DataTypeInt32:
		return "i32"
	case DataTypeUint32:
		return "u32"
	}
	return fmt.Sprintf("datatype(%d)", uint8(d))
}

// Attribute places one attribute inside an element.
// Offset and Stride are in bytes and are filled in by NewLayout.
type Attribute struct {
	Type     AttributeType
	Count    int
	DataType DataType
	Offset   int
	Stride   int
}

// Size returns the attribute's width in bytes.
func (a Attribute) Size() int { return a.Count * a.DataType.Size() }

// Layout is an immutable attribute layout shared by every element of a
// vertex or instance buffer.
type Layout struct {
	step   gputypes.VertexStepMode
	attrs  []Attribute
	stride int
}

// NewLayout assigns offsets to attrs in order and sets their common stride.
// Counts must be 1..4 and each attribute type may appear once.
func NewLayout(step gputypes.VertexStepMode, attrs ...Attribute) (*Layout, error) {
	l := &Layout{step: step, attrs: make([]Attribute, len(attrs))}
	seen := make(map[AttributeType]bool, len(attrs))
	for i, a := range attrs {
		if a.Count < 1 || a.Count > 4 {
			return nil, fmt.Errorf("%v: count %d: %w", a.Type, a.Count, ErrInvalidLayout)
		}
		if a.DataType > DataTypeUint32 {
			return nil, fmt.Errorf("%v: %v: %w", a.Type, a.DataType, ErrInvalidLayout)
		}
		if seen[a.Type] {
			return nil, fmt.Errorf("%v repeated: %w", a.Type, ErrInvalidLayout)
		}
		seen[a.Type] = true
		a.Offset = l.stride
		l.stride += a.Size()
		l.attrs[i] = a
	}
	for i := range l.attrs {
		l.attrs[i].Stride = l.stride
	}
	return l, nil
}

func mustLayout(step gputypes.VertexStepMode, attrs ...Attribute) *Layout {
	l, err := NewLayout(step, attrs...)
	if err != nil {
		panic(err)
	}
	return l
}

// DefaultVertexLayout is position, normal, texture coordinate, color and
// diffuse texture slot.
func DefaultVertexLayout() *Layout {
	return mustLayout(gputypes.VertexStepModeVertex,
		Attribute{Type: AttributePosition, Count: 3},
		Attribute{Type: AttributeNormal, Count: 3},
		Attribute{Type: AttributeTexCoord, Count: 2},
		Attribute{Type: AttributeColor, Count: 4},
		Attribute{Type: AttributeDiffuseTextureIndex, Count: 1, DataType: DataTypeInt32},
	)
}

// DefaultInstanceLayout is the four model matrix columns, instance color
// and material index.
func DefaultInstanceLayout() *Layout {
	return mustLayout(gputypes.VertexStepModeInstance,
		Attribute{Type: AttributeModelMatrixColumn0, Count: 4},
		Attribute{Type: AttributeModelMatrixColumn1, Count: 4},
		Attribute{Type: AttributeModelMatrixColumn2, Count: 4},
		Attribute{Type: AttributeModelMatrixColumn3, Count: 4},
		Attribute{Type: AttributeInstanceColor, Count: 4},
		Attribute{Type: AttributeMaterialIndex, Count: 1, DataType: DataTypeInt32},
	)
}

// Stride returns the element size in bytes.
func (l *Layout) Stride() int { return l.stride }

// StepMode returns whether the layout advances per vertex or per instance.
func (l *Layout) StepMode() gputypes.VertexStepMode { return l.step }

// Attributes returns a copy of the attributes in layout order.
func (l *Layout) Attributes() []Attribute {
	return append([]Attribute(nil), l.attrs...)
}

// Find returns the attribute of type t.
func (l *Layout) Find(t AttributeType) (Attribute, bool) {
	for _, a := range l.attrs {
		if a.Type == t {
			return a, true
		}
	}
	return Attribute{}, false
}

// Has reports whether the layout contains t.
func (l *Layout) Has(t AttributeType) bool {
	_, ok := l.Find(t)
	return ok
}

// VertexBufferLayout converts l for a render pipeline, numbering shader
// locations from firstLocation in layout order.
func (l *Layout) VertexBufferLayout(firstLocation uint32) gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(l.attrs))
	for i, a := range l.attrs {
		attrs[i] = gputypes.VertexAttribute{
			Format:         vertexFormat(a),
			Offset:         uint64(a.Offset),
			ShaderLocation: firstLocation + uint32(i),
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(l.stride),
		StepMode:    l.step,
		Attributes:  attrs,
	}
}

var vertexFormats = [...][4]gputypes.VertexFormat{
	DataTypeFloat32: {gputypes.VertexFormatFloat32, gputypes.VertexFormatFloat32x2, gputypes.VertexFormatFloat32x3, gputypes.VertexFormatFloat32x4},
	DataTypeInt32:   {gputypes.VertexFormatSint32, gputypes.VertexFormatSint32x2, gputypes.VertexFormatSint32x3, gputypes.VertexFormatSint32x4},
	DataTypeUint32:  {gputypes.VertexFormatUint32, gputypes.VertexFormatUint32x2, gputypes.VertexFormatUint32x3, gputypes.VertexFormatUint32x4},
}

func vertexFormat(a Attribute) gputypes.VertexFormat {
	return vertexFormats[a.DataType][a.Count-1]
}
