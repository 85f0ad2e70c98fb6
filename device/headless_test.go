package device

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestHeadlessCreateWriteDestroy(t *testing.T) {
	h := NewHeadless()
	id, err := h.CreateBuffer(BufferDescriptor{
		Label: "vertices",
		Size:  16,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	if id == InvalidBuffer {
		t.Fatal("CreateBuffer() returned InvalidBuffer")
	}
	if got := h.LiveBuffers(); got != 1 {
		t.Errorf("LiveBuffers() = %d, want 1", got)
	}
	if usage, ok := h.BufferUsage(id); !ok || usage&gputypes.BufferUsageVertex == 0 {
		t.Errorf("BufferUsage() = %v, %v; want vertex usage", usage, ok)
	}

	if err := h.WriteBuffer(id, 4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("WriteBuffer() error = %v", err)
	}
	want := []byte{0, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 0, 0, 0, 0, 0}
	if got := h.BufferData(id); !bytes.Equal(got, want) {
		t.Errorf("BufferData() = %v, want %v", got, want)
	}

	h.DestroyBuffer(id)
	if got := h.LiveBuffers(); got != 0 {
		t.Errorf("LiveBuffers() after destroy = %d, want 0", got)
	}
	if h.BufferData(id) != nil {
		t.Error("BufferData() of destroyed buffer should be nil")
	}
	if got := h.DoubleDestroys(); got != 0 {
		t.Errorf("DoubleDestroys() = %d, want 0", got)
	}

	h.DestroyBuffer(id)
	if got := h.DoubleDestroys(); got != 1 {
		t.Errorf("DoubleDestroys() after second destroy = %d, want 1", got)
	}
}

func TestHeadlessErrors(t *testing.T) {
	h := NewHeadless()

	if _, err := h.CreateBuffer(BufferDescriptor{Label: "empty"}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("CreateBuffer(size 0) error = %v, want ErrInvalidSize", err)
	}

	if err := h.WriteBuffer(42, 0, []byte{1}); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("WriteBuffer(unknown) error = %v, want ErrUnknownBuffer", err)
	}

	id, err := h.CreateBuffer(BufferDescriptor{Label: "small", Size: 8})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		offset uint64
		n      int
	}{
		{"past end", 4, 5},
		{"offset beyond size", 9, 0},
		{"too large", 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.WriteBuffer(id, tt.offset, make([]byte, tt.n)); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("WriteBuffer() error = %v, want ErrInvalidSize", err)
			}
		})
	}
	if err := h.WriteBuffer(id, 0, make([]byte, 8)); err != nil {
		t.Errorf("WriteBuffer(exact fit) error = %v", err)
	}
}

func TestHeadlessRecording(t *testing.T) {
	h := NewHeadless()
	vb, _ := h.CreateBuffer(BufferDescriptor{Size: 64})
	ib, _ := h.CreateBuffer(BufferDescriptor{Size: 64})
	h.ClearCommands()

	h.SetVertexBuffer(0, vb)
	h.SetIndexBuffer(ib)
	h.BindTexture(2, 7)
	h.BindStorageBuffer(0, vb)
	h.DrawIndexed(6, 3)
	h.Unbind()

	want := []Command{
		{Op: OpSetVertexBuffer, Buffer: vb, Slot: 0},
		{Op: OpSetIndexBuffer, Buffer: ib},
		{Op: OpBindTexture, Texture: 7, TextureSlot: 2},
		{Op: OpBindStorageBuffer, Buffer: vb, Slot: 0},
		{Op: OpDrawIndexed, IndexCount: 6, InstanceCount: 3},
		{Op: OpUnbind},
	}
	got := h.Commands()
	if len(got) != len(want) {
		t.Fatalf("Commands() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Commands()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	draws := h.Draws()
	if len(draws) != 1 || draws[0].IndexCount != 6 {
		t.Errorf("Draws() = %+v, want one draw of 6 indices", draws)
	}
	if got := h.Count(OpSetVertexBuffer); got != 1 {
		t.Errorf("Count(OpSetVertexBuffer) = %d, want 1", got)
	}
	if got := h.CreatedBuffers(); got != 2 {
		t.Errorf("CreatedBuffers() = %d, want 2", got)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreateBuffer, "CreateBuffer"},
		{OpDrawIndexed, "DrawIndexed"},
		{OpUnbind, "Unbind"},
		{Op(0), "Op(0)"},
		{Op(200), "Op(200)"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", uint8(tt.op), got, tt.want)
		}
	}
}
