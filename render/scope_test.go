package render

import "testing"

func TestAppendScopeCommitsOnClose(t *testing.T) {
	vb := NewVertexBuffer(DefaultVertexLayout(), 4, nil)
	s := OpenAppendScope(vb, 3)
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	s.SetAttributeData(AttributePosition, []float32{1, 1, 1, 2, 2, 2, 3, 3, 3})
	s.MapAttributeData(AttributeColor, red[:])
	if vb.Len() != 0 {
		t.Errorf("Len() before Close = %d, want 0", vb.Len())
	}
	s.Close()
	s.Close()
	if vb.Len() != 3 {
		t.Errorf("Len() after Close = %d, want 3", vb.Len())
	}
	if vb.IsOpen() {
		t.Error("buffer still open after Close")
	}
}

func TestWithAppendScopeClosesOnPanic(t *testing.T) {
	vb := NewVertexBuffer(DefaultVertexLayout(), 4, nil)
	func() {
		defer func() { _ = recover() }()
		WithAppendScope(vb, 2, func(*AppendScope) { panic("boom") })
	}()
	if vb.IsOpen() {
		t.Error("WithAppendScope should close the window when fn panics")
	}
	if vb.Len() != 2 {
		t.Errorf("Len() = %d, want 2", vb.Len())
	}
}

func TestWithAppendScopeClamps(t *testing.T) {
	ib := NewIndexBuffer(4, nil)
	n := WithIndexScope(ib, 10, func(s *IndexScope) {
		if s.Len() != 4 {
			t.Errorf("Len() = %d, want 4", s.Len())
		}
		s.SetSequentialIndexData(0)
	})
	if n != 4 || ib.Len() != 4 {
		t.Errorf("WithIndexScope() = %d, Len() = %d; want 4, 4", n, ib.Len())
	}
}
