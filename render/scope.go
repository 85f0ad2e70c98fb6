package render

// AttributeWriter is the append-window surface of [VertexBuffer] and
// [InstanceBuffer].
type AttributeWriter interface {
	Open(n int) int
	Close()
	SetAttributeData(t AttributeType, src []float32)
	MapAttributeData(t AttributeType, value []float32)
	SetAttributeBytes(t AttributeType, src []byte)
}

// AppendScope is an open append window on an attribute buffer. Close
// commits it; closing twice is a no-op.
type AppendScope struct {
	buf    AttributeWriter
	n      int
	closed bool
}

// OpenAppendScope opens a window of n elements on buf.
func OpenAppendScope(buf AttributeWriter, n int) *AppendScope {
	return &AppendScope{buf: buf, n: buf.Open(n)}
}

// Len returns the clamped window size.
func (s *AppendScope) Len() int { return s.n }

// SetAttributeData copies attribute t for the window's elements.
func (s *AppendScope) SetAttributeData(t AttributeType, src []float32) {
	s.buf.SetAttributeData(t, src)
}

// MapAttributeData broadcasts value to attribute t of the window.
func (s *AppendScope) MapAttributeData(t AttributeType, value []float32) {
	s.buf.MapAttributeData(t, value)
}

// SetAttributeBytes copies raw bytes of attribute t for the window.
func (s *AppendScope) SetAttributeBytes(t AttributeType, src []byte) {
	s.buf.SetAttributeBytes(t, src)
}

// Close commits the window.
func (s *AppendScope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.buf.Close()
}

// WithAppendScope opens a window of n elements, calls fn and closes the
// window even if fn panics. It returns the clamped window size.
func WithAppendScope(buf AttributeWriter, n int, fn func(s *AppendScope)) int {
	s := OpenAppendScope(buf, n)
	defer s.Close()
	fn(s)
	return s.n
}

// IndexScope is an open append window on an index buffer.
type IndexScope struct {
	buf    *IndexBuffer
	n      int
	closed bool
}

// OpenIndexScope opens a window of n indices on buf.
func OpenIndexScope(buf *IndexBuffer, n int) *IndexScope {
	return &IndexScope{buf: buf, n: buf.Open(n)}
}

// Len returns the clamped window size.
func (s *IndexScope) Len() int { return s.n }

// SetIndexData writes src + base into the window.
func (s *IndexScope) SetIndexData(src []uint32, base uint32) { s.buf.SetIndexData(src, base) }

// SetSequentialIndexData writes base, base+1, ... into the window.
func (s *IndexScope) SetSequentialIndexData(base uint32) { s.buf.SetSequentialIndexData(base) }

// Close commits the window.
func (s *IndexScope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.buf.Close()
}

// WithIndexScope is WithAppendScope for index buffers.
func WithIndexScope(buf *IndexBuffer, n int, fn func(s *IndexScope)) int {
	s := OpenIndexScope(buf, n)
	defer s.Close()
	fn(s)
	return s.n
}
