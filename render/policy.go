package render

import (
	"fmt"
	"strings"
)

// BufferPolicy selects what drawing data keeps between frames.
type BufferPolicy uint8

const (
	// PolicyImmediate clears every batch each frame. Content is appended
	// anew every frame.
	PolicyImmediate BufferPolicy = iota

	// PolicyRetained keeps buffer contents across frames and only rewinds
	// the draw cursor, so the same content is redrawn without being
	// appended again.
	PolicyRetained
)

func (p BufferPolicy) String() string {
	switch p {
	case PolicyImmediate:
		return "immediate"
	case PolicyRetained:
		return "retained"
	}
	return fmt.Sprintf("BufferPolicy(%d)", uint8(p))
}

// ParseBufferPolicy parses "immediate" or "retained", ignoring case.
func ParseBufferPolicy(s string) (BufferPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "immediate":
		return PolicyImmediate, nil
	case "retained":
		return PolicyRetained, nil
	}
	return 0, fmt.Errorf("render: unknown buffer policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p BufferPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *BufferPolicy) UnmarshalText(text []byte) error {
	v, err := ParseBufferPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
