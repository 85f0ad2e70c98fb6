package memory

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is a count of bytes.
type Size uint64

// Size units. Binary multiples are used throughout.
const (
	Byte Size = 1
	KiB       = 1024 * Byte
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
)

// MaxAlign is the maximum natural alignment of any scalar or vector type the
// buffers store. Every allocation is aligned to it.
const MaxAlign Size = 16

// AlignUp rounds s up to the next multiple of align, which must be a power
// of two.
func AlignUp(s, align Size) Size {
	return (s + align - 1) &^ (align - 1)
}

// Int returns s as an int for slice arithmetic.
func (s Size) Int() int { return int(s) }

// String renders s using the largest binary unit that keeps the value >= 1,
// e.g. "512 B", "1.5 KiB", "64 MiB".
func (s Size) String() string {
	switch {
	case s >= GiB:
		return formatUnit(s, GiB, "GiB")
	case s >= MiB:
		return formatUnit(s, MiB, "MiB")
	case s >= KiB:
		return formatUnit(s, KiB, "KiB")
	default:
		return strconv.FormatUint(uint64(s), 10) + " B"
	}
}

func formatUnit(s, unit Size, name string) string {
	v := strconv.FormatFloat(float64(s)/float64(unit), 'f', 2, 64)
	v = strings.TrimRight(strings.TrimRight(v, "0"), ".")
	return v + " " + name
}

var units = map[string]Size{
	"":    Byte,
	"b":   Byte,
	"k":   KiB,
	"kb":  KiB,
	"kib": KiB,
	"m":   MiB,
	"mb":  MiB,
	"mib": MiB,
	"g":   GiB,
	"gb":  GiB,
	"gib": GiB,
}

// ParseSize parses strings such as "4096", "512 KiB", "1.5MiB" or "2g".
// Decimal unit names (KB, MB, GB) are treated as binary multiples.
func ParseSize(s string) (Size, error) {
	t := strings.TrimSpace(s)
	i := len(t)
	for i > 0 {
		c := t[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			i--
			continue
		}
		break
	}
	num := strings.TrimSpace(t[:i])
	unit, ok := units[strings.ToLower(t[i:])]
	if !ok || num == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if n, err := strconv.ParseUint(num, 10, 64); err == nil {
		if n > math.MaxUint64/uint64(unit) {
			return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
		}
		return Size(n) * unit, nil
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || !(f >= 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	v := f * float64(unit)
	if v >= 1<<64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
	}
	return Size(v), nil
}

// MarshalText implements encoding.TextMarshaler. Unlike String it is
// exact: a unit is used only for whole multiples, otherwise the byte count
// is written.
func (s Size) MarshalText() ([]byte, error) {
	for _, u := range [...]struct {
		unit Size
		name string
	}{{GiB, "GiB"}, {MiB, "MiB"}, {KiB, "KiB"}} {
		if s >= u.unit && s%u.unit == 0 {
			return []byte(strconv.FormatUint(uint64(s/u.unit), 10) + " " + u.name), nil
		}
	}
	return []byte(strconv.FormatUint(uint64(s), 10)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so sizes can be read
// from YAML, TOML and environment variables.
func (s *Size) UnmarshalText(text []byte) error {
	v, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
