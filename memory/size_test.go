package memory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeString(t *testing.T) {
	tests := []struct {
		size Size
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{KiB, "1 KiB"},
		{KiB + KiB/2, "1.5 KiB"},
		{64 * MiB, "64 MiB"},
		{2*GiB + GiB/4, "2.25 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.size.String())
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want Size
	}{
		{"4096", 4096},
		{"16B", 16},
		{"512 KiB", 512 * KiB},
		{"1.5MiB", MiB + MiB/2},
		{"2g", 2 * GiB},
		{" 64 MB ", 64 * MiB},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "MiB", "12 parsecs", "-1", "1.2.3K"} {
		t.Run("invalid/"+bad, func(t *testing.T) {
			_, err := ParseSize(bad)
			require.ErrorIs(t, err, ErrInvalidSize)
		})
	}
}

func TestSizeTextRoundTrip(t *testing.T) {
	var s Size
	require.NoError(t, s.UnmarshalText([]byte("8 MiB")))
	require.Equal(t, 8*MiB, s)

	tests := []struct {
		size Size
		want string
	}{
		{0, "0"},
		{1, "1"},
		{1023, "1023"},
		{1500, "1500"},
		{KiB, "1 KiB"},
		{8 * MiB, "8 MiB"},
		{3*MiB + 7, "3145735"},
		{GiB - 1, "1073741823"},
		{1536 * MiB, "1536 MiB"},
		{4 * GiB, "4 GiB"},
		{math.MaxUint64, "18446744073709551615"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			text, err := tt.size.MarshalText()
			require.NoError(t, err)
			require.Equal(t, tt.want, string(text))

			var got Size
			require.NoError(t, got.UnmarshalText(text))
			require.Equal(t, tt.size, got)
		})
	}
}

func TestParseSizeOverflow(t *testing.T) {
	for _, in := range []string{
		"20000000000GiB",
		"18446744073709551616",
		"17179869184 GiB",
		"1e30",
		"17179869184.5 GiB",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSize(in)
			require.ErrorIs(t, err, ErrInvalidSize)
		})
	}

	got, err := ParseSize("17179869183 GiB")
	require.NoError(t, err)
	require.Equal(t, Size(17179869183)*GiB, got)
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, Size(0), AlignUp(0, MaxAlign))
	require.Equal(t, Size(16), AlignUp(1, MaxAlign))
	require.Equal(t, Size(16), AlignUp(16, MaxAlign))
	require.Equal(t, Size(32), AlignUp(17, MaxAlign))
}
