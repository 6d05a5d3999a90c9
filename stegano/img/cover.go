package img

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand"
	"strconv"
	"strings"
)

// ParseColor parses "#rrggbb", "random" or "" (same as "random").
func ParseColor(s string) (Pixel, error) {
	if s == "" || s == "random" {
		buf := make([]byte, 3)
		if _, err := rand.Read(buf); err != nil {
			return Pixel{}, fmt.Errorf("random color: %w", err)
		}
		return Pixel{buf[0], buf[1], buf[2]}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Pixel{}, fmt.Errorf("invalid color %q: expected 6-char hex", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Pixel{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Pixel{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// NewSolidGrid creates a uniform cover image.
func NewSolidGrid(width, height int, c Pixel) *PixelGrid {
	grid := NewPixelGrid(width, height)
	for i := range grid.Pix {
		grid.Pix[i] = c
	}
	return grid
}

// NewNoiseGrid creates a cover of pseudo-random pixels. The same seed
// gives the same image.
func NewNoiseGrid(width, height int, seed int64) *PixelGrid {
	r := mrand.New(mrand.NewSource(seed))
	grid := NewPixelGrid(width, height)
	for i := range grid.Pix {
		v := r.Uint32()
		grid.Pix[i] = Pixel{uint8(v), uint8(v >> 8), uint8(v >> 16)}
	}
	return grid
}
