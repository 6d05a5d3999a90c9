package img

import (
	"pixhide/cryptography"
	"pixhide/stegano/frame"
	"pixhide/stegano/util"
)

// MaxBytes is the largest frame (in bytes) a width x height image can
// carry with k bits per channel, the terminator already accounted for.
func MaxBytes(width, height, k int) int {
	if width <= 0 || height <= 0 || k <= 0 {
		return 0
	}
	n := width*height*Channels*k/8 - util.TerminatorBytes
	if n < 0 {
		return 0
	}
	return n
}

// MaxChars estimates how many characters fit, assuming about two bytes
// per UTF-8 character. Text made of wider code points fits less.
func MaxChars(width, height, k int) int {
	return MaxBytes(width, height, k) / 2
}

// MaxTextBytes is the longest text (in UTF-8 bytes) whose frame still
// fits, for plain or encrypted frames.
func MaxTextBytes(width, height, k int, encrypted bool) int {
	limit := MaxBytes(width, height, k)
	var n int
	if !encrypted {
		n = limit - frame.ModeSize - frame.BodyOverhead
	} else {
		room := limit - frame.ModeSize - frame.EnvelopeHeader
		if room < cryptography.BlockSize {
			return 0
		}
		// pkcs#7 always adds at least one byte
		n = room/cryptography.BlockSize*cryptography.BlockSize - 1 - frame.BodyOverhead
	}
	if n < 0 {
		return 0
	}
	return n
}

// Capacity is MaxBytes for the given grid.
func Capacity(grid *PixelGrid, k int) int {
	if grid == nil {
		return 0
	}
	return MaxBytes(grid.Width, grid.Height, k)
}
