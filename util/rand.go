package util

import (
	"encoding/binary"
	"time"

	"pixhide/cryptography"
)

// RandSeed returns a seed for noise covers. It falls back to the clock if
// the system random source fails.
func RandSeed() int64 {
	buffer, err := cryptography.GenRandom(8)
	if err != nil {
		return time.Now().UnixNano()
	}
	seed := int64(binary.LittleEndian.Uint64(buffer) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
