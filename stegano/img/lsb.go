package img

const (
	MinBitsPerChannel = 1
	MaxBitsPerChannel = 4

	// R, G and B. alpha is never touched.
	Channels = 3
)

func lowMask(k int) uint8 {
	return uint8(1<<k - 1)
}

// SetBits replaces the low k bits of channel with the first k bits of
// bits (MSB first). When fewer than k bits are left the rest is filled
// with zeros.
func SetBits(channel uint8, bits []uint8, k int) uint8 {
	v := uint8(0)
	for i := 0; i < k; i++ {
		v <<= 1
		if i < len(bits) {
			v |= bits[i] & 1
		}
	}
	return channel&^lowMask(k) | v
}

// GetBits returns the low k bits of channel, MSB first.
func GetBits(channel uint8, k int) []uint8 {
	res := make([]uint8, k)
	putBits(res, channel, k)
	return res
}

// putBits writes the low k bits of channel into dst[:k].
func putBits(dst []uint8, channel uint8, k int) {
	for i := 0; i < k; i++ {
		dst[i] = (channel >> (k - 1 - i)) & 1
	}
}
