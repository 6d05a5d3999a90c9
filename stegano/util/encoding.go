package util

/*
 * transform data from/to binary form.
 * bits are kept one per byte (0 or 1), most significant bit first,
 * and every stream ends with two zero bytes as a terminator.
 */

const (
	TerminatorBytes = 2
	TerminatorBits  = TerminatorBytes * 8
)

// ToBin expands a byte into 8 bits, MSB first.
func ToBin(x byte) []uint8 {
	result := make([]uint8, 8)
	for i := 0; i < 8; i++ {
		result[i] = (x >> (7 - i)) & 1
	}
	return result
}

// FromBin folds 8 bits (MSB first) back into a byte.
func FromBin(x []uint8) byte {
	result := byte(0)
	for i := 0; i < 8; i++ {
		result = result<<1 | (x[i] & 1)
	}
	return result
}

// Pack turns payload into a bit stream with the terminator appended.
// An empty payload gives a stream that holds only the terminator.
func Pack(payload []byte) []uint8 {
	res := make([]uint8, 0, (len(payload)+TerminatorBytes)*8)
	for _, b := range payload {
		res = append(res, ToBin(b)...)
	}
	for i := 0; i < TerminatorBits; i++ {
		res = append(res, 0)
	}
	return res
}

// BytesFromBits decodes every full byte of the stream. A trailing
// partial byte is dropped.
func BytesFromBits(bits []uint8) []byte {
	result := make([]byte, 0, len(bits)/8)
	for i := 0; i+8 <= len(bits); i += 8 {
		result = append(result, FromBin(bits[i:i+8]))
	}
	return result
}

// IndexTerminator returns the index of the first pair of zero bytes
// at or after from, or -1.
func IndexTerminator(data []byte, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+1 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 {
			return i
		}
	}
	return -1
}

// Unpack decodes the stream up to the first terminator and drops it.
// When no terminator shows up, every decoded byte is returned together
// with false: for an image that is the normal "nothing here" case, not
// an error.
//
// A payload that contains two zero bytes in a row is cut at that point.
// Extraction starts from this prefix and only when it does not verify
// scans the whole stream for a later terminator (frame.Parser.Scan).
func Unpack(bits []uint8) ([]byte, bool) {
	data := BytesFromBits(bits)
	idx := IndexTerminator(data, 0)
	if idx < 0 {
		return data, false
	}
	return data[:idx], true
}
