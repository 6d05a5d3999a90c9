package img

import (
	"bytes"
	"image/jpeg"
)

// jpeg covers are fine, jpeg output is not: recompression destroys the
// low-order bits.
func decodeJpeg(data []byte) (*PixelGrid, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ConvertToRGB(img), nil
}
