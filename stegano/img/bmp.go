package img

import (
	"bytes"
	"io"

	"golang.org/x/image/bmp"
)

func decodeBMP(data []byte) (*PixelGrid, error) {
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ConvertToRGB(img), nil
}

// opaque images are written as 24-bit bitmaps
func encodeBMP(w io.Writer, grid *PixelGrid) error {
	return bmp.Encode(w, grid.ToImage())
}
