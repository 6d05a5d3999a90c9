package img

import (
	"bytes"
	"image/png"
	"io"
)

func decodePNG(data []byte) (*PixelGrid, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ConvertToRGB(img), nil
}

// best compression: the output is bigger than a lossy file anyway
func encodePNG(w io.Writer, grid *PixelGrid) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, grid.ToImage())
}
