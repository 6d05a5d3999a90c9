package img

import (
	"bytes"
	"image/gif"
)

// only the first frame is used as a cover. gif is palette based, so
// the result can not be written back as gif.
func decodeGif(data []byte) (*PixelGrid, error) {
	img, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ConvertToRGB(img), nil
}
