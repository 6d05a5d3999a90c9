package img

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"pixhide/stegano/util"
)

/*
 * the image store: files in, pixel grids out, and back.
 * any cover format we can decode is accepted, but the result is only
 * ever written in a lossless format.
 */

var (
	ErrFileNotFound      = fmt.Errorf("%w: file not found", util.ErrValidation)
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported image format", util.ErrValidation)
	ErrDecode            = fmt.Errorf("%w: failed to decode image", util.ErrValidation)
	ErrWrite             = errors.New("failed to write image")
)

// Load reads an image file and converts it to RGB.
func Load(filename string) (*PixelGrid, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filename)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	grid, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return grid, nil
}

// Decode sniffs the format of data and decodes it.
func Decode(data []byte) (*PixelGrid, Format, error) {
	format := DetectFormat(data)
	var grid *PixelGrid
	var err error
	switch format {
	case PNG:
		grid, err = decodePNG(data)
	case BMP:
		grid, err = decodeBMP(data)
	case GIF:
		grid, err = decodeGif(data)
	case JPEG:
		grid, err = decodeJpeg(data)
	default:
		return nil, UnknownFormat, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, format, fmt.Errorf("%w (%s): %v", ErrDecode, format, err)
	}
	return grid, format, nil
}

// Encode writes grid to w. Only lossless formats are allowed.
func Encode(w io.Writer, grid *PixelGrid, format Format) error {
	if err := grid.Validate(); err != nil {
		return err
	}
	switch format {
	case PNG:
		return encodePNG(w, grid)
	case BMP:
		return encodeBMP(w, grid)
	}
	return fmt.Errorf("%w: cannot write %s without losing the hidden bits", ErrUnsupportedFormat, format)
}

// Save writes grid to filename, the format is taken from the extension.
// The file is only created once encoding succeeded.
func Save(filename string, grid *PixelGrid) error {
	format := FormatFromExt(filename)
	if !format.Lossless() {
		return fmt.Errorf("%w: %s (use .png or .bmp)", ErrUnsupportedFormat, filename)
	}
	buf := new(bytes.Buffer)
	if err := Encode(buf, grid, format); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
