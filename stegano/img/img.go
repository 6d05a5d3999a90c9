package img

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format is an image container the store knows about.
type Format int8

const (
	UnknownFormat = Format(-1)
	PNG           = Format(0)
	BMP           = Format(1)
	GIF           = Format(2)
	JPEG          = Format(3)
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case GIF:
		return "gif"
	case JPEG:
		return "jpeg"
	}
	return "unknown"
}

// Lossless formats keep every low-order bit, so only they can be
// written after embedding.
func (f Format) Lossless() bool {
	return f == PNG || f == BMP
}

var (
	pngMagic  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	gifMagic  = []byte{0x47, 0x49, 0x46}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
	bmpMagic  = []byte{0x42, 0x4d}
)

// DetectFormat looks at the magic bytes at the start of a file.
func DetectFormat(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, pngMagic):
		return PNG
	case bytes.HasPrefix(head, gifMagic):
		return GIF
	case bytes.HasPrefix(head, jpegMagic):
		return JPEG
	case bytes.HasPrefix(head, bmpMagic):
		return BMP
	}
	return UnknownFormat
}

// FormatFromExt maps a file name to a format by its extension.
func FormatFromExt(filename string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "png":
		return PNG
	case "bmp":
		return BMP
	case "gif":
		return GIF
	case "jpg", "jpeg":
		return JPEG
	}
	return UnknownFormat
}
