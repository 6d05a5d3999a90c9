package util

import (
	"path/filepath"
	"strings"
)

// OutputFilename names the stego image written next to input when no
// output path was given: photo.jpg -> photo_hidden.png.
func OutputFilename(input string) string {
	dir, file := filepath.Split(input)
	name := strings.TrimSuffix(file, filepath.Ext(file))
	if name == "" {
		name = "image"
	}
	return filepath.Join(dir, name+"_hidden.png")
}
