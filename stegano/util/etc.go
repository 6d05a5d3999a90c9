package util

import (
	"golang.org/x/text/unicode/norm"
)

// FixUnicode brings text to NFC, so the same message typed on different
// systems gives the same bytes (and the same digest).
func FixUnicode(in string) string {
	return norm.NFC.String(in)
}
