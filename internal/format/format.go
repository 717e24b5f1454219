// Package format defines named size/ratio/extension constraint sets that
// callers request rendition matches against.
package format

import (
	"fmt"
	"strings"
)

// Spec is a named constraint set. Zero bounds mean "unbounded", a zero
// ratio means "unconstrained", an empty extension list means "any".
// Ratio is width divided by height (16:9 ≈ 1.78).
type Spec struct {
	Name       string
	MinWidth   int
	MaxWidth   int
	MinHeight  int
	MaxHeight  int
	Ratio      float64
	Extensions []string
}

// Ratio computes a width/height aspect ratio from integer sides.
func Ratio(width, height int) float64 {
	if height == 0 {
		return 0
	}
	return float64(width) / float64(height)
}

// Validate rejects specs that can never be satisfied or are malformed.
// Unbounded (zero) values are always valid.
func (s Spec) Validate() error {
	if s.MinWidth < 0 || s.MaxWidth < 0 || s.MinHeight < 0 || s.MaxHeight < 0 {
		return fmt.Errorf("format %q: negative dimension bound", s.Name)
	}
	if s.Ratio < 0 {
		return fmt.Errorf("format %q: negative ratio %g", s.Name, s.Ratio)
	}
	if s.MaxWidth > 0 && s.MinWidth > s.MaxWidth {
		return fmt.Errorf("format %q: min width %d exceeds max width %d", s.Name, s.MinWidth, s.MaxWidth)
	}
	if s.MaxHeight > 0 && s.MinHeight > s.MaxHeight {
		return fmt.Errorf("format %q: min height %d exceeds max height %d", s.Name, s.MinHeight, s.MaxHeight)
	}
	return nil
}

// SizeConstrained reports whether the spec restricts dimensions or ratio
// in any way, as opposed to a pure extension filter.
func (s Spec) SizeConstrained() bool {
	return s.MinWidth > 0 || s.MaxWidth > 0 ||
		s.MinHeight > 0 || s.MaxHeight > 0 ||
		s.Ratio > 0
}

// imageExtensions lists file extensions treated as image types.
var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
	"tif":  true,
	"avif": true,
}

// IsImage reports whether the given file extension (without dot,
// any case) denotes an image type.
func IsImage(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}
