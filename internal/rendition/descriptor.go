package rendition

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// ThumbnailPrefix is the reserved file name prefix for auto-generated
// asset thumbnails. Renditions named "thumb.<...>" are hidden from
// resolution unless explicitly requested.
const ThumbnailPrefix = "thumb."

// RatioTolerance is applied to all aspect ratio comparisons. Two ratios
// closer than this are considered equal; a ratio below it counts as unset.
const RatioTolerance = 0.01

// Crop is a rectangular region in source pixels, applied to the backing
// rendition before any size derivation.
type Crop struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Descriptor is immutable metadata about one rendition of a media asset.
// Width or height of zero marks a non-image rendition. A virtual
// descriptor describes a target size derived from the backing rendition;
// the backing bytes are never rescaled here.
type Descriptor struct {
	Width    int
	Height   int
	FileName string
	Path     string // backing byte source, relative to the asset root
	Hash     string // content hash of the backing bytes
	Virtual  bool   // size is a derived target, not stored as-is
	Crop     *Crop  // optional crop region on the backing source
}

// Extension returns the lower-cased file extension without the dot.
func (d Descriptor) Extension() string {
	ext := filepath.Ext(d.FileName)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Area is the pixel area used for size ordering.
func (d Descriptor) Area() int64 {
	return int64(d.Width) * int64(d.Height)
}

// Ratio returns width/height, or 0 for non-image renditions.
func (d Descriptor) Ratio() float64 {
	if d.Height == 0 {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

// IsThumbnail reports whether the rendition uses the reserved thumbnail
// file name prefix.
func (d Descriptor) IsThumbnail() bool {
	return strings.HasPrefix(d.FileName, ThumbnailPrefix)
}

// Less orders descriptors by ascending pixel area, ties broken by file
// name so that candidate sets are deterministic. Non-image renditions
// sort smallest.
func (d Descriptor) Less(o Descriptor) bool {
	if d.Area() != o.Area() {
		return d.Area() < o.Area()
	}
	return d.FileName < o.FileName
}

// SameRatio reports whether two aspect ratios are equal within tolerance.
func SameRatio(a, b float64) bool {
	return math.Abs(a-b) < RatioTolerance
}

// MatchesFixed reports whether the rendition has exactly the given
// dimensions. A zero value means "don't care" for that axis.
func (d Descriptor) MatchesFixed(width, height int) bool {
	if width > 0 && d.Width != width {
		return false
	}
	if height > 0 && d.Height != height {
		return false
	}
	return true
}

// MatchesBounds reports whether the rendition falls inside the given
// min/max bounds (0 = unbounded) and matches the ratio within tolerance
// (0 = unconstrained).
func (d Descriptor) MatchesBounds(minWidth, minHeight, maxWidth, maxHeight int, ratio float64) bool {
	if d.Width < minWidth || d.Height < minHeight {
		return false
	}
	if maxWidth > 0 && d.Width > maxWidth {
		return false
	}
	if maxHeight > 0 && d.Height > maxHeight {
		return false
	}
	if ratio >= RatioTolerance {
		if d.Height == 0 {
			return false
		}
		if !SameRatio(d.Ratio(), ratio) {
			return false
		}
	}
	return true
}

// ScaledTo derives a virtual descriptor with the given target size from
// this rendition. A missing dimension is filled from the ratio; a missing
// ratio is taken from the rendition itself. The crop region, if any, is
// carried forward. Returns false when no positive target size can be
// derived.
func (d Descriptor) ScaledTo(destWidth, destHeight int, destRatio float64) (Descriptor, bool) {
	width := destWidth
	height := destHeight
	ratio := destRatio

	if ratio < RatioTolerance {
		if d.Height == 0 || d.Width == 0 {
			return Descriptor{}, false
		}
		ratio = float64(d.Width) / float64(d.Height)
	}

	if height == 0 && width > 0 {
		height = int(math.Round(float64(width) / ratio))
	}
	if width == 0 && height > 0 {
		width = int(math.Round(float64(height) * ratio))
	}

	if width <= 0 || height <= 0 {
		return Descriptor{}, false
	}

	out := d
	out.Width = width
	out.Height = height
	out.Virtual = true
	return out, true
}

// String renders a short human-readable form for CLI output.
func (d Descriptor) String() string {
	kind := ""
	if d.Virtual {
		kind = " (virtual)"
	}
	if d.Crop != nil {
		kind += fmt.Sprintf(" (crop %d,%d %dx%d)", d.Crop.X, d.Crop.Y, d.Crop.Width, d.Crop.Height)
	}
	return fmt.Sprintf("%dx%d %s%s", d.Width, d.Height, d.FileName, kind)
}
