package resolver

import (
	"fmt"

	"github.com/AnyUserName/mediares/internal/format"
)

// Args are the caller-supplied constraints for one resolution call.
// Fixed dimensions, when set, take precedence over any format sizing.
type Args struct {
	// FileExtensions restricts matches to the given extensions
	// (case-insensitive, without dot). Empty means any.
	FileExtensions []string

	// FixedWidth and FixedHeight request an exact size; 0 means unset.
	FixedWidth  int
	FixedHeight int

	// Formats are evaluated in order; the first satisfiable one wins.
	Formats []format.Spec

	// IncludeThumbnails keeps reserved thumbnail renditions in the
	// candidate set.
	IncludeThumbnails bool
}

// Validate rejects malformed constraints before they reach resolution.
func (a Args) Validate() error {
	if a.FixedWidth < 0 || a.FixedHeight < 0 {
		return fmt.Errorf("negative fixed dimensions %dx%d", a.FixedWidth, a.FixedHeight)
	}
	for _, s := range a.Formats {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
