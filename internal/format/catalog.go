package format

import (
	"fmt"
	"sort"
)

// Catalog is a read-only registry of named format specs.
type Catalog struct {
	specs map[string]Spec
}

// webImageExtensions are the extensions the built-in web formats accept.
var webImageExtensions = []string{"jpg", "jpeg", "png", "webp"}

// Built-in formats.
var builtin = map[string]Spec{
	"teaser-small": {
		Name:       "teaser-small",
		MinWidth:   320,
		MinHeight:  180,
		Ratio:      Ratio(16, 9),
		Extensions: webImageExtensions,
	},
	"teaser-large": {
		Name:       "teaser-large",
		MinWidth:   640,
		MinHeight:  360,
		Ratio:      Ratio(16, 9),
		Extensions: webImageExtensions,
	},
	"stage-wide": {
		Name:       "stage-wide",
		MinWidth:   1280,
		MinHeight:  720,
		Ratio:      Ratio(16, 9),
		Extensions: webImageExtensions,
	},
	"square": {
		Name:       "square",
		MinWidth:   200,
		MinHeight:  200,
		Ratio:      Ratio(1, 1),
		Extensions: webImageExtensions,
	},
	"content-43": {
		Name:       "content-43",
		MinWidth:   400,
		MinHeight:  300,
		Ratio:      Ratio(4, 3),
		Extensions: webImageExtensions,
	},
	"download": {
		Name: "download",
	},
}

// DefaultCatalog returns a catalog with the built-in formats.
func DefaultCatalog() *Catalog {
	c := &Catalog{specs: make(map[string]Spec, len(builtin))}
	for name, s := range builtin {
		c.specs[name] = s
	}
	return c
}

// Add registers a spec after validating it. An existing spec with the
// same name is replaced, so configuration can override built-ins.
func (c *Catalog) Add(s Spec) error {
	if s.Name == "" {
		return fmt.Errorf("format spec without a name")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	c.specs[s.Name] = s
	return nil
}

// Get returns the spec by name.
func (c *Catalog) Get(name string) (Spec, bool) {
	s, ok := c.specs[name]
	return s, ok
}

// Names returns all registered format names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered specs.
func (c *Catalog) Len() int {
	return len(c.specs)
}
