// Package resolver picks, for a media asset and a set of caller
// constraints, the stored rendition that satisfies them exactly — or
// derives a downscaled virtual rendition from a larger stored one.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/AnyUserName/mediares/internal/format"
	"github.com/AnyUserName/mediares/internal/rendition"
)

// cacheSize bounds the number of candidate sets kept across calls.
const cacheSize = 1024

// Asset is the read-only view of a media asset the resolver consumes.
// Snapshots are taken once per candidate-set population.
type Asset interface {
	// ID uniquely identifies the asset for candidate caching.
	ID() string
	// Renditions returns the stored renditions, order irrelevant.
	Renditions() []rendition.Descriptor
	// Original returns the designated original rendition, or nil.
	Original() *rendition.Descriptor
	// Crop returns an optional crop region exposed as a pre-cropped
	// virtual candidate, or nil.
	Crop() *rendition.Crop
}

// Match is the outcome of a successful resolution: the winning
// descriptor (stored or virtual) and, when a format spec was in play,
// which one matched.
type Match struct {
	rendition.Descriptor
	Format *format.Spec
}

// Resolver resolves renditions against cached per-asset candidate sets.
// It is safe for concurrent use; resolution itself is pure computation.
type Resolver struct {
	cache *lru.Cache[string, []rendition.Descriptor]
	group singleflight.Group
}

// New creates a Resolver with a bounded candidate-set cache.
func New() *Resolver {
	cache, _ := lru.New[string, []rendition.Descriptor](cacheSize)
	return &Resolver{cache: cache}
}

// Resolve returns the best rendition for the given constraints, or nil
// when nothing satisfies them. Absence of a match is not an error; only
// malformed constraints are.
func (r *Resolver) Resolve(asset Asset, args Args) (*Match, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid constraints: %w", err)
	}

	// Extension constraints from the caller and from the format specs
	// must agree; an empty intersection is unsatisfiable.
	extensions, ok := effectiveExtensions(args)
	if !ok {
		return nil, nil
	}

	candidates := filterByExtension(r.candidates(asset, args.IncludeThumbnails), extensions)

	if !isSizeMatching(args, extensions) {
		return originalOrFirst(asset, candidates), nil
	}

	if m := exactMatch(candidates, args); m != nil {
		return m, nil
	}
	return virtualMatch(candidates, args), nil
}

// candidates returns the sorted candidate set for (asset, thumbnails
// flag), populating the cache at most once per key. Population is
// idempotent, so a racing recomputation would yield an identical set.
func (r *Resolver) candidates(asset Asset, includeThumbnails bool) []rendition.Descriptor {
	key := fmt.Sprintf("%s|thumbs=%t", asset.ID(), includeThumbnails)
	if set, ok := r.cache.Get(key); ok {
		return set
	}
	v, _, _ := r.group.Do(key, func() (interface{}, error) {
		set := buildCandidates(asset, includeThumbnails)
		r.cache.Add(key, set)
		return set, nil
	})
	return v.([]rendition.Descriptor)
}

// buildCandidates snapshots the asset's renditions, drops reserved
// thumbnails unless requested, adds the pre-cropped virtual candidate
// when the asset declares a crop, and fixes the scan order.
func buildCandidates(asset Asset, includeThumbnails bool) []rendition.Descriptor {
	stored := asset.Renditions()
	set := make([]rendition.Descriptor, 0, len(stored)+1)
	for _, d := range stored {
		if !includeThumbnails && d.IsThumbnail() {
			continue
		}
		set = append(set, d)
	}

	if crop := asset.Crop(); crop != nil {
		if orig := asset.Original(); orig != nil {
			set = append(set, rendition.Descriptor{
				Width:    crop.Width,
				Height:   crop.Height,
				FileName: "crop." + orig.FileName,
				Path:     orig.Path,
				Hash:     orig.Hash,
				Virtual:  true,
				Crop:     crop,
			})
		}
	}

	sort.Slice(set, func(i, j int) bool { return set[i].Less(set[j]) })
	return set
}

// effectiveExtensions merges the caller's extensions with the union of
// extensions declared across the format specs. Both lower-cased. Returns
// ok=false when the two constraints exclude each other; an empty result
// with ok=true means any extension is allowed.
func effectiveExtensions(args Args) ([]string, bool) {
	fromArgs := lowerSet(args.FileExtensions)

	fromFormats := make(map[string]bool)
	for _, s := range args.Formats {
		for _, ext := range s.Extensions {
			fromFormats[strings.ToLower(ext)] = true
		}
	}

	var merged map[string]bool
	switch {
	case len(fromArgs) > 0 && len(fromFormats) > 0:
		merged = make(map[string]bool)
		for ext := range fromArgs {
			if fromFormats[ext] {
				merged[ext] = true
			}
		}
		if len(merged) == 0 {
			return nil, false
		}
	case len(fromArgs) > 0:
		merged = fromArgs
	default:
		merged = fromFormats
	}

	extensions := make([]string, 0, len(merged))
	for ext := range merged {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions, true
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[strings.ToLower(v)] = true
		}
	}
	return set
}

// filterByExtension keeps candidates matching one of the extensions,
// preserving the size order. An empty extension list keeps everything.
func filterByExtension(candidates []rendition.Descriptor, extensions []string) []rendition.Descriptor {
	if len(extensions) == 0 {
		return candidates
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[ext] = true
	}
	kept := make([]rendition.Descriptor, 0, len(candidates))
	for _, d := range candidates {
		if allowed[d.Extension()] {
			kept = append(kept, d)
		}
	}
	return kept
}

// isSizeMatching decides whether any width/height/ratio constraint is in
// effect. A request without an image-type extension and without fixed
// dimensions can never size-match.
func isSizeMatching(args Args, extensions []string) bool {
	anyImage := false
	for _, ext := range extensions {
		if format.IsImage(ext) {
			anyImage = true
			break
		}
	}
	if !anyImage && args.FixedWidth == 0 && args.FixedHeight == 0 {
		return false
	}

	if args.FixedWidth > 0 || args.FixedHeight > 0 {
		return true
	}
	for _, s := range args.Formats {
		if s.SizeConstrained() {
			return true
		}
	}
	return false
}

// exactMatch scans the candidates in ascending size order for a stored
// rendition that satisfies the fixed dimensions, or the first format
// spec that any candidate satisfies. Specs are tried strictly in caller
// order; the first success wins.
func exactMatch(candidates []rendition.Descriptor, args Args) *Match {
	if args.FixedWidth > 0 || args.FixedHeight > 0 {
		for _, c := range candidates {
			if c.MatchesFixed(args.FixedWidth, args.FixedHeight) {
				return &Match{Descriptor: c}
			}
		}
		return nil
	}

	for i := range args.Formats {
		spec := &args.Formats[i]
		for _, c := range candidates {
			if c.MatchesBounds(spec.MinWidth, spec.MinHeight, spec.MaxWidth, spec.MaxHeight, spec.Ratio) {
				return &Match{Descriptor: c, Format: spec}
			}
		}
	}
	return nil
}

// virtualMatch looks for a candidate large enough to downscale from and
// derives a same-ratio virtual descriptor.
func virtualMatch(candidates []rendition.Descriptor, args Args) *Match {
	if args.FixedWidth > 0 || args.FixedHeight > 0 {
		ratio := 0.0
		if args.FixedWidth > 0 && args.FixedHeight > 0 {
			ratio = float64(args.FixedWidth) / float64(args.FixedHeight)
		}
		if d, ok := deriveVirtual(candidates, args.FixedWidth, args.FixedHeight, ratio); ok {
			return &Match{Descriptor: d}
		}
		return nil
	}

	for i := range args.Formats {
		spec := &args.Formats[i]
		if d, ok := deriveVirtual(candidates, spec.MinWidth, spec.MinHeight, spec.Ratio); ok {
			return &Match{Descriptor: d, Format: spec}
		}
	}
	return nil
}

// deriveVirtual finds the first candidate at least as large as the
// destination in both dimensions (and of matching ratio, when one is
// given) and derives the target size from it. Only the first suitable
// source is considered; if derivation from it fails there is no match.
func deriveVirtual(candidates []rendition.Descriptor, destWidth, destHeight int, destRatio float64) (rendition.Descriptor, bool) {
	for _, c := range candidates {
		if !c.MatchesBounds(destWidth, destHeight, 0, 0, destRatio) {
			continue
		}
		return c.ScaledTo(destWidth, destHeight, destRatio)
	}
	return rendition.Descriptor{}, false
}

// originalOrFirst serves requests without size constraints: the original
// rendition if it survived filtering, otherwise the smallest candidate.
func originalOrFirst(asset Asset, candidates []rendition.Descriptor) *Match {
	if orig := asset.Original(); orig != nil {
		for _, c := range candidates {
			if !c.Virtual && c.Path == orig.Path {
				return &Match{Descriptor: c}
			}
		}
	}
	if len(candidates) > 0 {
		return &Match{Descriptor: candidates[0]}
	}
	return nil
}
