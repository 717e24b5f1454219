// Package store materializes media assets and their stored renditions
// from a directory tree or an asset manifest. It is the content-store
// side of resolution: it produces read-only snapshots, the resolver
// decides.
package store

import (
	"sort"
	"strings"

	"github.com/AnyUserName/mediares/internal/rendition"
)

// Asset is a read-only snapshot of one media asset and its stored
// renditions. It satisfies the resolver's asset contract.
type Asset struct {
	id         string
	key        string
	title      string
	renditions []rendition.Descriptor
	original   *rendition.Descriptor
	crop       *rendition.Crop
}

// ID uniquely identifies the asset; the resolver keys its candidate
// cache on it.
func (a *Asset) ID() string { return a.id }

// Key is the asset's logical name (directory or manifest key).
func (a *Asset) Key() string { return a.key }

// Title is an optional human-readable name from the manifest.
func (a *Asset) Title() string { return a.title }

// Renditions returns the stored renditions in no particular order.
func (a *Asset) Renditions() []rendition.Descriptor { return a.renditions }

// Original returns the designated original rendition, or nil.
func (a *Asset) Original() *rendition.Descriptor { return a.original }

// Crop returns the asset's crop region, or nil.
func (a *Asset) Crop() *rendition.Crop { return a.crop }

// assetFromRecord builds an Asset snapshot from a manifest record.
func assetFromRecord(id, key string, rec AssetRecord) *Asset {
	a := &Asset{
		id:    id,
		key:   key,
		title: rec.Title,
		crop:  rec.Crop,
	}
	a.renditions = make([]rendition.Descriptor, 0, len(rec.Renditions))
	for _, r := range rec.Renditions {
		a.renditions = append(a.renditions, rendition.Descriptor{
			Width:    r.Width,
			Height:   r.Height,
			FileName: r.File,
			Path:     r.Path,
			Hash:     r.Hash,
		})
	}
	a.original = pickOriginal(a.renditions, rec.Original)
	return a
}

// pickOriginal designates the original rendition: an explicit file name
// wins, then a file named "original.*", then the largest image.
func pickOriginal(renditions []rendition.Descriptor, explicit string) *rendition.Descriptor {
	if len(renditions) == 0 {
		return nil
	}
	for i := range renditions {
		if explicit != "" && renditions[i].FileName == explicit {
			return &renditions[i]
		}
	}
	for i := range renditions {
		base := strings.TrimSuffix(renditions[i].FileName, "."+renditions[i].Extension())
		if base == "original" {
			return &renditions[i]
		}
	}
	best := -1
	for i := range renditions {
		if renditions[i].Area() == 0 || renditions[i].IsThumbnail() {
			continue
		}
		if best < 0 || renditions[best].Less(renditions[i]) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return &renditions[best]
}

// sortRecords keeps rendition records in a stable order inside manifests.
func sortRecords(records []RenditionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Path != records[j].Path {
			return records[i].Path < records[j].Path
		}
		return records[i].File < records[j].File
	})
}
