// Package catalog builds the in-memory index of image types and their
// linked profiles, selects the best profile for a display size, and keeps
// a periodically refreshed snapshot of the index.
package catalog

import (
	"github.com/rs/zerolog"

	"github.com/AnyUserName/imgvariant/internal/fault"
	"github.com/AnyUserName/imgvariant/internal/profile"
)

// TypeEntry is an image type together with its linked profiles.
type TypeEntry struct {
	profile.ImageType

	// Profiles are in link order. Selection tie-breaks depend on it.
	Profiles []*profile.ImageProfile
	linked   map[string]bool
}

// Index is an immutable view of the catalog.
type Index struct {
	types          []*TypeEntry
	typesByID      map[string]*TypeEntry
	profilesByID   map[string]*profile.ImageProfile
	profilesByName map[string][]*profile.ImageProfile
	dropped        int
}

// Build indexes c. Links whose type or profile is missing are logged and
// skipped; they never fail the build.
func Build(c profile.Catalog, log zerolog.Logger) *Index {
	ix := &Index{
		types:          make([]*TypeEntry, 0, len(c.Types)),
		typesByID:      make(map[string]*TypeEntry, len(c.Types)),
		profilesByID:   make(map[string]*profile.ImageProfile, len(c.Profiles)),
		profilesByName: make(map[string][]*profile.ImageProfile),
	}

	// A repeated id replaces the earlier record in place.
	pos := make(map[string]int, len(c.Types))
	for _, t := range c.Types {
		e := &TypeEntry{ImageType: t, linked: map[string]bool{}}
		if i, dup := pos[t.ID]; dup {
			ix.types[i] = e
		} else {
			pos[t.ID] = len(ix.types)
			ix.types = append(ix.types, e)
		}
		ix.typesByID[t.ID] = e
	}

	for i := range c.Profiles {
		p := c.Profiles[i]
		p.HasWebp = false
		ix.profilesByID[p.ID] = &p
		ix.profilesByName[p.Name] = append(ix.profilesByName[p.Name], &p)
	}
	markWebp(ix.profilesByName)

	for _, l := range c.Links {
		t, okType := ix.typesByID[l.TypeID]
		p, okProfile := ix.profilesByID[l.ProfileID]
		if !okType || !okProfile {
			ix.dropped++
			log.Debug().
				Err(fault.DanglingLink(l.TypeID, l.ProfileID)).
				Bool("type_found", okType).
				Bool("profile_found", okProfile).
				Msg("skipping catalog link")
			continue
		}
		if t.linked[p.ID] {
			continue
		}
		t.linked[p.ID] = true
		t.Profiles = append(t.Profiles, p)
	}

	return ix
}

// markWebp flags every non-webp profile that has a webp sibling of the
// same name.
func markWebp(byName map[string][]*profile.ImageProfile) {
	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		hasWebp := false
		for _, p := range group {
			if p.FileType == profile.WebP {
				hasWebp = true
				break
			}
		}
		if !hasWebp {
			continue
		}
		for _, p := range group {
			if p.FileType != profile.WebP {
				p.HasWebp = true
			}
		}
	}
}

// TypeByID returns the type with the given id.
func (ix *Index) TypeByID(id string) (*TypeEntry, bool) {
	t, ok := ix.typesByID[id]
	return t, ok
}

// TypeByName returns the first type with the given display name.
func (ix *Index) TypeByName(name string) (*TypeEntry, bool) {
	for _, t := range ix.types {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Types lists all types in catalog order.
func (ix *Index) Types() []*TypeEntry { return ix.types }

// ProfilesNamed returns every profile sharing name, in catalog order.
func (ix *Index) ProfilesNamed(name string) []*profile.ImageProfile {
	return ix.profilesByName[name]
}

// Dropped is the number of links skipped during Build.
func (ix *Index) Dropped() int { return ix.dropped }

// ProfileValues returns copies of the type's linked profiles in link order.
func (e *TypeEntry) ProfileValues() []profile.ImageProfile {
	out := make([]profile.ImageProfile, len(e.Profiles))
	for i, p := range e.Profiles {
		out[i] = *p
	}
	return out
}
