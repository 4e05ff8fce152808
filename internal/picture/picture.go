// Package picture resolves a stored image and a display size to the
// sources a <picture> element needs.
package picture

import (
	"github.com/AnyUserName/imgvariant/internal/catalog"
	"github.com/AnyUserName/imgvariant/internal/locator"
	"github.com/AnyUserName/imgvariant/internal/profile"
	"github.com/AnyUserName/imgvariant/internal/store"
)

// Source is one <source> entry.
type Source struct {
	FileType profile.FileType `json:"fileType"`
	SrcSet   string           `json:"srcset"`
	Type     string           `json:"type"`
}

// Picture is the resolved set of sources for one stored image. Src is the
// selected variant, OrigSrc the primary file.
type Picture struct {
	ImageID   string        `json:"imageId"`
	ImageName string        `json:"imageName"`
	TypeName  string        `json:"imageTypeName"`
	Match     catalog.Match `json:"match"`
	Profile   string        `json:"profile,omitempty"`
	Src       string        `json:"src"`
	OrigSrc   string        `json:"origSrc"`
	Sources   []Source      `json:"sources,omitempty"`

	SourceByType map[profile.FileType]Source `json:"sourceByType,omitempty"`
}

// Catalog returns the current variant index.
type Catalog interface {
	Current() *catalog.Index
}

// Builder resolves pictures against the live catalog.
type Builder struct {
	catalog Catalog
	loc     locator.Locator
}

// NewBuilder creates a builder that reads cat on every call.
func NewBuilder(cat Catalog, loc locator.Locator) *Builder {
	return &Builder{catalog: cat, loc: loc}
}

// Build picks the variant of img closest to width x height. An image whose
// type is gone from the catalog falls back to its own file.
func (b *Builder) Build(img store.Image, width, height int) Picture {
	sel := b.catalog.Current().SelectProfile(img.ImageTypeID, width, height)

	pic := Picture{
		ImageID:   img.ID,
		ImageName: img.ImageName,
		Match:     sel.Match,
		OrigSrc:   b.loc.Src(img.Path, img.FileName, img.FileType, img.ID, ""),
	}
	if sel.Type != nil {
		pic.TypeName = sel.Type.Name
	}

	switch {
	case sel.Profile != nil:
		p := sel.Profile
		pic.Profile = p.Name
		pic.Src = b.loc.Src(img.Path, img.FileName, p.FileType, img.ID, p.Name)
		if p.HasWebp {
			b.addSources(&pic, img, p)
		}
	case sel.Type != nil:
		pic.Src = b.loc.Src(img.Path, img.FileName, sel.Type.FileType, img.ID, "")
	default:
		pic.Src = pic.OrigSrc
	}
	return pic
}

func (b *Builder) addSources(pic *Picture, img store.Image, p *profile.ImageProfile) {
	for _, ft := range []profile.FileType{profile.WebP, p.FileType} {
		s := Source{
			FileType: ft,
			SrcSet:   b.loc.Src(img.Path, img.FileName, ft, img.ID, p.Name),
			Type:     ft.MimeType(),
		}
		pic.Sources = append(pic.Sources, s)
	}
	pic.SourceByType = make(map[profile.FileType]Source, len(pic.Sources))
	for _, s := range pic.Sources {
		pic.SourceByType[s.FileType] = s
	}
}
