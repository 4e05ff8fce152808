package profile

import (
	"errors"
	"fmt"
)

// FileType is the stored file extension of an image or variant.
type FileType string

const (
	JPG  FileType = "jpg"
	PNG  FileType = "png"
	WebP FileType = "webp"
)

// Valid reports whether f is one of the supported file types.
func (f FileType) Valid() bool {
	switch f {
	case JPG, PNG, WebP:
		return true
	}
	return false
}

// MimeType returns the content type used for <source> elements and uploads.
func (f FileType) MimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case WebP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// EncodeClient controls whether the browser encodes before upload.
// Carried for upstream consumers; geometry planning ignores it.
type EncodeClient string

const (
	EncodeAlways EncodeClient = "always"
	EncodeBest   EncodeClient = "best"
	EncodeNever  EncodeClient = "never"
)

// Dimensions is the geometry part of a type or profile. Zero means unset.
type Dimensions struct {
	Width       int     `yaml:"width,omitempty" json:"width,omitempty"`
	Height      int     `yaml:"height,omitempty" json:"height,omitempty"`
	MaxWidth    int     `yaml:"max_width,omitempty" json:"maxWidth,omitempty"`
	MaxHeight   int     `yaml:"max_height,omitempty" json:"maxHeight,omitempty"`
	AspectRatio float64 `yaml:"aspect_ratio,omitempty" json:"aspectRatio,omitempty"`
}

// ImageType is a display category (e.g. "avatar") with its own encode rules.
type ImageType struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"imageTypeName"`
	FileType   FileType `yaml:"file_type" json:"fileType"`
	Dimensions `yaml:",inline"`
	Quality    int `yaml:"quality,omitempty" json:"quality,omitempty"`

	EncodeClient    EncodeClient `yaml:"encode_client,omitempty" json:"encodeClient,omitempty"`
	ClientQuality   int          `yaml:"client_quality,omitempty" json:"clientQuality,omitempty"`
	MaxClientSize   int          `yaml:"max_client_size,omitempty" json:"maxClientSize,omitempty"`
	MaxClientWidth  int          `yaml:"max_client_width,omitempty" json:"maxClientWidth,omitempty"`
	MaxClientHeight int          `yaml:"max_client_height,omitempty" json:"maxClientHeight,omitempty"`
}

// ImageProfile is a named derived size (e.g. "thumb") that may be linked
// to several image types.
type ImageProfile struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"imageProfileName"`
	FileType    FileType `yaml:"file_type" json:"fileType"`
	Dimensions  `yaml:",inline"`
	Quality     int  `yaml:"quality,omitempty" json:"quality,omitempty"`
	Pregenerate bool `yaml:"pregenerate,omitempty" json:"pregenerate,omitempty"`

	// HasWebp is computed by the catalog index: a webp profile with the
	// same name exists, so a <source> alternative can be offered.
	HasWebp bool `yaml:"-" json:"hasWebp,omitempty"`
}

// Link attaches a profile to a type.
type Link struct {
	TypeID    string `yaml:"type" json:"imageTypeId"`
	ProfileID string `yaml:"profile" json:"imageProfileId"`
}

// Catalog is the raw record set an index is built from.
type Catalog struct {
	Types    []ImageType    `yaml:"types"`
	Profiles []ImageProfile `yaml:"profiles"`
	Links    []Link         `yaml:"links"`
}

// Target is what the geometry planner needs from a type or profile.
type Target struct {
	FileType FileType
	Quality  int
	Dimensions
}

// Target returns the encode target for the type's primary variant.
func (t ImageType) Target() Target {
	return Target{FileType: t.FileType, Quality: t.Quality, Dimensions: t.Dimensions}
}

// Target returns the encode target for the profile variant.
func (p ImageProfile) Target() Target {
	return Target{FileType: p.FileType, Quality: p.Quality, Dimensions: p.Dimensions}
}

// Validate checks the fields the rest of the system relies on.
func (t ImageType) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("missing name"))
	}
	if !t.FileType.Valid() {
		errs = append(errs, fmt.Errorf("invalid file type %q", t.FileType))
	}
	switch t.EncodeClient {
	case "", EncodeAlways, EncodeBest, EncodeNever:
	default:
		errs = append(errs, fmt.Errorf("invalid encode client %q", t.EncodeClient))
	}
	errs = append(errs, validateCommon(t.Quality, t.Dimensions)...)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("image type %q: %w", t.Name, err)
	}
	return nil
}

// Validate checks the fields the rest of the system relies on.
func (p ImageProfile) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if p.Name == "" {
		errs = append(errs, errors.New("missing name"))
	}
	if !p.FileType.Valid() {
		errs = append(errs, fmt.Errorf("invalid file type %q", p.FileType))
	}
	errs = append(errs, validateCommon(p.Quality, p.Dimensions)...)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("image profile %q: %w", p.Name, err)
	}
	return nil
}

// Validate checks every type and profile. Links are not checked here:
// dangling links are dropped when the index is built.
func (c Catalog) Validate() error {
	var errs []error
	for _, t := range c.Types {
		errs = append(errs, t.Validate())
	}
	for _, p := range c.Profiles {
		errs = append(errs, p.Validate())
	}
	return errors.Join(errs...)
}

func validateCommon(quality int, d Dimensions) []error {
	var errs []error
	if quality < 0 || quality > 100 {
		errs = append(errs, fmt.Errorf("quality %d out of range 0-100", quality))
	}
	if d.Width < 0 || d.Height < 0 || d.MaxWidth < 0 || d.MaxHeight < 0 {
		errs = append(errs, errors.New("negative dimension"))
	}
	if d.AspectRatio < 0 {
		errs = append(errs, fmt.Errorf("negative aspect ratio %g", d.AspectRatio))
	}
	return errs
}
