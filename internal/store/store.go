// Package store defines image records and the persistence contract shared
// by the sqlite and postgres backends. Both backends also serve the raw
// catalog the variant index is built from.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnyUserName/imgvariant/internal/profile"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Image is a stored upload. Records are never updated; a new upload of
// the same picture gets a new record pointing at the first one through
// OriginalID.
type Image struct {
	ID          string           `json:"id"`
	OriginalID  string           `json:"originalId,omitempty"`
	FileName    string           `json:"fileName"`
	FileType    profile.FileType `json:"fileType"`
	ImageName   string           `json:"imageName"`
	Path        string           `json:"path,omitempty"`
	ImageTypeID string           `json:"imageTypeId"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// SourceID is the id variant sources are named after: the original id
// when the record is a new version of an earlier upload.
func (img Image) SourceID() string {
	if img.OriginalID != "" {
		return img.OriginalID
	}
	return img.ID
}

// NewImage holds the fields of a record about to be created.
type NewImage struct {
	OriginalID  string
	FileName    string
	FileType    profile.FileType
	ImageName   string
	Path        string
	ImageTypeID string
	Width       int
	Height      int
}

// Store persists image records and catalog entries.
type Store interface {
	CreateImage(ctx context.Context, img NewImage) (Image, error)
	GetImage(ctx context.Context, id string) (Image, error)

	// Load returns every type, profile and link in insertion order.
	Load(ctx context.Context) (profile.Catalog, error)
	PutType(ctx context.Context, t profile.ImageType) error
	PutProfile(ctx context.Context, p profile.ImageProfile) error
	PutLink(ctx context.Context, l profile.Link) error

	Close() error
}

// Import validates c and writes it to s. Types and profiles are upserted;
// links already present keep their position.
func Import(ctx context.Context, s Store, c profile.Catalog) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	for _, t := range c.Types {
		if err := s.PutType(ctx, t); err != nil {
			return fmt.Errorf("put type %s: %w", t.ID, err)
		}
	}
	for _, p := range c.Profiles {
		if err := s.PutProfile(ctx, p); err != nil {
			return fmt.Errorf("put profile %s: %w", p.ID, err)
		}
	}
	for _, l := range c.Links {
		if err := s.PutLink(ctx, l); err != nil {
			return fmt.Errorf("put link %s -> %s: %w", l.TypeID, l.ProfileID, err)
		}
	}
	return nil
}
