// Package upload stores a new source image: it creates the image record,
// then produces the primary variant and every pregenerated profile under
// keys derived from that record.
package upload

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/AnyUserName/imgvariant/internal/catalog"
	"github.com/AnyUserName/imgvariant/internal/fault"
	"github.com/AnyUserName/imgvariant/internal/locator"
	"github.com/AnyUserName/imgvariant/internal/plan"
	"github.com/AnyUserName/imgvariant/internal/producer"
	"github.com/AnyUserName/imgvariant/internal/profile"
	"github.com/AnyUserName/imgvariant/internal/store"
)

// Records creates image records.
type Records interface {
	CreateImage(ctx context.Context, img store.NewImage) (store.Image, error)
}

// Catalog returns the current variant index.
type Catalog interface {
	Current() *catalog.Index
}

// Request is one upload.
type Request struct {
	Data []byte
	// FileName is the name the file was uploaded under.
	FileName  string
	ImageName string
	// Type is an image type id, or its display name.
	Type       string
	OriginalID string
	Crop       *plan.CropRequest
	Session    map[string]string
}

// Result is the stored record and its variants.
type Result struct {
	Image  store.Image      `json:"image"`
	Output *producer.Output `json:"output"`
}

// Uploader stores a new image record and produces its variants.
type Uploader struct {
	catalog  Catalog
	records  Records
	codec    producer.Codec
	producer *producer.Producer
	paths    locator.PathResolver
	log      zerolog.Logger
}

// New creates an uploader. Types are looked up in cat on every call.
func New(cat Catalog, records Records, codec producer.Codec, prod *producer.Producer, paths locator.PathResolver, log zerolog.Logger) *Uploader {
	return &Uploader{
		catalog:  cat,
		records:  records,
		codec:    codec,
		producer: prod,
		paths:    paths,
		log:      log,
	}
}

// ResolveType finds a type by id, then by display name.
func ResolveType(ix *catalog.Index, ref string) (*catalog.TypeEntry, error) {
	if t, ok := ix.TypeByID(ref); ok {
		return t, nil
	}
	if t, ok := ix.TypeByName(ref); ok {
		return t, nil
	}
	return nil, fault.TypeNotFound(ref)
}

// Process stores req. The record is created before any variant is named
// because every key embeds its id. A production failure leaves the record
// and any variants already written in place.
func (u *Uploader) Process(ctx context.Context, req Request) (*Result, error) {
	t, err := ResolveType(u.catalog.Current(), req.Type)
	if err != nil {
		return nil, err
	}

	path, err := u.paths.Resolve(req.Session)
	if err != nil {
		return nil, err
	}
	fileName := locator.FileName(req.ImageName, req.FileName)
	imageName := locator.ImageName(req.ImageName, req.FileName)

	meta, err := u.codec.Metadata(req.Data)
	if err != nil {
		return nil, fmt.Errorf("read metadata of %s: %w", req.FileName, err)
	}

	img, err := u.records.CreateImage(ctx, store.NewImage{
		OriginalID:  req.OriginalID,
		FileName:    fileName,
		FileType:    t.FileType,
		ImageName:   imageName,
		Path:        path,
		ImageTypeID: t.ID,
		Width:       meta.Width,
		Height:      meta.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("create image record: %w", err)
	}

	u.log.Debug().
		Str("id", img.ID).
		Str("type", t.ID).
		Str("path", path).
		Str("file_name", fileName).
		Int("width", meta.Width).
		Int("height", meta.Height).
		Msg("image record created")

	out, err := u.producer.Produce(ctx, producer.Job{
		Source:   req.Data,
		Meta:     meta,
		Crop:     req.Crop,
		Target:   t.Target(),
		Profiles: t.ProfileValues(),
		Name: func(profileName string, ft profile.FileType) string {
			return locator.Key(path, fileName, ft, img.ID, profileName)
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{Image: img, Output: out}, nil
}
