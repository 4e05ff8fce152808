package upload

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/imgvariant/internal/catalog"
	"github.com/AnyUserName/imgvariant/internal/fault"
	"github.com/AnyUserName/imgvariant/internal/locator"
	"github.com/AnyUserName/imgvariant/internal/plan"
	"github.com/AnyUserName/imgvariant/internal/producer"
	"github.com/AnyUserName/imgvariant/internal/profile"
	"github.com/AnyUserName/imgvariant/internal/store"
)

type fakeCodec struct{}

func (fakeCodec) Metadata(data []byte) (plan.Meta, error) {
	if len(data) == 0 {
		return plan.Meta{}, errors.New("image: unknown format")
	}
	return plan.Meta{Width: 20, Height: 20, Format: plan.FormatJPEG}, nil
}

func (fakeCodec) Decode([]byte) (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, 20, 20)), nil
}

func (fakeCodec) ApplyCrop(_ image.Image, p plan.CropPlan) image.Image {
	return image.NewNRGBA(image.Rect(0, 0, p.Result.Width, p.Result.Height))
}

func (fakeCodec) Encode(_ image.Image, g plan.Geometry) ([]byte, error) {
	return []byte(fmt.Sprintf("%s %dx%d", g.Format, g.Width, g.Height)), nil
}

type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *memStorage) Write(_ context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *memStorage) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for k := range s.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type fakeRecords struct {
	created []store.NewImage
	err     error
}

func (r *fakeRecords) CreateImage(_ context.Context, in store.NewImage) (store.Image, error) {
	if r.err != nil {
		return store.Image{}, r.err
	}
	r.created = append(r.created, in)
	return store.Image{
		ID:          fmt.Sprintf("id-%d", len(r.created)),
		OriginalID:  in.OriginalID,
		FileName:    in.FileName,
		FileType:    in.FileType,
		ImageName:   in.ImageName,
		Path:        in.Path,
		ImageTypeID: in.ImageTypeID,
		Width:       in.Width,
		Height:      in.Height,
	}, nil
}

var testCatalog = profile.Catalog{
	Types: []profile.ImageType{
		{ID: "avatar", Name: "Avatar", FileType: profile.JPG, Dimensions: profile.Dimensions{Width: 10, Height: 10}},
	},
	Profiles: []profile.ImageProfile{
		{ID: "thumb-webp", Name: "thumb", FileType: profile.WebP, Dimensions: profile.Dimensions{MaxWidth: 5}, Pregenerate: true},
		{ID: "thumb-jpg", Name: "thumb", FileType: profile.JPG, Dimensions: profile.Dimensions{MaxWidth: 5}, Pregenerate: true},
		{ID: "large", Name: "large", FileType: profile.JPG, Dimensions: profile.Dimensions{Width: 400}},
	},
	Links: []profile.Link{
		{TypeID: "avatar", ProfileID: "thumb-webp"},
		{TypeID: "avatar", ProfileID: "thumb-jpg"},
		{TypeID: "avatar", ProfileID: "large"},
	},
}

type fixture struct {
	uploader *Uploader
	records  *fakeRecords
	storage  *memStorage
}

func newFixture(t *testing.T, paths locator.PathResolver) fixture {
	t.Helper()
	snap := catalog.NewSnapshot(catalog.SourceFunc(func(context.Context) (profile.Catalog, error) {
		return testCatalog, nil
	}), 0, zerolog.Nop())
	require.NoError(t, snap.Refresh(context.Background()))

	records := &fakeRecords{}
	storage := &memStorage{files: map[string][]byte{}}
	prod := producer.New(fakeCodec{}, storage, 2, zerolog.Nop())
	return fixture{
		uploader: New(snap, records, fakeCodec{}, prod, paths, zerolog.Nop()),
		records:  records,
		storage:  storage,
	}
}

func TestProcess(t *testing.T) {
	f := newFixture(t, locator.PathResolver{Base: "uploads", Properties: []string{"tenant"}})

	res, err := f.uploader.Process(context.Background(), Request{
		Data:     []byte("jpeg"),
		FileName: "My Photo.JPG",
		Type:     "avatar",
		Session:  map[string]string{"tenant": "acme"},
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", res.Image.ID)
	assert.Equal(t, "my-photo", res.Image.FileName)
	assert.Equal(t, "My Photo", res.Image.ImageName)
	assert.Equal(t, "uploads/acme", res.Image.Path)
	assert.Equal(t, profile.JPG, res.Image.FileType)
	assert.Equal(t, 20, res.Image.Width)

	assert.Equal(t, []string{
		"uploads/acme/my-photo-id-1-thumb.jpg",
		"uploads/acme/my-photo-id-1-thumb.webp",
		"uploads/acme/my-photo-id-1.jpg",
	}, f.storage.keys(), "the non-pregenerated profile is not produced")
	assert.Equal(t, "jpeg 10x10", string(f.storage.files["uploads/acme/my-photo-id-1.jpg"]))

	require.Len(t, res.Output.Extras, 2)
	assert.Equal(t, "uploads/acme/my-photo-id-1-thumb.webp", res.Output.Extras[0].Path)
}

func TestProcess_TypeByNameAndCrop(t *testing.T) {
	f := newFixture(t, locator.PathResolver{})

	res, err := f.uploader.Process(context.Background(), Request{
		Data:       []byte("jpeg"),
		ImageName:  "Team Lead",
		Type:       "Avatar",
		OriginalID: "orig",
		Crop:       &plan.CropRequest{X: 5, Y: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, "avatar", res.Image.ImageTypeID)
	assert.Equal(t, "orig", res.Image.OriginalID)
	require.NotNil(t, res.Output.Crop)
	assert.Equal(t, 15, res.Output.Crop.Result.Width)
	assert.Contains(t, f.storage.keys(), "team-lead-id-1.jpg")
}

func TestProcess_UnknownType(t *testing.T) {
	f := newFixture(t, locator.PathResolver{})

	_, err := f.uploader.Process(context.Background(), Request{Data: []byte("jpeg"), Type: "banner"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrTypeNotFound))
	assert.Empty(t, f.records.created)
}

func TestProcess_MissingSessionProperty(t *testing.T) {
	f := newFixture(t, locator.PathResolver{Base: "uploads", Properties: []string{"tenant", "user"}})

	_, err := f.uploader.Process(context.Background(), Request{Data: []byte("jpeg"), Type: "avatar", Session: map[string]string{}})
	require.Error(t, err)
	assert.True(t, fault.IsConfiguration(err))
	assert.Empty(t, f.records.created)
}

func TestProcess_Failures(t *testing.T) {
	t.Run("metadata", func(t *testing.T) {
		f := newFixture(t, locator.PathResolver{})
		_, err := f.uploader.Process(context.Background(), Request{FileName: "empty.png", Type: "avatar"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read metadata of empty.png")
		assert.Empty(t, f.records.created)
	})

	t.Run("record", func(t *testing.T) {
		f := newFixture(t, locator.PathResolver{})
		f.records.err = errors.New("database is locked")
		_, err := f.uploader.Process(context.Background(), Request{Data: []byte("jpeg"), Type: "avatar"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create image record")
		assert.Empty(t, f.storage.keys())
	})
}
