package picture

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/imgvariant/internal/catalog"
	"github.com/AnyUserName/imgvariant/internal/locator"
	"github.com/AnyUserName/imgvariant/internal/profile"
	"github.com/AnyUserName/imgvariant/internal/store"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	c := profile.Catalog{
		Types: []profile.ImageType{
			{ID: "article", Name: "Article", FileType: profile.JPG, Dimensions: profile.Dimensions{Width: 800, Height: 600}},
			{ID: "plain", Name: "Plain", FileType: profile.PNG},
		},
		Profiles: []profile.ImageProfile{
			{ID: "small-webp", Name: "small", FileType: profile.WebP, Dimensions: profile.Dimensions{Width: 200, Height: 150}},
			{ID: "small-jpg", Name: "small", FileType: profile.JPG, Dimensions: profile.Dimensions{Width: 200, Height: 150}},
			{ID: "medium", Name: "medium", FileType: profile.JPG, Dimensions: profile.Dimensions{Width: 400, Height: 300}},
		},
		Links: []profile.Link{
			{TypeID: "article", ProfileID: "small-webp"},
			{TypeID: "article", ProfileID: "small-jpg"},
			{TypeID: "article", ProfileID: "medium"},
		},
	}
	snap := catalog.NewSnapshot(catalog.SourceFunc(func(context.Context) (profile.Catalog, error) {
		return c, nil
	}), 0, zerolog.Nop())
	require.NoError(t, snap.Refresh(context.Background()))
	return NewBuilder(snap, locator.Locator{Host: "https://cdn.example.com"})
}

func storedImage(typeID string) store.Image {
	return store.Image{
		ID:          "i1",
		OriginalID:  "o1",
		FileName:    "cat",
		FileType:    profile.JPG,
		ImageName:   "Cat",
		Path:        "u",
		ImageTypeID: typeID,
	}
}

func TestBuild_ProfileWithWebp(t *testing.T) {
	pic := newBuilder(t).Build(storedImage("article"), 200, 150)

	assert.Equal(t, catalog.MatchProfile, pic.Match)
	assert.Equal(t, "Article", pic.TypeName)
	assert.Equal(t, "small", pic.Profile)
	assert.Equal(t, "https://cdn.example.com/u/cat-i1-small.jpg", pic.Src)
	assert.Equal(t, "https://cdn.example.com/u/cat-i1.jpg", pic.OrigSrc)

	want := []Source{
		{FileType: profile.WebP, SrcSet: "https://cdn.example.com/u/cat-i1-small.webp", Type: "image/webp"},
		{FileType: profile.JPG, SrcSet: "https://cdn.example.com/u/cat-i1-small.jpg", Type: "image/jpeg"},
	}
	assert.Equal(t, want, pic.Sources)
	assert.Equal(t, want[0], pic.SourceByType[profile.WebP])
	assert.Equal(t, want[1], pic.SourceByType[profile.JPG])
}

func TestBuild_SourcesFollowStoredKeys(t *testing.T) {
	// a later version of o1 stores its variants under its own id
	img := storedImage("article")
	pic := newBuilder(t).Build(img, 200, 150)

	require.Len(t, pic.Sources, 2)
	for _, s := range pic.Sources {
		assert.Equal(t, "https://cdn.example.com/"+locator.Key(img.Path, img.FileName, s.FileType, img.ID, "small"), s.SrcSet)
		assert.NotContains(t, s.SrcSet, img.OriginalID)
	}
}

func TestBuild_NoSizeHintTakesFirstProfile(t *testing.T) {
	pic := newBuilder(t).Build(storedImage("article"), 0, 0)

	assert.Equal(t, catalog.MatchProfile, pic.Match)
	assert.Equal(t, "https://cdn.example.com/u/cat-i1-small.webp", pic.Src)
	assert.Empty(t, pic.Sources, "webp profiles carry no alternates")
}

func TestBuild_TypeFallbacks(t *testing.T) {
	b := newBuilder(t)

	none := b.Build(storedImage("article"), 2000, 2000)
	assert.Equal(t, catalog.MatchNone, none.Match)
	assert.Equal(t, "https://cdn.example.com/u/cat-i1.jpg", none.Src)
	assert.Empty(t, none.Profile)

	img := storedImage("plain")
	img.FileType = profile.PNG
	plain := b.Build(img, 100, 100)
	assert.Equal(t, catalog.MatchType, plain.Match)
	assert.Equal(t, "Plain", plain.TypeName)
	assert.Equal(t, "https://cdn.example.com/u/cat-i1.png", plain.Src)
}

func TestBuild_UnknownTypeUsesOriginal(t *testing.T) {
	pic := newBuilder(t).Build(storedImage("deleted"), 200, 150)

	assert.Equal(t, catalog.MatchUntyped, pic.Match)
	assert.Empty(t, pic.TypeName)
	assert.Equal(t, pic.OrigSrc, pic.Src)
	assert.Nil(t, pic.SourceByType)
}

func TestPicture_JSON(t *testing.T) {
	pic := newBuilder(t).Build(storedImage("article"), 200, 150)

	data, err := json.Marshal(pic)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "profile", decoded["match"])
	assert.Contains(t, decoded["sourceByType"], "webp")
}
