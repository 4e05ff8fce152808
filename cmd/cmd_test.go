package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/imgvariant/internal/catalog"
	"github.com/AnyUserName/imgvariant/internal/hasher"
	"github.com/AnyUserName/imgvariant/internal/manifest"
	"github.com/AnyUserName/imgvariant/internal/plan"
	"github.com/AnyUserName/imgvariant/internal/profile"
)

func TestParseCrop(t *testing.T) {
	tests := []struct {
		in      string
		want    *plan.CropRequest
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "5,5", want: &plan.CropRequest{X: 5, Y: 5}},
		{in: "-5,0,10,12.5", want: &plan.CropRequest{X: -5, Width: 10, Height: 12.5}},
		{in: ",,10", want: &plan.CropRequest{Width: 10}},
		{in: "1,2,3,4,5", wantErr: true},
		{in: "a,b", wantErr: true},
		{in: "0,0,-1,10", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCrop(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if got != nil {
				again, err := parseCrop(got.String())
				require.NoError(t, err)
				assert.Equal(t, got, again, "String reads back through the flag parser")
			}
		})
	}
}

func writeVariant(t *testing.T, dir, key string, data []byte) manifest.Variant {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return manifest.Variant{Format: "jpeg", Width: 10, Height: 10, Size: int64(len(data)), Hash: hasher.Sum(data), Path: key}
}

func TestValidateManifest(t *testing.T) {
	dir := t.TempDir()

	m := manifest.New("")
	thumb := writeVariant(t, dir, "u/cat-1-thumb.jpg", []byte("thumb"))
	thumb.Profile = "thumb"
	m.Images["cat"] = manifest.Image{
		ID:       "1",
		Original: manifest.OriginalInfo{Width: 20, Height: 20},
		Primary:  writeVariant(t, dir, "u/cat-1.jpg", []byte("primary")),
		Extras:   []manifest.Variant{thumb},
	}
	m.ComputeStats()

	assert.Empty(t, validateManifest(m, dir))

	t.Run("tampered file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "u", "cat-1.jpg"), []byte("PRIMARY"), 0o644))
		errs := validateManifest(m, dir)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "hash mismatch")

		assert.Empty(t, validateManifest(m, ""), "disk checks are skipped without a directory")
	})

	t.Run("broken entries", func(t *testing.T) {
		broken := manifest.New("")
		broken.Images["a"] = manifest.Image{
			Primary: manifest.Variant{Profile: "oops", Path: "same.jpg"},
			Extras:  []manifest.Variant{{Format: "png", Width: 1, Height: 1, Hash: "x", Path: "same.jpg"}},
		}
		errs := validateManifest(broken, "")
		joined := strings.Join(errs, "\n")

		assert.Contains(t, joined, "missing id")
		assert.Contains(t, joined, "invalid original dimensions")
		assert.Contains(t, joined, "primary variant carries profile")
		assert.Contains(t, joined, "empty format")
		assert.Contains(t, joined, "missing hash")
		assert.Contains(t, joined, `also used by image "a"`)
		assert.Contains(t, joined, "stats.total_images mismatch")
	})
}

func TestBreakdown(t *testing.T) {
	m := manifest.New("")
	m.Images["a"] = manifest.Image{
		Primary: manifest.Variant{Format: "jpeg", Size: 10},
		Extras: []manifest.Variant{
			{Profile: "thumb", Format: "webp", Size: 3},
			{Profile: "thumb", Format: "jpeg", Size: 4},
		},
	}

	byFormat, byProfile := breakdown(m)
	assert.Equal(t, bucket{count: 2, bytes: 14}, byFormat["jpeg"])
	assert.Equal(t, bucket{count: 1, bytes: 3}, byFormat["webp"])
	assert.Equal(t, bucket{count: 1, bytes: 10}, byProfile["(primary)"])
	assert.Equal(t, bucket{count: 2, bytes: 7}, byProfile["thumb"])
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
}

func TestDescribeDimensions(t *testing.T) {
	assert.Equal(t, "256x256", describeDimensions(profile.Dimensions{Width: 256, Height: 256}))
	assert.Equal(t, "max 1600w ar 4", describeDimensions(profile.Dimensions{MaxWidth: 1600, AspectRatio: 4}))
	assert.Equal(t, "40h max 10w 10h", describeDimensions(profile.Dimensions{Height: 40, MaxWidth: 10, MaxHeight: 10}))
	assert.Equal(t, "source", describeDimensions(profile.Dimensions{}))
}

func TestTypeRows(t *testing.T) {
	ix := catalog.Build(profile.Catalog{
		Types: []profile.ImageType{{ID: "avatar", Name: "Avatar", FileType: profile.JPG, Dimensions: profile.Dimensions{Width: 64, Height: 64}}},
		Profiles: []profile.ImageProfile{
			{ID: "t", Name: "thumb", FileType: profile.WebP, Pregenerate: true},
			{ID: "l", Name: "large", FileType: profile.JPG},
		},
		Links: []profile.Link{{TypeID: "avatar", ProfileID: "t"}, {TypeID: "avatar", ProfileID: "l"}},
	}, zerolog.Nop())

	rows := typeRows(ix)
	require.Len(t, rows, 1)
	assert.Equal(t, "avatar", rows[0][0])
	assert.Contains(t, rows[0][1], "Avatar")
	assert.Equal(t, "64x64", rows[0][3])
	assert.Equal(t, "thumb.webp*, large.jpg", rows[0][4])
}
