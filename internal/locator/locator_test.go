package locator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/imgvariant/internal/fault"
	"github.com/AnyUserName/imgvariant/internal/profile"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		profileName string
		want        string
	}{
		{"original", "", "", "photo-42.jpg"},
		{"with path", "users/7", "", "users/7/photo-42.jpg"},
		{"profile", "", "thumb", "photo-42-thumb.jpg"},
		{"path and profile", "users/7", "thumb", "users/7/photo-42-thumb.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.path, "photo", profile.JPG, "42", tt.profileName))
		})
	}
}

func TestLocator_Src(t *testing.T) {
	assert.Equal(t, "a/pic-1-small.webp", Locator{}.Src("a", "pic", profile.WebP, "1", "small"))
	assert.Equal(t, "https://cdn.example.com/a/pic-1.png",
		Locator{Host: "https://cdn.example.com"}.Src("a", "pic", profile.PNG, "1", ""))
	assert.Equal(t, "https://cdn.example.com//pic-1.png",
		Locator{Host: "https://cdn.example.com/"}.Src("", "pic", profile.PNG, "1", ""), "host is not trimmed")
}

func TestFileName(t *testing.T) {
	tests := []struct {
		imageName, fileName, want string
	}{
		{"", "foo-bar.png", "foo-bar"},
		{"Bam Baz", "foo-bar.png", "bam-baz"},
		{"", "", "new-image"},
		{"", "My Holiday_Photo.jpeg", "my-holiday-photo"},
		{"", "camelCaseName.webp", "camel-case-name"},
		{"", "HTMLParser.gif", "html-parser"},
		{"", "archive.tar.gz", "archive-tar-gz"},
		{"", "  spaced  out  ", "spaced-out"},
	}
	for _, tt := range tests {
		t.Run(tt.fileName+"|"+tt.imageName, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.imageName, tt.fileName))
		})
	}
}

func TestImageName(t *testing.T) {
	assert.Equal(t, "Bam Baz", ImageName("Bam Baz", "foo.png"))
	assert.Equal(t, "Foo Bar", ImageName("", "foo-bar.png"))
	assert.Equal(t, "New Image", ImageName("", ""))
}

func TestPathResolver(t *testing.T) {
	session := map[string]string{"tenant": "acme", "user": "u1"}

	p, err := PathResolver{Base: "uploads"}.Resolve(session)
	require.NoError(t, err)
	assert.Equal(t, "uploads", p)

	p, err = PathResolver{Base: "uploads", Properties: []string{"org", "tenant", "user"}}.Resolve(session)
	require.NoError(t, err)
	assert.Equal(t, "uploads/acme", p)

	p, err = PathResolver{Properties: []string{"user"}}.Resolve(session)
	require.NoError(t, err)
	assert.Equal(t, "u1", p)

	_, err = PathResolver{Base: "uploads", Properties: []string{"org"}}.Resolve(session)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrConfiguration))
	assert.Contains(t, err.Error(), "org")
}
