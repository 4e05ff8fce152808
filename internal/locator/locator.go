// Package locator composes storage keys and public URLs for originals and
// their variants, and derives file and display names for uploads.
//
// Keys follow [path/]fileName-imageID[-profileName].fileType and URLs add
// an optional host prefix.
package locator

import (
	"strings"

	"github.com/AnyUserName/imgvariant/internal/profile"
)

// Locator builds keys and public sources. Host is prepended to sources
// only.
type Locator struct {
	Host string
}

// Key returns the storage key of an original (empty profileName) or of a
// profile variant.
func Key(path, fileName string, ft profile.FileType, imageID, profileName string) string {
	var b strings.Builder
	if path != "" {
		b.WriteString(path)
		b.WriteByte('/')
	}
	b.WriteString(fileName)
	b.WriteByte('-')
	b.WriteString(imageID)
	if profileName != "" {
		b.WriteByte('-')
		b.WriteString(profileName)
	}
	b.WriteByte('.')
	b.WriteString(string(ft))
	return b.String()
}

// Src returns the public source for a key: host + "/" + key, or the bare
// key without a host. The host is used as given.
func (l Locator) Src(path, fileName string, ft profile.FileType, imageID, profileName string) string {
	key := Key(path, fileName, ft, imageID, profileName)
	if l.Host == "" {
		return key
	}
	return l.Host + "/" + key
}
