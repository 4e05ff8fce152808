package locator

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AnyUserName/imgvariant/internal/fault"
)

// DefaultName is used when an upload carries neither an image name nor a
// file name.
const DefaultName = "New Image"

var (
	extPattern   = regexp.MustCompile(`\.\w{3,4}$`)
	lowerUpper   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	upperUpper   = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
	nonAlphaNums = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// FileName derives the stored file name: the first non-empty of imageName
// and fileName, without extension, in param-case.
//
//	FileName("", "foo-bar.png")      == "foo-bar"
//	FileName("Bam Baz", "x.png")     == "bam-baz"
//	FileName("", "")                 == "new-image"
func FileName(imageName, fileName string) string {
	name := firstNonEmpty(imageName, fileName, DefaultName)
	name = extPattern.ReplaceAllString(name, "")
	return paramCase(name)
}

// ImageName returns imageName, or a title-cased name derived from the
// file name.
func ImageName(imageName, fileName string) string {
	if imageName != "" {
		return imageName
	}
	words := strings.Split(FileName("", fileName), "-")
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func paramCase(s string) string {
	s = lowerUpper.ReplaceAllString(s, "$1 $2")
	s = upperUpper.ReplaceAllString(s, "$1 $2")
	words := strings.Fields(nonAlphaNums.ReplaceAllString(s, " "))
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// PathResolver derives the storage directory of an upload from a base
// path and the first session property that is present.
type PathResolver struct {
	Base       string
	Properties []string
}

// Resolve returns Base when no properties are configured. Otherwise the
// first property found in session is appended to Base; if none is found
// the upload cannot be placed and a configuration error is returned.
func (r PathResolver) Resolve(session map[string]string) (string, error) {
	if len(r.Properties) == 0 {
		return r.Base, nil
	}

	var value string
	for _, p := range r.Properties {
		if v, ok := session[p]; ok && v != "" {
			value = v
			break
		}
	}
	if value == "" {
		return "", fault.Configuration("resolve path",
			"none of the session properties %s is set", strings.Join(r.Properties, ", "))
	}

	if r.Base == "" {
		return value, nil
	}
	return r.Base + "/" + value, nil
}
