package encoder

import (
	"fmt"
	"image"
	"strings"

	"github.com/AnyUserName/imgvariant/internal/plan"
)

// order is the listing order of Available.
var order = []plan.Format{plan.FormatWebP, plan.FormatJPEG, plan.FormatPNG}

// Registry holds the encoders that are usable on this machine.
type Registry struct {
	encoders map[plan.Format]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	return NewRegistryWith(&WebPEncoder{}, &JPEGEncoder{}, &PNGEncoder{})
}

// NewRegistryWith registers the given encoders. Unavailable ones are
// skipped; a later encoder replaces an earlier one for the same format.
func NewRegistryWith(encoders ...Encoder) *Registry {
	r := &Registry{encoders: make(map[plan.Format]Encoder)}
	for _, enc := range encoders {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format plan.Format) Encoder {
	return r.encoders[plan.Format(strings.ToLower(string(format)))]
}

// Encode looks up the encoder for format and runs it.
func (r *Registry) Encode(format plan.Format, img image.Image, opts plan.EncodeOptions) ([]byte, error) {
	enc := r.Get(format)
	if enc == nil {
		return nil, fmt.Errorf("no encoder available for %q (%s)", format, r)
	}
	return enc.Encode(img, opts)
}

// Available returns all available format names.
func (r *Registry) Available() []plan.Format {
	var result []plan.Format
	for _, f := range order {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	names := make([]string, len(avail))
	for i, f := range avail {
		names[i] = string(f)
	}
	return fmt.Sprintf("encoders: %s", strings.Join(names, ", "))
}
