package manifest

import "github.com/AnyUserName/imgvariant/internal/plan"

// Manifest is the report written by `imgvariant produce --manifest`.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Host        string           `json:"host,omitempty"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Images      map[string]Image `json:"images"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers  int      `json:"workers"`
	Encoders []string `json:"encoders,omitempty"`
	Storage  string   `json:"storage,omitempty"`
}

// Image describes one uploaded source and the variants stored for it.
type Image struct {
	ID        string            `json:"id"`
	TypeID    string            `json:"type_id"`
	FileName  string            `json:"file_name"`
	ImageName string            `json:"image_name"`
	Path      string            `json:"path,omitempty"`
	Original  OriginalInfo      `json:"original"`
	Crop      *plan.CropRequest `json:"crop,omitempty"`
	Primary   Variant           `json:"primary"`
	Extras    []Variant         `json:"extras,omitempty"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// Variant is one stored output: the primary (no profile) or a profile.
type Variant struct {
	Profile string `json:"profile,omitempty"`
	Format  string `json:"format"` // "jpeg", "png", "webp"
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Size    int64  `json:"size"` // bytes written
	Hash    string `json:"hash"` // xxhash64, 16 hex chars
	Path    string `json:"path"` // storage key
	Reused  bool   `json:"reused,omitempty"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalImages      int   `json:"total_images"`
	TotalVariants    int   `json:"total_variants"`
	Reused           int   `json:"reused,omitempty"` // variants stored without re-encoding
}

// All returns the primary followed by the extras.
func (img Image) All() []Variant {
	return append([]Variant{img.Primary}, img.Extras...)
}

const (
	// SupportedManifestVersion is the current schema version.
	SupportedManifestVersion = 1
	// DefaultFileName is looked up when a directory is given instead of a
	// manifest path.
	DefaultFileName = "imgvariant.manifest.json"
)
