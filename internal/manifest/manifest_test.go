package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/imgvariant/internal/plan"
)

func sampleImage() Image {
	return Image{
		ID:        "5b7f7c1e-1f0c-4f7e-9d38-2f5a9b8f1c11",
		TypeID:    "avatar",
		FileName:  "portrait",
		ImageName: "Portrait",
		Path:      "uploads/acme",
		Original:  OriginalInfo{Width: 800, Height: 600, Format: "jpeg", Size: 100000},
		Crop:      &plan.CropRequest{X: 10, Y: 10, Width: 400, Height: 400},
		Primary: Variant{
			Format: "jpeg", Width: 256, Height: 256, Size: 9000,
			Hash: "abcd1234abcd1234", Path: "uploads/acme/portrait-5b7f.jpg",
		},
		Extras: []Variant{
			{Profile: "thumb", Format: "webp", Width: 64, Height: 64, Size: 800, Hash: "0011223344556677", Path: "uploads/acme/portrait-5b7f-thumb.webp"},
			{Profile: "thumb", Format: "jpeg", Width: 64, Height: 64, Size: 1200, Hash: "8899aabbccddeeff", Path: "uploads/acme/portrait-5b7f-thumb.jpg", Reused: true},
		},
	}
}

func TestWriteAndRead(t *testing.T) {
	m := New("https://cdn.example.com")
	m.BuildInfo = &BuildInfo{Workers: 4, Encoders: []string{"jpeg", "png"}, Storage: "local"}
	m.Images["portrait.jpg"] = sampleImage()

	path := filepath.Join(t.TempDir(), "imgvariant.manifest.json")
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if m2.Host != "https://cdn.example.com" {
		t.Errorf("host: got %q", m2.Host)
	}
	if m2.BuildInfo == nil || m2.BuildInfo.Workers != 4 {
		t.Fatal("build_info not preserved")
	}

	img, ok := m2.Images["portrait.jpg"]
	if !ok {
		t.Fatal("image portrait.jpg missing")
	}
	if img.Crop == nil || img.Crop.Width != 400 {
		t.Errorf("crop: got %+v", img.Crop)
	}
	if len(img.Extras) != 2 {
		t.Fatalf("extras: got %d", len(img.Extras))
	}
	if img.Extras[0].Profile != "thumb" || img.Extras[0].Format != "webp" {
		t.Errorf("first extra: got %+v", img.Extras[0])
	}
}

func TestComputeStats(t *testing.T) {
	m := New("")
	m.Images["a"] = sampleImage()
	b := sampleImage()
	b.Extras = nil
	b.Primary.Reused = true
	m.Images["b"] = b

	m.ComputeStats()

	if m.Stats.TotalImages != 2 {
		t.Errorf("total_images: got %d", m.Stats.TotalImages)
	}
	if m.Stats.TotalVariants != 4 {
		t.Errorf("total_variants: got %d, want 4", m.Stats.TotalVariants)
	}
	if m.Stats.TotalInputBytes != 200000 {
		t.Errorf("total_input_bytes: got %d", m.Stats.TotalInputBytes)
	}
	if want := int64(9000 + 800 + 1200 + 9000); m.Stats.TotalOutputBytes != want {
		t.Errorf("total_output_bytes: got %d, want %d", m.Stats.TotalOutputBytes, want)
	}
	if m.Stats.Reused != 2 {
		t.Errorf("reused: got %d, want 2", m.Stats.Reused)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestReadRejectsOtherVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	if err := os.WriteFile(path, []byte(`{"version": 2, "images": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("expected version error")
	}
}

func TestReadIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "new_flag": true },
		"images": {},
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_images": 0, "total_variants": 0, "new_stat": 42 }
	}`
	path := filepath.Join(t.TempDir(), "m.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Read(path)
	if err != nil {
		t.Fatalf("read with unknown fields: %v", err)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}
