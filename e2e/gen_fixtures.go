//go:build ignore

// gen_fixtures creates test images, a catalog and a config for the E2E
// smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/AnyUserName/imgvariant/internal/profile"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	images := filepath.Join(dir, "images")
	must(os.MkdirAll(filepath.Join(images, "cards"), 0o755))

	// 20x20 square used by the geometry and crop checks
	writeJPEG(filepath.Join(images, "square.jpg"), gradient(20, 20))
	writeJPEG(filepath.Join(images, "banner.jpg"), gradient(400, 225))
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		writePNG(filepath.Join(images, "cards", name), solidWithBorder(200, 150, uint8(i*60)))
	}

	writeYAML(filepath.Join(dir, "catalog.yaml"), sampleCatalog())
	writeYAML(filepath.Join(dir, ".imgvariant.yaml"), map[string]any{
		"host":            "https://cdn.example.com",
		"base":            "uploads",
		"path_properties": []string{"tenant"},
		"catalog":         map[string]any{"driver": "file", "path": filepath.Join(dir, "catalog.yaml")},
		"store":           map[string]any{"driver": "sqlite", "dsn": filepath.Join(dir, "imgvariant.db")},
		"storage":         map[string]any{"driver": "local", "dir": filepath.Join(dir, "variants")},
	})

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 images, catalog and config in %s\n", dir)
}

func sampleCatalog() profile.Catalog {
	thumb := profile.Dimensions{MaxWidth: 10, MaxHeight: 10}
	return profile.Catalog{
		Types: []profile.ImageType{
			{ID: "avatar", Name: "Avatar", FileType: profile.JPG, Dimensions: profile.Dimensions{Width: 40, Height: 40}, Quality: 85},
			{ID: "card", Name: "Card", FileType: profile.PNG, Dimensions: profile.Dimensions{MaxWidth: 160}},
			{ID: "raw", Name: "Raw", FileType: profile.JPG},
		},
		Profiles: []profile.ImageProfile{
			{ID: "thumb-webp", Name: "thumb", FileType: profile.WebP, Dimensions: thumb, Quality: 75, Pregenerate: true},
			{ID: "thumb-jpg", Name: "thumb", FileType: profile.JPG, Dimensions: thumb, Quality: 75, Pregenerate: true},
			{ID: "wide", Name: "wide", FileType: profile.JPG, Dimensions: profile.Dimensions{Width: 40, AspectRatio: 4.0 / 3}},
		},
		Links: []profile.Link{
			{TypeID: "avatar", ProfileID: "thumb-webp"},
			{TypeID: "avatar", ProfileID: "thumb-jpg"},
			{TypeID: "avatar", ProfileID: "wide"},
			{TypeID: "card", ProfileID: "thumb-jpg"},
			{TypeID: "card", ProfileID: "retired"},
		},
	}
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	must(err)
	defer f.Close()
	must(png.Encode(f, img))
}

func writeJPEG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	must(err)
	defer f.Close()
	must(jpeg.Encode(f, img, &jpeg.Options{Quality: 85}))
}

func writeYAML(path string, v any) {
	data, err := yaml.Marshal(v)
	must(err)
	must(os.WriteFile(path, data, 0o644))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
