package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/AnyUserName/imgvariant/internal/plan"
)

// WebPEncoder encodes images to WebP by shelling out to cwebp.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	// Binary overrides the cwebp lookup on PATH.
	Binary string

	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() plan.Format { return plan.FormatWebP }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		name := e.Binary
		if name == "" {
			name = "cwebp"
		}
		path, err := exec.LookPath(name)
		if err == nil {
			e.available = true
			e.cwebpPath = path
		}
	})
	return e.available
}

func (e *WebPEncoder) Encode(img image.Image, opts plan.EncodeOptions) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}

	// cwebp works on files; both ends live in a private temp dir.
	dir, err := os.MkdirTemp("", "imgvariant-webp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)
	srcPath := filepath.Join(dir, "src.png")
	dstPath := filepath.Join(dir, "dst.webp")

	if err := writePNG(srcPath, img); err != nil {
		return nil, fmt.Errorf("encode temp png: %w", err)
	}

	cmd := exec.Command(e.cwebpPath,
		"-q", strconv.Itoa(quality(opts.Quality)),
		"-m", "6", // compression method (0=fast, 6=best)
		"-mt",
		"-quiet",
		srcPath,
		"-o", dstPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}

	return os.ReadFile(dstPath)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
