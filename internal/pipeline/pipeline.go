// Package pipeline runs uploads over a file or a directory tree and
// collects the stored variants into a manifest.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/AnyUserName/imgvariant/internal/manifest"
	"github.com/AnyUserName/imgvariant/internal/plan"
	"github.com/AnyUserName/imgvariant/internal/upload"
)

// Processor stores one upload.
type Processor interface {
	Process(ctx context.Context, req upload.Request) (*upload.Result, error)
}

// Config holds all parameters for a produce run.
type Config struct {
	Input string
	// Type is the image type id or name applied to every file.
	Type       string
	ImageName  string
	OriginalID string
	Crop       *plan.CropRequest
	Session    map[string]string
	Workers    int

	// Recorded in the manifest only.
	Host     string
	Encoders []string
	Storage  string
}

// Pipeline orchestrates uploads of many files.
type Pipeline struct {
	cfg      Config
	uploader Processor
	log      zerolog.Logger
}

// New creates a configured pipeline. Workers defaults to the number of
// CPUs.
func New(cfg Config, uploader Processor, log zerolog.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{cfg: cfg, uploader: uploader, log: log}
}

// Run processes every source and returns the manifest. Failed files are
// logged and left out; the run fails only when every file failed.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	sources, err := Scan(p.cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.Input)
	}

	p.log.Debug().Int("images", len(sources)).Int("workers", p.cfg.Workers).Msg("sources found")

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			p.log.Debug().Str("key", s.Key).Msg("processing")
			results[idx] = processImage(ctx, p.uploader, s, p.cfg)
			if results[idx].err == nil {
				p.log.Debug().
					Str("key", s.Key).
					Str("id", results[idx].image.ID).
					Int("variants", len(results[idx].image.All())).
					Msg("done")
			}
		}(i, src)
	}
	wg.Wait()

	m := manifest.New(p.cfg.Host)

	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			p.log.Error().Err(r.err).Str("key", r.key).Msg("image failed")
			continue
		}
		m.Images[r.key] = r.image
	}

	if failed > 0 {
		if failed == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", failed)
		}
		p.log.Warn().Msgf("%d of %d images had errors", failed, len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers:  p.cfg.Workers,
		Encoders: p.cfg.Encoders,
		Storage:  p.cfg.Storage,
	}
	m.ComputeStats()
	return m, nil
}
