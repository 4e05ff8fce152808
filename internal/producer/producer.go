// Package producer turns one source image into its stored variants: the
// primary variant of its image type and one variant per pregenerated
// profile.
package producer

import (
	"context"
	"errors"
	"image"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/AnyUserName/imgvariant/internal/fault"
	"github.com/AnyUserName/imgvariant/internal/hasher"
	"github.com/AnyUserName/imgvariant/internal/plan"
	"github.com/AnyUserName/imgvariant/internal/profile"
)

// Codec is the pixel backend.
type Codec interface {
	Metadata(data []byte) (plan.Meta, error)
	Decode(data []byte) (image.Image, error)
	ApplyCrop(img image.Image, p plan.CropPlan) image.Image
	Encode(img image.Image, g plan.Geometry) ([]byte, error)
}

// Storage persists variant bytes under a key.
type Storage interface {
	Write(ctx context.Context, path string, data []byte) error
}

// Namer returns the storage key of a variant. profileName is empty for
// the primary variant.
type Namer func(profileName string, ft profile.FileType) string

// Job is everything needed to produce the variants of one source.
type Job struct {
	Source   []byte
	Meta     plan.Meta
	Crop     *plan.CropRequest
	Target   profile.Target
	Profiles []profile.ImageProfile
	Name     Namer
}

// Variant is one stored output. The bytes are not retained.
type Variant struct {
	Profile  string        `json:"profile,omitempty"`
	Path     string        `json:"path"`
	Geometry plan.Geometry `json:"geometry"`
	Size     int64         `json:"size"`
	Hash     string        `json:"hash"`
	Reused   bool          `json:"reused,omitempty"`
}

// Output is the result of Produce. Extras follow the order of the
// pregenerated profiles in the job.
type Output struct {
	Crop    *plan.CropPlan `json:"crop,omitempty"`
	Primary Variant        `json:"primary"`
	Extras  []Variant      `json:"extras,omitempty"`
}

// Producer plans, encodes and stores variants.
type Producer struct {
	codec   Codec
	storage Storage
	workers int
	log     zerolog.Logger
}

// New creates a producer. workers bounds concurrent profile variants and
// defaults to the number of CPUs.
func New(codec Codec, storage Storage, workers int, log zerolog.Logger) *Producer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Producer{codec: codec, storage: storage, workers: workers, log: log}
}

// Workers returns the fan-out limit in use.
func (p *Producer) Workers() int { return p.workers }

type task struct {
	profileName string
	fileType    profile.FileType
	geometry    plan.Geometry
	reuse       bool
}

// Produce applies the optional crop once, stores the primary variant, then
// stores every pregenerated profile concurrently. Any failure fails the
// whole job; variants already written are left in place.
func (p *Producer) Produce(ctx context.Context, job Job) (*Output, error) {
	if job.Name == nil {
		return nil, errors.New("produce: job has no namer")
	}

	out := &Output{}
	src := job.Meta
	modified := false
	var working image.Image

	if job.Crop != nil {
		cp := plan.PlanCrop(src, *job.Crop)
		img, err := p.codec.Decode(job.Source)
		if err != nil {
			return nil, fault.Production("crop source", err)
		}
		working = p.codec.ApplyCrop(img, cp)
		src = cp.Result
		modified = true
		out.Crop = &cp
		p.log.Debug().
			Stringer("request", job.Crop).
			Interface("crop", cp.Crop).
			Interface("extend", cp.Extend).
			Int("width", src.Width).
			Int("height", src.Height).
			Msg("crop applied")
	}

	primary := p.newTask("", job.Target.FileType, src, job.Target, modified)
	var extras []task
	for _, prof := range job.Profiles {
		if !prof.Pregenerate {
			continue
		}
		extras = append(extras, p.newTask(prof.Name, prof.FileType, src, prof.Target(), modified))
	}

	if working == nil && needsPixels(primary, extras) {
		img, err := p.codec.Decode(job.Source)
		if err != nil {
			return nil, fault.Production("decode source", err)
		}
		working = img
	}

	v, err := p.render(ctx, job, working, primary)
	if err != nil {
		return nil, fault.Production("produce primary", err)
	}
	out.Primary = v

	if len(extras) == 0 {
		return out, nil
	}

	out.Extras = make([]Variant, len(extras))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, t := range extras {
		g.Go(func() error {
			v, err := p.render(gctx, job, working, t)
			if err != nil {
				return fault.Production("produce profile "+t.profileName, err)
			}
			out.Extras[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Producer) newTask(name string, ft profile.FileType, src plan.Meta, t profile.Target, modified bool) task {
	g := plan.PlanGeometry(src, t)
	return task{profileName: name, fileType: ft, geometry: g, reuse: g.Reusable(src, modified)}
}

func needsPixels(primary task, extras []task) bool {
	if !primary.reuse {
		return true
	}
	for _, t := range extras {
		if !t.reuse {
			return true
		}
	}
	return false
}

func (p *Producer) render(ctx context.Context, job Job, working image.Image, t task) (Variant, error) {
	if err := ctx.Err(); err != nil {
		return Variant{}, err
	}

	data := job.Source
	if !t.reuse {
		var err error
		data, err = p.codec.Encode(working, t.geometry)
		if err != nil {
			return Variant{}, err
		}
	}

	path := job.Name(t.profileName, t.fileType)
	if err := p.storage.Write(ctx, path, data); err != nil {
		return Variant{}, err
	}

	v := Variant{
		Profile:  t.profileName,
		Path:     path,
		Geometry: t.geometry,
		Size:     int64(len(data)),
		Hash:     hasher.Sum(data),
		Reused:   t.reuse,
	}
	p.log.Debug().
		Str("path", path).
		Str("profile", t.profileName).
		Int("width", t.geometry.Width).
		Int("height", t.geometry.Height).
		Bool("reused", t.reuse).
		Int64("size", v.Size).
		Msg("variant stored")
	return v, nil
}
