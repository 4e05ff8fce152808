// Package postgres is the image record and catalog store for PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnyUserName/imgvariant/internal/profile"
	"github.com/AnyUserName/imgvariant/internal/store"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS image_types (
    seq BIGSERIAL,
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    file_type TEXT NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    max_width INTEGER NOT NULL DEFAULT 0,
    max_height INTEGER NOT NULL DEFAULT 0,
    aspect_ratio DOUBLE PRECISION NOT NULL DEFAULT 0,
    quality INTEGER NOT NULL DEFAULT 0,
    encode_client TEXT NOT NULL DEFAULT '',
    client_quality INTEGER NOT NULL DEFAULT 0,
    max_client_size INTEGER NOT NULL DEFAULT 0,
    max_client_width INTEGER NOT NULL DEFAULT 0,
    max_client_height INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS image_profiles (
    seq BIGSERIAL,
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    file_type TEXT NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    max_width INTEGER NOT NULL DEFAULT 0,
    max_height INTEGER NOT NULL DEFAULT 0,
    aspect_ratio DOUBLE PRECISION NOT NULL DEFAULT 0,
    quality INTEGER NOT NULL DEFAULT 0,
    pregenerate BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS image_type_profiles (
    position BIGSERIAL PRIMARY KEY,
    image_type_id TEXT NOT NULL,
    image_profile_id TEXT NOT NULL,
    UNIQUE (image_type_id, image_profile_id)
);
CREATE TABLE IF NOT EXISTS images (
    id TEXT PRIMARY KEY,
    original_id TEXT NOT NULL DEFAULT '',
    file_name TEXT NOT NULL,
    file_type TEXT NOT NULL,
    image_name TEXT NOT NULL,
    path TEXT NOT NULL DEFAULT '',
    image_type_id TEXT NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS images_image_type_id_idx ON images (image_type_id);
`

// Repository is a store.Store backed by PostgreSQL.
type Repository struct {
	pool DB
	now  func() time.Time
}

var _ store.Store = (*Repository)(nil)

// Open connects to dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	r := New(pool)
	if err := r.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

// New wraps an existing pool.
func New(pool DB) *Repository {
	return &Repository{pool: pool, now: time.Now}
}

// Migrate creates the tables when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// CreateImage inserts a record with a fresh uuid.
func (r *Repository) CreateImage(ctx context.Context, in store.NewImage) (store.Image, error) {
	img := store.Image{
		ID:          uuid.NewString(),
		OriginalID:  in.OriginalID,
		FileName:    in.FileName,
		FileType:    in.FileType,
		ImageName:   in.ImageName,
		Path:        in.Path,
		ImageTypeID: in.ImageTypeID,
		Width:       in.Width,
		Height:      in.Height,
		CreatedAt:   r.now().UTC(),
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO images (id, original_id, file_name, file_type, image_name, path, image_type_id, width, height, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		img.ID, img.OriginalID, img.FileName, string(img.FileType), img.ImageName, img.Path,
		img.ImageTypeID, img.Width, img.Height, img.CreatedAt)
	if err != nil {
		return store.Image{}, fmt.Errorf("insert image: %w", err)
	}
	return img, nil
}

// GetImage returns store.ErrNotFound for an unknown id.
func (r *Repository) GetImage(ctx context.Context, id string) (store.Image, error) {
	var img store.Image
	var ft string
	err := r.pool.QueryRow(ctx, `
		SELECT id, original_id, file_name, file_type, image_name, path, image_type_id, width, height, created_at
		FROM images WHERE id = $1`, id).
		Scan(&img.ID, &img.OriginalID, &img.FileName, &ft, &img.ImageName, &img.Path,
			&img.ImageTypeID, &img.Width, &img.Height, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Image{}, fmt.Errorf("image %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return store.Image{}, fmt.Errorf("select image: %w", err)
	}
	img.FileType = profile.FileType(ft)
	return img, nil
}

// PutType upserts t, keeping its original position.
func (r *Repository) PutType(ctx context.Context, t profile.ImageType) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO image_types (id, name, file_type, width, height, max_width, max_height, aspect_ratio,
			quality, encode_client, client_quality, max_client_size, max_client_width, max_client_height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, file_type = EXCLUDED.file_type,
			width = EXCLUDED.width, height = EXCLUDED.height,
			max_width = EXCLUDED.max_width, max_height = EXCLUDED.max_height,
			aspect_ratio = EXCLUDED.aspect_ratio, quality = EXCLUDED.quality,
			encode_client = EXCLUDED.encode_client, client_quality = EXCLUDED.client_quality,
			max_client_size = EXCLUDED.max_client_size, max_client_width = EXCLUDED.max_client_width,
			max_client_height = EXCLUDED.max_client_height`,
		t.ID, t.Name, string(t.FileType), t.Width, t.Height, t.MaxWidth, t.MaxHeight, t.AspectRatio,
		t.Quality, string(t.EncodeClient), t.ClientQuality, t.MaxClientSize, t.MaxClientWidth, t.MaxClientHeight)
	return err
}

// PutProfile upserts p.
func (r *Repository) PutProfile(ctx context.Context, p profile.ImageProfile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO image_profiles (id, name, file_type, width, height, max_width, max_height, aspect_ratio, quality, pregenerate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, file_type = EXCLUDED.file_type,
			width = EXCLUDED.width, height = EXCLUDED.height,
			max_width = EXCLUDED.max_width, max_height = EXCLUDED.max_height,
			aspect_ratio = EXCLUDED.aspect_ratio, quality = EXCLUDED.quality,
			pregenerate = EXCLUDED.pregenerate`,
		p.ID, p.Name, string(p.FileType), p.Width, p.Height, p.MaxWidth, p.MaxHeight, p.AspectRatio,
		p.Quality, p.Pregenerate)
	return err
}

// PutLink adds a link; a repeated link keeps its first position.
func (r *Repository) PutLink(ctx context.Context, l profile.Link) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO image_type_profiles (image_type_id, image_profile_id) VALUES ($1, $2)
		ON CONFLICT (image_type_id, image_profile_id) DO NOTHING`, l.TypeID, l.ProfileID)
	return err
}

// Load reads the whole catalog in insertion order.
func (r *Repository) Load(ctx context.Context) (profile.Catalog, error) {
	var c profile.Catalog

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, file_type, width, height, max_width, max_height, aspect_ratio,
			quality, encode_client, client_quality, max_client_size, max_client_width, max_client_height
		FROM image_types ORDER BY seq`)
	if err != nil {
		return c, fmt.Errorf("select types: %w", err)
	}
	c.Types, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (profile.ImageType, error) {
		var t profile.ImageType
		var ft, ec string
		err := row.Scan(&t.ID, &t.Name, &ft, &t.Width, &t.Height, &t.MaxWidth, &t.MaxHeight,
			&t.AspectRatio, &t.Quality, &ec, &t.ClientQuality, &t.MaxClientSize,
			&t.MaxClientWidth, &t.MaxClientHeight)
		t.FileType, t.EncodeClient = profile.FileType(ft), profile.EncodeClient(ec)
		return t, err
	})
	if err != nil {
		return c, fmt.Errorf("scan types: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id, name, file_type, width, height, max_width, max_height, aspect_ratio, quality, pregenerate
		FROM image_profiles ORDER BY seq`)
	if err != nil {
		return c, fmt.Errorf("select profiles: %w", err)
	}
	c.Profiles, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (profile.ImageProfile, error) {
		var p profile.ImageProfile
		var ft string
		err := row.Scan(&p.ID, &p.Name, &ft, &p.Width, &p.Height, &p.MaxWidth, &p.MaxHeight,
			&p.AspectRatio, &p.Quality, &p.Pregenerate)
		p.FileType = profile.FileType(ft)
		return p, err
	})
	if err != nil {
		return c, fmt.Errorf("scan profiles: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT image_type_id, image_profile_id FROM image_type_profiles ORDER BY position`)
	if err != nil {
		return c, fmt.Errorf("select links: %w", err)
	}
	c.Links, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (profile.Link, error) {
		var l profile.Link
		err := row.Scan(&l.TypeID, &l.ProfileID)
		return l, err
	})
	if err != nil {
		return c, fmt.Errorf("scan links: %w", err)
	}
	return c, nil
}
