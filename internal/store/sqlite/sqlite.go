// Package sqlite is the embedded image record and catalog store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AnyUserName/imgvariant/internal/profile"
	"github.com/AnyUserName/imgvariant/internal/store"
)

//go:embed schema.sql
var migration string

// Store is a store.Store backed by a single SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// OpenDB opens a SQLite database at the given path.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL", path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Open opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps db and applies the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, migration); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) CreateImage(ctx context.Context, in store.NewImage) (store.Image, error) {
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
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (id, original_id, file_name, file_type, image_name, path, image_type_id, width, height, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.OriginalID, img.FileName, string(img.FileType), img.ImageName, img.Path,
		img.ImageTypeID, img.Width, img.Height, img.CreatedAt.Unix())
	if err != nil {
		return store.Image{}, fmt.Errorf("insert image: %w", err)
	}
	return img, nil
}

func (s *Store) GetImage(ctx context.Context, id string) (store.Image, error) {
	var (
		img     store.Image
		ft      string
		created int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, original_id, file_name, file_type, image_name, path, image_type_id, width, height, created
		FROM images WHERE id = ?`, id).
		Scan(&img.ID, &img.OriginalID, &img.FileName, &ft, &img.ImageName, &img.Path,
			&img.ImageTypeID, &img.Width, &img.Height, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Image{}, fmt.Errorf("image %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return store.Image{}, fmt.Errorf("select image: %w", err)
	}
	img.FileType = profile.FileType(ft)
	img.CreatedAt = time.Unix(created, 0).UTC()
	return img, nil
}

func (s *Store) PutType(ctx context.Context, t profile.ImageType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO image_types (id, name, file_type, width, height, max_width, max_height, aspect_ratio,
			quality, encode_client, client_quality, max_client_size, max_client_width, max_client_height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, file_type = excluded.file_type,
			width = excluded.width, height = excluded.height,
			max_width = excluded.max_width, max_height = excluded.max_height,
			aspect_ratio = excluded.aspect_ratio, quality = excluded.quality,
			encode_client = excluded.encode_client, client_quality = excluded.client_quality,
			max_client_size = excluded.max_client_size, max_client_width = excluded.max_client_width,
			max_client_height = excluded.max_client_height`,
		t.ID, t.Name, string(t.FileType), t.Width, t.Height, t.MaxWidth, t.MaxHeight, t.AspectRatio,
		t.Quality, string(t.EncodeClient), t.ClientQuality, t.MaxClientSize, t.MaxClientWidth, t.MaxClientHeight)
	return err
}

func (s *Store) PutProfile(ctx context.Context, p profile.ImageProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO image_profiles (id, name, file_type, width, height, max_width, max_height, aspect_ratio, quality, pregenerate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, file_type = excluded.file_type,
			width = excluded.width, height = excluded.height,
			max_width = excluded.max_width, max_height = excluded.max_height,
			aspect_ratio = excluded.aspect_ratio, quality = excluded.quality,
			pregenerate = excluded.pregenerate`,
		p.ID, p.Name, string(p.FileType), p.Width, p.Height, p.MaxWidth, p.MaxHeight, p.AspectRatio,
		p.Quality, p.Pregenerate)
	return err
}

func (s *Store) PutLink(ctx context.Context, l profile.Link) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO image_type_profiles (image_type_id, image_profile_id) VALUES (?, ?)
		ON CONFLICT (image_type_id, image_profile_id) DO NOTHING`, l.TypeID, l.ProfileID)
	return err
}

// Load reads the catalog. Links are not checked against the other tables;
// the index drops dangling ones.
func (s *Store) Load(ctx context.Context) (profile.Catalog, error) {
	var c profile.Catalog

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, file_type, width, height, max_width, max_height, aspect_ratio,
			quality, encode_client, client_quality, max_client_size, max_client_width, max_client_height
		FROM image_types ORDER BY rowid`)
	if err != nil {
		return c, fmt.Errorf("select types: %w", err)
	}
	for rows.Next() {
		var t profile.ImageType
		var ft, ec string
		if err := rows.Scan(&t.ID, &t.Name, &ft, &t.Width, &t.Height, &t.MaxWidth, &t.MaxHeight,
			&t.AspectRatio, &t.Quality, &ec, &t.ClientQuality, &t.MaxClientSize,
			&t.MaxClientWidth, &t.MaxClientHeight); err != nil {
			rows.Close()
			return c, fmt.Errorf("scan type: %w", err)
		}
		t.FileType, t.EncodeClient = profile.FileType(ft), profile.EncodeClient(ec)
		c.Types = append(c.Types, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return c, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, name, file_type, width, height, max_width, max_height, aspect_ratio, quality, pregenerate
		FROM image_profiles ORDER BY rowid`)
	if err != nil {
		return c, fmt.Errorf("select profiles: %w", err)
	}
	for rows.Next() {
		var p profile.ImageProfile
		var ft string
		if err := rows.Scan(&p.ID, &p.Name, &ft, &p.Width, &p.Height, &p.MaxWidth, &p.MaxHeight,
			&p.AspectRatio, &p.Quality, &p.Pregenerate); err != nil {
			rows.Close()
			return c, fmt.Errorf("scan profile: %w", err)
		}
		p.FileType = profile.FileType(ft)
		c.Profiles = append(c.Profiles, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return c, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT image_type_id, image_profile_id FROM image_type_profiles ORDER BY position`)
	if err != nil {
		return c, fmt.Errorf("select links: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l profile.Link
		if err := rows.Scan(&l.TypeID, &l.ProfileID); err != nil {
			return c, fmt.Errorf("scan link: %w", err)
		}
		c.Links = append(c.Links, l)
	}
	return c, rows.Err()
}
