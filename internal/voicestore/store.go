// Package voicestore persists the region voice map. It is the
// configuration subsystem's side of the snapshot boundary: the settings
// surface writes rows here, the pipeline only ever reads Snapshot output.
package voicestore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/George-br/WorldVoice/internal/config"
	"github.com/George-br/WorldVoice/internal/language"
	"github.com/George-br/WorldVoice/internal/voice"
	_ "modernc.org/sqlite"
)

// Entry is one persisted region mapping.
type Entry struct {
	Tag       language.Tag  `json:"tag"`
	Mapping   voice.Mapping `json:"mapping"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Store wraps a SQLite-backed region voice map.
type Store struct {
	db    *sql.DB
	log   *slog.Logger
	clock func() time.Time
}

// Open initializes the store at the configured path.
func Open(ctx context.Context, cfg config.VoiceStoreConfig, log *slog.Logger) (*Store, error) {
	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, log: log, clock: time.Now}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS regions (
    tag TEXT PRIMARY KEY,
    no_select INTEGER NOT NULL DEFAULT 0,
    engine TEXT,
    voice TEXT,
    variant TEXT,
    speed INTEGER,
    pitch INTEGER,
    volume INTEGER,
    updated_at TIMESTAMP NOT NULL
);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Close releases underlying resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put upserts the mapping for a tag.
func (s *Store) Put(ctx context.Context, tag language.Tag, m voice.Mapping) error {
	noSelect := 0
	if m.NoSelect {
		noSelect = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO regions(tag, no_select, engine, voice, variant, speed, pitch, volume, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tag) DO UPDATE SET
		   no_select=excluded.no_select, engine=excluded.engine, voice=excluded.voice,
		   variant=excluded.variant, speed=excluded.speed, pitch=excluded.pitch,
		   volume=excluded.volume, updated_at=excluded.updated_at`,
		string(tag), noSelect, m.Role.Engine, m.Role.Voice, m.Role.Variant,
		m.Role.Params.Speed, m.Role.Params.Pitch, m.Role.Params.Volume, s.clock().UTC())
	return err
}

// Remove deletes the mapping for a tag. Absent tags resolve to the main
// role anyway, so removing an unknown tag is not an error.
func (s *Store) Remove(ctx context.Context, tag language.Tag) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM regions WHERE tag = ?`, string(tag))
	return err
}

// List returns every persisted mapping ordered by tag.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, no_select, engine, voice, variant, speed, pitch, volume, updated_at
		 FROM regions ORDER BY tag ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			tag      string
			noSelect int
			created  string
		)
		if err := rows.Scan(&tag, &noSelect, &e.Mapping.Role.Engine, &e.Mapping.Role.Voice,
			&e.Mapping.Role.Variant, &e.Mapping.Role.Params.Speed, &e.Mapping.Role.Params.Pitch,
			&e.Mapping.Role.Params.Volume, &created); err != nil {
			return nil, err
		}
		e.Tag = language.Tag(tag)
		e.Mapping.NoSelect = noSelect != 0
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.UpdatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Snapshot materializes the current map for one pipeline invocation. The
// returned map is a private copy; later writes do not affect it.
func (s *Store) Snapshot(ctx context.Context) (voice.RegionMap, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	regions := make(voice.RegionMap, len(entries))
	for _, e := range entries {
		regions[e.Tag] = e.Mapping
	}
	return regions, nil
}

// Seed applies configured region mappings on startup.
func (s *Store) Seed(ctx context.Context, seed map[string]config.RegionConfig) error {
	for tag, region := range seed {
		m := voice.Mapping{
			NoSelect: region.NoSelect,
			Role: voice.Role{
				Engine:  region.Engine,
				Voice:   region.Voice,
				Variant: region.Variant,
				Params: voice.Params{
					Speed:  region.Speed,
					Pitch:  region.Pitch,
					Volume: region.Volume,
				},
			},
		}
		if err := s.Put(ctx, language.Tag(tag), m); err != nil {
			return fmt.Errorf("seed region %q: %w", tag, err)
		}
	}
	return nil
}
