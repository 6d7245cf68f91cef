package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"setlists/internal/models"
)

const songColumns = `
		SELECT s.id, s.title, COALESCE(s.musical_key, ''), COALESCE(s.tempo, ''),
		       s.created_by, COALESCE(u.name, ''), s.created_at, s.updated_at
		FROM songs s
		LEFT JOIN users u ON u.id = s.created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (models.Song, error) {
	var song models.Song
	err := row.Scan(&song.ID, &song.Title, &song.Key, &song.Tempo,
		&song.CreatedBy, &song.CreatedByName, &song.CreatedAt, &song.UpdatedAt)
	return song, err
}

// ListSongs returns the whole repertoire ordered by title.
func (s *Store) ListSongs(ctx context.Context) ([]models.Song, error) {
	rows, err := s.db.QueryContext(ctx, songColumns+`
		ORDER BY s.title ASC`)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	songs := make([]models.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// GetSong returns a single song by ID.
func (s *Store) GetSong(ctx context.Context, id string) (models.Song, error) {
	song, err := scanSong(s.db.QueryRowContext(ctx, songColumns+`
		WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Song{}, ErrSongNotFound
	}
	if err != nil {
		return models.Song{}, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// CreateSong inserts a song owned by song.CreatedBy.
func (s *Store) CreateSong(ctx context.Context, song models.Song) (models.Song, error) {
	song.ID = s.newID()
	now := time.Now().UTC()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO songs (id, title, musical_key, tempo, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, song.ID, song.Title, nullIfEmpty(song.Key), nullIfEmpty(song.Tempo), song.CreatedBy, now); err != nil {
		return models.Song{}, fmt.Errorf("insert song: %w", err)
	}

	return s.GetSong(ctx, song.ID)
}

// UpdateSong replaces the title, key and tempo of an existing song.
func (s *Store) UpdateSong(ctx context.Context, song models.Song) (models.Song, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE songs
		SET title = $2, musical_key = $3, tempo = $4, updated_at = $5
		WHERE id = $1
	`, song.ID, song.Title, nullIfEmpty(song.Key), nullIfEmpty(song.Tempo), time.Now().UTC())
	if err != nil {
		return models.Song{}, fmt.Errorf("update song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Song{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return models.Song{}, ErrSongNotFound
	}

	return s.GetSong(ctx, song.ID)
}

// DeleteSong removes a song together with its setlist entries. Every set the
// song appeared in is renumbered so its positions stay gapless.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	type placement struct {
		setlistID string
		setNumber int
		position  int
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT setlist_id, set_number, position
		FROM setlist_songs
		WHERE song_id = $1
		FOR UPDATE
	`, id)
	if err != nil {
		return fmt.Errorf("select song placements: %w", err)
	}
	var placements []placement
	for rows.Next() {
		var p placement
		if err := rows.Scan(&p.setlistID, &p.setNumber, &p.position); err != nil {
			rows.Close()
			return fmt.Errorf("scan song placement: %w", err)
		}
		placements = append(placements, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate song placements: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}

	if len(placements) > 0 {
		setlistIDs := make([]string, 0, len(placements))
		for _, p := range placements {
			if _, err := tx.ExecContext(ctx, `
				UPDATE setlist_songs
				SET position = position - 1
				WHERE setlist_id = $1 AND set_number = $2 AND position > $3
			`, p.setlistID, p.setNumber, p.position); err != nil {
				return fmt.Errorf("close position gap: %w", err)
			}
			setlistIDs = append(setlistIDs, p.setlistID)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE setlists SET updated_at = $2 WHERE id = ANY($1)
		`, pq.Array(setlistIDs), time.Now().UTC()); err != nil {
			return fmt.Errorf("touch setlists: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil
	return nil
}
