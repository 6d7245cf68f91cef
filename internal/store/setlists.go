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

// SetlistFilter narrows ListSetlists. An empty filter matches every setlist.
type SetlistFilter struct {
	// CategoryIDs keeps setlists tagged with at least one of the ids.
	CategoryIDs []string
}

const setlistColumns = `
		SELECT s.id, s.name, s.number_of_sets, s.date, s.created_by, COALESCE(u.name, ''),
		       s.created_at, s.updated_at
		FROM setlists s
		LEFT JOIN users u ON u.id = s.created_by`

func scanSetlist(row rowScanner) (*models.Setlist, error) {
	var (
		sl   models.Setlist
		date sql.NullTime
	)
	if err := row.Scan(&sl.ID, &sl.Name, &sl.NumberOfSets, &date, &sl.CreatedBy, &sl.CreatedByName,
		&sl.CreatedAt, &sl.UpdatedAt); err != nil {
		return nil, err
	}
	if date.Valid {
		d := date.Time
		sl.Date = &d
	}
	sl.Entries = []models.SetlistEntry{}
	sl.Categories = []models.Category{}
	return &sl, nil
}

// ListSetlists returns setlists with their songs and categories, most
// recently edited first.
func (s *Store) ListSetlists(ctx context.Context, filter SetlistFilter) ([]*models.Setlist, error) {
	query := setlistColumns
	var args []any
	if len(filter.CategoryIDs) > 0 {
		query += `
		WHERE EXISTS (
			SELECT 1 FROM setlist_categories sc
			WHERE sc.setlist_id = s.id AND sc.category_id = ANY($1)
		)`
		args = append(args, pq.Array(filter.CategoryIDs))
	}
	query += `
		ORDER BY s.updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list setlists: %w", err)
	}
	defer rows.Close()

	setlists := make([]*models.Setlist, 0)
	byID := make(map[string]*models.Setlist)
	ids := make([]string, 0)
	for rows.Next() {
		sl, err := scanSetlist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan setlist: %w", err)
		}
		setlists = append(setlists, sl)
		byID[sl.ID] = sl
		ids = append(ids, sl.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate setlists: %w", err)
	}
	if len(ids) == 0 {
		return setlists, nil
	}

	if err := s.attachDetails(ctx, s.db, ids, byID); err != nil {
		return nil, err
	}
	return setlists, nil
}

// GetSetlist returns one setlist with its songs and categories.
func (s *Store) GetSetlist(ctx context.Context, id string) (*models.Setlist, error) {
	return s.getSetlist(ctx, s.db, id, false)
}

// CreateSetlist stores a setlist together with its categories and entries
// in one transaction. Entries without an id are given one.
func (s *Store) CreateSetlist(ctx context.Context, sl *models.Setlist) (*models.Setlist, error) {
	if sl.ID == "" {
		sl.ID = s.newID()
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO setlists (id, name, number_of_sets, date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, sl.ID, sl.Name, sl.NumberOfSets, nullTime(sl.Date), sl.CreatedBy, now); err != nil {
		return nil, fmt.Errorf("insert setlist: %w", err)
	}
	if err := s.insertSetlistCategoriesTx(ctx, tx, sl.ID, sl.CategoryIDs()); err != nil {
		return nil, err
	}
	if err := s.insertSetlistEntriesTx(ctx, tx, sl.ID, sl.Entries); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return s.GetSetlist(ctx, sl.ID)
}

// UpdateSetlist locks the setlist, hands the current state to mutate and
// writes back whatever mutate leaves behind: the header fields, categories
// and the complete entry list. An error from mutate aborts without writing.
func (s *Store) UpdateSetlist(ctx context.Context, id string, mutate func(*models.Setlist) error) (*models.Setlist, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	current, err := s.getSetlist(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := mutate(current); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE setlists
		SET name = $2, number_of_sets = $3, date = $4, updated_at = $5
		WHERE id = $1
	`, id, current.Name, current.NumberOfSets, nullTime(current.Date), time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("update setlist: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM setlist_categories WHERE setlist_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clear setlist categories: %w", err)
	}
	if err := s.insertSetlistCategoriesTx(ctx, tx, id, current.CategoryIDs()); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM setlist_songs WHERE setlist_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clear setlist songs: %w", err)
	}
	if err := s.insertSetlistEntriesTx(ctx, tx, id, current.Entries); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return s.GetSetlist(ctx, id)
}

// DeleteSetlist removes a setlist with its entries and category links.
func (s *Store) DeleteSetlist(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM setlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete setlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSetlistNotFound
	}
	return nil
}

func (s *Store) getSetlist(ctx context.Context, q querier, id string, lock bool) (*models.Setlist, error) {
	query := setlistColumns + `
		WHERE s.id = $1`
	if lock {
		query += `
		FOR UPDATE OF s`
	}

	sl, err := scanSetlist(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSetlistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get setlist: %w", err)
	}

	if err := s.attachDetails(ctx, q, []string{id}, map[string]*models.Setlist{id: sl}); err != nil {
		return nil, err
	}
	return sl, nil
}

// attachDetails loads entries and categories for every setlist in ids.
func (s *Store) attachDetails(ctx context.Context, q querier, ids []string, byID map[string]*models.Setlist) error {
	rows, err := q.QueryContext(ctx, `
		SELECT ss.setlist_id, ss.id, ss.song_id, ss.set_number, ss.position,
		       COALESCE(ss.comments, ''), COALESCE(ss.background_color, ''),
		       so.title, COALESCE(so.musical_key, ''), COALESCE(so.tempo, '')
		FROM setlist_songs ss
		JOIN songs so ON so.id = ss.song_id
		WHERE ss.setlist_id = ANY($1)
		ORDER BY ss.setlist_id, ss.set_number ASC, ss.position ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list setlist songs: %w", err)
	}
	for rows.Next() {
		var (
			setlistID string
			e         models.SetlistEntry
			song      models.Song
		)
		if err := rows.Scan(&setlistID, &e.ID, &e.SongID, &e.SetNumber, &e.Position,
			&e.Comments, &e.BackgroundColor, &song.Title, &song.Key, &song.Tempo); err != nil {
			rows.Close()
			return fmt.Errorf("scan setlist song: %w", err)
		}
		song.ID = e.SongID
		e.Song = &song
		if sl, ok := byID[setlistID]; ok {
			sl.Entries = append(sl.Entries, e)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate setlist songs: %w", err)
	}

	rows, err = q.QueryContext(ctx, `
		SELECT sc.setlist_id, c.id, c.name, c.color
		FROM setlist_categories sc
		JOIN categories c ON c.id = sc.category_id
		WHERE sc.setlist_id = ANY($1)
		ORDER BY c.name ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("list setlist categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			setlistID string
			c         models.Category
		)
		if err := rows.Scan(&setlistID, &c.ID, &c.Name, &c.Color); err != nil {
			return fmt.Errorf("scan setlist category: %w", err)
		}
		if sl, ok := byID[setlistID]; ok {
			sl.Categories = append(sl.Categories, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate setlist categories: %w", err)
	}
	return nil
}

func (s *Store) insertSetlistCategoriesTx(ctx context.Context, tx *sql.Tx, setlistID string, categoryIDs []string) error {
	ids := uniqueStrings(categoryIDs)
	if len(ids) == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO setlist_categories (setlist_id, category_id)
		SELECT $1, id FROM categories WHERE id = ANY($2)
	`, setlistID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("insert setlist categories: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected != int64(len(ids)) {
		return ErrUnknownCategory
	}
	return nil
}

func (s *Store) insertSetlistEntriesTx(ctx context.Context, tx *sql.Tx, setlistID string, entries []models.SetlistEntry) error {
	if len(entries) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO setlist_songs (id, setlist_id, song_id, set_number, position, comments, background_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("prepare insert setlist song: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = s.newID()
		}
		if _, err := stmt.ExecContext(ctx,
			id,
			setlistID,
			e.SongID,
			e.SetNumber,
			e.Position,
			nullIfEmpty(e.Comments),
			nullIfEmpty(e.BackgroundColor),
		); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", ErrUnknownSong, e.SongID)
			}
			return fmt.Errorf("insert setlist song: %w", err)
		}
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
