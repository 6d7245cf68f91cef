package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the email is already on the allow list.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrSongNotFound indicates the song does not exist.
	ErrSongNotFound = errors.New("song not found")
	// ErrSetlistNotFound indicates the setlist does not exist.
	ErrSetlistNotFound = errors.New("setlist not found")
	// ErrCategoryNotFound indicates the category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrUnknownCategory is returned when a setlist references a missing category.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownSong is returned when a setlist entry references a missing song.
	ErrUnknownSong = errors.New("unknown song")
	// ErrConflict indicates the setlist changed since the caller last read it.
	ErrConflict = errors.New("setlist was modified concurrently")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db    *sql.DB
	newID func() string
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, newID: uuid.NewString}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503"
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
