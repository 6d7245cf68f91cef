package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"setlists/internal/models"
)

var songRowColumns = []string{"id", "title", "musical_key", "tempo", "created_by", "name", "created_at", "updated_at"}

func TestListSongsOrderedByTitle(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY s.title ASC`)).
		WillReturnRows(sqlmock.NewRows(songRowColumns).
			AddRow("s1", "Autumn Leaves", "Gm", "120", "u1", "Ola", now, now).
			AddRow("s2", "Blue Bossa", "", "", "u1", "Ola", now, now))

	songs, err := s.ListSongs(context.Background())
	if err != nil {
		t.Fatalf("ListSongs error: %v", err)
	}
	if len(songs) != 2 || songs[0].Key != "Gm" || songs[1].Tempo != "" || songs[0].CreatedByName != "Ola" {
		t.Fatalf("unexpected songs: %#v", songs)
	}
	expectationsMet(t, mock)
}

func TestCreateSongStoresEmptyFieldsAsNull(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO songs (id, title, musical_key, tempo, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`)).
		WithArgs("id-1", "So What", "Dm", nil, "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.id = $1`)).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(songRowColumns).
			AddRow("id-1", "So What", "Dm", "", "u1", "Ola", now, now))

	song, err := s.CreateSong(context.Background(), models.Song{Title: "So What", Key: "Dm", CreatedBy: "u1"})
	if err != nil {
		t.Fatalf("CreateSong error: %v", err)
	}
	if song.ID != "id-1" || song.CreatedByName != "Ola" {
		t.Fatalf("unexpected song: %#v", song)
	}
	expectationsMet(t, mock)
}

func TestGetSongNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE s.id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := s.GetSong(context.Background(), "missing"); !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestUpdateSongNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE songs`)).
		WithArgs("missing", "Title", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.UpdateSong(context.Background(), models.Song{ID: "missing", Title: "Title"})
	if !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestDeleteSongClosesGapsInEverySetlist(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT setlist_id, set_number, position
		FROM setlist_songs
		WHERE song_id = $1
		FOR UPDATE
	`)).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"setlist_id", "set_number", "position"}).
			AddRow("sl1", 1, 2).
			AddRow("sl2", 3, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = $1`)).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SET position = position - 1`)).
		WithArgs("sl1", 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`SET position = position - 1`)).
		WithArgs("sl2", 3, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE setlists SET updated_at = $2 WHERE id = ANY($1)`)).
		WithArgs(pq.Array([]string{"sl1", "sl2"}), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := s.DeleteSong(context.Background(), "s1"); err != nil {
		t.Fatalf("DeleteSong error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestDeleteSongNotFoundRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM setlist_songs`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"setlist_id", "set_number", "position"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := s.DeleteSong(context.Background(), "missing"); !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}
