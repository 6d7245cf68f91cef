package httpapi

import (
	"net/http"
	"testing"

	"setlists/internal/setlist"
	"setlists/internal/store"
)

func TestListSetlistsCategoryFilter(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(http.MethodGet, "/api/v1/setlists?category=c1&category=c2,c3", memberToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	got := ts.setlists.filter.CategoryIDs
	if len(got) != 3 || got[0] != "c1" || got[1] != "c2" || got[2] != "c3" {
		t.Fatalf("unexpected filter: %v", got)
	}
}

func TestCreateSetlist(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(http.MethodPost, "/api/v1/setlists", memberToken,
		`{"name":"Friday","numberOfSets":2,"date":"2024-06-01","categoryIds":["c1"]}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	in := ts.setlists.created
	if in.Name != "Friday" || in.NumberOfSets != 2 || in.Date == nil || len(in.CategoryIDs) != 1 {
		t.Fatalf("unexpected input: %+v", in)
	}

	rr = ts.do(http.MethodPost, "/api/v1/setlists", memberToken, `{"name":"Friday","date":"soon"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestUpdateSetlistDateHandling(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(http.MethodPut, "/api/v1/setlists/sl1", memberToken, `{"name":"Renamed"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ts.setlists.updated.DateSet || *ts.setlists.updated.Name != "Renamed" {
		t.Fatalf("date must be untouched when absent: %+v", ts.setlists.updated)
	}

	rr = ts.do(http.MethodPut, "/api/v1/setlists/sl1", memberToken, `{"date":null}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !ts.setlists.updated.DateSet || ts.setlists.updated.Date != nil {
		t.Fatalf("expected null date to clear: %+v", ts.setlists.updated)
	}

	rr = ts.do(http.MethodPut, "/api/v1/setlists/sl1", memberToken, `{"date":"2024-07-04"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !ts.setlists.updated.DateSet || ts.setlists.updated.Date == nil {
		t.Fatalf("expected date to be set: %+v", ts.setlists.updated)
	}

	rr = ts.do(http.MethodPut, "/api/v1/setlists/sl1", memberToken, `{"date":42}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestUpdateSetlistReplacesEntries(t *testing.T) {
	ts := newTestServer()

	body := `{"songs":[{"id":"e1","songId":"s1","setNumber":1,"position":0},{"songId":"s2","setNumber":2,"position":0}],"updatedAt":"2024-06-01T10:00:00Z"}`
	rr := ts.do(http.MethodPut, "/api/v1/setlists/sl1", memberToken, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	in := ts.setlists.updated
	if in.Entries == nil || len(*in.Entries) != 2 || in.UpdatedAt == nil {
		t.Fatalf("unexpected input: %+v", in)
	}
	if (*in.Entries)[1].SongID != "s2" || (*in.Entries)[1].SetNumber != 2 {
		t.Fatalf("unexpected entries: %+v", *in.Entries)
	}
}

func TestSetlistErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not dense", err: setlist.ErrInvariantViolation, want: http.StatusBadRequest},
		{name: "invalid operation", err: setlist.ErrInvalidOperation, want: http.StatusBadRequest},
		{name: "unknown song", err: store.ErrUnknownSong, want: http.StatusBadRequest},
		{name: "unknown category", err: store.ErrUnknownCategory, want: http.StatusBadRequest},
		{name: "missing entry", err: setlist.ErrNotFound, want: http.StatusNotFound},
		{name: "missing setlist", err: store.ErrSetlistNotFound, want: http.StatusNotFound},
		{name: "stale edit", err: store.ErrConflict, want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.setlists.err = tt.err

			rr := ts.do(http.MethodPut, "/api/v1/setlists/sl1", memberToken, `{"songs":[]}`)
			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, rr.Code)
			}
			if msg := decodeError(t, rr); msg != tt.err.Error() {
				t.Fatalf("unexpected error message %q", msg)
			}
		})
	}
}

func TestEntryRoutes(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(http.MethodPost, "/api/v1/setlists/sl1/songs", memberToken, addSongRequest{SongID: "s1", SetNumber: 2})
	if rr.Code != http.StatusOK {
		t.Fatalf("add: expected status 200, got %d", rr.Code)
	}
	if ts.setlists.lastID != "sl1" || ts.setlists.lastSong != "s1" || ts.setlists.lastSet != 2 {
		t.Fatalf("unexpected add call: %+v", ts.setlists)
	}

	rr = ts.do(http.MethodPost, "/api/v1/setlists/sl1/songs/e1/move", memberToken, `{"direction":"up"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("move: expected status 200, got %d", rr.Code)
	}
	if ts.setlists.lastEntry != "e1" || ts.setlists.lastDir != setlist.Up {
		t.Fatalf("unexpected move call: %+v", ts.setlists)
	}

	rr = ts.do(http.MethodPut, "/api/v1/setlists/sl1/songs/e2/set", memberToken, moveToSetRequest{SetNumber: 3})
	if rr.Code != http.StatusOK {
		t.Fatalf("move to set: expected status 200, got %d", rr.Code)
	}
	if ts.setlists.lastEntry != "e2" || ts.setlists.lastSet != 3 {
		t.Fatalf("unexpected move to set call: %+v", ts.setlists)
	}

	rr = ts.do(http.MethodPatch, "/api/v1/setlists/sl1/songs/e3", memberToken, `{"backgroundColor":"red"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("metadata: expected status 200, got %d", rr.Code)
	}
	md := ts.setlists.lastMeta
	if md.Comments != nil || md.BackgroundColor == nil || *md.BackgroundColor != "red" {
		t.Fatalf("unexpected metadata: %+v", md)
	}

	rr = ts.do(http.MethodDelete, "/api/v1/setlists/sl1/songs/e4", memberToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("remove: expected status 200, got %d", rr.Code)
	}
	if ts.setlists.lastEntry != "e4" {
		t.Fatalf("unexpected remove call: %+v", ts.setlists)
	}
}

func TestDuplicateAndDeleteSetlist(t *testing.T) {
	ts := newTestServer()

	rr := ts.do(http.MethodPost, "/api/v1/setlists/sl1/duplicate", memberToken, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	rr = ts.do(http.MethodDelete, "/api/v1/setlists/sl1", memberToken, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}

	ts.setlists.err = store.ErrSetlistNotFound
	rr = ts.do(http.MethodDelete, "/api/v1/setlists/sl1", memberToken, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
