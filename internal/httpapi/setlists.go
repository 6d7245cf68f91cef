package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"setlists/internal/app"
	"setlists/internal/app/setlists"
	"setlists/internal/auth"
	"setlists/internal/models"
	"setlists/internal/setlist"
	"setlists/internal/store"
)

type createSetlistRequest struct {
	Name         string   `json:"name"`
	NumberOfSets int      `json:"numberOfSets"`
	Date         *string  `json:"date"`
	CategoryIDs  []string `json:"categoryIds"`
}

// updateSetlistRequest keeps date raw so that an explicit null can clear it.
type updateSetlistRequest struct {
	Name         *string                `json:"name"`
	NumberOfSets *int                   `json:"numberOfSets"`
	Date         json.RawMessage        `json:"date"`
	CategoryIDs  *[]string              `json:"categoryIds"`
	Songs        *[]models.SetlistEntry `json:"songs"`
	UpdatedAt    *time.Time             `json:"updatedAt"`
}

type addSongRequest struct {
	SongID    string `json:"songId"`
	SetNumber int    `json:"setNumber"`
}

type moveRequest struct {
	Direction setlist.Direction `json:"direction"`
}

type moveToSetRequest struct {
	SetNumber int `json:"setNumber"`
}

type entryMetadataRequest struct {
	Comments        *string `json:"comments"`
	BackgroundColor *string `json:"backgroundColor"`
}

func (s *Server) handleListSetlists(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var filter store.SetlistFilter
	for _, v := range r.URL.Query()["category"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.CategoryIDs = append(filter.CategoryIDs, id)
			}
		}
	}

	list, err := s.setlists.List(r.Context(), p, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSetlist(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	sl, err := s.setlists.Get(r.Context(), p, pathParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (s *Server) handleCreateSetlist(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req createSetlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}

	in := setlists.CreateInput{
		Name:         req.Name,
		NumberOfSets: req.NumberOfSets,
		CategoryIDs:  req.CategoryIDs,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.Date = date
	}

	sl, err := s.setlists.Create(r.Context(), p, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sl)
}

func (s *Server) handleUpdateSetlist(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req updateSetlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}

	in := setlists.UpdateInput{
		Name:         req.Name,
		NumberOfSets: req.NumberOfSets,
		CategoryIDs:  req.CategoryIDs,
		Entries:      req.Songs,
		UpdatedAt:    req.UpdatedAt,
	}
	if len(req.Date) > 0 {
		in.DateSet = true
		if !bytes.Equal(req.Date, []byte("null")) {
			var raw string
			if err := json.Unmarshal(req.Date, &raw); err != nil {
				writeError(w, r, app.Invalidf("date must be a string"))
				return
			}
			date, err := parseDate(raw)
			if err != nil {
				writeError(w, r, err)
				return
			}
			in.Date = date
		}
	}

	sl, err := s.setlists.Update(r.Context(), p, pathParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (s *Server) handleDeleteSetlist(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	if err := s.setlists.Delete(r.Context(), p, pathParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateSetlist(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	sl, err := s.setlists.Duplicate(r.Context(), p, pathParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sl)
}

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req addSongRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	sl, err := s.setlists.AddSong(r.Context(), p, pathParam(r, "id"), req.SongID, req.SetNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (s *Server) handleRemoveSong(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	sl, err := s.setlists.RemoveSong(r.Context(), p, pathParam(r, "id"), pathParam(r, "entryId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (s *Server) handleMoveWithinSet(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	sl, err := s.setlists.MoveWithinSet(r.Context(), p, pathParam(r, "id"), pathParam(r, "entryId"), req.Direction)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (s *Server) handleMoveToSet(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req moveToSetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	sl, err := s.setlists.MoveToSet(r.Context(), p, pathParam(r, "id"), pathParam(r, "entryId"), req.SetNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req entryMetadataRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	md := setlist.Metadata{Comments: req.Comments, BackgroundColor: req.BackgroundColor}
	sl, err := s.setlists.UpdateEntry(r.Context(), p, pathParam(r, "id"), pathParam(r, "entryId"), md)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

// parseDate accepts a full RFC 3339 timestamp or a calendar date. The empty
// string means no date.
func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, app.Invalidf("date %q is not RFC 3339 or YYYY-MM-DD", v)
}
