package httpapi

import (
	"net/http"

	"setlists/internal/app/songs"
	"setlists/internal/auth"
)

type songRequest struct {
	Title string `json:"title"`
	Key   string `json:"key"`
	Tempo string `json:"tempo"`
}

func (req songRequest) input() songs.Input {
	return songs.Input{Title: req.Title, Key: req.Key, Tempo: req.Tempo}
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	list, err := s.songs.List(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	song, err := s.songs.Get(r.Context(), p, pathParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req songRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	song, err := s.songs.Create(r.Context(), p, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req songRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	song, err := s.songs.Update(r.Context(), p, pathParam(r, "id"), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	if err := s.songs.Delete(r.Context(), p, pathParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
