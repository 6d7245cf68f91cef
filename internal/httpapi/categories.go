package httpapi

import (
	"net/http"

	"setlists/internal/auth"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	list, err := s.categories.List(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	category, err := s.categories.Create(r.Context(), p, req.Name, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	category, err := s.categories.Update(r.Context(), p, pathParam(r, "id"), req.Name, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	if err := s.categories.Delete(r.Context(), p, pathParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
