package httpapi

import (
	"net/http"

	"setlists/internal/auth"
	"setlists/internal/models"
)

type createUserRequest struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	list, err := s.users.List(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	user, err := s.users.Create(r.Context(), p, req.Email, req.Name, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
