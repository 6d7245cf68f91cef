package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"setlists/internal/app/categories"
	"setlists/internal/app/setlists"
	"setlists/internal/app/songs"
	"setlists/internal/app/users"
	"setlists/internal/auth"
	"setlists/internal/logging"
	"setlists/internal/models"
	"setlists/internal/setlist"
	"setlists/internal/store"
)

// Authenticator resolves a bearer token into the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// UserService manages the allow list.
type UserService interface {
	List(ctx context.Context, p auth.Principal) ([]models.User, error)
	Create(ctx context.Context, p auth.Principal, email, name string, role models.Role) (models.User, error)
}

// SongService manages the song library.
type SongService interface {
	List(ctx context.Context, p auth.Principal) ([]models.Song, error)
	Get(ctx context.Context, p auth.Principal, id string) (models.Song, error)
	Create(ctx context.Context, p auth.Principal, in songs.Input) (models.Song, error)
	Update(ctx context.Context, p auth.Principal, id string, in songs.Input) (models.Song, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}

// CategoryService manages setlist categories.
type CategoryService interface {
	List(ctx context.Context, p auth.Principal) ([]models.Category, error)
	Create(ctx context.Context, p auth.Principal, name, color string) (models.Category, error)
	Update(ctx context.Context, p auth.Principal, id, name, color string) (models.Category, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}

// SetlistService covers setlist CRUD and the entry ordering operations.
type SetlistService interface {
	List(ctx context.Context, p auth.Principal, filter store.SetlistFilter) ([]*models.Setlist, error)
	Get(ctx context.Context, p auth.Principal, id string) (*models.Setlist, error)
	Create(ctx context.Context, p auth.Principal, in setlists.CreateInput) (*models.Setlist, error)
	Update(ctx context.Context, p auth.Principal, id string, in setlists.UpdateInput) (*models.Setlist, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
	Duplicate(ctx context.Context, p auth.Principal, id string) (*models.Setlist, error)

	AddSong(ctx context.Context, p auth.Principal, id, songID string, setNumber int) (*models.Setlist, error)
	RemoveSong(ctx context.Context, p auth.Principal, id, entryID string) (*models.Setlist, error)
	MoveWithinSet(ctx context.Context, p auth.Principal, id, entryID string, dir setlist.Direction) (*models.Setlist, error)
	MoveToSet(ctx context.Context, p auth.Principal, id, entryID string, setNumber int) (*models.Setlist, error)
	UpdateEntry(ctx context.Context, p auth.Principal, id, entryID string, md setlist.Metadata) (*models.Setlist, error)
}

var (
	_ CategoryService = categories.Service(nil)
	_ SetlistService  = setlists.Service(nil)
	_ SongService     = songs.Service(nil)
	_ UserService     = users.Service(nil)
)

// Server wires HTTP handlers to the underlying services.
type Server struct {
	auth       Authenticator
	users      UserService
	songs      SongService
	categories CategoryService
	setlists   SetlistService
}

// New configures a Server with the given services.
func New(
	authenticator Authenticator,
	users UserService,
	songs SongService,
	categories CategoryService,
	setlists SetlistService,
) *Server {
	return &Server{
		auth:       authenticator,
		users:      users,
		songs:      songs,
		categories: categories,
		setlists:   setlists,
	}
}

// Routes exposes the HTTP handlers. mws run after route matching.
func (s *Server) Routes(mws ...mux.MiddlewareFunc) http.Handler {
	router := mux.NewRouter()
	router.Use(mws...)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/check", s.handleAuthCheck).Methods(http.MethodGet)

	api.HandleFunc("/users", s.authed(s.handleListUsers)).Methods(http.MethodGet)
	api.HandleFunc("/users", s.authed(s.handleCreateUser)).Methods(http.MethodPost)

	api.HandleFunc("/songs", s.authed(s.handleListSongs)).Methods(http.MethodGet)
	api.HandleFunc("/songs", s.authed(s.handleCreateSong)).Methods(http.MethodPost)
	api.HandleFunc("/songs/{id}", s.authed(s.handleGetSong)).Methods(http.MethodGet)
	api.HandleFunc("/songs/{id}", s.authed(s.handleUpdateSong)).Methods(http.MethodPut)
	api.HandleFunc("/songs/{id}", s.authed(s.handleDeleteSong)).Methods(http.MethodDelete)

	api.HandleFunc("/categories", s.authed(s.handleListCategories)).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.authed(s.handleCreateCategory)).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", s.authed(s.handleUpdateCategory)).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", s.authed(s.handleDeleteCategory)).Methods(http.MethodDelete)

	api.HandleFunc("/setlists", s.authed(s.handleListSetlists)).Methods(http.MethodGet)
	api.HandleFunc("/setlists", s.authed(s.handleCreateSetlist)).Methods(http.MethodPost)
	api.HandleFunc("/setlists/{id}", s.authed(s.handleGetSetlist)).Methods(http.MethodGet)
	api.HandleFunc("/setlists/{id}", s.authed(s.handleUpdateSetlist)).Methods(http.MethodPut)
	api.HandleFunc("/setlists/{id}", s.authed(s.handleDeleteSetlist)).Methods(http.MethodDelete)
	api.HandleFunc("/setlists/{id}/duplicate", s.authed(s.handleDuplicateSetlist)).Methods(http.MethodPost)
	api.HandleFunc("/setlists/{id}/songs", s.authed(s.handleAddSong)).Methods(http.MethodPost)
	api.HandleFunc("/setlists/{id}/songs/{entryId}", s.authed(s.handleRemoveSong)).Methods(http.MethodDelete)
	api.HandleFunc("/setlists/{id}/songs/{entryId}", s.authed(s.handleUpdateEntry)).Methods(http.MethodPatch)
	api.HandleFunc("/setlists/{id}/songs/{entryId}/move", s.authed(s.handleMoveWithinSet)).Methods(http.MethodPost)
	api.HandleFunc("/setlists/{id}/songs/{entryId}/set", s.authed(s.handleMoveToSet)).Methods(http.MethodPut)

	return router
}

// principalHandler is an http.HandlerFunc that also receives the caller.
type principalHandler func(w http.ResponseWriter, r *http.Request, p auth.Principal)

// authed resolves the bearer token before calling next.
func (s *Server) authed(next principalHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.auth.Authenticate(r.Context(), parseBearerToken(r.Header.Get("Authorization")))
		if err != nil {
			writeError(w, r, err)
			return
		}
		r = r.WithContext(logging.WithUserID(r.Context(), p.UserID))
		next(w, r, p)
	}
}

func (s *Server) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	p, err := s.auth.Authenticate(r.Context(), parseBearerToken(r.Header.Get("Authorization")))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			writeError(w, r, err)
			return
		}
		writeJSON(w, status, map[string]bool{"authorized": false})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Authorized bool           `json:"authorized"`
		User       auth.Principal `json:"user"`
	}{Authorized: true, User: p})
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func pathParam(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
