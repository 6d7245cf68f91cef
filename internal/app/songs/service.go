package songs

import (
	"context"
	"strings"

	"setlists/internal/app"
	"setlists/internal/auth"
	"setlists/internal/models"
)

// Store captures the persistence needs for the song catalogue.
type Store interface {
	ListSongs(ctx context.Context) ([]models.Song, error)
	GetSong(ctx context.Context, id string) (models.Song, error)
	CreateSong(ctx context.Context, song models.Song) (models.Song, error)
	UpdateSong(ctx context.Context, song models.Song) (models.Song, error)
	DeleteSong(ctx context.Context, id string) error
}

// Input carries the editable fields of a song.
type Input struct {
	Title string
	Key   string
	Tempo string
}

// Service exposes song-centric operations.
type Service interface {
	List(ctx context.Context, p auth.Principal) ([]models.Song, error)
	Get(ctx context.Context, p auth.Principal, id string) (models.Song, error)
	Create(ctx context.Context, p auth.Principal, in Input) (models.Song, error)
	Update(ctx context.Context, p auth.Principal, id string, in Input) (models.Song, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}

type service struct {
	store Store
}

// New constructs a song Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, p auth.Principal) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx)
}

func (s *service) Get(ctx context.Context, p auth.Principal, id string) (models.Song, error) {
	if err := ctx.Err(); err != nil {
		return models.Song{}, err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return models.Song{}, err
	}
	return s.store.GetSong(ctx, id)
}

func (s *service) Create(ctx context.Context, p auth.Principal, in Input) (models.Song, error) {
	if err := ctx.Err(); err != nil {
		return models.Song{}, err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return models.Song{}, err
	}
	song, err := normalize(in)
	if err != nil {
		return models.Song{}, err
	}
	song.CreatedBy = p.UserID
	return s.store.CreateSong(ctx, song)
}

func (s *service) Update(ctx context.Context, p auth.Principal, id string, in Input) (models.Song, error) {
	if err := ctx.Err(); err != nil {
		return models.Song{}, err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return models.Song{}, err
	}
	song, err := normalize(in)
	if err != nil {
		return models.Song{}, err
	}
	song.ID = id
	return s.store.UpdateSong(ctx, song)
}

func (s *service) Delete(ctx context.Context, p auth.Principal, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := app.RequirePrincipal(p); err != nil {
		return err
	}
	return s.store.DeleteSong(ctx, id)
}

func normalize(in Input) (models.Song, error) {
	song := models.Song{
		Title: strings.TrimSpace(in.Title),
		Key:   strings.TrimSpace(in.Key),
		Tempo: strings.TrimSpace(in.Tempo),
	}
	if song.Title == "" {
		return models.Song{}, app.Invalidf("title is required")
	}
	return song, nil
}
