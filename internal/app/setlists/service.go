package setlists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"setlists/internal/app"
	"setlists/internal/auth"
	"setlists/internal/models"
	"setlists/internal/setlist"
	"setlists/internal/store"
)

// Store captures the persistence needs for setlist workflows.
type Store interface {
	ListSetlists(ctx context.Context, filter store.SetlistFilter) ([]*models.Setlist, error)
	GetSetlist(ctx context.Context, id string) (*models.Setlist, error)
	CreateSetlist(ctx context.Context, sl *models.Setlist) (*models.Setlist, error)
	UpdateSetlist(ctx context.Context, id string, mutate func(*models.Setlist) error) (*models.Setlist, error)
	DeleteSetlist(ctx context.Context, id string) error
	GetSong(ctx context.Context, id string) (models.Song, error)
}

// CreateInput describes a new, empty setlist.
type CreateInput struct {
	Name         string
	NumberOfSets int
	Date         *time.Time
	CategoryIDs  []string
}

// UpdateInput describes a full save. Nil fields keep their stored value.
type UpdateInput struct {
	Name         *string
	NumberOfSets *int
	// DateSet distinguishes "clear the date" (DateSet with nil Date) from
	// leaving it alone.
	DateSet     bool
	Date        *time.Time
	CategoryIDs *[]string
	// Entries, when present, replaces every entry of the setlist.
	Entries *[]models.SetlistEntry
	// UpdatedAt, when present, must match the stored value or the save is
	// rejected with store.ErrConflict.
	UpdatedAt *time.Time
}

// Service coordinates setlist operations.
type Service interface {
	List(ctx context.Context, p auth.Principal, filter store.SetlistFilter) ([]*models.Setlist, error)
	Get(ctx context.Context, p auth.Principal, id string) (*models.Setlist, error)
	Create(ctx context.Context, p auth.Principal, in CreateInput) (*models.Setlist, error)
	Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (*models.Setlist, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
	Duplicate(ctx context.Context, p auth.Principal, id string) (*models.Setlist, error)

	AddSong(ctx context.Context, p auth.Principal, id, songID string, setNumber int) (*models.Setlist, error)
	RemoveSong(ctx context.Context, p auth.Principal, id, entryID string) (*models.Setlist, error)
	MoveWithinSet(ctx context.Context, p auth.Principal, id, entryID string, dir setlist.Direction) (*models.Setlist, error)
	MoveToSet(ctx context.Context, p auth.Principal, id, entryID string, setNumber int) (*models.Setlist, error)
	UpdateEntry(ctx context.Context, p auth.Principal, id, entryID string, md setlist.Metadata) (*models.Setlist, error)
}

type service struct {
	store Store
	newID func() string
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store, newID: uuid.NewString}
}

func (s *service) List(ctx context.Context, p auth.Principal, filter store.SetlistFilter) ([]*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}
	setlists, err := s.store.ListSetlists(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, sl := range setlists {
		summarize(sl)
	}
	return setlists, nil
}

func (s *service) Get(ctx context.Context, p auth.Principal, id string) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}
	return summarized(s.store.GetSetlist(ctx, id))
}

func (s *service) Create(ctx context.Context, p auth.Principal, in CreateInput) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, app.Invalidf("name is required")
	}
	sets := in.NumberOfSets
	if sets == 0 {
		sets = 1
	}
	if sets < 1 || sets > models.MaxSets {
		return nil, app.Invalidf("numberOfSets must be between 1 and %d", models.MaxSets)
	}

	sl := &models.Setlist{
		ID:           s.newID(),
		Name:         name,
		NumberOfSets: sets,
		Date:         in.Date,
		CreatedBy:    p.UserID,
		Categories:   categoryRefs(in.CategoryIDs),
	}
	return summarized(s.store.CreateSetlist(ctx, sl))
}

func (s *service) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}

	return summarized(s.store.UpdateSetlist(ctx, id, func(sl *models.Setlist) error {
		if in.UpdatedAt != nil && !sl.UpdatedAt.Equal(*in.UpdatedAt) {
			return store.ErrConflict
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return app.Invalidf("name is required")
			}
			sl.Name = name
		}

		sets := sl.NumberOfSets
		if in.NumberOfSets != nil {
			sets = *in.NumberOfSets
		}

		var (
			list setlist.List
			err  error
		)
		if in.Entries != nil {
			list, err = setlist.Replace(sets, s.withIDs(*in.Entries, sl.Entries))
		} else {
			list, err = setlist.New(sl.NumberOfSets, sl.Entries).Resize(sets)
		}
		if err != nil {
			return err
		}
		sl.NumberOfSets = list.NumberOfSets
		sl.Entries = list.Sorted()

		if in.DateSet {
			sl.Date = in.Date
		}
		if in.CategoryIDs != nil {
			sl.Categories = categoryRefs(*in.CategoryIDs)
		}
		return nil
	}))
}

func (s *service) Delete(ctx context.Context, p auth.Principal, id string) error {
	if err := check(ctx, p); err != nil {
		return err
	}
	return s.store.DeleteSetlist(ctx, id)
}

func (s *service) Duplicate(ctx context.Context, p auth.Principal, id string) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}
	src, err := s.store.GetSetlist(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := setlist.Duplicate(*src, s.newID)
	dup.CreatedBy = p.UserID
	return summarized(s.store.CreateSetlist(ctx, &dup))
}

func (s *service) AddSong(ctx context.Context, p auth.Principal, id, songID string, setNumber int) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}
	song, err := s.store.GetSong(ctx, songID)
	if err != nil {
		if errors.Is(err, store.ErrSongNotFound) {
			return nil, fmt.Errorf("%w: %s", store.ErrUnknownSong, songID)
		}
		return nil, err
	}
	entryID := s.newID()
	return s.mutate(ctx, id, func(l setlist.List) (setlist.List, error) {
		return l.AddSong(entryID, song, setNumber)
	})
}

func (s *service) RemoveSong(ctx context.Context, p auth.Principal, id, entryID string) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(l setlist.List) (setlist.List, error) {
		return l.RemoveSong(entryID)
	})
}

func (s *service) MoveWithinSet(ctx context.Context, p auth.Principal, id, entryID string, dir setlist.Direction) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(l setlist.List) (setlist.List, error) {
		return l.MoveWithinSet(entryID, dir)
	})
}

func (s *service) MoveToSet(ctx context.Context, p auth.Principal, id, entryID string, setNumber int) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(l setlist.List) (setlist.List, error) {
		return l.MoveToSet(entryID, setNumber)
	})
}

func (s *service) UpdateEntry(ctx context.Context, p auth.Principal, id, entryID string, md setlist.Metadata) (*models.Setlist, error) {
	if err := check(ctx, p); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(l setlist.List) (setlist.List, error) {
		return l.UpdateEntryMetadata(entryID, md)
	})
}

// mutate applies op to the stored ordering under the setlist's row lock.
func (s *service) mutate(ctx context.Context, id string, op func(setlist.List) (setlist.List, error)) (*models.Setlist, error) {
	return summarized(s.store.UpdateSetlist(ctx, id, func(sl *models.Setlist) error {
		next, err := op(setlist.New(sl.NumberOfSets, sl.Entries))
		if err != nil {
			return err
		}
		sl.Entries = next.Sorted()
		return nil
	}))
}

// withIDs keeps the ids of entries that already belong to the setlist and
// issues fresh ones for everything else.
func (s *service) withIDs(entries, current []models.SetlistEntry) []models.SetlistEntry {
	known := make(map[string]struct{}, len(current))
	for _, e := range current {
		known[e.ID] = struct{}{}
	}
	out := make([]models.SetlistEntry, len(entries))
	for i, e := range entries {
		if _, ok := known[e.ID]; !ok {
			e.ID = s.newID()
		}
		e.Song = nil
		out[i] = e
	}
	return out
}

func check(ctx context.Context, p auth.Principal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return app.RequirePrincipal(p)
}

func categoryRefs(ids []string) []models.Category {
	refs := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, models.Category{ID: id})
	}
	return refs
}

func summarize(sl *models.Setlist) {
	sl.Sets = setlist.New(sl.NumberOfSets, sl.Entries).Summary()
}

func summarized(sl *models.Setlist, err error) (*models.Setlist, error) {
	if err != nil {
		return nil, err
	}
	summarize(sl)
	return sl, nil
}
