// Package setlist keeps the songs of a setlist ordered. Every set holds a
// dense run of positions 0..k-1; each operation returns a new List and leaves
// the receiver untouched, so a rejected change never disturbs the previous
// ordering.
package setlist

import (
	"errors"
	"fmt"
	"sort"

	"setlists/internal/models"
)

var (
	// ErrInvalidOperation rejects a request that can never succeed against the list.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrNotFound indicates the referenced entry is not in the list.
	ErrNotFound = errors.New("entry not found")
	// ErrInvariantViolation indicates a supplied list whose positions are not dense.
	ErrInvariantViolation = errors.New("set positions are not dense")
)

// Direction selects the neighbour used by MoveWithinSet.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Metadata carries the per-entry fields UpdateEntryMetadata may change.
// Nil fields are left as they are.
type Metadata struct {
	Comments        *string
	BackgroundColor *string
}

// List is the in-memory ordering of one setlist.
type List struct {
	NumberOfSets int
	Entries      []models.SetlistEntry
}

// New returns a List over a private copy of entries.
func New(numberOfSets int, entries []models.SetlistEntry) List {
	return List{NumberOfSets: numberOfSets, Entries: cloneEntries(entries)}
}

// Replace builds the List installed by a full save. It fails with
// ErrInvariantViolation when any set is not dense from zero and with
// ErrInvalidOperation for out-of-range sets, repeated songs or unknown colours.
func Replace(numberOfSets int, entries []models.SetlistEntry) (List, error) {
	l := New(numberOfSets, entries)
	if err := l.Validate(); err != nil {
		return List{}, err
	}
	return l, nil
}

// AddSong appends song to the end of set setNumber under the given entry id.
func (l List) AddSong(entryID string, song models.Song, setNumber int) (List, error) {
	if entryID == "" || song.ID == "" {
		return List{}, fmt.Errorf("%w: entry and song ids are required", ErrInvalidOperation)
	}
	if err := l.checkSet(setNumber); err != nil {
		return List{}, err
	}
	for _, e := range l.Entries {
		if e.SongID == song.ID {
			return List{}, fmt.Errorf("%w: song %s is already in the setlist", ErrInvalidOperation, song.ID)
		}
		if e.ID == entryID {
			return List{}, fmt.Errorf("%w: duplicate entry id %s", ErrInvalidOperation, entryID)
		}
	}

	out := l.clone()
	s := song
	out.Entries = append(out.Entries, models.SetlistEntry{
		ID:        entryID,
		SongID:    song.ID,
		SetNumber: setNumber,
		Position:  l.count(setNumber),
		Song:      &s,
	})
	return out, nil
}

// RemoveSong deletes the entry and closes the gap it leaves in its set.
func (l List) RemoveSong(entryID string) (List, error) {
	idx := l.index(entryID)
	if idx < 0 {
		return List{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}
	removed := l.Entries[idx]

	out := List{NumberOfSets: l.NumberOfSets, Entries: make([]models.SetlistEntry, 0, len(l.Entries)-1)}
	for i, e := range l.Entries {
		if i == idx {
			continue
		}
		if e.SetNumber == removed.SetNumber && e.Position > removed.Position {
			e.Position--
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

// MoveWithinSet swaps the entry with its neighbour in the given direction.
// Moving the first entry up or the last entry down leaves the list unchanged.
func (l List) MoveWithinSet(entryID string, dir Direction) (List, error) {
	var delta int
	switch dir {
	case Up:
		delta = -1
	case Down:
		delta = 1
	default:
		return List{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidOperation, dir)
	}

	idx := l.index(entryID)
	if idx < 0 {
		return List{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}

	out := l.clone()
	entry := out.Entries[idx]
	target := entry.Position + delta
	for i := range out.Entries {
		n := &out.Entries[i]
		if n.SetNumber == entry.SetNumber && n.Position == target {
			n.Position = entry.Position
			out.Entries[idx].Position = target
			break
		}
	}
	return out, nil
}

// MoveToSet appends the entry to set setNumber and closes the gap in its
// old set. Moving to the set the entry already belongs to is a no-op.
func (l List) MoveToSet(entryID string, setNumber int) (List, error) {
	if err := l.checkSet(setNumber); err != nil {
		return List{}, err
	}
	idx := l.index(entryID)
	if idx < 0 {
		return List{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}

	out := l.clone()
	moved := out.Entries[idx]
	if moved.SetNumber == setNumber {
		return out, nil
	}

	tail := l.count(setNumber)
	for i := range out.Entries {
		e := &out.Entries[i]
		if i != idx && e.SetNumber == moved.SetNumber && e.Position > moved.Position {
			e.Position--
		}
	}
	out.Entries[idx].SetNumber = setNumber
	out.Entries[idx].Position = tail
	return out, nil
}

// UpdateEntryMetadata changes the comment and highlight colour of an entry.
// Colours outside models.EntryColors are rejected.
func (l List) UpdateEntryMetadata(entryID string, md Metadata) (List, error) {
	idx := l.index(entryID)
	if idx < 0 {
		return List{}, fmt.Errorf("%w: %s", ErrNotFound, entryID)
	}
	if md.BackgroundColor != nil && !models.ValidEntryColor(*md.BackgroundColor) {
		return List{}, fmt.Errorf("%w: unknown background color %q", ErrInvalidOperation, *md.BackgroundColor)
	}

	out := l.clone()
	if md.Comments != nil {
		out.Entries[idx].Comments = *md.Comments
	}
	if md.BackgroundColor != nil {
		out.Entries[idx].BackgroundColor = *md.BackgroundColor
	}
	return out, nil
}

// Resize changes the number of sets. Shrinking below a set that still holds
// songs is rejected.
func (l List) Resize(numberOfSets int) (List, error) {
	if numberOfSets < 1 || numberOfSets > models.MaxSets {
		return List{}, fmt.Errorf("%w: number of sets must be between 1 and %d", ErrInvalidOperation, models.MaxSets)
	}
	for _, e := range l.Entries {
		if e.SetNumber > numberOfSets {
			return List{}, fmt.Errorf("%w: set %d still has songs", ErrInvalidOperation, e.SetNumber)
		}
	}
	out := l.clone()
	out.NumberOfSets = numberOfSets
	return out, nil
}

// Validate checks every rule a stored ordering must satisfy.
func (l List) Validate() error {
	if l.NumberOfSets < 1 || l.NumberOfSets > models.MaxSets {
		return fmt.Errorf("%w: number of sets must be between 1 and %d", ErrInvalidOperation, models.MaxSets)
	}

	songs := make(map[string]struct{}, len(l.Entries))
	ids := make(map[string]struct{}, len(l.Entries))
	positions := make(map[int][]int)
	for _, e := range l.Entries {
		if e.SongID == "" {
			return fmt.Errorf("%w: entry without song", ErrInvalidOperation)
		}
		if _, ok := songs[e.SongID]; ok {
			return fmt.Errorf("%w: song %s appears more than once", ErrInvalidOperation, e.SongID)
		}
		songs[e.SongID] = struct{}{}
		if e.ID != "" {
			if _, ok := ids[e.ID]; ok {
				return fmt.Errorf("%w: duplicate entry id %s", ErrInvalidOperation, e.ID)
			}
			ids[e.ID] = struct{}{}
		}
		if err := l.checkSet(e.SetNumber); err != nil {
			return err
		}
		if !models.ValidEntryColor(e.BackgroundColor) {
			return fmt.Errorf("%w: unknown background color %q", ErrInvalidOperation, e.BackgroundColor)
		}
		positions[e.SetNumber] = append(positions[e.SetNumber], e.Position)
	}

	for set, ps := range positions {
		sort.Ints(ps)
		for i, p := range ps {
			if p != i {
				return fmt.Errorf("%w: set %d expected position %d, got %d", ErrInvariantViolation, set, i, p)
			}
		}
	}
	return nil
}

// Set returns the entries of one set ordered by position.
func (l List) Set(setNumber int) []models.SetlistEntry {
	var out []models.SetlistEntry
	for _, e := range l.Entries {
		if e.SetNumber == setNumber {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Sorted returns every entry ordered by set and then position.
func (l List) Sorted() []models.SetlistEntry {
	out := cloneEntries(l.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SetNumber != out[j].SetNumber {
			return out[i].SetNumber < out[j].SetNumber
		}
		return out[i].Position < out[j].Position
	})
	return out
}

// Summary reports the song count of every set, including empty ones.
func (l List) Summary() []models.SetSummary {
	out := make([]models.SetSummary, 0, l.NumberOfSets)
	for n := 1; n <= l.NumberOfSets; n++ {
		out = append(out, models.SetSummary{SetNumber: n, SongCount: l.count(n)})
	}
	return out
}

func (l List) checkSet(setNumber int) error {
	if setNumber < 1 || setNumber > l.NumberOfSets {
		return fmt.Errorf("%w: set %d outside 1..%d", ErrInvalidOperation, setNumber, l.NumberOfSets)
	}
	return nil
}

func (l List) count(setNumber int) int {
	n := 0
	for _, e := range l.Entries {
		if e.SetNumber == setNumber {
			n++
		}
	}
	return n
}

func (l List) index(entryID string) int {
	for i, e := range l.Entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}

func (l List) clone() List {
	return List{NumberOfSets: l.NumberOfSets, Entries: cloneEntries(l.Entries)}
}

func cloneEntries(entries []models.SetlistEntry) []models.SetlistEntry {
	out := make([]models.SetlistEntry, len(entries))
	copy(out, entries)
	return out
}
