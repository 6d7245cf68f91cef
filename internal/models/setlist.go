package models

import "time"

// MaxSets is the largest number of sets a setlist may be split into.
const MaxSets = 10

// SetlistEntry places a song inside one set of a setlist.
type SetlistEntry struct {
	ID              string `json:"id" db:"id"`
	SongID          string `json:"songId" db:"song_id"`
	SetNumber       int    `json:"setNumber" db:"set_number"`
	Position        int    `json:"position" db:"position"`
	Comments        string `json:"comments" db:"comments"`
	BackgroundColor string `json:"backgroundColor" db:"background_color"`
	Song            *Song  `json:"song,omitempty"`
}

// SetSummary describes how many songs one set holds.
type SetSummary struct {
	SetNumber int `json:"setNumber"`
	SongCount int `json:"songCount"`
}

// Setlist is an ordered performance plan split into numbered sets.
type Setlist struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	NumberOfSets  int            `json:"numberOfSets" db:"number_of_sets"`
	Date          *time.Time     `json:"date" db:"date"`
	CreatedBy     string         `json:"createdBy" db:"created_by"`
	CreatedByName string         `json:"createdByName,omitempty"`
	Entries       []SetlistEntry `json:"songs"`
	Categories    []Category     `json:"categories"`
	Sets          []SetSummary   `json:"sets,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// CategoryIDs returns the ids of the associated categories in order.
func (s *Setlist) CategoryIDs() []string {
	ids := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
