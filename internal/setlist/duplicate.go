package setlist

import "setlists/internal/models"

// CopySuffix is appended to the name of a duplicated setlist.
const CopySuffix = " (Copy)"

// Duplicate returns a deep copy of src with fresh ids drawn from newID. Sets,
// date, categories and every entry's placement and metadata carry over; the
// timestamps and owner are left for the caller to fill in.
func Duplicate(src models.Setlist, newID func() string) models.Setlist {
	dup := models.Setlist{
		ID:           newID(),
		Name:         src.Name + CopySuffix,
		NumberOfSets: src.NumberOfSets,
		Entries:      make([]models.SetlistEntry, 0, len(src.Entries)),
		Categories:   make([]models.Category, len(src.Categories)),
	}
	if src.Date != nil {
		d := *src.Date
		dup.Date = &d
	}
	copy(dup.Categories, src.Categories)

	for _, e := range src.Entries {
		c := e
		c.ID = newID()
		if e.Song != nil {
			song := *e.Song
			c.Song = &song
		}
		dup.Entries = append(dup.Entries, c)
	}
	return dup
}
