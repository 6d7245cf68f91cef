package models

import "time"

// Song is a repertoire item referenced by setlist entries.
type Song struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Key           string    `json:"key,omitempty" db:"key"`
	Tempo         string    `json:"tempo,omitempty" db:"tempo"`
	CreatedBy     string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedByName string    `json:"createdByName,omitempty"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}
