package models

import "time"

// Category tags setlists, e.g. "Weddings" or "Club gigs".
type Category struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Color        string    `json:"color" db:"color"`
	SetlistCount int       `json:"setlistCount"`
	CreatedAt    time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}
