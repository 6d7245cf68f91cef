package models

import "slices"

// EntryColors are the highlight colours a setlist entry may carry.
var EntryColors = []string{"red", "blue", "green", "yellow", "purple"}

// CategoryColors are the colours a category may be drawn with.
var CategoryColors = []string{
	"red", "orange", "yellow", "green", "teal",
	"blue", "indigo", "purple", "pink", "gray",
}

// ValidEntryColor reports whether c is empty (no highlight) or in EntryColors.
func ValidEntryColor(c string) bool {
	return c == "" || slices.Contains(EntryColors, c)
}

// ValidCategoryColor reports whether c is in CategoryColors.
func ValidCategoryColor(c string) bool {
	return slices.Contains(CategoryColors, c)
}
