package domain

import "fmt"

// Mode is the screen a session is currently showing.
type Mode string

// Session modes. Exactly one is active at a time.
const (
	ModeHome       Mode = "home"
	ModeGallery    Mode = "gallery"
	ModePresent    Mode = "present"
	ModeMemoryGame Mode = "memory_game"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeHome, ModeGallery, ModePresent, ModeMemoryGame:
		return true
	}
	return false
}

// GalleryView selects how the gallery lays out the card list.
type GalleryView string

// Gallery views.
const (
	GalleryAll   GalleryView = "all"
	GalleryPaged GalleryView = "paged"
)

// ParseGalleryView converts a raw string into a GalleryView.
func ParseGalleryView(s string) (GalleryView, error) {
	switch GalleryView(s) {
	case GalleryAll, GalleryPaged:
		return GalleryView(s), nil
	}
	return "", NewValidationError("view", fmt.Sprintf("unknown gallery view %q", s), ErrValidation)
}

// Direction is a navigation direction: +1 forward, -1 backward.
type Direction int

// Navigation directions.
const (
	Forward  Direction = 1
	Backward Direction = -1
)

// ParseDirection accepts "forward"/"next" and "backward"/"prev".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward", "next":
		return Forward, nil
	case "backward", "prev":
		return Backward, nil
	}
	return 0, NewValidationError("direction", fmt.Sprintf("unknown direction %q", s), ErrValidation)
}

// Wrap returns i modulo n in the range [0, n). n must be positive.
func Wrap(i, n int) int {
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}
