package domain

import (
	"errors"
	"strings"
)

// Dog is a shelter dog as returned by the catalog. Records are values: the
// client never mutates them.
type Dog struct {
	ID      string
	Name    string
	Breed   string
	Age     int
	ZipCode string
	Image   string
}

// Location describes a US zip code.
type Location struct {
	ZipCode   string
	Latitude  float64
	Longitude float64
	City      string
	State     string
	County    string
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// BoundingBox restricts a location search to an area.
type BoundingBox struct {
	Top         *Coordinates
	Left        *Coordinates
	Bottom      *Coordinates
	Right       *Coordinates
	BottomLeft  *Coordinates
	TopRight    *Coordinates
	BottomRight *Coordinates
	TopLeft     *Coordinates
}

// LocationQuery filters locations by city, states or area.
type LocationQuery struct {
	City        string
	States      []string
	BoundingBox *BoundingBox
	Size        *int
	From        *int
}

// LocationPage is one page of location search results.
type LocationPage struct {
	Results []Location
	Total   int
}

// MatchResult carries the dog id picked by the shelter service.
type MatchResult struct {
	Match string
}

var (
	ErrEmptyDogID  = errors.New("dog id is required")
	ErrNegativeAge = errors.New("dog age must be greater or equal to zero")
)

// Validate checks the invariants a dog record must hold before it is kept in
// client state.
func (d Dog) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrEmptyDogID
	}
	if d.Age < 0 {
		return ErrNegativeAge
	}
	return nil
}
