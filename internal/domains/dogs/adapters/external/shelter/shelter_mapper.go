package shelter

import (
	"strings"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
)

// ToSearchParams converts a domain query into the wire query parameters.
func ToSearchParams(q domain.SearchQuery) shelterclient.SearchParams {
	return shelterclient.SearchParams{
		Breeds:   append([]string(nil), q.Breeds...),
		ZipCodes: append([]string(nil), q.ZipCodes...),
		AgeMin:   cloneInt(q.AgeMin),
		AgeMax:   cloneInt(q.AgeMax),
		Size:     q.PageSize,
		From:     q.Cursor,
		Sort:     q.Sort.String(),
	}
}

// FromSearchResponse builds a domain result; a nil response is an empty page.
func FromSearchResponse(resp *shelterclient.SearchResponse) *domain.SearchResult {
	if resp == nil {
		return &domain.SearchResult{}
	}
	return &domain.SearchResult{
		ResultIDs: append([]string{}, resp.ResultIDs...),
		Total:     resp.Total,
		Next:      resp.Next,
		Prev:      resp.Prev,
	}
}

// FromDog maps a wire record onto the domain dog.
func FromDog(d shelterclient.Dog) domain.Dog {
	return domain.Dog{
		ID:      d.ID,
		Name:    d.Name,
		Breed:   d.Breed,
		Age:     d.Age,
		ZipCode: d.ZipCode,
		Image:   d.Image,
	}
}

// FromDogs maps a list of wire records.
func FromDogs(dogs []shelterclient.Dog) []domain.Dog {
	out := make([]domain.Dog, 0, len(dogs))
	for _, d := range dogs {
		out = append(out, FromDog(d))
	}
	return out
}

// FromLocation maps a wire location.
func FromLocation(l shelterclient.Location) domain.Location {
	return domain.Location{
		ZipCode:   l.ZipCode,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		City:      l.City,
		State:     l.State,
		County:    l.County,
	}
}

// FromLocations maps a list of wire locations.
func FromLocations(locations []shelterclient.Location) []domain.Location {
	out := make([]domain.Location, 0, len(locations))
	for _, l := range locations {
		out = append(out, FromLocation(l))
	}
	return out
}

// ToLocationSearchParams converts a location query into the request body.
// Blank city and empty states are left out.
func ToLocationSearchParams(q domain.LocationQuery) shelterclient.LocationSearchParams {
	params := shelterclient.LocationSearchParams{
		Size: cloneInt(q.Size),
		From: cloneInt(q.From),
	}
	if city := strings.TrimSpace(q.City); city != "" {
		params.City = &city
	}
	for _, state := range q.States {
		if state = strings.ToUpper(strings.TrimSpace(state)); state != "" {
			params.States = append(params.States, state)
		}
	}
	if q.BoundingBox != nil {
		box := q.BoundingBox
		params.GeoBoundingBox = &shelterclient.GeoBoundingBox{
			Top:         toCoordinates(box.Top),
			Left:        toCoordinates(box.Left),
			Bottom:      toCoordinates(box.Bottom),
			Right:       toCoordinates(box.Right),
			BottomLeft:  toCoordinates(box.BottomLeft),
			TopRight:    toCoordinates(box.TopRight),
			BottomRight: toCoordinates(box.BottomRight),
			TopLeft:     toCoordinates(box.TopLeft),
		}
	}
	return params
}

func toCoordinates(c *domain.Coordinates) *shelterclient.Coordinates {
	if c == nil {
		return nil
	}
	return &shelterclient.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	copy := *v
	return &copy
}
