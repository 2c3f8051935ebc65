package portalserver

import (
	"time"

	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	dogs "github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	dogports "github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
)

// Dog is the portal representation of a shelter dog.
type Dog struct {
	Id       string `json:"id" binding:"required"`
	Img      string `json:"img"`
	Name     string `json:"name"`
	Age      int    `json:"age" binding:"gte=0"`
	ZipCode  string `json:"zip_code"`
	Breed    string `json:"breed"`
	Favorite bool   `json:"favorite"`
}

// LoginRequest is the body of POST /api/session.
type LoginRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// SessionInfo describes the caller's portal session.
type SessionInfo struct {
	Name string `json:"name"`
}

// SearchQuery echoes the filters a page was produced with.
type SearchQuery struct {
	Breeds   []string `json:"breeds"`
	ZipCodes []string `json:"zipCodes"`
	AgeMin   *int     `json:"ageMin,omitempty"`
	AgeMax   *int     `json:"ageMax,omitempty"`
	Sort     string   `json:"sort"`
	Size     int      `json:"size"`
}

// DogPage is one page of search results.
type DogPage struct {
	Page    int         `json:"page"`
	Dogs    []Dog       `json:"dogs"`
	Total   int         `json:"total"`
	HasNext bool        `json:"hasNext"`
	HasPrev bool        `json:"hasPrev"`
	Query   SearchQuery `json:"query"`
}

// SearchDogsParams are the query parameters of GET /api/dogs.
type SearchDogsParams struct {
	Breeds   *[]string `form:"breeds,omitempty" json:"breeds,omitempty"`
	ZipCodes *[]string `form:"zipCodes,omitempty" json:"zipCodes,omitempty"`
	AgeMin   *int      `form:"ageMin,omitempty" json:"ageMin,omitempty"`
	AgeMax   *int      `form:"ageMax,omitempty" json:"ageMax,omitempty"`
	Sort     *string   `form:"sort,omitempty" json:"sort,omitempty"`
	Size     *int      `form:"size,omitempty" json:"size,omitempty"`
}

// FavoriteToggle is the answer of POST /api/favorites/toggle.
type FavoriteToggle struct {
	Id       string `json:"id"`
	Favorite bool   `json:"favorite"`
	Count    int    `json:"count"`
}

// FavoriteList lists favorites in the order they were added.
type FavoriteList struct {
	Dogs  []Dog `json:"dogs"`
	Count int   `json:"count"`
}

// MatchRecord is a stored match outcome.
type MatchRecord struct {
	Id           string    `json:"id"`
	FavoriteIds  []string  `json:"favoriteIds"`
	MatchedDogId string    `json:"matchedDogId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MatchResponse is the answer of POST /api/match.
type MatchResponse struct {
	Match  Dog          `json:"match"`
	Record *MatchRecord `json:"record,omitempty"`
}

// Location describes a US zip code.
type Location struct {
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	County    string  `json:"county"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoBoundingBox restricts a location search.
type GeoBoundingBox struct {
	Top         *Coordinates `json:"top,omitempty"`
	Left        *Coordinates `json:"left,omitempty"`
	Bottom      *Coordinates `json:"bottom,omitempty"`
	Right       *Coordinates `json:"right,omitempty"`
	BottomLeft  *Coordinates `json:"bottom_left,omitempty"`
	TopRight    *Coordinates `json:"top_right,omitempty"`
	BottomRight *Coordinates `json:"bottom_right,omitempty"`
	TopLeft     *Coordinates `json:"top_left,omitempty"`
}

// LocationSearchRequest is the body of POST /api/locations/search.
type LocationSearchRequest struct {
	City           string          `json:"city,omitempty"`
	States         []string        `json:"states,omitempty"`
	GeoBoundingBox *GeoBoundingBox `json:"geoBoundingBox,omitempty"`
	Size           *int            `json:"size,omitempty" binding:"omitempty,gte=1,lte=10000"`
	From           *int            `json:"from,omitempty" binding:"omitempty,gte=0"`
}

// LocationSearchResponse is one page of location search results.
type LocationSearchResponse struct {
	Results []Location `json:"results"`
	Total   int        `json:"total"`
}

func toDomainDog(d Dog) dogs.Dog {
	return dogs.Dog{ID: d.Id, Name: d.Name, Breed: d.Breed, Age: d.Age, ZipCode: d.ZipCode, Image: d.Img}
}

func fromDomainDog(d dogs.Dog, favorite bool) Dog {
	return Dog{Id: d.ID, Img: d.Image, Name: d.Name, Age: d.Age, ZipCode: d.ZipCode, Breed: d.Breed, Favorite: favorite}
}

func fromPage(page dogapp.Page, query dogs.SearchQuery, isFavorite func(string) bool) DogPage {
	out := DogPage{
		Page:    page.Number,
		Dogs:    make([]Dog, 0, len(page.Dogs)),
		Total:   page.Total,
		HasNext: page.HasNext,
		HasPrev: page.HasPrev,
		Query: SearchQuery{
			Breeds:   nonNil(query.Breeds),
			ZipCodes: nonNil(query.ZipCodes),
			AgeMin:   query.AgeMin,
			AgeMax:   query.AgeMax,
			Sort:     query.Sort.String(),
			Size:     query.PageSize,
		},
	}
	for _, d := range page.Dogs {
		out.Dogs = append(out.Dogs, fromDomainDog(d, isFavorite(d.ID)))
	}
	return out
}

func fromMatchProjection(p *dogports.MatchProjection) *MatchRecord {
	if p == nil || p.Entity == nil {
		return nil
	}
	return &MatchRecord{
		Id:           p.Entity.ID,
		FavoriteIds:  nonNil(p.Entity.FavoriteIDs),
		MatchedDogId: p.Entity.MatchedDogID,
		CreatedAt:    p.Metadata.CreatedAt,
	}
}

func fromDomainLocations(locations []dogs.Location) []Location {
	out := make([]Location, 0, len(locations))
	for _, l := range locations {
		out = append(out, Location{
			ZipCode:   l.ZipCode,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			City:      l.City,
			State:     l.State,
			County:    l.County,
		})
	}
	return out
}

func toDomainLocationQuery(req LocationSearchRequest) dogs.LocationQuery {
	q := dogs.LocationQuery{
		City:   req.City,
		States: req.States,
		Size:   req.Size,
		From:   req.From,
	}
	if box := req.GeoBoundingBox; box != nil {
		q.BoundingBox = &dogs.BoundingBox{
			Top:         toDomainCoordinates(box.Top),
			Left:        toDomainCoordinates(box.Left),
			Bottom:      toDomainCoordinates(box.Bottom),
			Right:       toDomainCoordinates(box.Right),
			BottomLeft:  toDomainCoordinates(box.BottomLeft),
			TopRight:    toDomainCoordinates(box.TopRight),
			BottomRight: toDomainCoordinates(box.BottomRight),
			TopLeft:     toDomainCoordinates(box.TopLeft),
		}
	}
	return q
}

func toDomainCoordinates(c *Coordinates) *dogs.Coordinates {
	if c == nil {
		return nil
	}
	return &dogs.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
