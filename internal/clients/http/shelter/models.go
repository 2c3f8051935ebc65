package shelter

// Dog is the wire representation of a shelter dog record.
type Dog struct {
	ID      string `json:"id"`
	Image   string `json:"img"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	ZipCode string `json:"zip_code"`
	Breed   string `json:"breed"`
}

// SearchParams are the query parameters accepted by GET /dogs/search.
// Slice fields are sent as repeated keys; zero values are omitted.
type SearchParams struct {
	Breeds   []string `url:"breeds,omitempty"`
	ZipCodes []string `url:"zipCodes,omitempty"`
	AgeMin   *int     `url:"ageMin,omitempty"`
	AgeMax   *int     `url:"ageMax,omitempty"`
	Size     int      `url:"size,omitempty"`
	From     string   `url:"from,omitempty"`
	Sort     string   `url:"sort,omitempty"`
}

// SearchResponse is the body returned by GET /dogs/search.
type SearchResponse struct {
	ResultIDs []string `json:"resultIds"`
	Total     int      `json:"total"`
	Next      string   `json:"next,omitempty"`
	Prev      string   `json:"prev,omitempty"`
}

// MatchResponse is the body returned by POST /dogs/match.
type MatchResponse struct {
	Match string `json:"match"`
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

// GeoBoundingBox restricts a location search. Callers set either the four
// edges or one pair of opposite corners.
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

// LocationSearchParams is the body of POST /locations/search.
type LocationSearchParams struct {
	City           *string         `json:"city,omitempty"`
	States         []string        `json:"states,omitempty"`
	GeoBoundingBox *GeoBoundingBox `json:"geoBoundingBox,omitempty"`
	Size           *int            `json:"size,omitempty"`
	From           *int            `json:"from,omitempty"`
}

// LocationSearchResponse is the body returned by POST /locations/search.
type LocationSearchResponse struct {
	Results []Location `json:"results"`
	Total   int        `json:"total"`
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type errorBody struct {
	Message string `json:"message"`
}
