package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SortDirection orders search results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sortable catalog fields.
const (
	SortByBreed = "breed"
	SortByName  = "name"
	SortByAge   = "age"
)

// DefaultPageSize is used when a query does not pick one.
const DefaultPageSize = 25

// PageSizes lists the page sizes a query may request.
var PageSizes = []int{10, 25, 50, 100}

// Sort is a field plus direction, serialized as "field:dir".
type Sort struct {
	Field     string        `validate:"oneof=breed name age"`
	Direction SortDirection `validate:"oneof=asc desc"`
}

// DefaultSort orders by breed ascending.
var DefaultSort = Sort{Field: SortByBreed, Direction: SortAsc}

// String renders the wire form, e.g. "breed:asc".
func (s Sort) String() string {
	return s.Field + ":" + string(s.Direction)
}

// ParseSort reads "field:dir". An empty string yields DefaultSort and a
// missing direction defaults to ascending.
func ParseSort(raw string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort, nil
	}
	field, dir, found := strings.Cut(raw, ":")
	s := Sort{Field: strings.ToLower(strings.TrimSpace(field)), Direction: SortAsc}
	if found {
		s.Direction = SortDirection(strings.ToLower(strings.TrimSpace(dir)))
	}
	if err := validate.Struct(s); err != nil {
		return Sort{}, fmt.Errorf("%w: %q", ErrInvalidSort, raw)
	}
	return s, nil
}

// SearchQuery holds the filters, ordering and page size of a catalog search.
// Cursor is the opaque server token for a page; empty means the first page.
type SearchQuery struct {
	Breeds   []string
	ZipCodes []string
	AgeMin   *int `validate:"omitempty,gte=0"`
	AgeMax   *int `validate:"omitempty,gte=0"`
	Sort     Sort
	PageSize int `validate:"oneof=10 25 50 100"`
	Cursor   string
}

var (
	ErrInvalidSort     = errors.New("invalid sort")
	ErrInvalidAgeRange = errors.New("age bounds must be non-negative and min must not exceed max")
	ErrInvalidPageSize = errors.New("page size must be one of 10, 25, 50, 100")
)

var validate = validator.New()

// NewSearchQuery returns a query with the default sort and page size.
func NewSearchQuery() SearchQuery {
	return SearchQuery{Sort: DefaultSort, PageSize: DefaultPageSize}
}

// Normalize fills defaults and drops blank or duplicate filter entries.
func (q SearchQuery) Normalize() SearchQuery {
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Sort == (Sort{}) {
		q.Sort = DefaultSort
	}
	q.Breeds = cleanList(q.Breeds)
	q.ZipCodes = cleanList(q.ZipCodes)
	q.AgeMin = cloneInt(q.AgeMin)
	q.AgeMax = cloneInt(q.AgeMax)
	return q
}

// Validate checks the query invariants.
func (q SearchQuery) Validate() error {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.StructField() {
				case "PageSize":
					return ErrInvalidPageSize
				case "AgeMin", "AgeMax":
					return ErrInvalidAgeRange
				case "Field", "Direction":
					return fmt.Errorf("%w: %q", ErrInvalidSort, q.Sort.String())
				}
			}
		}
		return err
	}
	if q.AgeMin != nil && q.AgeMax != nil && *q.AgeMin > *q.AgeMax {
		return ErrInvalidAgeRange
	}
	return nil
}

// WithCursor returns a copy of q pointing at the page identified by cursor.
func (q SearchQuery) WithCursor(cursor string) SearchQuery {
	q.Cursor = cursor
	return q
}

// SearchResult is one page of catalog search output: ids only, plus the
// navigation references the server issued for neighbouring pages.
type SearchResult struct {
	ResultIDs []string
	Total     int
	Next      string
	Prev      string
}

func cleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	copy := *v
	return &copy
}
