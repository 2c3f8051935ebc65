package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
)

var _ ports.Catalog = (*fakeCatalog)(nil)

// fakeCatalog serves offset cursors the way the shelter API does:
// next/prev are relative URLs whose from parameter is the offset.
type fakeCatalog struct {
	dogs []domain.Dog

	cursors    []string
	queries    []domain.SearchQuery
	fetchCalls int
	searchErr  error
	fetchErr   error
	// failSearchAt fails the nth search since the last resetCalls with searchErr.
	failSearchAt int

	matchID      string
	matchErr     error
	matchedWith  []string
	loginCalls   int
	logoutCalls  int
	breeds       []string
	locations    []domain.Location
	locationPage *domain.LocationPage
}

func newFakeCatalog(count int) *fakeCatalog {
	dogs := make([]domain.Dog, 0, count)
	for i := 0; i < count; i++ {
		breed := "Beagle"
		if i%2 == 1 {
			breed = "Poodle"
		}
		dogs = append(dogs, domain.Dog{
			ID:      fmt.Sprintf("dog-%03d", i),
			Name:    fmt.Sprintf("Dog %d", i),
			Breed:   breed,
			Age:     i % 15,
			ZipCode: "02134",
			Image:   fmt.Sprintf("https://img.example/%d.jpg", i),
		})
	}
	return &fakeCatalog{dogs: dogs}
}

func (f *fakeCatalog) Login(_ context.Context, _, _ string) error {
	f.loginCalls++
	return nil
}

func (f *fakeCatalog) Logout(_ context.Context) error {
	f.logoutCalls++
	return nil
}

func (f *fakeCatalog) Breeds(_ context.Context) ([]string, error) {
	return f.breeds, nil
}

func (f *fakeCatalog) filtered(query domain.SearchQuery) []domain.Dog {
	if len(query.Breeds) == 0 {
		return f.dogs
	}
	allowed := map[string]bool{}
	for _, b := range query.Breeds {
		allowed[b] = true
	}
	var out []domain.Dog
	for _, d := range f.dogs {
		if allowed[d.Breed] {
			out = append(out, d)
		}
	}
	return out
}

func (f *fakeCatalog) SearchDogs(_ context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	f.cursors = append(f.cursors, query.Cursor)
	f.queries = append(f.queries, query)
	if f.searchErr != nil && (f.failSearchAt == 0 || f.failSearchAt == len(f.cursors)) {
		return nil, f.searchErr
	}
	matching := f.filtered(query)
	size := query.PageSize
	from := 0
	if query.Cursor != "" {
		n, err := strconv.Atoi(query.Cursor)
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", query.Cursor)
		}
		from = n
	}
	end := min(from+size, len(matching))
	result := &domain.SearchResult{Total: len(matching), ResultIDs: []string{}}
	for _, d := range matching[min(from, end):end] {
		result.ResultIDs = append(result.ResultIDs, d.ID)
	}
	if end < len(matching) {
		result.Next = fmt.Sprintf("/dogs/search?size=%d&from=%d&sort=%s", size, end, query.Sort.String())
	}
	if from > 0 {
		result.Prev = fmt.Sprintf("/dogs/search?size=%d&from=%d&sort=%s", size, max(from-size, 0), query.Sort.String())
	}
	return result, nil
}

// FetchDogs answers in reverse order so callers must restore search order.
func (f *fakeCatalog) FetchDogs(_ context.Context, ids []string) ([]domain.Dog, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	byID := map[string]domain.Dog{}
	for _, d := range f.dogs {
		byID[d.ID] = d
	}
	out := make([]domain.Dog, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if d, ok := byID[ids[i]]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Match(_ context.Context, ids []string) (*domain.MatchResult, error) {
	f.matchedWith = append([]string{}, ids...)
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return &domain.MatchResult{Match: f.matchID}, nil
}

func (f *fakeCatalog) Locations(_ context.Context, _ []string) ([]domain.Location, error) {
	return f.locations, nil
}

func (f *fakeCatalog) SearchLocations(_ context.Context, _ domain.LocationQuery) (*domain.LocationPage, error) {
	return f.locationPage, nil
}

func (f *fakeCatalog) resetCalls() {
	f.cursors = nil
	f.queries = nil
	f.fetchCalls = 0
}
