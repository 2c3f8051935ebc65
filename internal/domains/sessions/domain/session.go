// Package domain holds the portal session aggregate: one visitor's shelter
// login, favorites and search position.
package domain

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	dogs "github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	dogports "github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
	favorites "github.com/Apurer/go-dog-portal/internal/domains/favorites/domain"
)

// Session serialises every action of one visitor behind a mutex, so the
// favorites set and the pagination cache see one caller at a time.
type Session struct {
	mu         sync.Mutex
	id         string
	name       string
	service    *dogapp.Service
	catalog    dogports.Catalog
	favorites  *favorites.Set
	controller *dogapp.Controller
	createdAt  time.Time
	// lastSeen holds unix nanoseconds. It is accessed without mu.
	lastSeen atomic.Int64
}

// New builds an empty, logged-out session around service.
func New(id string, service *dogapp.Service, now time.Time) *Session {
	s := &Session{
		id:        id,
		service:   service,
		catalog:   service.Catalog(),
		favorites: favorites.NewSet(),
		createdAt: now,
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Name returns the name used at login.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// LastSeen reports the last time the session was used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Touch records activity at now. Older timestamps are ignored.
func (s *Session) Touch(now time.Time) {
	next := now.UnixNano()
	for {
		prev := s.lastSeen.Load()
		if next <= prev || s.lastSeen.CompareAndSwap(prev, next) {
			return
		}
	}
}

// Login authenticates against the shelter API.
func (s *Session) Login(ctx context.Context, input dogapp.LoginInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.service.Login(ctx, input); err != nil {
		return err
	}
	s.name = input.Name
	return nil
}

// Logout ends the shelter session. Favorites and search state are dropped
// even when the remote call fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.service.Logout(ctx)
	s.favorites.Clear()
	s.controller = nil
	s.name = ""
	return err
}

// Breeds lists the catalog breeds.
func (s *Session) Breeds(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service.Breeds(ctx)
}

// Locations resolves zip codes.
func (s *Session) Locations(ctx context.Context, zipCodes []string) ([]dogs.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service.Locations(ctx, zipCodes)
}

// SearchLocations runs a location search.
func (s *Session) SearchLocations(ctx context.Context, query dogs.LocationQuery) (*dogs.LocationPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service.SearchLocations(ctx, query)
}

// Search applies new filters and loads page 1.
func (s *Session) Search(ctx context.Context, query dogs.SearchQuery) (dogapp.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager().SetQuery(ctx, query)
}

// GoToPage jumps to page.
func (s *Session) GoToPage(ctx context.Context, page int) (dogapp.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager().GoToPage(ctx, page)
}

// Next moves one page forward.
func (s *Session) Next(ctx context.Context) (dogapp.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager().Next(ctx)
}

// Prev moves one page back.
func (s *Session) Prev(ctx context.Context) (dogapp.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager().Prev(ctx)
}

// Retry re-issues the search for the current page.
func (s *Session) Retry(ctx context.Context) (dogapp.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager().Retry(ctx)
}

// CurrentPage returns the last page shown and the query it belongs to.
func (s *Session) CurrentPage() (dogapp.Page, dogs.SearchQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pager()
	return p.Page(), p.Query()
}

// AddFavorite adds dog; adding twice is a no-op.
func (s *Session) AddFavorite(dog dogs.Dog) error {
	if err := dog.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites.Add(dog)
	return nil
}

// ToggleFavorite flips membership of dog and reports the new state.
func (s *Session) ToggleFavorite(dog dogs.Dog) (bool, error) {
	if err := dog.Validate(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Toggle(dog), nil
}

// RemoveFavorite drops id; unknown ids are ignored.
func (s *Session) RemoveFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites.Remove(id)
}

// IsFavorite reports membership of id.
func (s *Session) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Contains(id)
}

// Favorites lists favorites in insertion order.
func (s *Session) Favorites() []dogs.Dog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.List()
}

// ClearFavorites empties the favorites set.
func (s *Session) ClearFavorites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites.Clear()
}

// Match asks the shelter service to pick one of the current favorites.
func (s *Session) Match(ctx context.Context) (*dogapp.MatchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service.Match(ctx, s.id, s.favorites.List())
}

// History lists earlier matches of this session.
func (s *Session) History(ctx context.Context) ([]*dogports.MatchProjection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service.History(ctx, s.id)
}

// pager returns the controller, creating it for the default query on first use.
// Callers hold s.mu.
func (s *Session) pager() *dogapp.Controller {
	if s.controller == nil {
		s.controller = dogapp.NewController(s.catalog, dogs.NewSearchQuery())
	}
	return s.controller
}
