package ports

import (
	"context"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
)

// Catalog is the outbound port to the remote shelter API. Implementations
// issue exactly one request per call and never retry.
type Catalog interface {
	Login(ctx context.Context, name, email string) error
	Logout(ctx context.Context) error
	Breeds(ctx context.Context) ([]string, error)
	SearchDogs(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error)
	FetchDogs(ctx context.Context, ids []string) ([]domain.Dog, error)
	Match(ctx context.Context, favoriteIDs []string) (*domain.MatchResult, error)
	Locations(ctx context.Context, zipCodes []string) ([]domain.Location, error)
	SearchLocations(ctx context.Context, query domain.LocationQuery) (*domain.LocationPage, error)
}
