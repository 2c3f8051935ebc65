package shelter

import (
	"context"
	"errors"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
)

// Catalog implements the outbound catalog port on top of the shelter HTTP client.
type Catalog struct {
	client *shelterclient.Client
}

// NewCatalog wires a shelter HTTP client into a catalog adapter.
func NewCatalog(client *shelterclient.Client) *Catalog {
	return &Catalog{client: client}
}

var errNotConfigured = errors.New("shelter catalog not configured")

func (c *Catalog) ready() error {
	if c == nil || c.client == nil {
		return errNotConfigured
	}
	return nil
}

// Login opens a shelter session.
func (c *Catalog) Login(ctx context.Context, name, email string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.client.Login(ctx, name, email)
}

// Logout ends the shelter session.
func (c *Catalog) Logout(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.client.Logout(ctx)
}

// Breeds lists the catalog breeds.
func (c *Catalog) Breeds(ctx context.Context) ([]string, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.client.Breeds(ctx)
}

// SearchDogs runs one search request.
func (c *Catalog) SearchDogs(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.client.SearchDogs(ctx, ToSearchParams(query))
	if err != nil {
		return nil, err
	}
	return FromSearchResponse(resp), nil
}

// FetchDogs loads dog records by id.
func (c *Catalog) FetchDogs(ctx context.Context, ids []string) ([]domain.Dog, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	dogs, err := c.client.FetchDogs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return FromDogs(dogs), nil
}

// Match requests a match for the given favorite ids.
func (c *Catalog) Match(ctx context.Context, favoriteIDs []string) (*domain.MatchResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.client.Match(ctx, favoriteIDs)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &domain.MatchResult{}, nil
	}
	return &domain.MatchResult{Match: resp.Match}, nil
}

// Locations resolves zip codes.
func (c *Catalog) Locations(ctx context.Context, zipCodes []string) ([]domain.Location, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	locations, err := c.client.Locations(ctx, zipCodes)
	if err != nil {
		return nil, err
	}
	return FromLocations(locations), nil
}

// SearchLocations runs a location search.
func (c *Catalog) SearchLocations(ctx context.Context, query domain.LocationQuery) (*domain.LocationPage, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.client.SearchLocations(ctx, ToLocationSearchParams(query))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &domain.LocationPage{}, nil
	}
	return &domain.LocationPage{Results: FromLocations(resp.Results), Total: resp.Total}, nil
}

var _ ports.Catalog = (*Catalog)(nil)
