package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
)

// ErrNoFavorites is returned when a match is requested with no favorites.
var ErrNoFavorites = errors.New("add at least one favorite before requesting a match")

// LoginInput carries the credentials accepted by the shelter API.
type LoginInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// MatchOutcome is the dog picked by the shelter service plus the stored record.
type MatchOutcome struct {
	Dog    domain.Dog
	Record *ports.MatchProjection
}

// Service orchestrates the dogs use cases that sit outside pagination.
type Service struct {
	catalog  ports.Catalog
	history  ports.MatchHistory
	logger   *slog.Logger
	newID    func() string
	validate *validator.Validate
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithMatchHistory records every successful match.
func WithMatchHistory(history ports.MatchHistory) ServiceOption {
	return func(s *Service) {
		s.history = history
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIDGenerator overrides the match record id source.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService wires the dogs service with its dependencies.
func NewService(catalog ports.Catalog, opts ...ServiceOption) *Service {
	s := &Service{
		catalog:  catalog,
		history:  ports.NoopMatchHistory,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:    uuid.NewString,
		validate: validator.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.history == nil {
		s.history = ports.NoopMatchHistory
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Catalog exposes the port the service talks to so callers can share it with
// a pagination controller.
func (s *Service) Catalog() ports.Catalog {
	return s.catalog
}

// Login opens a shelter session.
func (s *Service) Login(ctx context.Context, input LoginInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Struct(input); err != nil {
		return mapError(ErrInvalidLogin)
	}
	return s.catalog.Login(ctx, input.Name, input.Email)
}

// Logout closes the shelter session.
func (s *Service) Logout(ctx context.Context) error {
	return s.catalog.Logout(ctx)
}

// Breeds lists the breed names used by the breed filter.
func (s *Service) Breeds(ctx context.Context) ([]string, error) {
	return s.catalog.Breeds(ctx)
}

// Locations resolves zip codes.
func (s *Service) Locations(ctx context.Context, zipCodes []string) ([]domain.Location, error) {
	return s.catalog.Locations(ctx, zipCodes)
}

// SearchLocations runs a location search.
func (s *Service) SearchLocations(ctx context.Context, query domain.LocationQuery) (*domain.LocationPage, error) {
	return s.catalog.SearchLocations(ctx, query)
}

// Match asks the shelter service to pick one of favorites and records the
// result. A failure to store the record is logged and does not fail the match.
func (s *Service) Match(ctx context.Context, sessionID string, favorites []domain.Dog) (*MatchOutcome, error) {
	if len(favorites) == 0 {
		return nil, mapError(ErrNoFavorites)
	}
	ids := make([]string, 0, len(favorites))
	byID := make(map[string]domain.Dog, len(favorites))
	for _, dog := range favorites {
		ids = append(ids, dog.ID)
		byID[dog.ID] = dog
	}

	result, err := s.catalog.Match(ctx, ids)
	if err != nil {
		return nil, err
	}
	if result == nil || strings.TrimSpace(result.Match) == "" {
		return nil, domain.ErrEmptyMatch
	}

	dog, ok := byID[result.Match]
	if !ok {
		dogs, err := s.catalog.FetchDogs(ctx, []string{result.Match})
		if err != nil {
			return nil, err
		}
		if len(dogs) == 0 {
			dog = domain.Dog{ID: result.Match}
		} else {
			dog = dogs[0]
		}
	}

	outcome := &MatchOutcome{Dog: dog}
	record, err := domain.NewMatchRecord(s.newID(), sessionID, ids, result.Match)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.history.Save(ctx, record)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record match",
			slog.String("session.id", sessionID),
			slog.String("dog.id", result.Match),
			slog.String("error", err.Error()))
		return outcome, nil
	}
	outcome.Record = saved
	return outcome, nil
}

// History lists earlier matches for a session, newest first.
func (s *Service) History(ctx context.Context, sessionID string) ([]*ports.MatchProjection, error) {
	return s.history.ListBySession(ctx, sessionID)
}
