package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid dog search input")

var (
	ErrInvalidPage  = errors.New("page number must be at least 1")
	ErrNoNextPage   = errors.New("no next page")
	ErrNoPrevPage   = errors.New("no previous page")
	ErrInvalidLogin = errors.New("name and a valid email are required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidSort) ||
		errors.Is(err, domain.ErrInvalidAgeRange) ||
		errors.Is(err, domain.ErrInvalidPageSize) ||
		errors.Is(err, domain.ErrEmptyFavorites) ||
		errors.Is(err, domain.ErrEmptyDogID) ||
		errors.Is(err, domain.ErrNegativeAge) ||
		errors.Is(err, ErrInvalidPage) ||
		errors.Is(err, ErrInvalidLogin) ||
		errors.Is(err, ErrNoFavorites) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
