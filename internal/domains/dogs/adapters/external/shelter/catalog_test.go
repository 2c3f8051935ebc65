package shelter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
)

func newCatalog(t *testing.T, handler http.Handler) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := shelterclient.NewClient(srv.URL, shelterclient.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return NewCatalog(client)
}

func TestToSearchParams(t *testing.T) {
	minAge := 0
	q := domain.NewSearchQuery()
	q.Breeds = []string{"Beagle"}
	q.AgeMin = &minAge
	q.Cursor = "50"

	params := ToSearchParams(q)
	require.Equal(t, []string{"Beagle"}, params.Breeds)
	require.Equal(t, 25, params.Size)
	require.Equal(t, "50", params.From)
	require.Equal(t, "breed:asc", params.Sort)
	require.NotNil(t, params.AgeMin)
	require.Equal(t, 0, *params.AgeMin)
	require.Nil(t, params.AgeMax)

	minAge = 4
	require.Equal(t, 0, *params.AgeMin)
}

func TestToLocationSearchParams_OmitsBlankFields(t *testing.T) {
	params := ToLocationSearchParams(domain.LocationQuery{City: "  ", States: []string{" ma", ""}})
	require.Nil(t, params.City)
	require.Equal(t, []string{"MA"}, params.States)
	require.Nil(t, params.GeoBoundingBox)

	params = ToLocationSearchParams(domain.LocationQuery{
		BoundingBox: &domain.BoundingBox{
			BottomLeft: &domain.Coordinates{Lat: 42.2, Lon: -71.2},
			TopRight:   &domain.Coordinates{Lat: 42.4, Lon: -71.0},
		},
	})
	require.NotNil(t, params.GeoBoundingBox)
	require.Equal(t, 42.2, params.GeoBoundingBox.BottomLeft.Lat)
	require.Nil(t, params.GeoBoundingBox.Top)
}

func TestCatalog_SearchAndFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dogs/search", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Poodle", r.URL.Query().Get("breeds"))
		require.Equal(t, "10", r.URL.Query().Get("size"))
		_, _ = w.Write([]byte(`{"resultIds":["d1"],"total":11,"next":"/dogs/search?size=10&from=10&breeds=Poodle"}`))
	})
	mux.HandleFunc("/dogs", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var ids []string
		require.NoError(t, json.Unmarshal(raw, &ids))
		require.Equal(t, []string{"d1"}, ids)
		_, _ = w.Write([]byte(`[{"id":"d1","img":"https://img/1.jpg","name":"Bo","age":2,"zip_code":"00501","breed":"Poodle"}]`))
	})
	catalog := newCatalog(t, mux)
	ctx := context.Background()

	q := domain.NewSearchQuery()
	q.Breeds = []string{"Poodle"}
	q.PageSize = 10
	result, err := catalog.SearchDogs(ctx, q)
	require.NoError(t, err)
	require.Equal(t, []string{"d1"}, result.ResultIDs)
	require.Equal(t, 11, result.Total)
	require.Equal(t, "/dogs/search?size=10&from=10&breeds=Poodle", result.Next)

	dogs, err := catalog.FetchDogs(ctx, result.ResultIDs)
	require.NoError(t, err)
	require.Equal(t, []domain.Dog{{ID: "d1", Name: "Bo", Breed: "Poodle", Age: 2, ZipCode: "00501", Image: "https://img/1.jpg"}}, dogs)
}

func TestCatalog_PropagatesClientErrors(t *testing.T) {
	catalog := newCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	_, err := catalog.Breeds(context.Background())
	require.True(t, shelterclient.IsUnauthorized(err))
}

func TestCatalog_NotConfigured(t *testing.T) {
	var catalog *Catalog
	_, err := catalog.Breeds(context.Background())
	require.ErrorIs(t, err, errNotConfigured)
}
