package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchLog records the from parameter of every search request.
type searchLog struct {
	mu    sync.Mutex
	froms []string
}

func (l *searchLog) add(from string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.froms = append(l.froms, from)
}

func (l *searchLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.froms...)
}

func fakeShelter(t *testing.T, total int, acceptLogin bool) *httptest.Server {
	t.Helper()
	return recordingShelter(t, total, acceptLogin, &searchLog{})
}

func recordingShelter(t *testing.T, total int, acceptLogin bool, searches *searchLog) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if acceptLogin {
			http.SetCookie(w, &http.Cookie{Name: "fetch-access-token", Value: "t", Path: "/"})
		}
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {})
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, err := r.Cookie("fetch-access-token"); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("/dogs/breeds", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["Beagle","Poodle"]`))
	}))
	mux.HandleFunc("/dogs/search", authed(func(w http.ResponseWriter, r *http.Request) {
		searches.add(r.URL.Query().Get("from"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		from, _ := strconv.Atoi(r.URL.Query().Get("from"))
		end := min(from+size, total)
		ids := []string{}
		for i := from; i < end; i++ {
			ids = append(ids, fmt.Sprintf("d%d", i))
		}
		body := map[string]any{"resultIds": ids, "total": total}
		if end < total {
			body["next"] = fmt.Sprintf("/dogs/search?size=%d&from=%d", size, end)
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	mux.HandleFunc("/dogs", authed(func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		_ = json.NewDecoder(r.Body).Decode(&ids)
		out := []map[string]any{}
		for _, id := range ids {
			out = append(out, map[string]any{"id": id, "name": "Dog " + id, "breed": "Beagle", "age": 4, "zip_code": "02134"})
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	mux.HandleFunc("/dogs/match", authed(func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		_ = json.NewDecoder(r.Body).Decode(&ids)
		_ = json.NewEncoder(w).Encode(map[string]string{"match": ids[len(ids)-1]})
	}))
	mux.HandleFunc("/locations", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"zip_code":"02134","city":"Allston","state":"MA","county":"Suffolk"}]`))
	}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--base-url", baseURL, "--name", "Ada", "--email", "ada@example.com"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestBreeds(t *testing.T) {
	srv := fakeShelter(t, 0, true)
	out, _, err := run(t, srv.URL, "breeds")
	require.NoError(t, err)
	assert.Equal(t, "Beagle\nPoodle\n", out)
}

func TestSearch_JumpsToRequestedPage(t *testing.T) {
	searches := &searchLog{}
	srv := recordingShelter(t, 35, true, searches)
	out, _, err := run(t, srv.URL, "search", "--size", "10", "--page", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "d20")
	assert.NotContains(t, out, "d19")
	assert.Contains(t, out, "page 3, 35 dogs total, next: --page 4")
	assert.Equal(t, []string{"", "10", "20"}, searches.list())
}

func TestSearch_PastLastPage(t *testing.T) {
	srv := fakeShelter(t, 15, true)
	out, _, err := run(t, srv.URL, "search", "--size", "10", "--page", "9", "--json")
	require.NoError(t, err)
	var page struct {
		Number int
		Total  int
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 15, page.Total)
}

func TestSearch_RejectsBadFlags(t *testing.T) {
	srv := fakeShelter(t, 15, true)
	_, _, err := run(t, srv.URL, "search", "--sort", "color")
	require.Error(t, err)

	_, _, err = run(t, srv.URL, "search", "--size", "7")
	require.Error(t, err)

	searches := &searchLog{}
	srv = recordingShelter(t, 15, true, searches)
	for _, page := range []string{"--page=0", "--page=-2"} {
		_, _, err = run(t, srv.URL, "search", page)
		require.ErrorContains(t, err, "--page must be at least 1")
	}
	assert.Empty(t, searches.list())
}

func TestLocationsAndMatch(t *testing.T) {
	srv := fakeShelter(t, 0, true)
	out, _, err := run(t, srv.URL, "locations", "02134")
	require.NoError(t, err)
	assert.Contains(t, out, "Allston")
	assert.Contains(t, out, "Suffolk")

	out, _, err = run(t, srv.URL, "match", "d1", "d7")
	require.NoError(t, err)
	assert.Contains(t, out, "Your match: Dog d7")
}

func TestUnauthorizedPrintsReloginHint(t *testing.T) {
	srv := fakeShelter(t, 0, false)
	_, stderr, err := run(t, srv.URL, "breeds")
	require.Error(t, err)
	assert.Contains(t, stderr, "API error: 401")
	assert.Contains(t, stderr, reloginHint)
}

func TestMissingCredentials(t *testing.T) {
	srv := fakeShelter(t, 0, true)
	root := newRootCmd()
	var stderr bytes.Buffer
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	root.SetArgs([]string{"--base-url", srv.URL, "--name", "", "--email", "", "breeds"})
	require.Error(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, stderr.String(), "FETCHDOG_NAME")
}
