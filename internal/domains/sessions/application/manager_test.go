package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	shelteradapter "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/external/shelter"
	dogmemory "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/memory"
	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	dogs "github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	dogports "github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
	"github.com/Apurer/go-dog-portal/internal/domains/sessions/adapters/memory"
	"github.com/Apurer/go-dog-portal/internal/domains/sessions/ports"
)

const cookieName = "fetch-access-token"

// shelterStub mimics the shelter API: login sets a cookie holding the user
// name and every other endpoint requires it.
type shelterStub struct {
	mu      sync.Mutex
	logouts int
	total   int

	// breeds calls made by hangUser block until release is closed.
	hangUser string
	entered  chan struct{}
	release  chan struct{}
}

func (s *shelterStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Name string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: body.Name, Path: "/"})
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.logouts++
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, err := r.Cookie(cookieName); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("/dogs/breeds", authed(func(w http.ResponseWriter, r *http.Request) {
		cookie, _ := r.Cookie(cookieName)
		if s.hangUser != "" && cookie.Value == s.hangUser {
			s.entered <- struct{}{}
			<-s.release
		}
		_ = json.NewEncoder(w).Encode([]string{"breed-of-" + cookie.Value})
	}))
	mux.HandleFunc("/dogs/search", authed(func(w http.ResponseWriter, r *http.Request) {
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		from, _ := strconv.Atoi(r.URL.Query().Get("from"))
		end := min(from+size, s.total)
		resp := shelterclient.SearchResponse{Total: s.total, ResultIDs: []string{}}
		for i := from; i < end; i++ {
			resp.ResultIDs = append(resp.ResultIDs, fmt.Sprintf("d%d", i))
		}
		if end < s.total {
			resp.Next = fmt.Sprintf("/dogs/search?size=%d&from=%d", size, end)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	mux.HandleFunc("/dogs", authed(func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		out := make([]shelterclient.Dog, 0, len(ids))
		for _, id := range ids {
			out = append(out, shelterclient.Dog{ID: id, Name: "Dog " + id, Breed: "Beagle", ZipCode: "02134"})
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	mux.HandleFunc("/dogs/match", authed(func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		_ = json.NewEncoder(w).Encode(shelterclient.MatchResponse{Match: ids[len(ids)-1]})
	}))
	return mux
}

func newTestManager(t *testing.T, stub *shelterStub, opts ...Option) (*Manager, *memory.SessionStore) {
	t.Helper()
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)
	store := memory.NewSessionStore()
	factory := func() (dogports.Catalog, error) {
		client, err := shelterclient.NewClient(srv.URL)
		if err != nil {
			return nil, err
		}
		return shelteradapter.NewCatalog(client), nil
	}
	return NewManager(store, factory, opts...), store
}

func TestManager_SessionsKeepSeparateUpstreamLogins(t *testing.T) {
	ctx := context.Background()
	manager, store := newTestManager(t, &shelterStub{})

	ada, err := manager.Start(ctx, dogapp.LoginInput{Name: "ada", Email: "ada@example.com"})
	require.NoError(t, err)
	bob, err := manager.Start(ctx, dogapp.LoginInput{Name: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	require.NotEqual(t, ada.ID(), bob.ID())
	require.Equal(t, 2, store.Len())

	breeds, err := ada.Breeds(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"breed-of-ada"}, breeds)

	breeds, err = bob.Breeds(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"breed-of-bob"}, breeds)
}

func TestManager_StartRejectsInvalidLogin(t *testing.T) {
	manager, store := newTestManager(t, &shelterStub{})

	_, err := manager.Start(context.Background(), dogapp.LoginInput{Name: "ada", Email: "nope"})
	require.ErrorIs(t, err, dogapp.ErrInvalidInput)
	require.Equal(t, 0, store.Len())
}

func TestSession_SearchFavoritesAndMatch(t *testing.T) {
	ctx := context.Background()
	history := dogmemory.NewMatchHistory()
	manager, _ := newTestManager(t, &shelterStub{total: 30}, WithServiceOptions(dogapp.WithMatchHistory(history)))

	session, err := manager.Start(ctx, dogapp.LoginInput{Name: "ada", Email: "ada@example.com"})
	require.NoError(t, err)

	q := dogs.NewSearchQuery()
	q.PageSize = 10
	page, err := session.Search(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 1, page.Number)
	require.Len(t, page.Dogs, 10)

	page, err = session.GoToPage(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 3, page.Number)
	require.Equal(t, "d20", page.Dogs[0].ID)

	_, err = session.Match(ctx)
	require.ErrorIs(t, err, dogapp.ErrNoFavorites)

	in, err := session.ToggleFavorite(page.Dogs[0])
	require.NoError(t, err)
	require.True(t, in)
	require.NoError(t, session.AddFavorite(page.Dogs[1]))
	require.NoError(t, session.AddFavorite(page.Dogs[1]))
	require.Len(t, session.Favorites(), 2)

	outcome, err := session.Match(ctx)
	require.NoError(t, err)
	require.Equal(t, "d21", outcome.Dog.ID)

	records, err := session.History(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, session.ID(), records[0].Entity.SessionID)

	require.Error(t, session.AddFavorite(dogs.Dog{}))
}

func TestManager_EndClearsFavoritesAndForgetsSession(t *testing.T) {
	ctx := context.Background()
	stub := &shelterStub{total: 5}
	manager, store := newTestManager(t, stub)

	session, err := manager.Start(ctx, dogapp.LoginInput{Name: "ada", Email: "ada@example.com"})
	require.NoError(t, err)
	require.NoError(t, session.AddFavorite(dogs.Dog{ID: "d1"}))

	require.NoError(t, manager.End(ctx, session.ID()))
	require.Empty(t, session.Favorites())
	require.Equal(t, 1, stub.logouts)
	require.Equal(t, 0, store.Len())

	_, err = manager.Get(ctx, session.ID())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestManager_PurgeIdle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stub := &shelterStub{}
	manager, store := newTestManager(t, stub, WithClock(func() time.Time { return now }))

	idle, err := manager.Start(ctx, dogapp.LoginInput{Name: "idle", Email: "idle@example.com"})
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	active, err := manager.Start(ctx, dogapp.LoginInput{Name: "active", Email: "active@example.com"})
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	_, err = manager.Get(ctx, active.ID())
	require.NoError(t, err)

	removed, err := manager.PurgeIdle(ctx, 15*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, store.Len())
	require.Equal(t, 1, stub.logouts)

	_, err = manager.Get(ctx, idle.ID())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestManager_PurgeIdleDoesNotBlockOtherSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stub := &shelterStub{hangUser: "slow", entered: make(chan struct{}, 1), release: make(chan struct{})}
	manager, _ := newTestManager(t, stub, WithClock(func() time.Time { return now }))

	slow, err := manager.Start(ctx, dogapp.LoginInput{Name: "slow", Email: "slow@example.com"})
	require.NoError(t, err)
	now = now.Add(20 * time.Minute)
	other, err := manager.Start(ctx, dogapp.LoginInput{Name: "other", Email: "other@example.com"})
	require.NoError(t, err)
	now = now.Add(5 * time.Minute)

	released := false
	release := func() {
		if !released {
			released = true
			close(stub.release)
		}
	}
	t.Cleanup(release)

	breedsDone := make(chan error, 1)
	go func() {
		_, err := slow.Breeds(ctx)
		breedsDone <- err
	}()
	select {
	case <-stub.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("breeds request never reached the shelter")
	}

	purgeDone := make(chan int, 1)
	go func() {
		removed, _ := manager.PurgeIdle(ctx, 15*time.Minute)
		purgeDone <- removed
	}()

	getDone := make(chan error, 1)
	go func() {
		_, err := manager.Get(ctx, other.ID())
		getDone <- err
	}()
	select {
	case err := <-getDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Get blocked behind a session stuck upstream")
	}

	release()
	require.NoError(t, <-breedsDone)
	require.Equal(t, 1, <-purgeDone)

	_, err = manager.Get(ctx, slow.ID())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSession_TouchKeepsLatest(t *testing.T) {
	manager, _ := newTestManager(t, &shelterStub{})
	session, err := manager.Start(context.Background(), dogapp.LoginInput{Name: "ada", Email: "ada@example.com"})
	require.NoError(t, err)

	later := session.LastSeen().Add(time.Minute)
	session.Touch(later)
	session.Touch(later.Add(-time.Hour))
	require.True(t, session.LastSeen().Equal(later))
}

func TestManager_GetRejectsBlankID(t *testing.T) {
	manager, _ := newTestManager(t, &shelterStub{})
	_, err := manager.Get(context.Background(), "")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
