package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	dogports "github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
	"github.com/Apurer/go-dog-portal/internal/domains/sessions/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/sessions/ports"
)

// CatalogFactory returns a catalog with its own upstream cookie jar. Each
// session gets a fresh one so shelter logins never leak between visitors.
type CatalogFactory func() (dogports.Catalog, error)

// Manager creates, resolves and expires portal sessions.
type Manager struct {
	store       ports.SessionStore
	newCatalog  CatalogFactory
	serviceOpts []dogapp.ServiceOption
	now         func() time.Time
	newID       func() string
	logger      *slog.Logger
}

// Option configures the manager.
type Option func(*Manager)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator overrides the session id source.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithServiceOptions forwards options to every per-session dogs service.
func WithServiceOptions(opts ...dogapp.ServiceOption) Option {
	return func(m *Manager) {
		m.serviceOpts = append(m.serviceOpts, opts...)
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager wires the session manager.
func NewManager(store ports.SessionStore, newCatalog CatalogFactory, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		newCatalog: newCatalog,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Start logs in against the shelter API and stores the new session. Nothing
// is stored when the login fails.
func (m *Manager) Start(ctx context.Context, input dogapp.LoginInput) (*domain.Session, error) {
	catalog, err := m.newCatalog()
	if err != nil {
		return nil, fmt.Errorf("create shelter catalog: %w", err)
	}
	session := domain.New(m.newID(), dogapp.NewService(catalog, m.serviceOpts...), m.now())
	if err := session.Login(ctx, input); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	m.logger.LogAttrs(ctx, slog.LevelInfo, "session started", slog.String("session.id", session.ID()))
	return session, nil
}

// Get resolves a live session and marks it as used.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, ports.ErrNotFound
	}
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Touch(m.now())
	return session, nil
}

// End logs the session out upstream and forgets it. The session is dropped
// even when the upstream logout fails.
func (m *Manager) End(ctx context.Context, id string) error {
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	logoutErr := session.Logout(ctx)
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.LogAttrs(ctx, slog.LevelInfo, "session ended", slog.String("session.id", id))
	return logoutErr
}

// PurgeIdle expires sessions idle for longer than maxIdle and reports how
// many were removed.
func (m *Manager) PurgeIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	purged, err := m.store.PurgeIdle(ctx, m.now().Add(-maxIdle))
	if err != nil {
		return 0, err
	}
	for _, session := range purged {
		if err := session.Logout(ctx); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelWarn, "upstream logout failed for idle session",
				slog.String("session.id", session.ID()),
				slog.String("error", err.Error()))
		}
	}
	if len(purged) > 0 {
		m.logger.LogAttrs(ctx, slog.LevelInfo, "idle sessions purged", slog.Int("count", len(purged)))
	}
	return len(purged), nil
}

// RunJanitor purges idle sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.PurgeIdle(ctx, maxIdle); err != nil {
				m.logger.LogAttrs(ctx, slog.LevelError, "session purge failed", slog.String("error", err.Error()))
			}
		}
	}
}
