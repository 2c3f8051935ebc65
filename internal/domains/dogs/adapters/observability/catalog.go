package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
)

const tracerName = "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/observability/catalog"

// Catalog decorates a catalog port with tracing, logging, and metrics.
type Catalog struct {
	inner   ports.Catalog
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics catalogMetrics
}

type Option func(*Catalog)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(c *Catalog) {
		c.tracer = tr
	}
}

// WithMeter injects the meter used to create catalog instruments.
func WithMeter(m metric.Meter) Option {
	return func(c *Catalog) {
		c.metrics = newCatalogMetrics(m)
	}
}

// New wires a decorator around the catalog.
func New(inner ports.Catalog, opts ...Option) ports.Catalog {
	c := &Catalog{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newCatalogMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.tracer == nil {
		c.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	return c
}

// Login opens a shelter session. Credentials are never logged.
func (c *Catalog) Login(ctx context.Context, name, email string) error {
	ctx, span := c.startSpan(ctx, "Catalog.Login")
	defer span.End()
	start := time.Now()

	err := c.inner.Login(ctx, name, email)
	c.metrics.record(ctx, "login", start, err)
	if err != nil {
		return c.handleError(ctx, span, err, "login failed")
	}
	c.logInfo(ctx, "logged in")
	return nil
}

// Logout ends the shelter session.
func (c *Catalog) Logout(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "Catalog.Logout")
	defer span.End()
	start := time.Now()

	err := c.inner.Logout(ctx)
	c.metrics.record(ctx, "logout", start, err)
	if err != nil {
		return c.handleError(ctx, span, err, "logout failed")
	}
	c.logInfo(ctx, "logged out")
	return nil
}

// Breeds lists the catalog breeds.
func (c *Catalog) Breeds(ctx context.Context) ([]string, error) {
	ctx, span := c.startSpan(ctx, "Catalog.Breeds")
	defer span.End()
	start := time.Now()

	breeds, err := c.inner.Breeds(ctx)
	c.metrics.record(ctx, "breeds", start, err)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to list breeds")
	}
	span.SetAttributes(attribute.Int("breeds.count", len(breeds)))
	return breeds, nil
}

// SearchDogs runs one search request.
func (c *Catalog) SearchDogs(ctx context.Context, query domain.SearchQuery) (*domain.SearchResult, error) {
	attrs := []attribute.KeyValue{
		attribute.StringSlice("search.breeds", query.Breeds),
		attribute.String("search.sort", query.Sort.String()),
		attribute.Int("search.size", query.PageSize),
		attribute.String("search.cursor", query.Cursor),
	}
	ctx, span := c.startSpan(ctx, "Catalog.SearchDogs", attrs...)
	defer span.End()
	start := time.Now()

	result, err := c.inner.SearchDogs(ctx, query)
	c.metrics.record(ctx, "search", start, err)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "dog search failed",
			slog.String("search.cursor", query.Cursor),
			slog.Int("search.size", query.PageSize))
	}
	if result != nil {
		span.SetAttributes(attribute.Int("search.total", result.Total), attribute.Int("search.results", len(result.ResultIDs)))
		c.logDebug(ctx, "dog search completed",
			slog.String("search.cursor", query.Cursor),
			slog.Int("search.total", result.Total),
			slog.Int("search.results", len(result.ResultIDs)))
	}
	return result, nil
}

// FetchDogs loads dog records by id.
func (c *Catalog) FetchDogs(ctx context.Context, ids []string) ([]domain.Dog, error) {
	ctx, span := c.startSpan(ctx, "Catalog.FetchDogs", attribute.Int("dogs.requested", len(ids)))
	defer span.End()
	start := time.Now()

	dogs, err := c.inner.FetchDogs(ctx, ids)
	c.metrics.record(ctx, "fetch", start, err)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to fetch dogs", slog.Int("dogs.requested", len(ids)))
	}
	span.SetAttributes(attribute.Int("dogs.returned", len(dogs)))
	return dogs, nil
}

// Match requests a match for the given favorite ids.
func (c *Catalog) Match(ctx context.Context, favoriteIDs []string) (*domain.MatchResult, error) {
	ctx, span := c.startSpan(ctx, "Catalog.Match", attribute.Int("favorites.count", len(favoriteIDs)))
	defer span.End()
	start := time.Now()

	result, err := c.inner.Match(ctx, favoriteIDs)
	c.metrics.record(ctx, "match", start, err)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "match failed", slog.Int("favorites.count", len(favoriteIDs)))
	}
	if result != nil {
		span.SetAttributes(attribute.String("match.dog_id", result.Match))
		c.logInfo(ctx, "match generated", slog.String("dog.id", result.Match), slog.Int("favorites.count", len(favoriteIDs)))
	}
	return result, nil
}

// Locations resolves zip codes.
func (c *Catalog) Locations(ctx context.Context, zipCodes []string) ([]domain.Location, error) {
	ctx, span := c.startSpan(ctx, "Catalog.Locations", attribute.Int("zip_codes.count", len(zipCodes)))
	defer span.End()
	start := time.Now()

	locations, err := c.inner.Locations(ctx, zipCodes)
	c.metrics.record(ctx, "locations", start, err)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "failed to resolve locations")
	}
	return locations, nil
}

// SearchLocations runs a location search.
func (c *Catalog) SearchLocations(ctx context.Context, query domain.LocationQuery) (*domain.LocationPage, error) {
	ctx, span := c.startSpan(ctx, "Catalog.SearchLocations",
		attribute.String("locations.city", query.City),
		attribute.StringSlice("locations.states", query.States))
	defer span.End()
	start := time.Now()

	page, err := c.inner.SearchLocations(ctx, query)
	c.metrics.record(ctx, "search_locations", start, err)
	if err != nil {
		return nil, c.handleError(ctx, span, err, "location search failed")
	}
	return page, nil
}

func (c *Catalog) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := c.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (c *Catalog) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (c *Catalog) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (c *Catalog) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if status := shelterclient.StatusCode(err); status != 0 {
		attrs = append(attrs, slog.Int("http.status", status))
	}
	c.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (c *Catalog) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if status := shelterclient.StatusCode(err); status != 0 {
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
	c.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type catalogMetrics struct {
	requests metric.Int64Counter
	errors   metric.Int64Counter
	latency  metric.Float64Histogram
}

func newCatalogMetrics(m metric.Meter) catalogMetrics {
	if m == nil {
		return catalogMetrics{}
	}
	requests, _ := m.Int64Counter("dogs.catalog.requests", metric.WithDescription("Number of shelter API calls"))
	errs, _ := m.Int64Counter("dogs.catalog.errors", metric.WithDescription("Number of failed shelter API calls"))
	latency, _ := m.Float64Histogram("dogs.catalog.duration", metric.WithDescription("Shelter API call latency"), metric.WithUnit("s"))
	return catalogMetrics{
		requests: requests,
		errors:   errs,
		latency:  latency,
	}
}

func (m catalogMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	opAttr := attribute.String("catalog.operation", op)
	addCounter(ctx, m.requests, 1, opAttr)
	if m.latency != nil {
		m.latency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(opAttr))
	}
	if err != nil {
		addCounter(ctx, m.errors, 1, opAttr, attribute.Int("http.status_code", shelterclient.StatusCode(err)))
	}
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Catalog = (*Catalog)(nil)
