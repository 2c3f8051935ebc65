package application

import (
	"context"
	"maps"

	"github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
	"github.com/Apurer/go-dog-portal/internal/shared/cursor"
)

// Page is the dog list shown for one page number.
type Page struct {
	Number  int
	Dogs    []domain.Dog
	Total   int
	HasNext bool
	HasPrev bool
}

// Controller maps page numbers onto the opaque cursors issued by the shelter
// search endpoint. The server only hands out relative next/prev references,
// so the controller remembers every cursor it has seen per page number and
// replays the search from page 1 when asked for a page it cannot address.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	catalog ports.Catalog
	query   domain.SearchQuery
	current int
	// cache holds page -> cursor for the active query. Page 1 is always
	// present and maps to "".
	cache  map[int]string
	next   string
	prev   string
	page   Page
	loaded bool
}

type fetchedPage struct {
	dogs  []domain.Dog
	total int
	next  string
	prev  string
}

// NewController returns a controller for query. Nothing is fetched until
// Load or another navigation call.
func NewController(catalog ports.Catalog, query domain.SearchQuery) *Controller {
	return &Controller{
		catalog: catalog,
		query:   query.Normalize().WithCursor(""),
		current: 1,
		cache:   newCursorCache(),
		page:    Page{Number: 1},
	}
}

func newCursorCache() map[int]string {
	return map[int]string{1: ""}
}

// Query returns the active query.
func (c *Controller) Query() domain.SearchQuery {
	return c.query
}

// CurrentPage returns the page number currently shown.
func (c *Controller) CurrentPage() int {
	return c.current
}

// Page returns the last page committed.
func (c *Controller) Page() Page {
	p := c.page
	p.Dogs = append([]domain.Dog{}, c.page.Dogs...)
	return p
}

// Cache returns a copy of the page -> cursor mapping.
func (c *Controller) Cache() map[int]string {
	return maps.Clone(c.cache)
}

// Load issues the first search for page 1 of the active query.
func (c *Controller) Load(ctx context.Context) (Page, error) {
	if err := c.query.Validate(); err != nil {
		return c.Page(), mapError(err)
	}
	return c.load(ctx, 1, "")
}

// SetQuery switches to new filters. Cursors are only valid for the filters
// they were issued under, so the cache is rebuilt and the controller returns
// to page 1. The query, page number and results change together once the
// first page arrives; when that search fails the new query still applies
// with an empty page so a retry targets it.
func (c *Controller) SetQuery(ctx context.Context, query domain.SearchQuery) (Page, error) {
	query = query.Normalize().WithCursor("")
	if err := query.Validate(); err != nil {
		return Page{}, mapError(err)
	}
	fetched, err := c.fetch(ctx, query, "")
	c.query = query
	c.cache = newCursorCache()
	if err != nil {
		c.current = 1
		c.next, c.prev = "", ""
		c.page = Page{Number: 1}
		c.loaded = false
		return c.Page(), err
	}
	c.commit(1, fetched)
	return c.Page(), nil
}

// GoToPage shows page target.
//
// Resolution order: cached cursor, then the known next/prev cursor for an
// adjacent page, then a linear replay from page 1 following next cursors.
// The replay stops early when a page has no next cursor; the returned page
// number is then lower than target.
func (c *Controller) GoToPage(ctx context.Context, target int) (Page, error) {
	if target < 1 {
		return c.Page(), mapError(ErrInvalidPage)
	}
	if c.loaded && target == c.current {
		return c.Page(), nil
	}

	if cur, ok := c.cache[target]; ok {
		return c.load(ctx, target, cur)
	}
	if c.loaded && target == c.current+1 && c.next != "" {
		c.cache[target] = c.next
		return c.load(ctx, target, c.next)
	}
	if c.loaded && target == c.current-1 && c.prev != "" {
		c.cache[target] = c.prev
		return c.load(ctx, target, c.prev)
	}
	return c.replay(ctx, target)
}

// Next shows the page after the current one.
func (c *Controller) Next(ctx context.Context) (Page, error) {
	if c.loaded && c.next == "" {
		if _, ok := c.cache[c.current+1]; !ok {
			return c.Page(), ErrNoNextPage
		}
	}
	return c.GoToPage(ctx, c.current+1)
}

// Prev shows the page before the current one.
func (c *Controller) Prev(ctx context.Context) (Page, error) {
	if c.current <= 1 {
		return c.Page(), ErrNoPrevPage
	}
	return c.GoToPage(ctx, c.current-1)
}

// Retry re-issues the search for the current page.
func (c *Controller) Retry(ctx context.Context) (Page, error) {
	cur, ok := c.cache[c.current]
	if !ok {
		return c.replay(ctx, c.current)
	}
	return c.load(ctx, c.current, cur)
}

func (c *Controller) load(ctx context.Context, number int, cur string) (Page, error) {
	fetched, err := c.fetch(ctx, c.query, cur)
	if err != nil {
		return c.Page(), err
	}
	c.commit(number, fetched)
	return c.Page(), nil
}

// replay walks forward from page 1, recording each next cursor, until target
// is reached or the result set ends.
func (c *Controller) replay(ctx context.Context, target int) (Page, error) {
	fetched, err := c.fetch(ctx, c.query, "")
	if err != nil {
		return c.Page(), err
	}
	number := 1
	for number < target && fetched.next != "" {
		c.cache[number+1] = fetched.next
		following, err := c.fetch(ctx, c.query, fetched.next)
		if err != nil {
			return c.Page(), err
		}
		number++
		fetched = following
	}
	c.commit(number, fetched)
	return c.Page(), nil
}

func (c *Controller) commit(number int, fetched fetchedPage) {
	c.current = number
	c.next, c.prev = fetched.next, fetched.prev
	if fetched.next != "" {
		c.cache[number+1] = fetched.next
	}
	if fetched.prev != "" && number-1 > 1 {
		c.cache[number-1] = fetched.prev
	}
	c.page = Page{
		Number:  number,
		Dogs:    fetched.dogs,
		Total:   fetched.total,
		HasNext: fetched.next != "",
		HasPrev: number > 1,
	}
	c.loaded = true
}

// fetch runs the search for one cursor and loads the dog records. The detail
// call is skipped when the search matched nothing.
func (c *Controller) fetch(ctx context.Context, query domain.SearchQuery, cur string) (fetchedPage, error) {
	result, err := c.catalog.SearchDogs(ctx, query.WithCursor(cur))
	if err != nil {
		return fetchedPage{}, err
	}
	if result == nil {
		result = &domain.SearchResult{}
	}
	fetched := fetchedPage{
		total: result.Total,
		next:  cursor.Extract(result.Next),
		prev:  cursor.Extract(result.Prev),
	}
	if len(result.ResultIDs) == 0 {
		return fetched, nil
	}
	dogs, err := c.catalog.FetchDogs(ctx, result.ResultIDs)
	if err != nil {
		return fetchedPage{}, err
	}
	fetched.dogs = orderByIDs(dogs, result.ResultIDs)
	return fetched, nil
}

// orderByIDs returns dogs in search order; records the server did not return
// are skipped.
func orderByIDs(dogs []domain.Dog, ids []string) []domain.Dog {
	byID := make(map[string]domain.Dog, len(dogs))
	for _, d := range dogs {
		byID[d.ID] = d
	}
	ordered := make([]domain.Dog, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered
}
