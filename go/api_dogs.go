package portalserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	dogs "github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
	sessionapp "github.com/Apurer/go-dog-portal/internal/domains/sessions/application"
	sessiondomain "github.com/Apurer/go-dog-portal/internal/domains/sessions/domain"
)

// DogsAPI exposes breed listing, search and pagination.
type DogsAPI struct {
	sessions
}

// NewDogsAPI wires dependencies.
func NewDogsAPI(manager *sessionapp.Manager) DogsAPI {
	return DogsAPI{sessions: sessions{manager: manager}}
}

// Get /api/breeds
// List breed names for the breed filter
func (api *DogsAPI) Breeds(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	breeds, err := session.Breeds(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(breeds))
}

// Get /api/dogs
// Apply search filters and show page 1
func (api *DogsAPI) SearchDogs(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	params, err := bindSearchDogsParams(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	query, err := toDomainQuery(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	_, err = session.Search(c.Request.Context(), query)
	api.respondPage(c, session, err)
}

// Get /api/dogs/page/:page
// Show a page of the current search
func (api *DogsAPI) GoToPage(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		respondBadRequest(c, fmt.Errorf("invalid page %q", c.Param("page")))
		return
	}
	session, ok := api.current(c)
	if !ok {
		return
	}
	_, err = session.GoToPage(c.Request.Context(), number)
	api.respondPage(c, session, err)
}

// Get /api/dogs/page
// Show the page currently displayed without calling the shelter API
func (api *DogsAPI) CurrentPage(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	page, query := session.CurrentPage()
	c.JSON(http.StatusOK, fromPage(page, query, session.IsFavorite))
}

// Post /api/dogs/next
// Show the next page
func (api *DogsAPI) NextPage(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	_, err := session.Next(c.Request.Context())
	api.respondPage(c, session, err)
}

// Post /api/dogs/prev
// Show the previous page
func (api *DogsAPI) PrevPage(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	_, err := session.Prev(c.Request.Context())
	api.respondPage(c, session, err)
}

// Post /api/dogs/retry
// Re-issue the search for the current page
func (api *DogsAPI) RetryPage(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	_, err := session.Retry(c.Request.Context())
	api.respondPage(c, session, err)
}

func (api *DogsAPI) respondPage(c *gin.Context, session *sessiondomain.Session, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	page, query := session.CurrentPage()
	c.JSON(http.StatusOK, fromPage(page, query, session.IsFavorite))
}

// bindSearchDogsParams reads form-style, exploded query parameters.
func bindSearchDogsParams(c *gin.Context) (SearchDogsParams, error) {
	var params SearchDogsParams
	values := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "breeds", values, &params.Breeds); err != nil {
		return params, fmt.Errorf("invalid format for parameter breeds: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "zipCodes", values, &params.ZipCodes); err != nil {
		return params, fmt.Errorf("invalid format for parameter zipCodes: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "ageMin", values, &params.AgeMin); err != nil {
		return params, fmt.Errorf("invalid format for parameter ageMin: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "ageMax", values, &params.AgeMax); err != nil {
		return params, fmt.Errorf("invalid format for parameter ageMax: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "sort", values, &params.Sort); err != nil {
		return params, fmt.Errorf("invalid format for parameter sort: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", values, &params.Size); err != nil {
		return params, fmt.Errorf("invalid format for parameter size: %w", err)
	}
	return params, nil
}

func toDomainQuery(params SearchDogsParams) (dogs.SearchQuery, error) {
	q := dogs.NewSearchQuery()
	if params.Breeds != nil {
		q.Breeds = *params.Breeds
	}
	if params.ZipCodes != nil {
		q.ZipCodes = *params.ZipCodes
	}
	q.AgeMin = params.AgeMin
	q.AgeMax = params.AgeMax
	if params.Size != nil {
		q.PageSize = *params.Size
	}
	if params.Sort != nil {
		sort, err := dogs.ParseSort(*params.Sort)
		if err != nil {
			return q, fmt.Errorf("%w: %w", dogapp.ErrInvalidInput, err)
		}
		q.Sort = sort
	}
	return q, nil
}
