package portalserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionapp "github.com/Apurer/go-dog-portal/internal/domains/sessions/application"
)

// LocationsAPI exposes zip code lookups.
type LocationsAPI struct {
	sessions
}

// NewLocationsAPI wires dependencies.
func NewLocationsAPI(manager *sessionapp.Manager) LocationsAPI {
	return LocationsAPI{sessions: sessions{manager: manager}}
}

// Post /api/locations
// Resolve a list of zip codes
func (api *LocationsAPI) LookupLocations(c *gin.Context) {
	var zipCodes []string
	if err := c.ShouldBindJSON(&zipCodes); err != nil {
		problems.BindingFailed(c, err)
		return
	}
	session, ok := api.current(c)
	if !ok {
		return
	}
	locations, err := session.Locations(c.Request.Context(), zipCodes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainLocations(locations))
}

// Post /api/locations/search
// Search locations by city, state or bounding box
func (api *LocationsAPI) SearchLocations(c *gin.Context) {
	var payload LocationSearchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		problems.BindingFailed(c, err)
		return
	}
	session, ok := api.current(c)
	if !ok {
		return
	}
	page, err := session.SearchLocations(c.Request.Context(), toDomainLocationQuery(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := LocationSearchResponse{Results: []Location{}}
	if page != nil {
		out.Results = fromDomainLocations(page.Results)
		out.Total = page.Total
	}
	c.JSON(http.StatusOK, out)
}
