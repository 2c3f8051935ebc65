package portalserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionapp "github.com/Apurer/go-dog-portal/internal/domains/sessions/application"
)

// MatchAPI generates matches from favorites and lists past ones.
type MatchAPI struct {
	sessions
}

// NewMatchAPI wires dependencies.
func NewMatchAPI(manager *sessionapp.Manager) MatchAPI {
	return MatchAPI{sessions: sessions{manager: manager}}
}

// Post /api/match
// Ask the shelter service to pick one of the favorites
func (api *MatchAPI) Match(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	outcome, err := session.Match(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MatchResponse{
		Match:  fromDomainDog(outcome.Dog, session.IsFavorite(outcome.Dog.ID)),
		Record: fromMatchProjection(outcome.Record),
	})
}

// Get /api/matches
// List earlier matches of this session, newest first
func (api *MatchAPI) ListMatches(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	records, err := session.History(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]MatchRecord, 0, len(records))
	for _, record := range records {
		if mapped := fromMatchProjection(record); mapped != nil {
			out = append(out, *mapped)
		}
	}
	c.JSON(http.StatusOK, out)
}
