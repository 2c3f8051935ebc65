package portalserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	sessionapp "github.com/Apurer/go-dog-portal/internal/domains/sessions/application"
	sessiondomain "github.com/Apurer/go-dog-portal/internal/domains/sessions/domain"
)

// FavoritesAPI manages the session's favorites set.
type FavoritesAPI struct {
	sessions
}

// NewFavoritesAPI wires dependencies.
func NewFavoritesAPI(manager *sessionapp.Manager) FavoritesAPI {
	return FavoritesAPI{sessions: sessions{manager: manager}}
}

// Get /api/favorites
// List favorites in the order they were added
func (api *FavoritesAPI) ListFavorites(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, favoriteList(session))
}

// Put /api/favorites/:id
// Add a dog to favorites; adding twice is a no-op
func (api *FavoritesAPI) AddFavorite(c *gin.Context) {
	var payload Dog
	if err := c.ShouldBindJSON(&payload); err != nil {
		problems.BindingFailed(c, err)
		return
	}
	if id := strings.TrimSpace(c.Param("id")); id != payload.Id {
		respondBadRequest(c, fmt.Errorf("path id %q does not match body id %q", id, payload.Id))
		return
	}
	session, ok := api.current(c)
	if !ok {
		return
	}
	if err := session.AddFavorite(toDomainDog(payload)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, favoriteList(session))
}

// Delete /api/favorites/:id
// Remove a dog from favorites
func (api *FavoritesAPI) RemoveFavorite(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	session.RemoveFavorite(c.Param("id"))
	c.JSON(http.StatusOK, favoriteList(session))
}

// Post /api/favorites/toggle
// Flip the favorite state of a dog
func (api *FavoritesAPI) ToggleFavorite(c *gin.Context) {
	var payload Dog
	if err := c.ShouldBindJSON(&payload); err != nil {
		problems.BindingFailed(c, err)
		return
	}
	session, ok := api.current(c)
	if !ok {
		return
	}
	favorite, err := session.ToggleFavorite(toDomainDog(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, FavoriteToggle{Id: payload.Id, Favorite: favorite, Count: len(session.Favorites())})
}

// Delete /api/favorites
// Clear all favorites
func (api *FavoritesAPI) ClearFavorites(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	session.ClearFavorites()
	c.Status(http.StatusNoContent)
}

func favoriteList(session *sessiondomain.Session) FavoriteList {
	favorites := session.Favorites()
	out := FavoriteList{Dogs: make([]Dog, 0, len(favorites)), Count: len(favorites)}
	for _, d := range favorites {
		out.Dogs = append(out.Dogs, fromDomainDog(d, true))
	}
	return out
}
