package portalserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers behind every route.
type ApiHandleFunctions struct {
	SessionAPI   SessionAPI
	DogsAPI      DogsAPI
	FavoritesAPI FavoritesAPI
	MatchAPI     MatchAPI
	LocationsAPI LocationsAPI
}

// NewRouter returns a new router. Middlewares run before every route.
func NewRouter(handleFunctions ApiHandleFunctions, middlewares ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Login", http.MethodPost, "/api/session", handleFunctions.SessionAPI.Login},
		{"CurrentSession", http.MethodGet, "/api/session", handleFunctions.SessionAPI.Current},
		{"Logout", http.MethodDelete, "/api/session", handleFunctions.SessionAPI.Logout},
		{"Breeds", http.MethodGet, "/api/breeds", handleFunctions.DogsAPI.Breeds},
		{"SearchDogs", http.MethodGet, "/api/dogs", handleFunctions.DogsAPI.SearchDogs},
		{"CurrentPage", http.MethodGet, "/api/dogs/page", handleFunctions.DogsAPI.CurrentPage},
		{"GoToPage", http.MethodGet, "/api/dogs/page/:page", handleFunctions.DogsAPI.GoToPage},
		{"NextPage", http.MethodPost, "/api/dogs/next", handleFunctions.DogsAPI.NextPage},
		{"PrevPage", http.MethodPost, "/api/dogs/prev", handleFunctions.DogsAPI.PrevPage},
		{"RetryPage", http.MethodPost, "/api/dogs/retry", handleFunctions.DogsAPI.RetryPage},
		{"ListFavorites", http.MethodGet, "/api/favorites", handleFunctions.FavoritesAPI.ListFavorites},
		{"ClearFavorites", http.MethodDelete, "/api/favorites", handleFunctions.FavoritesAPI.ClearFavorites},
		{"ToggleFavorite", http.MethodPost, "/api/favorites/toggle", handleFunctions.FavoritesAPI.ToggleFavorite},
		{"AddFavorite", http.MethodPut, "/api/favorites/:id", handleFunctions.FavoritesAPI.AddFavorite},
		{"RemoveFavorite", http.MethodDelete, "/api/favorites/:id", handleFunctions.FavoritesAPI.RemoveFavorite},
		{"Match", http.MethodPost, "/api/match", handleFunctions.MatchAPI.Match},
		{"ListMatches", http.MethodGet, "/api/matches", handleFunctions.MatchAPI.ListMatches},
		{"LookupLocations", http.MethodPost, "/api/locations", handleFunctions.LocationsAPI.LookupLocations},
		{"SearchLocations", http.MethodPost, "/api/locations/search", handleFunctions.LocationsAPI.SearchLocations},
	}
}
