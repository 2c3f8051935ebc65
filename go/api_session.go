package portalserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	sessionapp "github.com/Apurer/go-dog-portal/internal/domains/sessions/application"
	sessiondomain "github.com/Apurer/go-dog-portal/internal/domains/sessions/domain"
	sessionports "github.com/Apurer/go-dog-portal/internal/domains/sessions/ports"
)

// SessionCookie carries the portal session id.
const SessionCookie = "portal_session"

// sessions resolves the caller's portal session from the cookie.
type sessions struct {
	manager      *sessionapp.Manager
	secureCookie bool
}

// current writes a 401 problem and returns false when the caller has no
// live session.
func (s sessions) current(c *gin.Context) (*sessiondomain.Session, bool) {
	id, err := c.Cookie(SessionCookie)
	if err != nil {
		id = ""
	}
	session, err := s.manager.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return session, true
}

func (s sessions) setCookie(c *gin.Context, id string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, maxAge, "/", "", s.secureCookie, true)
}

// SessionAPI handles portal login and logout.
type SessionAPI struct {
	sessions
}

// NewSessionAPI wires dependencies.
func NewSessionAPI(manager *sessionapp.Manager, secureCookie bool) SessionAPI {
	return SessionAPI{sessions: sessions{manager: manager, secureCookie: secureCookie}}
}

// Post /api/session
// Log in to the shelter API and open a portal session
func (api *SessionAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		problems.BindingFailed(c, err)
		return
	}
	session, err := api.manager.Start(c.Request.Context(), dogapp.LoginInput{Name: payload.Name, Email: payload.Email})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	api.setCookie(c, session.ID(), 0)
	c.JSON(http.StatusCreated, SessionInfo{Name: session.Name()})
}

// Get /api/session
// Describe the current session
func (api *SessionAPI) Current(c *gin.Context) {
	session, ok := api.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SessionInfo{Name: session.Name()})
}

// Delete /api/session
// Log out and drop the portal session
func (api *SessionAPI) Logout(c *gin.Context) {
	id, _ := c.Cookie(SessionCookie)
	api.setCookie(c, "", -1)
	if id == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := api.manager.End(c.Request.Context(), id); err != nil && !errors.Is(err, sessionports.ErrNotFound) {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
