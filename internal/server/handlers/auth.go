package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/firebase"
	"github.com/madspace-uw/madspace/internal/server/middleware"
	"go.uber.org/zap"
)

// AuthPage renders the sign-in page. Signed-in visitors go straight on.
func (h *Handler) AuthPage(c *gin.Context) {
	next := middleware.SafeNext(c.DefaultQuery("next", "/"))
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusSeeOther, next)
		return
	}

	h.render(c, http.StatusOK, "auth", "Sign In", gin.H{
		"Firebase": h.opts.Firebase,
		"Next":     next,
	})
}

// CreateSession exchanges a Firebase ID token for a session cookie.
func (h *Handler) CreateSession(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token is required"})
		return
	}

	cookie, err := h.sessions.CreateSession(c.Request.Context(), req.IDToken, h.opts.SessionTTL)
	if err != nil {
		if errors.Is(err, firebase.ErrStaleSignIn) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.log.Warn("failed to create session", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in failed"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.SessionCookie, cookie, int(h.opts.SessionTTL.Seconds()), "/", "", h.opts.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"status": "signed_in"})
}

// SignOut revokes the user's sessions and clears the cookie.
func (h *Handler) SignOut(c *gin.Context) {
	if cookie, err := c.Cookie(h.opts.SessionCookie); err == nil && cookie != "" {
		h.mw.Forget(cookie)
	}

	if user := middleware.CurrentUser(c); user != nil {
		h.mw.ForgetUser(user.UID)
		if err := h.sessions.RevokeSessions(c.Request.Context(), user.UID); err != nil {
			h.log.Warn("failed to revoke sessions", zap.String("uid", user.UID), zap.Error(err))
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.SessionCookie, "", -1, "/", "", h.opts.SecureCookies, true)
	c.Redirect(http.StatusSeeOther, "/")
}
