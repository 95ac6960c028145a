package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"vfcarvalho/meu-treino/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextUserIDKey       = "userID"
	ContextUserEmailKey    = "userEmail"
	ContextSessionTokenKey = "sessionToken"
)

// SessionMiddleware resolves the session cookie and gates the
// authenticated screens. Requests without a live session are redirected
// to the login screen (JSON endpoints get a 401 instead). A session whose
// idToken has expired is destroyed on the spot: the design has no silent
// refresh, the user signs in again.
func SessionMiddleware(authService service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			rejectUnauthenticated(c, cookieName)
			return
		}

		sess, ok := authService.Session(token)
		if !ok {
			rejectUnauthenticated(c, cookieName)
			return
		}

		if idTokenExpired(sess.IDToken) {
			authService.SignOut(token)
			rejectUnauthenticated(c, cookieName)
			return
		}

		c.Set(ContextUserIDKey, sess.UserID)
		c.Set(ContextUserEmailKey, sess.Email)
		c.Set(ContextSessionTokenKey, token)

		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in users from the login screen to
// the home screen. The router only ever shows one of the two.
func RedirectIfAuthenticated(authService service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if _, ok := authService.Session(token); ok {
				c.Redirect(http.StatusFound, "/")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

func rejectUnauthenticated(c *gin.Context, cookieName string) {
	clearSessionCookie(c, cookieName)
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		abortWithError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// idTokenExpired reads the exp claim of the provider-issued idToken. The
// parse is unverified: the token is signed by the provider and we only
// need the deadline, not a trust decision.
func idTokenExpired(idToken string) bool {
	if idToken == "" {
		return false
	}
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		// A token we cannot parse has no readable deadline; leave the
		// provider to reject it on the next privileged call.
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now())
}

func clearSessionCookie(c *gin.Context, cookieName string) {
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

func getUserEmailFromContext(c *gin.Context) string {
	emailRaw, exists := c.Get(ContextUserEmailKey)
	if !exists {
		return ""
	}
	email, _ := emailRaw.(string)
	return email
}
