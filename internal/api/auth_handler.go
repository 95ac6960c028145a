package api

import (
	"errors"
	"net/http"

	"vfcarvalho/meu-treino/internal/identity"
	"vfcarvalho/meu-treino/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthHandler serves the unauthenticated screen and the sign-in /
// sign-up / sign-out actions.
type AuthHandler struct {
	authService service.AuthService
	cookieName  string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName}
}

// --- Request Structs ---

type credentialsForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// loginPageData feeds the login template. LoginError/SignupError render
// inside the respective tab; Notice is the green "account created" banner.
type loginPageData struct {
	Email       string
	SignupEmail string
	LoginError  string
	SignupError string
	Notice      string
}

// --- Handler Methods ---

// ShowLogin renders the unauthenticated screen.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login", loginPageData{})
}

// Login handles the sign-in form. On success the session cookie is set
// and the browser is redirected to the home screen; on failure the login
// screen re-renders with the provider's message and no state changes.
func (h *AuthHandler) Login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login", loginPageData{LoginError: "invalid form submission"})
		return
	}

	token, _, err := h.authService.SignIn(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login", loginPageData{
			Email:      form.Email,
			LoginError: signInErrorMessage(err),
		})
		return
	}

	c.SetCookie(h.cookieName, token, 0, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// Signup handles the create-account form. Success does not sign the user
// in; they are sent back to the login tab with a notice.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login", loginPageData{SignupError: "invalid form submission"})
		return
	}

	if err := h.authService.Register(c.Request.Context(), form.Email, form.Password); err != nil {
		c.HTML(http.StatusBadRequest, "login", loginPageData{
			SignupEmail: form.Email,
			SignupError: signInErrorMessage(err),
		})
		return
	}

	c.HTML(http.StatusOK, "login", loginPageData{
		Email:  form.Email,
		Notice: "Account created! You can sign in now.",
	})
}

// Logout destroys the session and returns to the login screen.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		h.authService.SignOut(token)
	}
	clearSessionCookie(c, h.cookieName)
	c.Redirect(http.StatusFound, "/login")
}

// signInErrorMessage maps auth errors to what the user sees. Provider
// rejections carry the provider's own message verbatim; anything else is
// a transport problem and gets a generic line.
func signInErrorMessage(err error) string {
	var authErr *identity.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	if errors.Is(err, service.ErrEmptyCredentials) {
		return err.Error()
	}
	log.Error().Err(err).Msg("identity provider unreachable")
	return "could not reach the authentication service, please try again"
}
