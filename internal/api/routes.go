package api

import (
	"net/http"

	"vfcarvalho/meu-treino/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the two screens and their actions. The session
// middleware is the router of the spec: no session means everything
// funnels to /login, a session means /login funnels to /.
func SetupRoutes(
	router *gin.Engine,
	cookieName string,
	authService service.AuthService,
	userService service.UserService,
	exerciseService service.ExerciseService,
) {
	router.SetHTMLTemplate(LoadTemplates())

	authHandler := NewAuthHandler(authService, cookieName)
	exerciseHandler := NewExerciseHandler(exerciseService, userService)
	videoHandler := NewVideoHandler(exerciseService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Unauthenticated screen
	router.GET("/login", RedirectIfAuthenticated(authService, cookieName), authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.POST("/signup", authHandler.Signup)
	router.POST("/logout", authHandler.Logout)

	// Authenticated screen
	protected := router.Group("")
	protected.Use(SessionMiddleware(authService, cookieName))
	{
		protected.GET("/", exerciseHandler.Home)
		protected.POST("/exercises", exerciseHandler.CreateExercise)
		protected.POST("/exercises/:id/done", exerciseHandler.CompleteExercise)
		protected.POST("/exercises/:id/delete", exerciseHandler.DeleteExercise)

		// Video upload flow (JSON; 404s when storage is not configured)
		protected.POST("/api/exercises/:id/video", videoHandler.RequestUpload)
		protected.POST("/api/exercises/:id/video/confirm", videoHandler.ConfirmUpload)
	}
}
