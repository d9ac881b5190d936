package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hivedesk/internal/handlers"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	categoryHandler *handlers.CategoryHandler,
	noteHandler *handlers.NoteHandler,
	requireAuth gin.HandlerFunc,
	apiMiddleware ...gin.HandlerFunc,
) *gin.Engine {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "HiveDesk API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api", apiMiddleware...)

	// ---- public
	auth := api.Group("/auth")
	{
		auth.POST("/send-otp", authHandler.SendOTP)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/signin", authHandler.SignIn)
	}

	// ---- protected
	private := api.Group("", requireAuth)
	{
		private.GET("/auth/me", authHandler.Me)
		private.POST("/auth/signout", authHandler.SignOut)
	}

	categories := private.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.GET("/stats", categoryHandler.Stats)
		categories.GET("/:id", categoryHandler.Get)
		categories.POST("", categoryHandler.Create)
		categories.PUT("/:id", categoryHandler.Update)
		categories.DELETE("/:id", categoryHandler.Delete)
	}

	notes := private.Group("/notes")
	{
		notes.GET("", noteHandler.List)
		notes.GET("/search", noteHandler.Search)
		notes.GET("/:id", noteHandler.Get)
		notes.GET("/:id/export", noteHandler.Export)
		notes.POST("", noteHandler.Create)
		notes.PUT("/:id", noteHandler.Update)
		notes.DELETE("/:id", noteHandler.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	return r
}
