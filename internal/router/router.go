package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Zornetta/Chatbot-Barista/internal/auth"
	"github.com/Zornetta/Chatbot-Barista/internal/chat"
	"github.com/Zornetta/Chatbot-Barista/internal/middleware"
)

// Deps are the wired handlers the router mounts. The chat endpoint is
// public; the staff endpoints sit behind token auth and role checks.
type Deps struct {
	Auth  *auth.Handler
	Chat  *chat.Handler
	Admin *chat.AdminHandler

	// AllowOrigins for CORS. Defaults to the local dev front ends.
	AllowOrigins []string
}

func New(deps Deps) *gin.Engine {
	r := gin.Default()

	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", deps.Auth.Register)
		authGroup.POST("/login", deps.Auth.Login)
	}

	r.POST("/chat", deps.Chat.Converse)
	r.DELETE("/chat/sessions/:id", deps.Chat.EndSession)

	staff := r.Group("/admin")
	staff.Use(middleware.AuthMiddleware())
	{
		staff.GET("/orders",
			middleware.RequireRole(auth.RoleAdmin, auth.RoleBarista),
			deps.Admin.ListOrders,
		)
		staff.POST("/menu/reload",
			middleware.RequireRole(auth.RoleAdmin),
			deps.Admin.ReloadMenu,
		)
	}

	return r
}
