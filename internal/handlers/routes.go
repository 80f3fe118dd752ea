package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-bot/internal/middleware"
	"github.com/yukikurage/progress-bot/internal/services"
)

// Routes holds everything the HTTP surface needs.
type Routes struct {
	Webhook       *WebhookHandler
	Admin         *AdminHandler
	Users         *services.UserService
	WebhookSecret string
}

// Register mounts the health check, the chat webhook and the admin API. Session middleware
// must already be installed on r.
func (rt Routes) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Progress bot is running",
		})
	})

	r.POST("/webhook", middleware.RequireWebhookSecret(rt.WebhookSecret), rt.Webhook.HandleEvent)

	admin := r.Group("/api/admin")
	{
		admin.POST("/login", rt.Admin.Login)
		admin.POST("/logout", rt.Admin.Logout)

		protected := admin.Group("")
		protected.Use(middleware.RequireAdmin(rt.Users))
		{
			protected.GET("/projects", rt.Admin.ListProjects)
			protected.GET("/tasks", rt.Admin.ListTasks)
			protected.POST("/reports/daily", rt.Admin.SendDailyReport)
		}
	}
}
