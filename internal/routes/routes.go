package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"socialchat/internal/handlers"
	"socialchat/internal/middleware"
	"socialchat/internal/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Group        *handlers.GroupHandler
	Contact      *handlers.ContactHandler
	Notification *handlers.NotificationHandler
	Chat         *handlers.ChatHandler
	Post         *handlers.PostHandler
	Office       *handlers.OfficeHandler
	Health       *handlers.HealthHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, parser middleware.TokenParser) *gin.Engine {
	// ---- public
	r.GET("/healthz", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// ---- protected
	api := r.Group("/", middleware.AuthMiddleware(parser))

	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/ws", h.Chat.Stream)

	// USERS
	users := api.Group("/users")
	{
		users.GET("", h.User.List)
		users.GET("/current", h.User.Current)
		users.PATCH("/current", h.User.UpdateCurrent)
		users.PATCH("/current/password", h.User.ChangePassword)
		users.PUT("/current/telegram", h.User.LinkTelegram)
		users.GET("/:id", h.User.GetByID)
	}

	// GROUPS
	groups := api.Group("/groups")
	{
		groups.POST("", h.Group.Create)
		groups.GET("", h.Group.List)
		groups.GET("/:id", h.Group.Get)
		groups.PUT("/:id", h.Group.Update)
		groups.DELETE("/:id", h.Group.Delete)
		groups.POST("/:id/members", h.Group.AddMembers)
		groups.DELETE("/:id/members", h.Group.RemoveMembers)
		groups.PUT("/:id/members/role", h.Group.EditRole)
		groups.POST("/:id/leave", h.Group.Leave)
		groups.GET("/:id/posts", h.Post.ListInGroup)
		groups.POST("/:id/posts", h.Post.CreateInGroup)
	}

	// CONTACTS
	contacts := api.Group("/contacts")
	{
		contacts.POST("", h.Contact.Request)
		contacts.GET("", h.Contact.List)
		contacts.GET("/pending", h.Contact.Pending)
		contacts.GET("/friends", h.Contact.Friends)
		contacts.POST("/:id/accept", h.Contact.Accept)
		contacts.POST("/:id/reject", h.Contact.Reject)
		contacts.DELETE("/:id", h.Contact.Remove)
	}

	// NOTIFICATIONS
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.PUT("/read-all", h.Notification.MarkAllRead)
		notifications.DELETE("", h.Notification.DeleteAll)
		notifications.GET("/:id", h.Notification.Get)
		notifications.PUT("/:id/read", h.Notification.MarkRead)
		notifications.DELETE("/:id", h.Notification.Delete)
	}

	// CHAT
	chatGroups := api.Group("/chat-groups")
	{
		chatGroups.POST("", h.Chat.CreateChatGroup)
		chatGroups.GET("", h.Chat.ListChatGroups)
		chatGroups.GET("/:id", h.Chat.GetChatGroup)
		chatGroups.GET("/:id/messages", h.Chat.GroupMessages)
	}
	messages := api.Group("/messages")
	{
		messages.POST("", h.Chat.Send)
		messages.GET("/direct/:userId", h.Chat.DirectMessages)
		messages.GET("/export", h.Chat.Export)
	}

	// POSTS
	posts := api.Group("/posts")
	{
		posts.GET("/:id", h.Post.Get)
		posts.DELETE("/:id", h.Post.Delete)
		posts.GET("/:id/comments", h.Post.Comments)
		posts.POST("/:id/comments", h.Post.Comment)
		posts.POST("/:id/reactions", h.Post.ReactToPost)
	}
	api.POST("/comments/:id/reactions", h.Post.ReactToComment)

	// OFFICES
	offices := api.Group("/offices")
	{
		offices.POST("", middleware.RequireRoles(models.RoleAdmin), h.Office.Create)
		offices.GET("/:id/children", h.Office.Children)
		offices.GET("/:id/subtree", h.Office.Subtree)
		offices.GET("/:id/ancestors", h.Office.Ancestors)
	}

	return r
}
