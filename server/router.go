package server

import (
	"courier/auth"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the route table. /auth is public; everything under
// /message and /user requires a valid bearer token. The static
// "/message/group" segment takes priority over the ":groupId" parameter
// for the group-creation and group-listing routes.
func NewRouter(
	tokens auth.TokenManager,
	allowedOrigins []string,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	messageHandler *MessageHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors(allowedOrigins))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	authenticated := auth.Middleware(tokens)

	message := r.Group("/message", authenticated)
	{
		message.POST("", messageHandler.Send)
		message.POST("/image", messageHandler.SendImage)
		message.POST("/retrieve", messageHandler.Retrieve)
		message.POST("/group", messageHandler.CreateGroup)
		message.POST("/:groupId", messageHandler.SendToGroup)
		message.DELETE("/:groupId", messageHandler.DeleteGroup)
		message.GET("/group", messageHandler.ListGroups)
		message.GET("/:groupId", messageHandler.GroupThread)
	}

	user := r.Group("/user", authenticated)
	{
		user.GET("", userHandler.ListOthers)
		user.GET("/profile/:userId", userHandler.Profile)
		user.PUT("/profile", userHandler.UpdateProfile)
		user.POST("/avatar", userHandler.UpdateAvatar)
	}

	return r
}
