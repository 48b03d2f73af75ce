package server

import (
	"github.com/gin-gonic/gin"

	"github.com/rlemos/roombook/internal/handlers"
	"github.com/rlemos/roombook/internal/middleware"
	"github.com/rlemos/roombook/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	sessions *auth.SessionManager,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	roomH *handlers.RoomHandler,
	meetingH *handlers.MeetingHandler,
) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
		authGroup.GET("/check", authH.Check)
		authGroup.GET("/me", middleware.AuthMiddleware(sessions), authH.Me)
	}

	protected := api.Group("", middleware.AuthMiddleware(sessions))
	{
		protected.GET("/users", userH.ListUsers)

		protected.GET("/salas", roomH.ListRooms)
		protected.POST("/salas", roomH.CreateRoom)
		protected.GET("/salas/:id", roomH.GetRoom)
		protected.PUT("/salas/:id", roomH.UpdateRoom)
		protected.DELETE("/salas/:id", roomH.DeleteRoom)

		protected.GET("/reunioes", meetingH.ListMeetings)
		protected.POST("/reunioes", meetingH.CreateMeeting)
		protected.GET("/reunioes/calendario", meetingH.Calendar)
		protected.POST("/reunioes/verificar-conflito", meetingH.CheckConflict)
		protected.GET("/reunioes/:id", meetingH.GetMeeting)
		protected.PUT("/reunioes/:id", meetingH.UpdateMeeting)
		protected.DELETE("/reunioes/:id", meetingH.CancelMeeting)
	}
}
