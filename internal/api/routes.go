package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"debate_room/internal/api/handlers"
	"debate_room/internal/middleware"
	"debate_room/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	roomHandler := handlers.NewRoomHandler(services.RoomService)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketService)

	r.Use(middleware.RequestLogger(), middleware.CORS())

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// WebSocket 連接點
	r.GET("/ws", wsHandler.HandleWebSocket)

	// API 路由群組
	api := r.Group("/api")
	{
		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"clients": services.WebSocketService.ClientCount(),
			})
		})

		rooms := api.Group("/rooms")
		{
			rooms.GET("", roomHandler.ListRooms)                        // 存活房間列表
			rooms.POST("/create", roomHandler.CreateRoom)               // 創建房間
			rooms.GET("/:id/status", roomHandler.GetRoomStatus)         // 房間狀態
			rooms.GET("/:id/participants", roomHandler.GetParticipants) // 參與者列表
			rooms.GET("/:id/vote-results", roomHandler.GetVoteResults)  // 投票結果
			rooms.GET("/:id/arguments", roomHandler.GetArguments)       // 論點列表
		}
	}
}
