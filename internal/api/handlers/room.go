package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"debate_room/internal/models"
	"debate_room/internal/service"
)

// RoomHandler 處理與辯論房間相關的查詢請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	room, err := h.roomService.CreateRoom(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "api.room").Msg("create room failed")
		if errors.Is(err, service.ErrTopicUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "目前沒有可用的辯論主題"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "創建房間失敗"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// ListRooms 返回所有存活房間的 ID
func (h *RoomHandler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.roomService.ListActiveRoomIDs())
}

// GetRoomStatus 處理獲取房間狀態的請求
func (h *RoomHandler) GetRoomStatus(c *gin.Context) {
	room, err := h.roomService.GetRoomStatus(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// GetParticipants 處理獲取參與者列表的請求
func (h *RoomHandler) GetParticipants(c *gin.Context) {
	roomID := c.Param("id")
	if _, err := h.roomService.GetRoomStatus(roomID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}

	c.JSON(http.StatusOK, h.roomService.GetParticipants(roomID))
}

// GetVoteResults 返回投票結果，房間不存在時返回零票而不是 404
func (h *RoomHandler) GetVoteResults(c *gin.Context) {
	roomID := c.Param("id")
	c.JSON(http.StatusOK, models.VoteResults{
		RoomID:  roomID,
		Results: h.roomService.GetVoteResults(roomID),
	})
}

// GetArguments 返回房間內的論點，最舊的在前
func (h *RoomHandler) GetArguments(c *gin.Context) {
	arguments, err := h.roomService.GetArguments(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}

	c.JSON(http.StatusOK, arguments)
}
