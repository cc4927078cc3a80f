package service

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"debate_room/internal/models"
)

// DisconnectReconciler 在傳輸層斷線時把對應的參與者移出房間
type DisconnectReconciler struct {
	rooms *RoomService
}

func NewDisconnectReconciler(rooms *RoomService) *DisconnectReconciler {
	return &DisconnectReconciler{rooms: rooms}
}

// Reconcile 掃描所有存活房間，移除 ID 等於 connectionID 的參與者。
// 每個匹配的房間都會處理，返回受影響的房間 ID；沒有匹配時什麼都不做。
func (r *DisconnectReconciler) Reconcile(connectionID string) []string {
	var affected []string
	for _, roomID := range r.rooms.ListActiveRoomIDs() {
		p, ok := lo.Find(r.rooms.GetParticipants(roomID), func(p models.Participant) bool {
			return p.ID == connectionID
		})
		if !ok {
			continue
		}

		_, closed, err := r.rooms.RemoveParticipant(roomID, p.ID)
		if err != nil {
			// 房間在掃描期間已被銷毀
			continue
		}
		affected = append(affected, roomID)
		log.Info().Str("module", "service.reconcile").Str("room", roomID).Str("participant", p.ID).Str("name", p.Name).
			Msg("participant auto-left room due to disconnect")

		if !closed {
			r.rooms.SubmitChatMessage(roomID, models.NewSystemMessage(roomID, models.ChatTypeLeave, p.Name+" left the room."))
		}
	}
	return affected
}
