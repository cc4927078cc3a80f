package service

import (
	"sync"
	"time"

	"debate_room/internal/models"
)

const defaultWaitingMessage = "Waiting for participants..."

// RoomStatusMachine 管理房間狀態以及開始時間、持續時間等衍生欄位。
// 任何狀態都可以轉換到任何狀態。
type RoomStatusMachine struct {
	mu       sync.Mutex
	now      func() time.Time
	snapshot models.RoomSnapshot
}

func NewRoomStatusMachine(roomID, topic string, now func() time.Time) *RoomStatusMachine {
	return &RoomStatusMachine{
		now: now,
		snapshot: models.RoomSnapshot{
			RoomID:       roomID,
			Type:         models.RoomStatusWaiting,
			Message:      defaultWaitingMessage,
			CurrentTopic: topic,
		},
	}
}

// Apply 套用請求的狀態，返回權威快照。主題一律沿用，訊息照存。
func (m *RoomStatusMachine) Apply(req models.StatusRequest) models.RoomSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.snapshot.Type
	m.snapshot.Type = req.Type
	m.snapshot.Message = req.Message

	switch req.Type {
	case models.RoomStatusStarted:
		if m.snapshot.StartTime == 0 {
			m.snapshot.StartTime = m.now().UnixMilli()
		}
	case models.RoomStatusEnded:
		if prev != models.RoomStatusEnded && m.snapshot.StartTime != 0 {
			m.snapshot.DurationSeconds = (m.now().UnixMilli() - m.snapshot.StartTime) / 1000
		}
	}
	return m.snapshot
}

func (m *RoomStatusMachine) Snapshot() models.RoomSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}
