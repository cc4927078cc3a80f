package models

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "WAITING"
	RoomStatusStarted RoomStatus = "STARTED"
	RoomStatusPaused  RoomStatus = "PAUSED"
	RoomStatusVoting  RoomStatus = "VOTING"
	RoomStatusEnded   RoomStatus = "ENDED"
)

// Valid 檢查狀態是否為已知的值
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusWaiting, RoomStatusStarted, RoomStatusPaused, RoomStatusVoting, RoomStatusEnded:
		return true
	}
	return false
}

// RoomSnapshot 表示某一時刻房間狀態的完整快照
type RoomSnapshot struct {
	RoomID          string     `json:"roomId"`
	Type            RoomStatus `json:"type"`
	Message         string     `json:"message"`
	CurrentTopic    string     `json:"currentTopic"`
	StartTime       int64      `json:"startTime"`       // epoch 毫秒，尚未開始時為 0
	DurationSeconds int64      `json:"durationSeconds"` // 結束時計算
}

// StatusRequest 是客戶端請求的狀態變更，只有狀態和訊息由客戶端提供
type StatusRequest struct {
	Type    RoomStatus `json:"type" validate:"required,oneof=WAITING STARTED PAUSED VOTING ENDED"`
	Message string     `json:"message"`
}
