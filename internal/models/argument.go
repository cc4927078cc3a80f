package models

// Argument 表示參與者提交的一條論點，追加後不可修改
type Argument struct {
	ID              string `json:"id"`
	ParticipantID   string `json:"participantId"`
	ParticipantName string `json:"participantName"`
	Side            string `json:"side"`
	Text            string `json:"text"`
	Timestamp       int64  `json:"timestamp"` // epoch 毫秒
}
