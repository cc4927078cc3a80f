package models

// ChatMessageType 定義聊天消息的類型
type ChatMessageType string

const (
	ChatTypeChat   ChatMessageType = "CHAT"
	ChatTypeJoin   ChatMessageType = "JOIN"
	ChatTypeLeave  ChatMessageType = "LEAVE"
	ChatTypeStatus ChatMessageType = "STATUS"
)

// SystemSender 是系統消息的發送者名稱
const SystemSender = "System"

// ChatMessage 代表一條聊天消息，只做轉發，不會保存
type ChatMessage struct {
	Type      ChatMessageType `json:"type"`
	Content   string          `json:"content"`
	Sender    string          `json:"sender"`
	RoomID    string          `json:"roomId"`
	Timestamp string          `json:"timestamp"` // RFC 3339，由伺服器設定
}

// NewSystemMessage 創建一個新的系統消息
func NewSystemMessage(roomID string, msgType ChatMessageType, content string) ChatMessage {
	return ChatMessage{
		Type:    msgType,
		Content: content,
		Sender:  SystemSender,
		RoomID:  roomID,
	}
}
