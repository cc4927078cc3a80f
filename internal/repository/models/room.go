package models

import "time"

// Room 是房間狀態在資料庫中的鏡像，只寫不讀回引擎
type Room struct {
	ID              string `gorm:"primaryKey;size:36"`
	TopicTitle      string `gorm:"type:text"`
	Status          string `gorm:"type:varchar(20)"`
	Message         string `gorm:"type:text"`
	StartTime       int64
	DurationSeconds int64
	VotesFor        int
	VotesAgainst    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Participant 是房間參與者的鏡像，主鍵為 (ID, RoomID)
type Participant struct {
	ID       string `gorm:"primaryKey;size:64"`
	RoomID   string `gorm:"primaryKey;size:36"`
	Name     string
	Side     string `gorm:"type:varchar(10)"`
	Color    string `gorm:"type:varchar(50)"`
	Position int
}

// Argument 是已提交論點的鏡像
type Argument struct {
	ID              string `gorm:"primaryKey;size:36"`
	RoomID          string `gorm:"index;size:36"`
	ParticipantID   string `gorm:"size:64"`
	ParticipantName string
	Side            string `gorm:"type:varchar(10)"`
	Text            string `gorm:"type:text"`
	Timestamp       int64  `gorm:"index"`
}
