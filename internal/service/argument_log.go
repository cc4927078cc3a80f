package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"debate_room/internal/models"
)

// ArgumentLog 是房間內只能追加的論點序列
type ArgumentLog struct {
	mu    sync.RWMutex
	now   func() time.Time
	items []models.Argument
}

func NewArgumentLog(now func() time.Time) *ArgumentLog {
	return &ArgumentLog{now: now}
}

// Append 在鎖內分配 ID 和時間戳，保證時間戳不遞減且順序等於到達順序
func (l *ArgumentLog) Append(arg models.Argument) models.Argument {
	l.mu.Lock()
	defer l.mu.Unlock()

	arg.ID = uuid.NewString()
	arg.Timestamp = l.now().UnixMilli()
	if n := len(l.items); n > 0 && arg.Timestamp < l.items[n-1].Timestamp {
		arg.Timestamp = l.items[n-1].Timestamp
	}
	l.items = append(l.items, arg)
	return arg
}

// List 返回論點副本，最舊的在前
func (l *ArgumentLog) List() []models.Argument {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Argument, len(l.items))
	copy(out, l.items)
	return out
}
