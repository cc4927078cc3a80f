package service

import (
	"sync"

	"debate_room/internal/models"
)

// ParticipantRegistry 保存房間內的參與者，按加入順序排列
type ParticipantRegistry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.Participant
}

func NewParticipantRegistry() *ParticipantRegistry {
	return &ParticipantRegistry{byID: make(map[string]models.Participant)}
}

// Upsert 新增或覆蓋參與者（以最後一次寫入為準），返回目前的列表
func (r *ParticipantRegistry) Upsert(p models.Participant) []models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[p.ID]; ok {
		existing.Name = p.Name
		existing.Side = p.Side
		existing.Color = p.Color
		r.byID[p.ID] = existing
	} else {
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r.listLocked()
}

// Remove 移除參與者，不存在時不做任何事；返回剩下的列表
func (r *ParticipantRegistry) Remove(id string) []models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; ok {
		delete(r.byID, id)
		for i, pid := range r.order {
			if pid == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	return r.listLocked()
}

func (r *ParticipantRegistry) Get(id string) (models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

// List 返回參與者列表的副本
func (r *ParticipantRegistry) List() []models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *ParticipantRegistry) listLocked() []models.Participant {
	out := make([]models.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
