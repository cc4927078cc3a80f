package service

import (
	"sync"

	"debate_room/internal/models"
)

// VoteTally 記錄房間內各方的票數
type VoteTally struct {
	mu     sync.Mutex
	counts models.VoteRecord
}

func NewVoteTally() *VoteTally {
	return &VoteTally{counts: models.NewVoteRecord()}
}

// Increment 為 side 加一票，返回加票後的完整票數
func (t *VoteTally) Increment(side string) models.VoteRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[side]++
	return t.snapshotLocked()
}

func (t *VoteTally) Snapshot() models.VoteRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *VoteTally) snapshotLocked() models.VoteRecord {
	out := make(models.VoteRecord, len(t.counts))
	for side, n := range t.counts {
		out[side] = n
	}
	return out
}
