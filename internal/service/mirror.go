package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"debate_room/internal/models"
	"debate_room/internal/repository"
	repomodels "debate_room/internal/repository/models"
)

const mirrorDrainTimeout = 5 * time.Second

// RoomMirror 把領域事件寫入資料庫（write-behind）。
// 鏡像只寫不讀，引擎不依賴它；隊列已滿時事件會被丟棄。
type RoomMirror struct {
	rooms        repository.RoomRepository
	participants repository.ParticipantRepository
	arguments    repository.ArgumentRepository
	queue        chan Event
}

func NewRoomMirror(repos *repository.Repositories, buffer int) *RoomMirror {
	return &RoomMirror{
		rooms:        repos.Room,
		participants: repos.Participant,
		arguments:    repos.Argument,
		queue:        make(chan Event, buffer),
	}
}

// Consume 實作 EventSink，只把事件放入隊列
func (m *RoomMirror) Consume(e Event) {
	if _, ok := e.(ChatRelayed); ok {
		return
	}
	select {
	case m.queue <- e:
	default:
		log.Warn().Str("module", "service.mirror").Str("room", e.RoomID()).Msg("mirror queue full, event dropped")
	}
}

// Run 持續寫入隊列中的事件，ctx 結束後寫完剩餘事件再返回
func (m *RoomMirror) Run(ctx context.Context) error {
	for {
		select {
		case e := <-m.queue:
			m.write(ctx, e)
		case <-ctx.Done():
			m.drain()
			return nil
		}
	}
}

func (m *RoomMirror) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorDrainTimeout)
	defer cancel()
	for {
		select {
		case e := <-m.queue:
			m.write(ctx, e)
		default:
			return
		}
	}
}

func (m *RoomMirror) write(ctx context.Context, e Event) {
	if err := m.Apply(ctx, e); err != nil {
		log.Error().Err(err).Str("module", "service.mirror").Str("room", e.RoomID()).Msg("failed to mirror event")
	}
}

// Apply 把單個事件寫入資料庫
func (m *RoomMirror) Apply(ctx context.Context, e Event) error {
	switch ev := e.(type) {
	case StatusChanged:
		s := ev.Snapshot
		return m.rooms.Upsert(ctx, &repomodels.Room{
			ID:              s.RoomID,
			TopicTitle:      s.CurrentTopic,
			Status:          string(s.Type),
			Message:         s.Message,
			StartTime:       s.StartTime,
			DurationSeconds: s.DurationSeconds,
		})
	case ParticipantsChanged:
		records := lo.Map(ev.Participants, func(p models.Participant, i int) repomodels.Participant {
			return repomodels.Participant{ID: p.ID, RoomID: ev.Room, Name: p.Name, Side: p.Side, Color: p.Color, Position: i}
		})
		return m.participants.ReplaceForRoom(ctx, ev.Room, records)
	case ArgumentAdded:
		a := ev.Argument
		return m.arguments.Create(ctx, &repomodels.Argument{
			ID:              a.ID,
			RoomID:          ev.Room,
			ParticipantID:   a.ParticipantID,
			ParticipantName: a.ParticipantName,
			Side:            a.Side,
			Text:            a.Text,
			Timestamp:       a.Timestamp,
		})
	case VoteTallyChanged:
		return m.rooms.UpdateVotes(ctx, ev.Room, ev.Tally[models.SideFor], ev.Tally[models.SideAgainst])
	case RoomClosed:
		return m.rooms.Delete(ctx, ev.Room)
	}
	return nil
}
