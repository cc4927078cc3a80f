package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"debate_room/internal/models"
)

const chatTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// room 持有一個房間的所有子元件。
// mu 串行化同一房間的變更和事件發送，使事件順序等於變更順序。
type room struct {
	mu        sync.Mutex
	closed    bool
	status    *RoomStatusMachine
	registry  *ParticipantRegistry
	arguments *ArgumentLog
	tally     *VoteTally
}

// RoomService 是房間會話引擎：記憶體中房間狀態的唯一權威來源。
// 不同房間的操作不會互相阻塞，引擎的 map 鎖只在查找、建立和刪除時持有。
type RoomService struct {
	mu    sync.RWMutex
	rooms map[string]*room

	topics TopicSource
	events EventSink
	now    func() time.Time
	newID  func() string
}

type Option func(*RoomService)

// WithClock 替換引擎使用的時鐘
func WithClock(now func() time.Time) Option {
	return func(s *RoomService) { s.now = now }
}

// WithIDGenerator 替換房間 ID 的生成方式
func WithIDGenerator(newID func() string) Option {
	return func(s *RoomService) { s.newID = newID }
}

func NewRoomService(topics TopicSource, events EventSink, opts ...Option) *RoomService {
	s := &RoomService{
		rooms:  make(map[string]*room),
		topics: topics,
		events: events,
		now:    time.Now,
		newID:  newRoomID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newRoomID 取 uuid 的前 8 個字元作為房間 ID
func newRoomID() string {
	return uuid.NewString()[:8]
}

// CreateRoom 取得主題後建立新房間。取得主題時不持有任何鎖。
func (s *RoomService) CreateRoom(ctx context.Context) (models.RoomSnapshot, error) {
	title, err := s.topics.Topic(ctx)
	if err != nil {
		if errors.Is(err, ErrTopicUnavailable) {
			return models.RoomSnapshot{}, fmt.Errorf("create room: %w", err)
		}
		return models.RoomSnapshot{}, fmt.Errorf("create room: %w: %w", ErrTopicUnavailable, err)
	}
	if title == "" {
		return models.RoomSnapshot{}, fmt.Errorf("create room: %w", ErrTopicUnavailable)
	}

	s.mu.Lock()
	id := s.newID()
	for s.rooms[id] != nil {
		id = s.newID()
	}
	r := &room{
		registry:  NewParticipantRegistry(),
		arguments: NewArgumentLog(s.now),
		status:    NewRoomStatusMachine(id, title, s.now),
		tally:     NewVoteTally(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s.rooms[id] = r
	s.mu.Unlock()

	snapshot := r.status.Snapshot()
	log.Info().Str("module", "service.room").Str("room", id).Str("topic", title).Msg("room created")
	s.emit(StatusChanged{Snapshot: snapshot})
	return snapshot, nil
}

func (s *RoomService) GetRoomStatus(roomID string) (models.RoomSnapshot, error) {
	r := s.lookup(roomID)
	if r == nil {
		return models.RoomSnapshot{}, ErrRoomNotFound
	}
	return r.status.Snapshot(), nil
}

// GetParticipants 返回參與者列表，房間不存在時返回空列表
func (s *RoomService) GetParticipants(roomID string) []models.Participant {
	r := s.lookup(roomID)
	if r == nil {
		return []models.Participant{}
	}
	return r.registry.List()
}

// UpsertParticipant 新增或更新參與者並返回完整列表
func (s *RoomService) UpsertParticipant(roomID string, p models.Participant) ([]models.Participant, error) {
	r, err := s.lockLive(roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	list := r.registry.Upsert(p)
	log.Debug().Str("module", "service.room").Str("room", roomID).Str("participant", p.ID).Msg("participant upserted")
	s.emit(ParticipantsChanged{Room: roomID, Participants: list})
	return list, nil
}

// RemoveParticipant 移除參與者。若房間因此變空，房間會被銷毀，
// 返回 closed == true 而不是列表，呼叫者不應再向這個房間廣播。
func (s *RoomService) RemoveParticipant(roomID, participantID string) (remaining []models.Participant, closed bool, err error) {
	r, err := s.lockLive(roomID)
	if err != nil {
		return nil, false, err
	}
	defer r.mu.Unlock()

	list := r.registry.Remove(participantID)
	if len(list) > 0 {
		log.Debug().Str("module", "service.room").Str("room", roomID).Str("participant", participantID).Msg("participant removed")
		s.emit(ParticipantsChanged{Room: roomID, Participants: list})
		return list, false, nil
	}

	r.closed = true
	s.mu.Lock()
	delete(s.rooms, roomID)
	s.mu.Unlock()

	log.Info().Str("module", "service.room").Str("room", roomID).Msg("room is empty and has been removed")
	s.emit(RoomClosed{Room: roomID})
	return nil, true, nil
}

// SubmitChatMessage 為消息加上伺服器時間後轉發，不做保存
func (s *RoomService) SubmitChatMessage(roomID string, msg models.ChatMessage) models.ChatMessage {
	if r := s.lookup(roomID); r != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	msg.RoomID = roomID
	msg.Timestamp = s.now().UTC().Format(chatTimeLayout)
	s.emit(ChatRelayed{Message: msg})
	return msg
}

// UpdateStatus 套用狀態機並返回權威快照，客戶端提供的衍生欄位一律忽略
func (s *RoomService) UpdateStatus(roomID string, req models.StatusRequest) (models.RoomSnapshot, error) {
	if !req.Type.Valid() {
		return models.RoomSnapshot{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, req.Type)
	}

	r, err := s.lockLive(roomID)
	if err != nil {
		return models.RoomSnapshot{}, err
	}
	defer r.mu.Unlock()

	snapshot := r.status.Apply(req)
	log.Info().Str("module", "service.room").Str("room", roomID).Str("status", string(snapshot.Type)).Msg("status updated")
	s.emit(StatusChanged{Snapshot: snapshot})
	return snapshot, nil
}

// SubmitArgument 由伺服器分配 ID 和時間戳，並把論點追加到房間記錄
func (s *RoomService) SubmitArgument(roomID, participantID, side, text string) (models.Argument, error) {
	r, err := s.lockLive(roomID)
	if err != nil {
		return models.Argument{}, err
	}
	defer r.mu.Unlock()

	p, ok := r.registry.Get(participantID)
	if !ok {
		return models.Argument{}, fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}

	arg := r.arguments.Append(models.Argument{
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
		Side:            side,
		Text:            text,
	})
	log.Debug().Str("module", "service.room").Str("room", roomID).Str("argument", arg.ID).Msg("argument added")
	s.emit(ArgumentAdded{Room: roomID, Argument: arg})
	return arg, nil
}

// GetArguments 返回論點列表，最舊的在前
func (s *RoomService) GetArguments(roomID string) ([]models.Argument, error) {
	r := s.lookup(roomID)
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r.arguments.List(), nil
}

// RecordVote 為 side 加一票並返回房間的完整票數。
// 投票桶隨房間建立、隨房間銷毀，不存在的房間不會留下投票桶。
func (s *RoomService) RecordVote(roomID, side string) (models.VoteRecord, error) {
	r, err := s.lockLive(roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	record := r.tally.Increment(side)
	log.Debug().Str("module", "service.room").Str("room", roomID).Str("side", side).Msg("vote recorded")
	s.emit(VoteTallyChanged{Room: roomID, Tally: record})
	return record, nil
}

// GetVoteResults 返回票數；房間不存在時返回 {for: 0, against: 0}
func (s *RoomService) GetVoteResults(roomID string) models.VoteRecord {
	r := s.lookup(roomID)
	if r == nil {
		return models.NewVoteRecord()
	}
	return r.tally.Snapshot()
}

// ListActiveRoomIDs 返回所有存活房間的 ID（已排序）
func (s *RoomService) ListActiveRoomIDs() []string {
	s.mu.RLock()
	ids := lo.Keys(s.rooms)
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (s *RoomService) lookup(roomID string) *room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[roomID]
}

// lockLive 返回已上鎖且尚未銷毀的房間
func (s *RoomService) lockLive(roomID string) (*room, error) {
	r := s.lookup(roomID)
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return r, nil
}

func (s *RoomService) emit(e Event) {
	if s.events != nil {
		s.events.Consume(e)
	}
}
