package service

import (
	"fmt"
	"sync"

	"debate_room/internal/models"
)

const (
	TopicParticipants = "participants"
	TopicChat         = "chat"
	TopicStatus       = "status"
	TopicVoteResults  = "vote-results"
	TopicArgumentNew  = "argument.new"
)

// RoomTopic 返回房間範圍的廣播主題，例如 room/ab12cd34/chat
func RoomTopic(roomID, name string) string {
	return fmt.Sprintf("room/%s/%s", roomID, name)
}

// RoomTopicPrefix 返回房間所有主題的共同前綴
func RoomTopicPrefix(roomID string) string {
	return fmt.Sprintf("room/%s/", roomID)
}

// Event 是引擎在狀態變更後發出的領域事件。
// Topic 為空表示這個事件不需要廣播。
type Event interface {
	RoomID() string
	Topic() string
	Payload() any
}

type ParticipantsChanged struct {
	Room         string
	Participants []models.Participant
}

func (e ParticipantsChanged) RoomID() string { return e.Room }
func (e ParticipantsChanged) Topic() string  { return RoomTopic(e.Room, TopicParticipants) }
func (e ParticipantsChanged) Payload() any   { return e.Participants }

type StatusChanged struct {
	Snapshot models.RoomSnapshot
}

func (e StatusChanged) RoomID() string { return e.Snapshot.RoomID }
func (e StatusChanged) Topic() string  { return RoomTopic(e.Snapshot.RoomID, TopicStatus) }
func (e StatusChanged) Payload() any   { return e.Snapshot }

type ChatRelayed struct {
	Message models.ChatMessage
}

func (e ChatRelayed) RoomID() string { return e.Message.RoomID }
func (e ChatRelayed) Topic() string  { return RoomTopic(e.Message.RoomID, TopicChat) }
func (e ChatRelayed) Payload() any   { return e.Message }

type ArgumentAdded struct {
	Room     string
	Argument models.Argument
}

func (e ArgumentAdded) RoomID() string { return e.Room }
func (e ArgumentAdded) Topic() string  { return RoomTopic(e.Room, TopicArgumentNew) }
func (e ArgumentAdded) Payload() any   { return e.Argument }

type VoteTallyChanged struct {
	Room  string
	Tally models.VoteRecord
}

func (e VoteTallyChanged) RoomID() string { return e.Room }
func (e VoteTallyChanged) Topic() string  { return RoomTopic(e.Room, TopicVoteResults) }
func (e VoteTallyChanged) Payload() any   { return e.Tally }

// RoomClosed 在最後一位參與者離開、房間被銷毀後發出，不做廣播
type RoomClosed struct {
	Room string
}

func (e RoomClosed) RoomID() string { return e.Room }
func (e RoomClosed) Topic() string  { return "" }
func (e RoomClosed) Payload() any   { return nil }

// EventSink 消費領域事件。Consume 在房間鎖內被調用，實作不得阻塞。
type EventSink interface {
	Consume(Event)
}

// EventSinkFunc 讓普通函數實作 EventSink
type EventSinkFunc func(Event)

func (f EventSinkFunc) Consume(e Event) { f(e) }

// EventBus 把每個事件依序交給所有 sink
type EventBus struct {
	mu    sync.RWMutex
	sinks []EventSink
}

func NewEventBus(sinks ...EventSink) *EventBus {
	return &EventBus{sinks: sinks}
}

func (b *EventBus) Add(sink EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, sink)
}

func (b *EventBus) Consume(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sink := range b.sinks {
		sink.Consume(e)
	}
}
