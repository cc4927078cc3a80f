package service

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"

	"debate_room/internal/repository"
	repomodels "debate_room/internal/repository/models"
)

var errStoreDown = errors.New("store down")

type fakeTopicRepo struct {
	mu     sync.Mutex
	topics []repomodels.Topic
	err    error
}

func (r *fakeTopicRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.topics)), r.err
}

func (r *fakeTopicRepo) FindAll(context.Context) ([]repomodels.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]repomodels.Topic(nil), r.topics...), nil
}

func (r *fakeTopicRepo) Create(_ context.Context, topic *repomodels.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if lo.ContainsBy(r.topics, func(t repomodels.Topic) bool { return t.Title == topic.Title }) {
		return nil
	}
	r.topics = append(r.topics, *topic)
	return nil
}

func (r *fakeTopicRepo) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Map(r.topics, func(t repomodels.Topic, _ int) string { return t.Title })
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]repomodels.Room
	err   error
}

func (r *fakeRoomRepo) Upsert(_ context.Context, room *repomodels.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if existing, ok := r.rooms[room.ID]; ok {
		room.VotesFor, room.VotesAgainst = existing.VotesFor, existing.VotesAgainst
	}
	r.rooms[room.ID] = *room
	return nil
}

func (r *fakeRoomRepo) UpdateVotes(_ context.Context, roomID string, votesFor, votesAgainst int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	room.VotesFor, room.VotesAgainst = votesFor, votesAgainst
	r.rooms[roomID] = room
	return nil
}

func (r *fakeRoomRepo) Delete(_ context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
	return r.err
}

func (r *fakeRoomRepo) Get(id string) (repomodels.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	return room, ok
}

type fakeParticipantRepo struct {
	mu     sync.Mutex
	byRoom map[string][]repomodels.Participant
}

func (r *fakeParticipantRepo) ReplaceForRoom(_ context.Context, roomID string, participants []repomodels.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byRoom[roomID] = participants
	return nil
}

func (r *fakeParticipantRepo) ForRoom(roomID string) []repomodels.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byRoom[roomID]
}

type fakeArgumentRepo struct {
	mu   sync.Mutex
	args []repomodels.Argument
}

func (r *fakeArgumentRepo) Create(_ context.Context, a *repomodels.Argument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.args = append(r.args, *a)
	return nil
}

func (r *fakeArgumentRepo) ForRoom(roomID string) []repomodels.Argument {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Filter(r.args, func(a repomodels.Argument, _ int) bool { return a.RoomID == roomID })
}

type fakeRepos struct {
	topics       *fakeTopicRepo
	rooms        *fakeRoomRepo
	participants *fakeParticipantRepo
	arguments    *fakeArgumentRepo
}

func newFakeRepos() *fakeRepos {
	return &fakeRepos{
		topics:       &fakeTopicRepo{},
		rooms:        &fakeRoomRepo{rooms: make(map[string]repomodels.Room)},
		participants: &fakeParticipantRepo{byRoom: make(map[string][]repomodels.Participant)},
		arguments:    &fakeArgumentRepo{},
	}
}

func (f *fakeRepos) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Topic:       f.topics,
		Room:        f.rooms,
		Participant: f.participants,
		Argument:    f.arguments,
	}
}
