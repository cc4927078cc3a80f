package repository

import "debate_room/internal/storage"

type Repositories struct {
	Topic       TopicRepository
	Room        RoomRepository
	Participant ParticipantRepository
	Argument    ArgumentRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Topic:       NewTopicRepository(db),
		Room:        NewRoomRepository(db),
		Participant: NewParticipantRepository(db),
		Argument:    NewArgumentRepository(db),
	}
}
