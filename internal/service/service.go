package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"debate_room/internal/repository"
	"debate_room/pkg/config"
)

type Services struct {
	RoomService      *RoomService
	WebSocketService *WebSocketService
	Gateway          *RoomGateway
	Mirror           *RoomMirror // 沒有資料庫時為 nil
	Events           *EventBus
}

// NewServices 組裝引擎和它的協作者。repos 為 nil 時只在記憶體中運行。
func NewServices(ctx context.Context, cfg *config.Config, repos *repository.Repositories) *Services {
	events := NewEventBus()
	wsService := NewWebSocketService(cfg.WebSocket)
	events.Add(wsService)

	var mirror *RoomMirror
	if repos != nil && cfg.Mirror.Enabled {
		mirror = NewRoomMirror(repos, cfg.Mirror.Buffer)
		events.Add(mirror)
	}

	roomService := NewRoomService(newTopicSource(ctx, cfg.Topic, repos), events)
	gateway := NewRoomGateway(roomService, NewDisconnectReconciler(roomService))
	wsService.SetHandler(gateway)

	return &Services{
		RoomService:      roomService,
		WebSocketService: wsService,
		Gateway:          gateway,
		Mirror:           mirror,
		Events:           events,
	}
}

// newTopicSource 依序使用 AI 生成、題庫隨機選擇、內建列表
func newTopicSource(ctx context.Context, cfg config.TopicConfig, repos *repository.Repositories) TopicSource {
	var sources []TopicSource
	var catalog repository.TopicRepository
	if repos != nil {
		catalog = repos.Topic
	}

	if cfg.AIEnabled && cfg.AIAPIKey != "" {
		client := &http.Client{Timeout: cfg.AITimeout}
		sources = append(sources, NewGeminiTopicSource(client, cfg.AIAPIURL, cfg.AIAPIKey, catalog))
	}

	if catalog != nil {
		source := NewCatalogTopicSource(catalog)
		if err := source.Seed(ctx, DefaultTopics); err != nil {
			log.Error().Err(err).Str("module", "service").Msg("failed to seed topic catalog")
		}
		sources = append(sources, source)
	}

	sources = append(sources, NewStaticTopicSource(DefaultTopics))
	return NewFallbackTopicSource(sources...)
}
