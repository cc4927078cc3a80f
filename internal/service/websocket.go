package service

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"debate_room/pkg/config"
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrBackpressure     = errors.New("send queue full")
)

// OutboundFrame 是伺服器推送到主題訂閱者的消息
type OutboundFrame struct {
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// ControlFrame 是傳輸層自身的消息（連線歡迎、錯誤、訂閱確認）
type ControlFrame struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId,omitempty"`
	Topic        string `json:"topic,omitempty"`
	Error        string `json:"error,omitempty"`
}

// InboundHandler 處理房間範圍的客戶端事件和斷線通知
type InboundHandler interface {
	HandleMessage(conn Connection, data []byte)
	HandleDisconnect(connectionID string)
}

// Connection 是閘道看到的連線：一個穩定的 ID 加上發送能力
type Connection interface {
	ConnectionID() string
	SendJSON(v any) error
}

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	ID       string          // 連線 ID，同時作為參與者 ID
	Conn     *websocket.Conn // WebSocket 連接
	SendChan chan []byte     // 消息發送通道，用於異步傳送消息

	mu     sync.RWMutex
	closed bool
}

func NewClient(conn *websocket.Conn, buffer int) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Conn:     conn,
		SendChan: make(chan []byte, buffer),
	}
}

func (c *Client) ConnectionID() string { return c.ID }

// SendJSON 編碼後放入發送隊列，隊列已滿時返回 ErrBackpressure
func (c *Client) SendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.trySend(data)
}

func (c *Client) trySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.SendChan <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.SendChan)
}

// WebSocketService 管理所有的 WebSocket 連接和主題訂閱，
// 並作為 EventSink 把領域事件廣播給訂閱者。
type WebSocketService struct {
	clients    map[*Client]bool            // 所有在線客戶端
	topics     map[string]map[*Client]bool // topic -> client -> bool
	clientsMux sync.RWMutex                // 保護 clients 和 topics 的讀寫鎖

	handler InboundHandler
	cfg     config.WebSocketConfig
}

// NewWebSocketService 創建並初始化新的 WebSocket 服務
func NewWebSocketService(cfg config.WebSocketConfig) *WebSocketService {
	return &WebSocketService{
		clients: make(map[*Client]bool),
		topics:  make(map[string]map[*Client]bool),
		cfg:     cfg,
	}
}

// SetHandler 設定入站事件的處理者
func (s *WebSocketService) SetHandler(h InboundHandler) {
	s.handler = h
}

// HandleConnection 處理新的 WebSocket 連接，直到連接關閉才返回
func (s *WebSocketService) HandleConnection(conn *websocket.Conn) {
	client := NewClient(conn, s.cfg.SendBuffer)
	s.addClient(client)
	log.Info().Str("module", "service.websocket").Str("conn", client.ID).Msg("client connected")

	// 確保連接關閉時清理資源
	defer func() {
		s.removeClient(client)
		conn.Close()
		log.Info().Str("module", "service.websocket").Str("conn", client.ID).Msg("client disconnected")
		if s.handler != nil {
			s.handler.HandleDisconnect(client.ID)
		}
	}()

	_ = client.SendJSON(ControlFrame{Type: "welcome", ConnectionID: client.ID})

	// 啟動讀寫處理
	go s.writePump(client)
	s.readPump(client)
}

// readPump 持續監聽並處理從客戶端接收的消息
func (s *WebSocketService) readPump(client *Client) {
	client.Conn.SetReadLimit(s.cfg.ReadLimit)
	client.Conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("module", "service.websocket").Str("conn", client.ID).Msg("unexpected close")
			}
			break
		}
		s.dispatch(client, message)
	}
}

// dispatch 處理訂閱相關的傳輸層消息，其餘交給 handler
func (s *WebSocketService) dispatch(client *Client, message []byte) {
	var env struct {
		Type  string `json:"type"`
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(message, &env); err != nil {
		log.Warn().Err(err).Str("module", "service.websocket").Msg("message parse error")
		_ = client.SendJSON(ControlFrame{Type: "error", Error: "bad_payload"})
		return
	}

	switch env.Type {
	case "subscribe":
		if env.Topic == "" {
			_ = client.SendJSON(ControlFrame{Type: "error", Error: "topic is required"})
			return
		}
		s.Subscribe(client, env.Topic)
		_ = client.SendJSON(ControlFrame{Type: "subscribed", Topic: env.Topic})
	case "unsubscribe":
		s.Unsubscribe(client, env.Topic)
		_ = client.SendJSON(ControlFrame{Type: "unsubscribed", Topic: env.Topic})
	default:
		if s.handler != nil {
			s.handler.HandleMessage(client, message)
		}
	}
}

// writePump 處理向客戶端發送消息的邏輯
func (s *WebSocketService) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(s.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("module", "service.websocket").Str("conn", client.ID).Msg("write error")
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Consume 實作 EventSink：房間關閉時清除訂閱，其餘事件原樣廣播
func (s *WebSocketService) Consume(e Event) {
	if _, ok := e.(RoomClosed); ok {
		s.dropRoomTopics(e.RoomID())
		return
	}
	if e.Topic() == "" {
		return
	}
	s.Publish(e.Topic(), e.Payload())
}

// Publish 向主題的所有訂閱者廣播消息，隊列已滿的客戶端會被斷開
func (s *WebSocketService) Publish(topic string, payload any) int {
	data, err := json.Marshal(OutboundFrame{Topic: topic, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "service.websocket").Str("topic", topic).Msg("message encoding error")
		return 0
	}

	var sent int
	var slow []*Client
	s.clientsMux.RLock()
	for client := range s.topics[topic] {
		if err := client.trySend(data); err != nil {
			slow = append(slow, client)
			continue
		}
		sent++
	}
	s.clientsMux.RUnlock()

	// 客戶端消息隊列已滿，關閉連接
	for _, client := range slow {
		log.Warn().Str("module", "service.websocket").Str("conn", client.ID).Msg("send queue full, dropping client")
		s.removeClient(client)
	}
	return sent
}

// Subscribe 讓客戶端訂閱主題
func (s *WebSocketService) Subscribe(client *Client, topic string) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if !s.clients[client] {
		return
	}
	if s.topics[topic] == nil {
		s.topics[topic] = make(map[*Client]bool)
	}
	s.topics[topic][client] = true
}

func (s *WebSocketService) Unsubscribe(client *Client, topic string) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()
	s.unsubscribeLocked(client, topic)
}

func (s *WebSocketService) unsubscribeLocked(client *Client, topic string) {
	if subs, ok := s.topics[topic]; ok {
		delete(subs, client)
		// 如果主題沒有訂閱者，刪除主題
		if len(subs) == 0 {
			delete(s.topics, topic)
		}
	}
}

// dropRoomTopics 刪除已關閉房間的所有主題訂閱
func (s *WebSocketService) dropRoomTopics(roomID string) {
	prefix := RoomTopicPrefix(roomID)
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()
	for topic := range s.topics {
		if strings.HasPrefix(topic, prefix) {
			delete(s.topics, topic)
		}
	}
}

// addClient 安全地添加新的客戶端連接
func (s *WebSocketService) addClient(client *Client) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()
	s.clients[client] = true
}

// removeClient 安全地移除客戶端連接及其所有訂閱
func (s *WebSocketService) removeClient(client *Client) {
	s.clientsMux.Lock()
	if s.clients[client] {
		delete(s.clients, client)
		for topic := range s.topics {
			s.unsubscribeLocked(client, topic)
		}
	}
	s.clientsMux.Unlock()
	client.close()
}

// SubscriberCount 獲取指定主題的訂閱者數量
func (s *WebSocketService) SubscriberCount(topic string) int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()
	return len(s.topics[topic])
}

// ClientCount 獲取在線客戶端數量
func (s *WebSocketService) ClientCount() int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()
	return len(s.clients)
}
