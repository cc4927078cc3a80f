package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"debate_room/internal/models"
)

var ErrBadPayload = errors.New("bad payload")

// InboundMessage 是客戶端送來的房間事件
type InboundMessage struct {
	Type        string                `json:"type" validate:"required"`
	RoomID      string                `json:"roomId" validate:"required,max=36"`
	Participant *ParticipantPayload   `json:"participant,omitempty"`
	Message     *ChatPayload          `json:"message,omitempty"`
	Status      *models.StatusRequest `json:"status,omitempty"`
	Vote        *VotePayload          `json:"vote,omitempty"`
	Argument    *ArgumentPayload      `json:"argument,omitempty"`
}

type ParticipantPayload struct {
	Name  string `json:"name" validate:"required,max=36"`
	Side  string `json:"side" validate:"omitempty,oneof=for against none"`
	Color string `json:"color" validate:"max=50"`
}

type ChatPayload struct {
	Type    models.ChatMessageType `json:"type" validate:"omitempty,oneof=CHAT JOIN LEAVE STATUS"`
	Content string                 `json:"content" validate:"required,max=2000"`
	Sender  string                 `json:"sender" validate:"max=36"`
}

type VotePayload struct {
	Side string `json:"side" validate:"required,oneof=for against"`
}

type ArgumentPayload struct {
	Side string `json:"side" validate:"required,oneof=for against"`
	Text string `json:"text" validate:"required,max=4000"`
}

// RoomGateway 把入站的客戶端事件轉成引擎調用。
// 參與者 ID 一律使用連線 ID。
type RoomGateway struct {
	rooms      *RoomService
	reconciler *DisconnectReconciler
	validate   *validator.Validate
}

func NewRoomGateway(rooms *RoomService, reconciler *DisconnectReconciler) *RoomGateway {
	return &RoomGateway{
		rooms:      rooms,
		reconciler: reconciler,
		validate:   validator.New(),
	}
}

func (g *RoomGateway) HandleMessage(conn Connection, data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		g.reply(conn, "", fmt.Errorf("%w: %v", ErrBadPayload, err))
		return
	}
	if err := g.Handle(conn.ConnectionID(), msg); err != nil {
		g.reply(conn, msg.Type, err)
	}
}

func (g *RoomGateway) HandleDisconnect(connectionID string) {
	g.reconciler.Reconcile(connectionID)
}

// Handle 驗證並執行一個入站事件，成功時由引擎發出廣播
func (g *RoomGateway) Handle(connectionID string, msg InboundMessage) error {
	if err := g.validate.Struct(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	switch msg.Type {
	case "join":
		if err := g.check(msg.Participant, "participant"); err != nil {
			return err
		}
		side := msg.Participant.Side
		if side == "" {
			side = models.SideNone
		}
		_, err := g.rooms.UpsertParticipant(msg.RoomID, models.Participant{
			ID:    connectionID,
			Name:  msg.Participant.Name,
			Side:  side,
			Color: msg.Participant.Color,
		})
		return err

	case "leave":
		_, _, err := g.rooms.RemoveParticipant(msg.RoomID, connectionID)
		return err

	case "chat.send":
		if err := g.check(msg.Message, "message"); err != nil {
			return err
		}
		chatType := msg.Message.Type
		if chatType == "" {
			chatType = models.ChatTypeChat
		}
		g.rooms.SubmitChatMessage(msg.RoomID, models.ChatMessage{
			Type:    chatType,
			Content: msg.Message.Content,
			Sender:  msg.Message.Sender,
		})
		return nil

	case "status.update":
		if err := g.check(msg.Status, "status"); err != nil {
			return err
		}
		_, err := g.rooms.UpdateStatus(msg.RoomID, *msg.Status)
		return err

	case "vote":
		if err := g.check(msg.Vote, "vote"); err != nil {
			return err
		}
		_, err := g.rooms.RecordVote(msg.RoomID, msg.Vote.Side)
		return err

	case "argument.submit":
		if err := g.check(msg.Argument, "argument"); err != nil {
			return err
		}
		_, err := g.rooms.SubmitArgument(msg.RoomID, connectionID, msg.Argument.Side, msg.Argument.Text)
		return err
	}

	return fmt.Errorf("%w: unknown event type %q", ErrBadPayload, msg.Type)
}

// check 確認 payload 存在並通過驗證
func (g *RoomGateway) check(payload any, name string) error {
	if isNilPayload(payload) {
		return fmt.Errorf("%w: missing %s", ErrBadPayload, name)
	}
	if err := g.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

func isNilPayload(payload any) bool {
	switch p := payload.(type) {
	case *ParticipantPayload:
		return p == nil
	case *ChatPayload:
		return p == nil
	case *models.StatusRequest:
		return p == nil
	case *VotePayload:
		return p == nil
	case *ArgumentPayload:
		return p == nil
	}
	return payload == nil
}

func (g *RoomGateway) reply(conn Connection, eventType string, err error) {
	log.Warn().Err(err).Str("module", "service.gateway").Str("conn", conn.ConnectionID()).Str("type", eventType).
		Msg("inbound event rejected")
	_ = conn.SendJSON(ControlFrame{Type: "error", Error: err.Error()})
}
