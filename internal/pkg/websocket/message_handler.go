package websocket

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Control message types
const (
	TypePing  = "ping"
	TypePong  = "pong"
	TypeError = "error"
)

// MessageHandler answers the control messages a client may send. The feed is
// server to client, so anything other than a ping is refused.
type MessageHandler struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{logger: logger, now: time.Now}
}

// Handle returns the encoded reply to raw, or nil when there is none
func (h *MessageHandler) Handle(userID int64, raw []byte) []byte {
	if len(raw) == 0 {
		return nil
	}

	var in Message
	if err := json.Unmarshal(raw, &in); err != nil {
		h.logger.Debug().Err(err).Int64("userID", userID).Msg("Malformed client message")
		return h.encode(Message{Type: TypeError, Data: "malformed message"})
	}

	switch in.Type {
	case TypePing:
		return h.encode(Message{Type: TypePong})
	default:
		return h.encode(Message{Type: TypeError, Data: "unsupported message type: " + in.Type})
	}
}

func (h *MessageHandler) encode(msg Message) []byte {
	msg.Timestamp = h.now()
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal reply")
		return nil
	}
	return data
}
