package services

import "github.com/yigit/codetrack/internal/pkg/websocket"

// HubNotifier pushes review events to the live connections of a user
type HubNotifier struct {
	hub *websocket.Hub
}

// NewHubNotifier creates a notifier backed by hub
func NewHubNotifier(hub *websocket.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifyUser implements ReviewNotifier
func (n *HubNotifier) NotifyUser(userID int64, event ReviewEvent) {
	n.hub.SendToUser(userID, websocket.Message{
		Type:      event.Type,
		Data:      event,
		Timestamp: event.OccurredAt,
	})
}
