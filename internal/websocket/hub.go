package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a change notification pushed to clients when a chore or group
// mutates. Clients use it to refresh their dashboards.
type Message struct {
	Type    string         `json:"type"`
	Entity  string         `json:"entity"`
	Action  string         `json:"action"`
	ID      int64          `json:"id,omitempty"`
	GroupID int64          `json:"group_id,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action string, id int64, extra map[string]any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// MembershipResolver answers who belongs to a group at delivery time, so an
// event never reaches users outside the affected group.
type MembershipResolver interface {
	MemberUserIDs(groupID int64) ([]int64, error)
}

// Hub maintains the set of active WebSocket clients and delivers group
// events to the members of the affected group. A user may hold several
// connections (phone and kiosk); each gets its own client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	members MembershipResolver
	logger  *slog.Logger
}

// NewHub creates a Hub that resolves group membership through members.
func NewHub(members MembershipResolver, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		members: members,
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// BroadcastGroup delivers the message to every connected client whose user
// is currently a member of the group. Membership is resolved fresh per
// event, so a user who just left stops receiving that group's events.
func (h *Hub) BroadcastGroup(groupID int64, msg Message) {
	msg.GroupID = groupID

	memberIDs, err := h.members.MemberUserIDs(groupID)
	if err != nil {
		h.logger.Error("resolve group members", "group_id", groupID, "error", err)
		return
	}
	recipients := make(map[int64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		recipients[id] = struct{}{}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if _, member := recipients[c.userID]; !member {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
