package realtime

import (
	"sync"
)

// Hub coordinates websocket sessions and their topic subscriptions.
// It keeps one active Connection per user while allowing efficient fan-out
// to all sessions subscribed to a channel topic.
type Hub struct {
	mu            sync.RWMutex
	sessions      map[string]*Connection            // sessionID -> connection
	userSessions  map[int64]string                  // userID -> sessionID (authenticated users only)
	topics        map[string]map[string]*Connection // topic -> sessionID -> connection
	sessionTopics map[string]map[string]struct{}    // sessionID -> set of topics
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:      make(map[string]*Connection),
		userSessions:  make(map[int64]string),
		topics:        make(map[string]map[string]*Connection),
		sessionTopics: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection. If the user already has an active session,
// the old one is removed and closed after the swap so a user holds at most
// one live socket. The replaced session's subscribed topics are returned so
// the caller can release its presence entries: the old session is already
// gone from the hub by the time its own handler runs disconnect cleanup.
// Anonymous connections (UserID 0) are not deduplicated.
func (h *Hub) Attach(conn *Connection) []string {
	var previous *Connection
	var replaced []string

	h.mu.Lock()
	if conn.UserID != 0 {
		if existingID, ok := h.userSessions[conn.UserID]; ok {
			if existing := h.sessions[existingID]; existing != nil {
				previous = existing
				for topic := range h.sessionTopics[existingID] {
					replaced = append(replaced, topic)
				}
				h.detachLocked(existingID)
			}
		}
		h.userSessions[conn.UserID] = conn.ID
	}
	h.sessions[conn.ID] = conn
	h.sessionTopics[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
	return replaced
}

// Detach removes a connection and returns the topics it was subscribed to,
// so the caller can run per-channel cleanup (presence removal, leave
// broadcasts). Calling Detach on an unknown connection returns nil.
func (h *Hub) Detach(conn *Connection) []string {
	h.mu.Lock()
	var subscribed []string
	for topic := range h.sessionTopics[conn.ID] {
		subscribed = append(subscribed, topic)
	}
	h.detachLocked(conn.ID)
	h.mu.Unlock()
	return subscribed
}

// Subscribe adds the connection to the topic. Unknown (already detached)
// connections are ignored.
func (h *Hub) Subscribe(topic string, conn *Connection) {
	h.mu.Lock()
	if _, ok := h.sessions[conn.ID]; !ok {
		h.mu.Unlock()
		return
	}

	subs := h.topics[topic]
	if subs == nil {
		subs = make(map[string]*Connection)
		h.topics[topic] = subs
	}
	subs[conn.ID] = conn

	topics := h.sessionTopics[conn.ID]
	if topics == nil {
		topics = make(map[string]struct{})
		h.sessionTopics[conn.ID] = topics
	}
	topics[topic] = struct{}{}
	h.mu.Unlock()
}

// Unsubscribe removes the connection from the topic.
func (h *Hub) Unsubscribe(topic string, conn *Connection) {
	h.mu.Lock()
	h.unsubscribeLocked(topic, conn.ID)
	h.mu.Unlock()
}

// Subscribed reports whether the connection currently holds a subscription
// to the topic.
func (h *Hub) Subscribed(topic string, conn *Connection) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sessionTopics[conn.ID][topic]
	return ok
}

// Broadcast writes payload to every subscriber of the topic and returns the
// number of successful deliveries. A topic with no subscribers is a no-op.
func (h *Hub) Broadcast(topic string, payload []byte) int {
	h.mu.RLock()
	subs := h.topics[topic]
	if len(subs) == 0 {
		h.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range subs {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// NotifyUser delivers payload to the current connection of the given user.
func (h *Hub) NotifyUser(userID int64, payload []byte) bool {
	h.mu.RLock()
	sessionID, ok := h.userSessions[userID]
	if !ok {
		h.mu.RUnlock()
		return false
	}
	conn := h.sessions[sessionID]
	h.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		sessions = append(sessions, conn)
	}
	h.sessions = make(map[string]*Connection)
	h.userSessions = make(map[int64]string)
	h.topics = make(map[string]map[string]*Connection)
	h.sessionTopics = make(map[string]map[string]struct{})
	h.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if conn.UserID != 0 {
		if current, ok := h.userSessions[conn.UserID]; ok && current == sessionID {
			delete(h.userSessions, conn.UserID)
		}
	}

	for topic := range h.sessionTopics[sessionID] {
		h.unsubscribeLocked(topic, sessionID)
	}
	delete(h.sessionTopics, sessionID)
}

func (h *Hub) unsubscribeLocked(topic string, sessionID string) {
	if sessionID == "" {
		return
	}
	subs := h.topics[topic]
	if subs == nil {
		return
	}
	delete(subs, sessionID)
	if len(subs) == 0 {
		delete(h.topics, topic)
	}
	if topics, ok := h.sessionTopics[sessionID]; ok {
		delete(topics, topic)
		if len(topics) == 0 {
			h.sessionTopics[sessionID] = make(map[string]struct{})
		}
	}
}
