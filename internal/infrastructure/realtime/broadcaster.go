package realtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// Broadcast payload validation errors.
var (
	ErrUnsupportedFileType = errors.New("realtime: unsupported file type")
	ErrFileTooLarge        = errors.New("realtime: file exceeds maximum size")
)

// DefaultMaxFileSize caps file payloads when no limit is configured.
const DefaultMaxFileSize = 10 * 1024 * 1024

// allowedFileTypes is the mime allow-list for file messages.
var allowedFileTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// PresenceAction distinguishes join from leave in presence broadcasts.
type PresenceAction string

const (
	PresenceJoined PresenceAction = "USER_JOINED"
	PresenceLeft   PresenceAction = "USER_LEFT"
)

// TextEvent is the wire form of a chat text message.
type TextEvent struct {
	Type      string `json:"type"`
	Sender    int64  `json:"sender"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// FileEvent carries a validated, base64-encoded file payload.
type FileEvent struct {
	Type      string `json:"type"`
	Sender    int64  `json:"sender"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	FileSize  int64  `json:"fileSize"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// PresenceEvent announces a presence change with the full membership
// snapshot so clients reconcile instead of applying deltas.
type PresenceEvent struct {
	Type           PresenceAction `json:"type"`
	UserID         int64          `json:"userId"`
	ConnectedUsers []int64        `json:"connectedUsers"`
}

// Envelope wraps an event with its broadcast topic, mirroring the STOMP
// destination header the original frontend subscribed on.
type Envelope struct {
	Destination string          `json:"destination"`
	Payload     json.RawMessage `json:"payload"`
}

// Broadcaster fans chat events out to every subscriber of a channel topic.
// It performs no authorization: callers must admission-check before
// publishing. Delivery is best-effort and at-most-once per subscriber;
// publishing to a topic with no subscribers is a no-op.
type Broadcaster struct {
	hub         *Hub
	relay       *Relay // nil on single-node deployments
	maxFileSize int64
	now         func() time.Time
}

// NewBroadcaster wires a broadcaster to the hub and an optional cross-node
// relay. maxFileSize <= 0 selects DefaultMaxFileSize.
func NewBroadcaster(hub *Hub, relay *Relay, maxFileSize int64) *Broadcaster {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Broadcaster{
		hub:         hub,
		relay:       relay,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

// PublishText delivers a text event with a server-assigned timestamp to all
// current subscribers of the channel topic.
func (b *Broadcaster) PublishText(channelID, senderID int64, body string) {
	event := TextEvent{
		Type:      "TEXT",
		Sender:    senderID,
		Content:   body,
		Timestamp: b.now().UnixMilli(),
	}
	b.publish(channelID, event)
}

// PublishFile validates the payload against the mime allow-list and the size
// cap, then delivers a file event with the payload base64-encoded for
// transport.
func (b *Broadcaster) PublishFile(channelID, senderID int64, filename, mimeType string, payload []byte) error {
	if _, ok := allowedFileTypes[mimeType]; !ok {
		return ErrUnsupportedFileType
	}
	if int64(len(payload)) > b.maxFileSize {
		return ErrFileTooLarge
	}
	event := FileEvent{
		Type:      "FILE",
		Sender:    senderID,
		FileName:  filename,
		FileType:  mimeType,
		FileSize:  int64(len(payload)),
		Content:   base64.StdEncoding.EncodeToString(payload),
		Timestamp: b.now().UnixMilli(),
	}
	b.publish(channelID, event)
	return nil
}

// PublishPresenceChanged announces that a user joined or left the channel's
// live session, carrying the current membership snapshot.
func (b *Broadcaster) PublishPresenceChanged(channelID, userID int64, action PresenceAction, members []int64) {
	if members == nil {
		members = []int64{}
	}
	event := PresenceEvent{
		Type:           action,
		UserID:         userID,
		ConnectedUsers: members,
	}
	b.publish(channelID, event)
}

func (b *Broadcaster) publish(channelID int64, event any) {
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	topic := ChannelTopic(channelID)
	envelope, err := json.Marshal(Envelope{Destination: topic, Payload: raw})
	if err != nil {
		return
	}
	b.hub.Broadcast(topic, envelope)

	if b.relay != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = b.relay.Publish(ctx, topic, envelope)
	}
}
