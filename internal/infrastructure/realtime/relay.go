package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// relayChannel is the Redis pub/sub channel shared by all nodes.
const relayChannel = "chat:relay"

type relayEnvelope struct {
	NodeID  string          `json:"nodeId"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Relay re-publishes broadcast payloads through Redis pub/sub so subscribers
// connected to other nodes receive them too. Each node tags outgoing
// envelopes with its own id and skips envelopes it originated, so local
// subscribers never see a message twice.
type Relay struct {
	client *redis.Client
	hub    *Hub
	nodeID string
	logger *slog.Logger
}

// NewRelay wires a relay between the hub and a Redis client.
func NewRelay(client *redis.Client, hub *Hub, logger *slog.Logger) *Relay {
	return &Relay{
		client: client,
		hub:    hub,
		nodeID: uuid.NewString(),
		logger: logger,
	}
}

// NodeID returns the identifier this relay stamps on outgoing envelopes.
func (r *Relay) NodeID() string {
	return r.nodeID
}

// Publish sends a broadcast envelope to peer nodes.
func (r *Relay) Publish(ctx context.Context, topic string, payload []byte) error {
	env := relayEnvelope{
		NodeID:  r.nodeID,
		Topic:   topic,
		Payload: payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, relayChannel, data).Err()
}

// Run subscribes to the relay channel and delivers peer broadcasts to local
// subscribers until the context is canceled.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, relayChannel)
	defer sub.Close()

	// Force the subscription to be established before returning control to
	// the message loop, so publishes racing startup are not silently lost.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.logger.Warn("relay: dropping malformed envelope", slog.Any("error", err))
				continue
			}
			if env.NodeID == r.nodeID {
				continue
			}
			r.hub.Broadcast(env.Topic, env.Payload)
		}
	}
}
