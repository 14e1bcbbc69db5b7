package realtime

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func newTestBroadcaster(t *testing.T, maxFileSize int64) (*Broadcaster, *Connection) {
	t.Helper()
	hub := NewHub()
	t.Cleanup(hub.Close)

	conn := NewConnection(1, nil)
	hub.Attach(conn)
	hub.Subscribe(ChannelTopic(42), conn)

	b := NewBroadcaster(hub, nil, maxFileSize)
	b.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return b, conn
}

func decodeEnvelope(t *testing.T, raw []byte) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("malformed envelope: %v", err)
	}
	return env
}

func TestBroadcasterPublishText(t *testing.T) {
	b, conn := newTestBroadcaster(t, 0)

	b.PublishText(42, 7, "bonjour")

	env := decodeEnvelope(t, drain(t, conn))
	if env.Destination != "/topic/chat/42" {
		t.Errorf("destination = %q", env.Destination)
	}

	var event TextEvent
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		t.Fatalf("malformed payload: %v", err)
	}
	want := TextEvent{Type: "TEXT", Sender: 7, Content: "bonjour", Timestamp: 1700000000000}
	if event != want {
		t.Errorf("event = %+v, want %+v", event, want)
	}
}

func TestBroadcasterPublishFile(t *testing.T) {
	t.Run("accepts an allowed type under the cap", func(t *testing.T) {
		b, conn := newTestBroadcaster(t, 0)
		payload := bytes.Repeat([]byte{0x89}, 2*1024*1024)

		if err := b.PublishFile(42, 7, "diagram.png", "image/png", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		env := decodeEnvelope(t, drain(t, conn))
		var event FileEvent
		if err := json.Unmarshal(env.Payload, &event); err != nil {
			t.Fatalf("malformed payload: %v", err)
		}
		if event.Type != "FILE" || event.FileName != "diagram.png" || event.FileType != "image/png" {
			t.Errorf("event = %+v", event)
		}
		if event.FileSize != int64(len(payload)) {
			t.Errorf("fileSize = %d, want %d", event.FileSize, len(payload))
		}
		decoded, err := base64.StdEncoding.DecodeString(event.Content)
		if err != nil {
			t.Fatalf("content is not valid base64: %v", err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Error("decoded content does not match original payload")
		}
	})

	t.Run("rejects a disallowed mime type", func(t *testing.T) {
		b, conn := newTestBroadcaster(t, 0)

		err := b.PublishFile(42, 7, "archive.zip", "application/zip", []byte("PK"))
		if !errors.Is(err, ErrUnsupportedFileType) {
			t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
		}
		select {
		case msg := <-conn.send:
			t.Errorf("rejected file must not be broadcast, got %s", msg)
		default:
		}
	})

	t.Run("rejects a payload over the cap", func(t *testing.T) {
		b, _ := newTestBroadcaster(t, 0)
		payload := make([]byte, DefaultMaxFileSize+1)

		err := b.PublishFile(42, 7, "big.pdf", "application/pdf", payload)
		if !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("honours a configured cap", func(t *testing.T) {
		b, conn := newTestBroadcaster(t, 16)

		if err := b.PublishFile(42, 7, "tiny.gif", "image/gif", []byte("0123456789abcdef")); err != nil {
			t.Fatalf("unexpected error at the limit: %v", err)
		}
		drain(t, conn)

		err := b.PublishFile(42, 7, "tiny.gif", "image/gif", []byte("0123456789abcdef0"))
		if !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge just over the limit, got %v", err)
		}
	})
}

func TestBroadcasterPublishPresenceChanged(t *testing.T) {
	t.Run("carries the snapshot", func(t *testing.T) {
		b, conn := newTestBroadcaster(t, 0)

		b.PublishPresenceChanged(42, 9, PresenceJoined, []int64{7, 9})

		env := decodeEnvelope(t, drain(t, conn))
		var event PresenceEvent
		if err := json.Unmarshal(env.Payload, &event); err != nil {
			t.Fatalf("malformed payload: %v", err)
		}
		if event.Type != PresenceJoined || event.UserID != 9 {
			t.Errorf("event = %+v", event)
		}
		if !reflect.DeepEqual(event.ConnectedUsers, []int64{7, 9}) {
			t.Errorf("connectedUsers = %v", event.ConnectedUsers)
		}
	})

	t.Run("nil snapshot marshals as empty list", func(t *testing.T) {
		b, conn := newTestBroadcaster(t, 0)

		b.PublishPresenceChanged(42, 9, PresenceLeft, nil)

		env := decodeEnvelope(t, drain(t, conn))
		if !bytes.Contains(env.Payload, []byte(`"connectedUsers":[]`)) {
			t.Errorf("expected empty connectedUsers array, payload = %s", env.Payload)
		}
	})
}

func TestBroadcasterNoSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	b := NewBroadcaster(hub, nil, 0)

	// Publishing into the void must not error or panic.
	b.PublishText(99, 1, "anyone there")
	if err := b.PublishFile(99, 1, "a.png", "image/png", []byte("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
