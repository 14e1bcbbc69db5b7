package realtime

import (
	"sort"
	"testing"
	"time"
)

// drain reads one payload off the connection's outbound buffer without
// blocking the test forever.
func drain(t *testing.T, conn *Connection) []byte {
	t.Helper()
	select {
	case msg := <-conn.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for payload")
		return nil
	}
}

func TestHubSubscribeBroadcast(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	a := NewConnection(1, nil)
	b := NewConnection(2, nil)
	hub.Attach(a)
	hub.Attach(b)

	topic := ChannelTopic(42)

	t.Run("broadcast with no subscribers is a no-op", func(t *testing.T) {
		if n := hub.Broadcast(topic, []byte("x")); n != 0 {
			t.Errorf("expected 0 deliveries, got %d", n)
		}
	})

	t.Run("delivers to every subscriber", func(t *testing.T) {
		hub.Subscribe(topic, a)
		hub.Subscribe(topic, b)

		if n := hub.Broadcast(topic, []byte("hello")); n != 2 {
			t.Fatalf("expected 2 deliveries, got %d", n)
		}
		if got := string(drain(t, a)); got != "hello" {
			t.Errorf("connection a received %q", got)
		}
		if got := string(drain(t, b)); got != "hello" {
			t.Errorf("connection b received %q", got)
		}
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		hub.Unsubscribe(topic, b)
		if hub.Subscribed(topic, b) {
			t.Error("expected b to be unsubscribed")
		}
		if n := hub.Broadcast(topic, []byte("again")); n != 1 {
			t.Errorf("expected 1 delivery, got %d", n)
		}
		drain(t, a)
	})

	t.Run("other topics are unaffected", func(t *testing.T) {
		if n := hub.Broadcast(ChannelTopic(43), []byte("elsewhere")); n != 0 {
			t.Errorf("expected 0 deliveries on foreign topic, got %d", n)
		}
	})
}

func TestHubDetach(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn := NewConnection(7, nil)
	hub.Attach(conn)
	hub.Subscribe(ChannelTopic(1), conn)
	hub.Subscribe(ChannelTopic(2), conn)

	t.Run("returns subscribed topics", func(t *testing.T) {
		topics := hub.Detach(conn)
		sort.Strings(topics)
		if len(topics) != 2 || topics[0] != ChannelTopic(1) || topics[1] != ChannelTopic(2) {
			t.Errorf("unexpected topics: %v", topics)
		}
	})

	t.Run("detached connection no longer receives", func(t *testing.T) {
		if n := hub.Broadcast(ChannelTopic(1), []byte("x")); n != 0 {
			t.Errorf("expected 0 deliveries after detach, got %d", n)
		}
	})

	t.Run("detach of unknown connection returns nil", func(t *testing.T) {
		if topics := hub.Detach(NewConnection(8, nil)); topics != nil {
			t.Errorf("expected nil, got %v", topics)
		}
	})

	t.Run("subscribe after detach is ignored", func(t *testing.T) {
		hub.Subscribe(ChannelTopic(3), conn)
		if hub.Subscribed(ChannelTopic(3), conn) {
			t.Error("detached connection must not be subscribable")
		}
	})
}

func TestHubOneSessionPerUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	first := NewConnection(5, nil)
	hub.Attach(first)
	hub.Subscribe(ChannelTopic(9), first)

	second := NewConnection(5, nil)
	replaced := hub.Attach(second)

	t.Run("previous session is closed and replaced", func(t *testing.T) {
		select {
		case <-first.close:
		case <-time.After(time.Second):
			t.Fatal("expected previous session to be closed")
		}
		if hub.Subscribed(ChannelTopic(9), first) {
			t.Error("previous session must lose its subscriptions")
		}
	})

	t.Run("attach reports the replaced session's topics", func(t *testing.T) {
		if len(replaced) != 1 || replaced[0] != ChannelTopic(9) {
			t.Errorf("replaced topics = %v, want [%s]", replaced, ChannelTopic(9))
		}
		if topics := hub.Attach(NewConnection(6, nil)); topics != nil {
			t.Errorf("fresh user must replace nothing, got %v", topics)
		}
	})

	t.Run("user notifications target the new session", func(t *testing.T) {
		if !hub.NotifyUser(5, []byte("ping")) {
			t.Fatal("expected delivery to the active session")
		}
		if got := string(drain(t, second)); got != "ping" {
			t.Errorf("received %q", got)
		}
	})

	t.Run("anonymous sessions are not deduplicated", func(t *testing.T) {
		anonA := NewConnection(0, nil)
		anonB := NewConnection(0, nil)
		hub.Attach(anonA)
		hub.Attach(anonB)

		select {
		case <-anonA.close:
			t.Error("anonymous session must not be replaced")
		default:
		}
	})
}

func TestHubNotifyUser(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	t.Run("unknown user", func(t *testing.T) {
		if hub.NotifyUser(99, []byte("x")) {
			t.Error("expected no delivery for unknown user")
		}
	})
}
