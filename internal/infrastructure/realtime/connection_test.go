package realtime

import (
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

func TestConnectionSendAfterClose(t *testing.T) {
	conn := NewConnection(1, nil)
	conn.Start()
	conn.Close(websocket.CloseNormalClosure, "bye")

	t.Run("send reports the closed connection", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			if err := conn.Send([]byte("late")); err == nil {
				t.Fatal("expected error sending on a closed connection")
			}
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		conn.Close(websocket.CloseGoingAway, "again")
	})
}

func TestConnectionConcurrentSendClose(t *testing.T) {
	conn := NewConnection(1, nil)
	conn.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = conn.Send([]byte("racing"))
			}
		}()
	}
	conn.Close(websocket.CloseNormalClosure, "mid-flight")
	wg.Wait()

	if err := conn.Send([]byte("after")); err == nil {
		t.Fatal("expected error after close")
	}
}
