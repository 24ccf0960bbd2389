package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bellapacxx/bingo-rooms/game"
)

func testEvent(room string) game.Event {
	return game.Event{Type: game.EvNumberDrawn, Room: room, Timestamp: time.Now()}
}

func TestHub_DeliverFiltersByAddress(t *testing.T) {
	h := NewHub()
	alice := &Client{playerID: "alice", send: make(chan []byte, 4)}
	bob := &Client{playerID: "bob", send: make(chan []byte, 4)}
	h.Join("R1", alice)
	h.Join("R1", bob)

	ev := testEvent("R1")
	ev.To = "alice"
	h.Deliver("R1", ev)

	if len(alice.send) != 1 {
		t.Errorf("alice received %d messages, want 1", len(alice.send))
	}
	if len(bob.send) != 0 {
		t.Errorf("bob received %d messages for an event addressed to alice", len(bob.send))
	}

	h.Deliver("R1", testEvent("R1"))
	if len(alice.send) != 2 || len(bob.send) != 1 {
		t.Errorf("broadcast reached (%d,%d) messages, want (2,1)", len(alice.send), len(bob.send))
	}
}

func TestHub_DeliverDropsSlowConsumer(t *testing.T) {
	h := NewHub()
	c := &Client{playerID: "alice", send: make(chan []byte, 1)}
	h.Join("R1", c)

	h.Deliver("R1", testEvent("R1"))
	h.Deliver("R1", testEvent("R1")) // buffer full, must not block
	if len(c.send) != 1 {
		t.Errorf("buffered %d messages, want 1", len(c.send))
	}
}

// Deliver snapshots the client list and sends outside the lock, so a
// client can close its send channel mid-broadcast. That must never
// take the delivering goroutine down.
func TestHub_DeliverSurvivesConcurrentDisconnect(t *testing.T) {
	h := NewHub()

	for iter := 0; iter < 50; iter++ {
		clients := make([]*Client, 0, 40)
		for i := 0; i < 40; i++ {
			c := &Client{playerID: fmt.Sprintf("p%d", i), send: make(chan []byte, 1)}
			clients = append(clients, c)
			h.Join("R1", c)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				h.Deliver("R1", testEvent("R1"))
			}
		}()
		go func() {
			defer wg.Done()
			for _, c := range clients {
				h.Leave("R1", c)
				close(c.send)
			}
		}()
		wg.Wait()
	}
}
