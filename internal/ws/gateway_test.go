package ws

import (
	"testing"

	"arena-server/internal/engine"
)

func TestNewSessionKeyIsUnique(t *testing.T) {
	a := newSessionKey()
	b := newSessionKey()
	if a == b {
		t.Fatal("expected two generated session keys to differ")
	}
	if len(a) == 0 {
		t.Fatal("expected a non-empty session key")
	}
}

func TestGatewaySendToDeliversOnlyToTargetSession(t *testing.T) {
	g := NewGateway()
	a := newTestClient("a")
	b := newTestClient("b")
	g.mu.Lock()
	g.sessions["a"] = a
	g.sessions["b"] = b
	g.mu.Unlock()

	g.SendTo("a", engine.Event{Type: engine.EventMoveAck, Payload: 1})

	select {
	case env := <-a.send:
		if env.Event != string(engine.EventMoveAck) {
			t.Fatalf("unexpected event delivered to target: %q", env.Event)
		}
	default:
		t.Fatal("expected the targeted session to receive the event")
	}
	select {
	case env := <-b.send:
		t.Fatalf("expected the non-target session to receive nothing, got %+v", env)
	default:
	}
}

func TestGatewaySendRoomDeliversToRoomMembersOnly(t *testing.T) {
	g := NewGateway()
	inRoom := newTestClient("a")
	inRoom.roomCode = "ABCD"
	otherRoom := newTestClient("b")
	otherRoom.roomCode = "WXYZ"
	g.mu.Lock()
	g.sessions["a"] = inRoom
	g.sessions["b"] = otherRoom
	g.mu.Unlock()

	g.SendRoom("ABCD", engine.Event{Type: "something"})

	select {
	case <-inRoom.send:
	default:
		t.Fatal("expected the room member to receive the event")
	}
	select {
	case env := <-otherRoom.send:
		t.Fatalf("expected a different room's member to receive nothing, got %+v", env)
	default:
	}
}

func TestGatewayBroadcastRoomUsesGameStateEventName(t *testing.T) {
	g := NewGateway()
	c := newTestClient("a")
	c.roomCode = "ABCD"
	g.mu.Lock()
	g.sessions["a"] = c
	g.mu.Unlock()

	g.BroadcastRoom("ABCD", engine.GameStatePayload{Tick: 7})

	env := <-c.send
	if env.Event != "serverGameState" {
		t.Fatalf("expected the serverGameState event name, got %q", env.Event)
	}
}

func TestGatewayRoomClosedNotifiesRoom(t *testing.T) {
	g := NewGateway()
	c := newTestClient("a")
	c.roomCode = "ABCD"
	g.mu.Lock()
	g.sessions["a"] = c
	g.mu.Unlock()

	g.RoomClosed("ABCD", engine.GameOverPayload{WinningTeam: engine.Team1})

	env := <-c.send
	if env.Event != string(engine.EventGameOver) {
		t.Fatalf("expected a game-over event, got %q", env.Event)
	}
}

func TestGatewaySendDropsOnFullBuffer(t *testing.T) {
	g := NewGateway()
	c := &client{sessionKey: "a", send: make(chan outboundEnvelope, 1), done: make(chan struct{})}
	g.mu.Lock()
	g.sessions["a"] = c
	g.mu.Unlock()

	g.send(c, "first", nil)
	g.send(c, "second", nil) // buffer full; must not block

	env := <-c.send
	if env.Event != "first" {
		t.Fatalf("expected the buffered first event to survive, got %q", env.Event)
	}
	select {
	case env := <-c.send:
		t.Fatalf("expected the second event to have been dropped, got %q", env.Event)
	default:
	}
}
