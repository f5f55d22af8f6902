package ws

import (
	"encoding/json"

	"arena-server/internal/engine"
	"arena-server/internal/roommgr"
)

type createRoomPayload struct {
	RoomCode string `json:"roomCode"`
	GameMode string `json:"gameMode"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

type rejoinRoomPayload struct {
	RoomCode string          `json:"roomCode"`
	PlayerID engine.PlayerID `json:"playerId"`
}

type playerReadyPayload struct {
	RoomCode string `json:"roomCode"`
	Ready    bool   `json:"ready"`
}

type teamSelectPayload struct {
	RoomCode string      `json:"roomCode"`
	Team     engine.Team `json:"team"`
}

type playerLoadedPayload struct {
	RoomCode string `json:"roomCode"`
}

type startGamePayload struct {
	RoomCode string `json:"roomCode"`
}

type playerMovePayload struct {
	RoomCode string  `json:"roomCode"`
	TargetX  float64 `json:"targetX"`
	TargetZ  float64 `json:"targetZ"`
	ActionID string  `json:"actionId"`
	Seq      uint64  `json:"seq"`
}

type knifeThrowPayload struct {
	RoomCode      string  `json:"roomCode"`
	TargetX       float64 `json:"targetX"`
	TargetZ       float64 `json:"targetZ"`
	ActionID      string  `json:"actionId"`
	ClientTimeMs  int64   `json:"clientTimestamp"`
}

type collisionReportPayload struct {
	RoomCode   string      `json:"roomCode"`
	TargetTeam engine.Team `json:"targetTeam"`
	ActionID   string      `json:"actionId"`
}

// handleInbound dispatches one decoded client message against the room
// manager. Validation failures are silently dropped per the error handling
// design, except where the inbound event itself is a lobby/authority
// action that returns a structured client-visible error.
func (g *Gateway) handleInbound(c *client, env inboundEnvelope) {
	switch env.Type {
	case "createRoom":
		var p createRoomPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		mode := engine.Mode(p.GameMode)
		if mode != engine.Mode1v1 && mode != engine.Mode3v3 {
			return
		}
		if err := g.manager.CreateRoom(p.RoomCode, mode, c.sessionKey); err != nil {
			g.send(c, "joinError", map[string]string{"message": err.Error()})
			return
		}
		c.roomCode = p.RoomCode
		g.send(c, "roomCreated", map[string]string{"roomCode": p.RoomCode})

	case "joinRoom":
		var p joinRoomPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		id, err := g.manager.JoinRoom(p.RoomCode, c.sessionKey)
		if err != nil {
			if err == roommgr.ErrRoomFull {
				g.send(c, "roomFull", nil)
				return
			}
			g.send(c, "joinError", map[string]string{"message": err.Error()})
			return
		}
		c.roomCode = p.RoomCode
		g.send(c, "joinSuccess", map[string]interface{}{"playerId": id})

	case "rejoinRoom":
		var p rejoinRoomPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		if err := g.manager.RejoinRoom(p.RoomCode, c.sessionKey, p.PlayerID); err != nil {
			g.send(c, "joinError", map[string]string{"message": err.Error()})
			return
		}
		c.roomCode = p.RoomCode
		g.send(c, "rejoinSuccess", map[string]interface{}{"playerId": p.PlayerID})

	case "playerReady":
		var p playerReadyPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		if g.manager.SetReady(p.RoomCode, c.sessionKey, p.Ready) == nil {
			g.SendRoom(p.RoomCode, engine.Event{Type: "playerReadyUpdate", Payload: p})
		}

	case "teamSelect", "selectTeam":
		var p teamSelectPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		if err := g.manager.SelectTeam(p.RoomCode, c.sessionKey, p.Team); err != nil {
			g.send(c, "teamSelectError", map[string]string{"message": err.Error()})
			return
		}
		g.SendRoom(p.RoomCode, engine.Event{Type: "teamSelectSuccess", Payload: p})

	case "playerLoaded":
		var p playerLoadedPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		allLoaded, err := g.manager.SetLoaded(p.RoomCode, c.sessionKey)
		if err != nil {
			return
		}
		g.SendRoom(p.RoomCode, engine.Event{Type: "playerLoadUpdate", Payload: map[string]string{"sessionKey": c.sessionKey}})
		if allLoaded {
			g.SendRoom(p.RoomCode, engine.Event{Type: "allPlayersLoaded"})
		}

	case "startGame":
		var p startGamePayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		if _, err := g.manager.StartGame(p.RoomCode, c.sessionKey); err != nil {
			g.send(c, "error", map[string]string{"message": err.Error()})
			return
		}
		g.SendRoom(p.RoomCode, engine.Event{Type: "gameStart"})

	case "playerMove":
		var p playerMovePayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		if room := g.roomFor(p.RoomCode); room != nil {
			room.SubmitMove(engine.MoveCommand{
				SessionKey: c.sessionKey,
				TargetX:    p.TargetX,
				TargetZ:    p.TargetZ,
				ActionID:   p.ActionID,
				Seq:        p.Seq,
			})
		}

	case "knifeThrow":
		var p knifeThrowPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		if room := g.roomFor(p.RoomCode); room != nil {
			room.SubmitThrow(engine.ThrowCommand{
				SessionKey:   c.sessionKey,
				TargetX:      p.TargetX,
				TargetZ:      p.TargetZ,
				ActionID:     p.ActionID,
				ClientTimeMs: p.ClientTimeMs,
			})
		}

	case "collisionReport":
		var p collisionReportPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		if room := g.roomFor(p.RoomCode); room != nil {
			room.SubmitCollisionReport(engine.CollisionReportCommand{
				SessionKey: c.sessionKey,
				TargetTeam: p.TargetTeam,
				ActionID:   p.ActionID,
			})
		}
	}
}

// roomFor looks up the running engine.Room for a room code, if the match
// has started. Rooms still in their lobby have none yet.
func (g *Gateway) roomFor(roomCode string) *engine.Room {
	return g.manager.RunningRoom(roomCode)
}
