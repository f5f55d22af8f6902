// Package roommgr implements room lifecycle bookkeeping that sits above
// the engine: create/join/rejoin/disconnect, readiness and team-select
// state before a match starts, and deterministic spawn-position
// assignment. It owns no simulation state itself; once a match starts it
// hands players off to an engine.Room and gets out of the way.
package roommgr

import (
	"errors"
	"sync"
	"time"

	"arena-server/internal/engine"
	"arena-server/internal/registry"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room full")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotHost       = errors.New("only the host may start the game")
	ErrNotAllReady   = errors.New("not all players are ready")
)

// Dispatcher delivers engine output to connected clients. The WebSocket
// gateway implements this.
type Dispatcher interface {
	// SendTo delivers an event to one session, identified by its current
	// session key.
	SendTo(sessionKey string, ev engine.Event)
	// SendRoom delivers an event or state message to every session
	// currently in the room.
	SendRoom(roomCode string, ev engine.Event)
	BroadcastRoom(roomCode string, state engine.GameStatePayload)
	RoomClosed(roomCode string, result engine.GameOverPayload)
}

type managedRoom struct {
	code string
	mode engine.Mode

	room *engine.Room

	// lobby bookkeeping, valid only before the match starts
	hostKey   string
	players   map[string]PlayerLobbyState // session key -> lobby state
	nextID    engine.PlayerID
	started   bool

	team1Spawns []struct{ X, Z float64 }
	team2Spawns []struct{ X, Z float64 }
}

// PlayerLobbyState is one player's pre-match bookkeeping.
type PlayerLobbyState struct {
	ID     engine.PlayerID
	Team   engine.Team
	Ready  bool
	Loaded bool
}

// Manager owns every active room on this host.
type Manager struct {
	mu         sync.Mutex
	rooms      map[string]*managedRoom
	dispatcher Dispatcher
	registry   registry.Registry
	regTTL     time.Duration
}

// NewManager builds a room manager. reg may be nil, in which case the
// shared registry is skipped entirely (single-host operation).
func NewManager(dispatcher Dispatcher, reg registry.Registry, regTTL time.Duration) *Manager {
	return &Manager{
		rooms:      make(map[string]*managedRoom),
		dispatcher: dispatcher,
		registry:   reg,
		regTTL:     regTTL,
	}
}

// Emit implements engine.Sink by forwarding to the dispatcher, either to a
// single session (move acknowledgments) or to the whole room.
func (m *Manager) Emit(roomCode string, ev engine.Event) {
	if ev.TargetSessionKey != "" {
		m.dispatcher.SendTo(ev.TargetSessionKey, ev)
		return
	}
	m.dispatcher.SendRoom(roomCode, ev)
}

// Broadcast implements engine.Sink.
func (m *Manager) Broadcast(roomCode string, state engine.GameStatePayload) {
	m.dispatcher.BroadcastRoom(roomCode, state)
}

// RoomClosed implements engine.Sink, stopping the underlying room loop and
// evicting it from the manager and the shared registry once the match ends.
func (m *Manager) RoomClosed(roomCode string, result engine.GameOverPayload) {
	m.dispatcher.RoomClosed(roomCode, result)

	m.mu.Lock()
	mr, ok := m.rooms[roomCode]
	if ok {
		delete(m.rooms, roomCode)
	}
	m.mu.Unlock()

	if ok {
		mr.room.Stop()
	}
	if m.registry != nil {
		m.registry.Delete(roomCode)
	}
}

// CreateRoom allocates a new room in its pre-match lobby state. The
// creating session becomes the host.
func (m *Manager) CreateRoom(roomCode string, mode engine.Mode, hostSessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rooms[roomCode]; exists {
		return errors.New("room already exists")
	}

	t1, t2 := spawnPositions(roomCode, mode)
	mr := &managedRoom{
		code:        roomCode,
		mode:        mode,
		hostKey:     hostSessionKey,
		players:     make(map[string]PlayerLobbyState),
		team1Spawns: t1,
		team2Spawns: t2,
	}
	mr.players[hostSessionKey] = PlayerLobbyState{ID: mr.nextID}
	mr.nextID++
	m.rooms[roomCode] = mr

	if m.registry != nil {
		m.registry.Put(roomCode, []byte(string(mode)), m.regTTL)
	}
	return nil
}

// JoinRoom adds a session to an existing room's lobby, assigning it the
// next open player id. Team assignment happens via SelectTeam.
func (m *Manager) JoinRoom(roomCode, sessionKey string) (engine.PlayerID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mr, ok := m.rooms[roomCode]
	if !ok {
		return 0, ErrRoomNotFound
	}
	if len(mr.players) >= mr.mode.MaxPlayers() {
		return 0, ErrRoomFull
	}

	id := mr.nextID
	mr.nextID++
	mr.players[sessionKey] = PlayerLobbyState{ID: id}
	return id, nil
}

// RejoinRoom migrates a new session key onto a previously-assigned player
// id, in both the lobby table and, if the match has already started, the
// running engine.Room's player table via RekeySession.
func (m *Manager) RejoinRoom(roomCode, newSessionKey string, playerID engine.PlayerID) error {
	m.mu.Lock()
	mr, ok := m.rooms[roomCode]
	if !ok {
		m.mu.Unlock()
		return ErrRoomNotFound
	}

	var oldKey string
	found := false
	for key, st := range mr.players {
		if st.ID == playerID {
			oldKey = key
			found = true
			break
		}
	}
	if !found {
		m.mu.Unlock()
		return ErrPlayerNotFound
	}

	st := mr.players[oldKey]
	delete(mr.players, oldKey)
	mr.players[newSessionKey] = st
	if mr.hostKey == oldKey {
		mr.hostKey = newSessionKey
	}
	started := mr.started
	room := mr.room
	m.mu.Unlock()

	if started && room != nil {
		room.RekeySession(oldKey, newSessionKey)
	}
	return nil
}

// SelectTeam assigns a player's team while still in the lobby.
func (m *Manager) SelectTeam(roomCode, sessionKey string, team engine.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mr, ok := m.rooms[roomCode]
	if !ok {
		return ErrRoomNotFound
	}
	st, ok := mr.players[sessionKey]
	if !ok {
		return ErrPlayerNotFound
	}
	if st.Ready {
		return errors.New("cannot change team after marking ready")
	}
	st.Team = team
	mr.players[sessionKey] = st
	return nil
}

// SetReady marks a player's readiness state.
func (m *Manager) SetReady(roomCode, sessionKey string, ready bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mr, ok := m.rooms[roomCode]
	if !ok {
		return ErrRoomNotFound
	}
	st, ok := mr.players[sessionKey]
	if !ok {
		return ErrPlayerNotFound
	}
	st.Ready = ready
	mr.players[sessionKey] = st
	return nil
}

// SetLoaded marks a player as having finished loading after the match
// start signal.
func (m *Manager) SetLoaded(roomCode, sessionKey string) (allLoaded bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mr, ok := m.rooms[roomCode]
	if !ok {
		return false, ErrRoomNotFound
	}
	st, ok := mr.players[sessionKey]
	if !ok {
		return false, ErrPlayerNotFound
	}
	st.Loaded = true
	mr.players[sessionKey] = st

	for _, p := range mr.players {
		if !p.Loaded {
			return false, nil
		}
	}
	return true, nil
}

// StartGame validates the host and readiness preconditions, spawns the
// engine.Room, seeds it with every lobby player at its deterministic spawn
// point, and starts its tick loop on a new goroutine.
func (m *Manager) StartGame(roomCode, sessionKey string) (*engine.Room, error) {
	m.mu.Lock()
	mr, ok := m.rooms[roomCode]
	if !ok {
		m.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if mr.hostKey != sessionKey {
		m.mu.Unlock()
		return nil, ErrNotHost
	}
	for _, p := range mr.players {
		if !p.Ready {
			m.mu.Unlock()
			return nil, ErrNotAllReady
		}
	}
	if mr.started {
		m.mu.Unlock()
		return mr.room, nil
	}

	room := engine.NewRoom(roomCode, mr.mode, m)
	now := time.Now()
	team1Slot, team2Slot := 0, 0
	for key, st := range mr.players {
		var x, z float64
		switch st.Team {
		case engine.Team1:
			spawn := mr.team1Spawns[team1Slot%len(mr.team1Spawns)]
			x, z = spawn.X, spawn.Z
			team1Slot++
		default:
			spawn := mr.team2Spawns[team2Slot%len(mr.team2Spawns)]
			x, z = spawn.X, spawn.Z
			team2Slot++
		}
		room.AddPlayer(st.ID, key, st.Team, x, z, now)
	}
	mr.room = room
	mr.started = true
	m.mu.Unlock()

	go room.Run()
	return room, nil
}

// RunningRoom returns the started engine.Room for a room code, or nil if
// the room doesn't exist or hasn't started yet.
func (m *Manager) RunningRoom(roomCode string) *engine.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	mr, ok := m.rooms[roomCode]
	if !ok || !mr.started {
		return nil
	}
	return mr.room
}

// Disconnect removes a session from the room, either in the lobby or the
// running match. A host disconnect tears the whole room down; any other
// disconnect only removes that player.
func (m *Manager) Disconnect(roomCode, sessionKey string) (hostLeft bool) {
	m.mu.Lock()
	mr, ok := m.rooms[roomCode]
	if !ok {
		m.mu.Unlock()
		return false
	}
	delete(mr.players, sessionKey)
	isHost := mr.hostKey == sessionKey
	room := mr.room
	started := mr.started
	if isHost {
		delete(m.rooms, roomCode)
	}
	m.mu.Unlock()

	if started && room != nil {
		room.Disconnect(sessionKey)
	}
	if isHost {
		m.dispatcher.SendRoom(roomCode, engine.Event{Type: "hostDisconnected"})
		if room != nil {
			room.Stop()
		}
		if m.registry != nil {
			m.registry.Delete(roomCode)
		}
	} else {
		m.dispatcher.SendRoom(roomCode, engine.Event{Type: "opponentDisconnected"})
	}
	return isHost
}
