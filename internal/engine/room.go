package engine

import (
	"log"
	"time"
)

// Sink receives events and broadcasts as they are produced. The gateway
// implements this to fan events out to connected clients.
type Sink interface {
	Emit(roomCode string, ev Event)
	Broadcast(roomCode string, state GameStatePayload)
	RoomClosed(roomCode string, result GameOverPayload)
}

// Room owns one match's entire simulation state and runs its own tick
// loop on a single goroutine. No field on Room is touched from outside
// that goroutine except through the command channel and Stop.
type Room struct {
	Code string
	Mode Mode

	players       map[string]*Player // keyed by session key
	projectiles   map[ProjectileID]*Projectile
	history       *PositionHistory
	pressure      *HostPressureController
	sink          Sink

	tick               uint64
	projSeq            uint64
	physicsClock       time.Time
	broadcastEvery     int // Hz, mutated only by the pressure controller
	nextPressureSample time.Time

	commands chan roomCommand
	stop     chan struct{}
	done     chan struct{}

	over bool
}

type roomCommand struct {
	kind string // "move", "throw", "collisionReport", "rekey", "disconnect"
	move    MoveCommand
	throw   ThrowCommand
	report  CollisionReportCommand
	oldKey  string
	newKey  string
}

// NewRoom constructs a room ready to accept players, not yet running its
// loop.
func NewRoom(code string, mode Mode, sink Sink) *Room {
	return &Room{
		Code:           code,
		Mode:           mode,
		players:        make(map[string]*Player),
		projectiles:    make(map[ProjectileID]*Projectile),
		history:        NewPositionHistory(PositionHistoryCapacity),
		pressure:       NewHostPressureController(GlobalLoadMonitor()),
		sink:           sink,
		broadcastEvery: NetworkUpdateRateHigh,
		commands:       make(chan roomCommand, 64),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// AddPlayer inserts a new player at the given spawn position. Must be
// called before Run, or from within a command handler running on the
// room's own goroutine.
func (r *Room) AddPlayer(id PlayerID, sessionKey string, team Team, x, z float64, now time.Time) {
	r.players[sessionKey] = NewPlayer(id, sessionKey, team, x, z, now)
}

// RekeySession migrates a player's session key on reconnect, keeping its
// identity, team, and in-flight state intact. The rejoin contract requires
// this to run before any further commands reference the new key.
func (r *Room) RekeySession(oldKey, newKey string) {
	select {
	case r.commands <- roomCommand{kind: "rekey", oldKey: oldKey, newKey: newKey}:
	case <-r.done:
	}
}

// SubmitMove enqueues a move command for processing on the room's
// goroutine.
func (r *Room) SubmitMove(cmd MoveCommand) {
	select {
	case r.commands <- roomCommand{kind: "move", move: cmd}:
	case <-r.done:
	}
}

// SubmitThrow enqueues a throw command.
func (r *Room) SubmitThrow(cmd ThrowCommand) {
	select {
	case r.commands <- roomCommand{kind: "throw", throw: cmd}:
	case <-r.done:
	}
}

// SubmitCollisionReport enqueues a client-assisted collision report.
func (r *Room) SubmitCollisionReport(cmd CollisionReportCommand) {
	select {
	case r.commands <- roomCommand{kind: "collisionReport", report: cmd}:
	case <-r.done:
	}
}

// Disconnect removes a player from the engine. Host disconnect handling and
// notifying remaining clients is the room manager's responsibility; the
// engine only forgets the player.
func (r *Room) Disconnect(sessionKey string) {
	select {
	case r.commands <- roomCommand{kind: "disconnect", oldKey: sessionKey}:
	case <-r.done:
	}
}

// Stop cancels the room's loop. Commands submitted afterward are dropped.
func (r *Room) Stop() {
	close(r.stop)
}

// Done reports whether the room's loop has exited.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) applyCommand(cmd roomCommand, now time.Time) {
	switch cmd.kind {
	case "move":
		if ack, ok := HandleMove(r.players, cmd.move, now, r.tick); ok {
			r.sink.Emit(r.Code, Event{Type: EventMoveAck, Payload: ack, TargetSessionKey: cmd.move.SessionKey})
		}
	case "throw":
		if proj, ok := HandleThrow(r.players, cmd.throw, now); ok {
			r.projSeq++
			proj.ID = nextProjectileID(r.Code, r.projSeq)
			r.projectiles[proj.ID] = proj
			r.sink.Emit(r.Code, Event{Type: EventKnifeSpawn, Payload: KnifeSpawnPayload{
				KnifeID:   proj.ID,
				OwnerTeam: proj.OwnerTeam,
				X:         proj.X,
				Z:         proj.Z,
				VelocityX: proj.VX,
				VelocityZ: proj.VZ,
				ActionID:  proj.ActionID,
				Tick:      r.tick,
			}})
		}
	case "collisionReport":
		if update, ok := HandleCollisionReport(r.players, cmd.report); ok {
			r.sink.Emit(r.Code, Event{Type: EventHealthUpdate, Payload: update})
		}
	case "rekey":
		if p, ok := r.players[cmd.oldKey]; ok {
			delete(r.players, cmd.oldKey)
			p.SessionKey = cmd.newKey
			r.players[cmd.newKey] = p
		}
	case "disconnect":
		delete(r.players, cmd.oldKey)
	}
}

// stepPhysics runs one fixed-timestep physics tick: integrate movement,
// advance projectiles, record history, run hit detection, check for game
// over.
func (r *Room) stepPhysics(now time.Time) {
	r.tick++
	dt := 1.0 / float64(TickRate)

	for _, p := range r.players {
		Integrate(p, dt)
	}

	for id, proj := range r.projectiles {
		if proj.HasHit {
			delete(r.projectiles, id)
			r.sink.Emit(r.Code, Event{Type: EventKnifeDestroy, Payload: KnifeDestroyPayload{KnifeID: id}})
			continue
		}
		proj.Advance(dt)
		if proj.Expired(now) {
			delete(r.projectiles, id)
			r.sink.Emit(r.Code, Event{Type: EventKnifeDestroy, Payload: KnifeDestroyPayload{KnifeID: id}})
		}
	}

	snapshot := make(map[string]PlayerSnapshot, len(r.players))
	for key, p := range r.players {
		snapshot[key] = PlayerSnapshot{X: p.X, Z: p.Z, Team: p.Team, IsDead: p.IsDead}
	}
	r.history.Record(now, snapshot)

	r.runHitDetection(now)

	if !r.over {
		if over, result := CheckGameOver(r.players); over {
			r.over = true
			r.sink.Emit(r.Code, Event{Type: EventGameOver, Payload: result})
			r.sink.RoomClosed(r.Code, result)
		}
	}
}

// runHitDetection sweeps every live projectile against every eligible
// victim, crediting at most one hit per projectile per tick.
func (r *Room) runHitDetection(now time.Time) {
	for _, proj := range r.projectiles {
		if proj.HasHit {
			continue
		}
		for _, victim := range r.players {
			if !CheckThrowHit(proj, victim, r.history, now) {
				continue
			}
			proj.HasHit = true
			victim.ApplyDamage()
			r.sink.Emit(r.Code, Event{Type: EventHealthUpdate, Payload: HealthUpdatePayload{
				PlayerID: victim.ID,
				Health:   victim.Health,
				IsDead:   victim.IsDead,
			}})
			r.sink.Emit(r.Code, Event{Type: EventKnifeHit, Payload: KnifeHitPayload{
				KnifeID:  proj.ID,
				VictimID: victim.ID,
			}})
			break
		}
	}
}

// broadcast emits a full room-state snapshot.
func (r *Room) broadcast(now time.Time) {
	r.sink.Broadcast(r.Code, BuildGameState(r.players, r.projectiles, r.tick, now))
}

// Run executes the room's dual-rate loop until Stop is called or the match
// ends. It is meant to be the body of its own goroutine.
func (r *Room) Run() {
	defer close(r.done)

	r.physicsClock = time.Now()
	physicsInterval := time.Second / time.Duration(TickRate)
	nextBroadcast := time.Now().Add(time.Second / time.Duration(r.broadcastEvery))
	r.nextPressureSample = time.Now().Add(HostPressureSampleInterval)

	for {
		select {
		case <-r.stop:
			return
		default:
		}

		if r.over {
			return
		}

		r.drainCommands()

		now := time.Now()
		steps := 0
		for now.Sub(r.physicsClock) >= physicsInterval && steps < MaxCatchUpTicks {
			r.runTickBody(r.physicsClock)
			r.physicsClock = r.physicsClock.Add(physicsInterval)
			steps++
		}
		if now.Sub(r.physicsClock) >= physicsInterval {
			// Still behind after bounded catch-up: clamp rather than spiral.
			r.physicsClock = now.Add(-physicsInterval)
		}

		if r.over {
			return
		}

		if !now.Before(r.nextPressureSample) {
			if changed, _ := r.pressure.Sample(); changed {
				r.broadcastEvery = r.pressure.BroadcastRate()
				nextBroadcast = time.Now()
			}
			r.nextPressureSample = r.nextPressureSample.Add(HostPressureSampleInterval)
		}

		if !now.Before(nextBroadcast) {
			r.broadcast(now)
			nextBroadcast = nextBroadcast.Add(time.Second / time.Duration(r.broadcastEvery))
		}

		nextPhysicsDeadline := r.physicsClock.Add(physicsInterval)
		sleepUntil := nextPhysicsDeadline
		if nextBroadcast.Before(sleepUntil) {
			sleepUntil = nextBroadcast
		}
		r.sleepUntil(sleepUntil)
	}
}

// sleepUntil combines a coarse sleep with a zero-delay reschedule as the
// deadline nears, so the loop neither busy-spins nor overshoots by a full
// OS scheduler quantum.
func (r *Room) sleepUntil(deadline time.Time) {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return
	}
	if remaining > time.Millisecond {
		time.Sleep(remaining - time.Millisecond)
		return
	}
	time.Sleep(0)
}

func (r *Room) drainCommands() {
	for {
		select {
		case cmd := <-r.commands:
			r.applyCommand(cmd, time.Now())
		default:
			return
		}
	}
}

// runTickBody wraps stepPhysics with panic recovery so a programming error
// in one tick degrades to a logged, backed-off reschedule instead of
// tearing the room down.
func (r *Room) runTickBody(at time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("room %s: recovered from tick panic: %v", r.Code, rec)
			time.Sleep(TickBackoff)
		}
	}()
	r.stepPhysics(at)
}
