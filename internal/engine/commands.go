package engine

import "time"

// MoveCommand is a client's requested move target.
type MoveCommand struct {
	SessionKey string
	TargetX    float64
	TargetZ    float64
	ActionID   string
	Seq        uint64
}

// ThrowCommand is a client's requested knife throw.
type ThrowCommand struct {
	SessionKey    string
	TargetX       float64
	TargetZ       float64
	ActionID      string
	ClientTimeMs  int64 // attacker's wall-clock at throw time, ms since epoch
}

// CollisionReportCommand is the client-assisted damage path, present for
// compatibility with older clients. The authoritative path is the tick-rate
// hit detector; this path credits damage directly against the first living
// player on the reported team.
type CollisionReportCommand struct {
	SessionKey string
	TargetTeam Team
	ActionID   string
}

// HandleMove validates and applies a move command. Rejections are silent:
// no state change, no acknowledgment. On acceptance it returns the
// acknowledgment payload for the caller to emit.
func HandleMove(players map[string]*Player, cmd MoveCommand, now time.Time, tick uint64) (ack MoveAckPayload, accepted bool) {
	p, ok := players[cmd.SessionKey]
	if !ok || p.IsDead {
		return MoveAckPayload{}, false
	}
	if !WithinBounds(p.Team, cmd.TargetX, cmd.TargetZ) {
		return MoveAckPayload{}, false
	}
	p.TargetX, p.TargetZ = cmd.TargetX, cmd.TargetZ
	p.IsMoving = true
	p.LastProcessedSeq = cmd.Seq
	return MoveAckPayload{
		ActionID: cmd.ActionID,
		Tick:     tick,
		ServerMs: now.UnixMilli(),
		X:        p.X,
		Z:        p.Z,
		TargetX:  p.TargetX,
		TargetZ:  p.TargetZ,
		PlayerID: p.ID,
	}, true
}

// HandleThrow validates a throw command and, if accepted, constructs the
// projectile. The caller is responsible for assigning it a projectile ID and
// inserting it into the room's projectile table.
func HandleThrow(players map[string]*Player, cmd ThrowCommand, now time.Time) (proj *Projectile, accepted bool) {
	p, ok := players[cmd.SessionKey]
	if !ok || !p.CanThrow(now) {
		return nil, false
	}
	clientThrowAt := time.UnixMilli(cmd.ClientTimeMs)
	projInit := NewProjectile("", p.SessionKey, p.Team, cmd.ActionID, p.X, p.Z, cmd.TargetX, cmd.TargetZ, now, clientThrowAt)
	if projInit == nil {
		return nil, false
	}
	p.LastThrow = now
	return projInit, true
}

// HandleCollisionReport applies the client-assisted damage path. It
// validates that the attacker exists and that the reported team differs
// from the attacker's own, then credits damage against the first living
// player found on that team.
func HandleCollisionReport(players map[string]*Player, cmd CollisionReportCommand) (update HealthUpdatePayload, applied bool) {
	attacker, ok := players[cmd.SessionKey]
	if !ok || attacker.Team == cmd.TargetTeam {
		return HealthUpdatePayload{}, false
	}
	for _, victim := range players {
		if victim.Team != cmd.TargetTeam || victim.IsDead {
			continue
		}
		victim.ApplyDamage()
		return HealthUpdatePayload{PlayerID: victim.ID, Health: victim.Health, IsDead: victim.IsDead}, true
	}
	return HealthUpdatePayload{}, false
}
