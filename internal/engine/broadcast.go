package engine

import "time"

// PlayerState is one player's entry in a broadcast snapshot.
type PlayerState struct {
	PlayerID         PlayerID `json:"playerId"`
	Team             Team     `json:"team"`
	X                float64  `json:"x"`
	Z                float64  `json:"z"`
	TargetX          float64  `json:"targetX"`
	TargetZ          float64  `json:"targetZ"`
	IsMoving         bool     `json:"isMoving"`
	IsDead           bool     `json:"isDead"`
	Health           int      `json:"health"`
	LastProcessedSeq uint64   `json:"lastProcessedSeq"`
}

// ProjectileState is one live knife's entry in a broadcast snapshot.
type ProjectileState struct {
	KnifeID   ProjectileID `json:"knifeId"`
	OwnerTeam Team         `json:"ownerTeam"`
	X         float64      `json:"x"`
	Z         float64      `json:"z"`
	VelocityX float64      `json:"velocityX"`
	VelocityZ float64      `json:"velocityZ"`
}

// GameStatePayload is the full room-state message sent once per broadcast
// tick to every member of the room.
type GameStatePayload struct {
	Tick       uint64            `json:"tick"`
	ServerMs   int64             `json:"serverMs"`
	Players    []PlayerState     `json:"players"`
	Projectiles []ProjectileState `json:"projectiles"`
}

// BuildGameState snapshots the current player and projectile tables into a
// broadcast-ready payload. Map iteration order does not matter here: the
// client indexes entries by id, not position.
func BuildGameState(players map[string]*Player, projectiles map[ProjectileID]*Projectile, tick uint64, now time.Time) GameStatePayload {
	out := GameStatePayload{
		Tick:        tick,
		ServerMs:    now.UnixMilli(),
		Players:     make([]PlayerState, 0, len(players)),
		Projectiles: make([]ProjectileState, 0, len(projectiles)),
	}
	for _, p := range players {
		out.Players = append(out.Players, PlayerState{
			PlayerID:         p.ID,
			Team:             p.Team,
			X:                p.X,
			Z:                p.Z,
			TargetX:          p.TargetX,
			TargetZ:          p.TargetZ,
			IsMoving:         p.IsMoving,
			IsDead:           p.IsDead,
			Health:           p.Health,
			LastProcessedSeq: p.LastProcessedSeq,
		})
	}
	for _, pr := range projectiles {
		out.Projectiles = append(out.Projectiles, ProjectileState{
			KnifeID:   pr.ID,
			OwnerTeam: pr.OwnerTeam,
			X:         pr.X,
			Z:         pr.Z,
			VelocityX: pr.VX,
			VelocityZ: pr.VZ,
		})
	}
	return out
}
