package engine

// EventType classifies an out-of-band event emitted at the moment it
// occurs, as opposed to the periodic broadcast snapshot.
type EventType string

const (
	EventKnifeSpawn    EventType = "serverKnifeSpawn"
	EventKnifeDestroy  EventType = "serverKnifeDestroy"
	EventKnifeHit      EventType = "serverKnifeHit"
	EventHealthUpdate  EventType = "serverHealthUpdate"
	EventMoveAck       EventType = "serverMoveAck"
	EventGameOver      EventType = "serverGameOver"
)

// Event pairs a typed payload with its type tag for the gateway to encode.
// TargetSessionKey is set only for events meant for a single client (the
// move acknowledgment); it is empty for events broadcast to the whole room.
type Event struct {
	Type             EventType
	Payload          interface{}
	TargetSessionKey string
}

// KnifeSpawnPayload announces a newly created projectile.
type KnifeSpawnPayload struct {
	KnifeID   ProjectileID `json:"knifeId"`
	OwnerTeam Team         `json:"ownerTeam"`
	X         float64      `json:"x"`
	Z         float64      `json:"z"`
	VelocityX float64      `json:"velocityX"`
	VelocityZ float64      `json:"velocityZ"`
	ActionID  string       `json:"actionId"`
	Tick      uint64       `json:"tick"`
}

// KnifeDestroyPayload announces a projectile's removal, hit or expired.
type KnifeDestroyPayload struct {
	KnifeID ProjectileID `json:"knifeId"`
}

// KnifeHitPayload announces a confirmed hit.
type KnifeHitPayload struct {
	KnifeID  ProjectileID `json:"knifeId"`
	VictimID PlayerID     `json:"victimId"`
}

// HealthUpdatePayload announces a health change on one player.
type HealthUpdatePayload struct {
	PlayerID PlayerID `json:"playerId"`
	Health   int      `json:"health"`
	IsDead   bool     `json:"isDead"`
}

// MoveAckPayload echoes an accepted move back to the commanding client.
type MoveAckPayload struct {
	ActionID string   `json:"actionId"`
	Tick     uint64   `json:"tick"`
	ServerMs int64    `json:"serverMs"`
	X        float64  `json:"x"`
	Z        float64  `json:"z"`
	TargetX  float64  `json:"targetX"`
	TargetZ  float64  `json:"targetZ"`
	PlayerID PlayerID `json:"playerId"`
}

// GameOverPayload announces the end of the match. WinningTeam is TeamNone
// for the undecided mutual-elimination case.
type GameOverPayload struct {
	WinningTeam Team `json:"winningTeam"`
	Draw        bool `json:"draw"`
}
