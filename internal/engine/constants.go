package engine

import "time"

// Tuning constants for the arena simulation. These are server-authoritative
// and never derived from client input.
const (
	// TickRate is the target physics rate in Hz.
	TickRate = 120
	// NetworkUpdateRateHigh is the broadcast rate when the host is not under
	// pressure.
	NetworkUpdateRateHigh = 60
	// NetworkUpdateRateLow is the broadcast rate once the Host-Pressure
	// Controller has degraded the room.
	NetworkUpdateRateLow = 30

	// MaxCatchUpTicks bounds how many physics steps one scheduler iteration
	// will run before clamping the simulation clock.
	MaxCatchUpTicks = 8

	// CharacterRadius is used by the map-bounds predicate.
	CharacterRadius = 6.0
	// NoGoHalfWidth is the half-width of the central strip neither team may
	// occupy.
	NoGoHalfWidth = 18.0
	// OuterBoundX/Z are the outer rectangle bounds before the corner cut.
	OuterBoundX = 80.0
	OuterBoundZ = 68.0
	// CornerCutSum is the corner-cut limit: |x| + |z| must stay strictly
	// below it.
	CornerCutSum = 120.0

	// PlayerSpeed is in units per second.
	PlayerSpeed = 23.4
	// SnapEpsilon is the remaining-distance threshold below which a moving
	// player snaps to its target instead of overshooting.
	SnapEpsilon = 0.1

	// KnifeSpeed is in units per second.
	KnifeSpeed = 4.5864
	// KnifeCooldown is wall-clock time between throws per player.
	KnifeCooldown = 4000 * time.Millisecond
	// KnifeLifetime bounds a projectile's age before forced expiry.
	KnifeLifetime = 35000 * time.Millisecond

	// MaxHealth is the starting and maximum health of every player.
	MaxHealth = 5
	// CollisionRadius is the hit-detection circle radius around a player.
	CollisionRadius = 11.025

	// PositionHistoryCapacity is sized to roughly one second at TickRate
	// (120 entries at 120 Hz), matching LagCompensationWindow.
	PositionHistoryCapacity = 120

	// LagCompensationWindow bounds the lag a thrower's clientTimestamp may
	// claim before the server falls back to current positions.
	LagCompensationWindow = 1000 * time.Millisecond
	// LagCompensationClockSkew is the tolerance for a clientTimestamp that
	// claims to be ahead of the server's own clock.
	LagCompensationClockSkew = 100 * time.Millisecond

	// TickBackoff is the delay the scheduler waits after recovering from a
	// panic inside one tick body.
	TickBackoff = 100 * time.Millisecond

	// HostPressureSampleInterval is how often the tick scheduler consults
	// the Host-Pressure Controller. This must stay aligned with
	// LoadMonitor's own refresh cadence, or the controller's "N consecutive
	// samples" hysteresis debounces over a few milliseconds of re-reads of
	// the same cached value instead of over real elapsed time.
	HostPressureSampleInterval = 5 * time.Second
)

// Team identifies one of the two sides in a match.
type Team uint8

const (
	TeamNone Team = 0
	Team1    Team = 1
	Team2    Team = 2
)

// Mode is the room's configured match size.
type Mode string

const (
	Mode1v1 Mode = "1v1"
	Mode3v3 Mode = "3v3"
)

// MaxPlayers returns the player cap for a mode.
func (m Mode) MaxPlayers() int {
	if m == Mode3v3 {
		return 6
	}
	return 2
}
