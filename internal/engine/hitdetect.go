package engine

import "time"

// squaredDistPointToSegment returns the squared distance from point (px, pz)
// to the segment (ax, az)-(bx, bz), avoiding a sqrt on the common miss path.
func squaredDistPointToSegment(px, pz, ax, az, bx, bz float64) float64 {
	abx := bx - ax
	abz := bz - az
	lenSq := abx*abx + abz*abz
	if lenSq == 0 {
		dx := px - ax
		dz := pz - az
		return dx*dx + dz*dz
	}
	t := ((px-ax)*abx + (pz-az)*abz) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := ax + t*abx
	cz := az + t*abz
	dx := px - cx
	dz := pz - cz
	return dx*dx + dz*dz
}

// sweptHit reports whether a victim standing at (vx, vz) with CollisionRadius
// intersects the projectile's path from (prevX, prevZ) to (x, z).
func sweptHit(prevX, prevZ, x, z, vx, vz float64) bool {
	r := CollisionRadius
	return squaredDistPointToSegment(vx, vz, prevX, prevZ, x, z) <= r*r
}

// RewindPosition returns where a victim is judged to have been for the
// purpose of a hit test thrown at clientThrowAt. It rewinds through history
// when the thrower's claimed throw time is trustworthy and within
// LagCompensationWindow of now; otherwise it falls back to the victim's
// current position.
func RewindPosition(history *PositionHistory, victimKey string, current PlayerSnapshot, now, clientThrowAt time.Time) PlayerSnapshot {
	if clientThrowAt.IsZero() {
		return current
	}
	if clientThrowAt.After(now.Add(LagCompensationClockSkew)) {
		// Claims to be ahead of the server's own clock: distrust it.
		return current
	}
	lag := now.Sub(clientThrowAt)
	if lag <= 0 || lag >= LagCompensationWindow {
		return current
	}
	snap, ok := history.Lookup(clientThrowAt)
	if !ok {
		return current
	}
	rewound, found := snap.Players[victimKey]
	if !found || rewound.IsDead {
		return current
	}
	return rewound
}

// CheckThrowHit tests one projectile's current step against one candidate
// victim, using lag-compensated rewind of the victim's position. It returns
// true if the projectile's swept path intersects the victim's rewound
// collision circle.
func CheckThrowHit(proj *Projectile, victim *Player, history *PositionHistory, now time.Time) bool {
	if victim.IsDead || victim.Team == proj.OwnerTeam || victim.SessionKey == proj.OwnerSessionKey {
		return false
	}
	current := PlayerSnapshot{X: victim.X, Z: victim.Z, Team: victim.Team, IsDead: victim.IsDead}
	rewound := RewindPosition(history, victim.SessionKey, current, now, proj.ClientThrowAt)
	return sweptHit(proj.PrevX, proj.PrevZ, proj.X, proj.Z, rewound.X, rewound.Z)
}

