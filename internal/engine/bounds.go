package engine

import "math"

// WithinBounds reports whether (x, z) is an admissible move target for the
// given team. All four predicates — no-go strip, team containment, outer
// bounds, and the corner cut — must hold.
func WithinBounds(team Team, x, z float64) bool {
	if math.Abs(x) <= NoGoHalfWidth {
		return false
	}
	if team == Team1 && x > -NoGoHalfWidth {
		return false
	}
	if team == Team2 && x < NoGoHalfWidth {
		return false
	}
	if math.Abs(x) > OuterBoundX-CharacterRadius {
		return false
	}
	if math.Abs(z) > OuterBoundZ {
		return false
	}
	if math.Abs(x)+math.Abs(z) >= CornerCutSum {
		return false
	}
	return true
}

// Integrate advances one living, moving player toward its target at
// PlayerSpeed, snapping to the target when the remaining distance is below
// SnapEpsilon or would be covered within this step.
func Integrate(p *Player, dt float64) {
	if p.IsDead || !p.IsMoving {
		return
	}
	dx := p.TargetX - p.X
	dz := p.TargetZ - p.Z
	dist := math.Sqrt(dx*dx + dz*dz)
	if dist < SnapEpsilon {
		p.X, p.Z = p.TargetX, p.TargetZ
		p.IsMoving = false
		return
	}
	step := PlayerSpeed * dt
	if step >= dist {
		p.X, p.Z = p.TargetX, p.TargetZ
		p.IsMoving = false
		return
	}
	p.X += dx / dist * step
	p.Z += dz / dist * step
}
