package engine

import (
	"testing"
	"time"
)

func TestSweptHitDirectImpact(t *testing.T) {
	// Projectile travels from (0,0) to (10,0); victim sits at (5,0), well
	// within CollisionRadius of the segment.
	if !sweptHit(0, 0, 10, 0, 5, 0) {
		t.Fatal("expected a direct hit")
	}
}

func TestSweptHitMiss(t *testing.T) {
	far := CollisionRadius + 5
	if sweptHit(0, 0, 10, 0, 5, far) {
		t.Fatal("expected a miss well outside the collision radius")
	}
}

func TestSweptHitDegenerateSegment(t *testing.T) {
	// Zero-length segment falls back to a point-in-circle test.
	if !sweptHit(5, 5, 5, 5, 5, 5) {
		t.Fatal("expected a degenerate-segment hit exactly on the point")
	}
	if sweptHit(5, 5, 5, 5, 5+CollisionRadius+1, 5) {
		t.Fatal("expected a degenerate-segment miss outside the radius")
	}
}

func TestRewindPositionZeroLagUsesCurrent(t *testing.T) {
	h := NewPositionHistory(4)
	now := time.Now()
	current := PlayerSnapshot{X: 1, Z: 1}
	got := RewindPosition(h, "victim", current, now, now)
	if got != current {
		t.Fatalf("expected current position at zero lag, got %+v", got)
	}
}

func TestRewindPositionOutsideWindowUsesCurrent(t *testing.T) {
	h := NewPositionHistory(4)
	now := time.Now()
	current := PlayerSnapshot{X: 1, Z: 1}
	clientThrowAt := now.Add(-LagCompensationWindow - time.Second)
	got := RewindPosition(h, "victim", current, now, clientThrowAt)
	if got != current {
		t.Fatalf("expected fallback to current position outside the lag window, got %+v", got)
	}
}

func TestRewindPositionClockSkewDistrusted(t *testing.T) {
	h := NewPositionHistory(4)
	now := time.Now()
	current := PlayerSnapshot{X: 1, Z: 1}
	clientThrowAt := now.Add(LagCompensationClockSkew + time.Second)
	got := RewindPosition(h, "victim", current, now, clientThrowAt)
	if got != current {
		t.Fatalf("expected fallback to current position for an untrustworthy future timestamp, got %+v", got)
	}
}

func TestRewindPositionInWindowRewinds(t *testing.T) {
	h := NewPositionHistory(16)
	base := time.Now().Add(-2 * time.Second)

	for i := 0; i < 10; i++ {
		at := base.Add(time.Duration(i) * 100 * time.Millisecond)
		h.Record(at, map[string]PlayerSnapshot{
			"victim": {X: float64(i), Z: 0},
		})
	}

	now := base.Add(1 * time.Second) // 1000ms after base
	clientThrowAt := base.Add(400 * time.Millisecond)
	current := PlayerSnapshot{X: 999, Z: 999}

	got := RewindPosition(h, "victim", current, now, clientThrowAt)
	if got.X == current.X {
		t.Fatal("expected a rewound position, got the current-position fallback")
	}
	if got.X != 4 {
		t.Fatalf("expected rewound snapshot at index 4, got X=%v", got.X)
	}
}

func TestRewindPositionDeadHistoricalEntryUsesCurrent(t *testing.T) {
	h := NewPositionHistory(4)
	now := time.Now()
	clientThrowAt := now.Add(-500 * time.Millisecond)
	h.Record(clientThrowAt, map[string]PlayerSnapshot{
		"victim": {X: 5, Z: 0, IsDead: true},
	})
	current := PlayerSnapshot{X: 1, Z: 1}

	got := RewindPosition(h, "victim", current, now, clientThrowAt)
	if got != current {
		t.Fatalf("expected fallback to current position for a historically dead victim, got %+v", got)
	}
}

func TestCheckThrowHitIgnoresOwnTeamAndSelf(t *testing.T) {
	h := NewPositionHistory(4)
	now := time.Now()
	proj := &Projectile{PrevX: 0, PrevZ: 0, X: 10, Z: 0, OwnerSessionKey: "attacker", OwnerTeam: Team1}

	sameTeam := &Player{SessionKey: "victim", Team: Team1, X: 5, Z: 0}
	if CheckThrowHit(proj, sameTeam, h, now) {
		t.Fatal("expected no hit against a teammate")
	}

	dead := &Player{SessionKey: "victim2", Team: Team2, X: 5, Z: 0, IsDead: true}
	if CheckThrowHit(proj, dead, h, now) {
		t.Fatal("expected no hit against a dead player")
	}

	self := &Player{SessionKey: "attacker", Team: Team2, X: 5, Z: 0}
	if CheckThrowHit(proj, self, h, now) {
		t.Fatal("expected no hit against the thrower's own session key")
	}
}
