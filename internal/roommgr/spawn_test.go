package roommgr

import (
	"testing"

	"arena-server/internal/engine"
)

func TestSpawnPositionsDeterministic(t *testing.T) {
	t1a, t2a := spawnPositions("ABCD", engine.Mode1v1)
	t1b, t2b := spawnPositions("ABCD", engine.Mode1v1)

	if len(t1a) != len(t1b) || len(t2a) != len(t2b) {
		t.Fatal("expected identical slot counts across calls")
	}
	for i := range t1a {
		if t1a[i] != t1b[i] {
			t.Fatalf("expected team1 spawn %d to be deterministic, got %+v vs %+v", i, t1a[i], t1b[i])
		}
	}
	for i := range t2a {
		if t2a[i] != t2b[i] {
			t.Fatalf("expected team2 spawn %d to be deterministic, got %+v vs %+v", i, t2a[i], t2b[i])
		}
	}
}

func TestSpawnPositionsDifferByRoomCode(t *testing.T) {
	t1a, _ := spawnPositions("ABCD", engine.Mode1v1)
	t1b, _ := spawnPositions("WXYZ", engine.Mode1v1)
	if t1a[0] == t1b[0] {
		t.Fatal("expected different room codes to produce different spawn seeds (collision is astronomically unlikely)")
	}
}

func TestSpawnPositionsRespectTeamSides(t *testing.T) {
	t1, t2 := spawnPositions("ABCD", engine.Mode1v1)
	for _, p := range t1 {
		if p.X >= 0 {
			t.Fatalf("expected team1 spawns on the negative-x side, got %+v", p)
		}
	}
	for _, p := range t2 {
		if p.X <= 0 {
			t.Fatalf("expected team2 spawns on the positive-x side, got %+v", p)
		}
	}
}

func TestSpawnPositionsSlotCountMatchesMode(t *testing.T) {
	t1, t2 := spawnPositions("ABCD", engine.Mode3v3)
	if len(t1) != 3 || len(t2) != 3 {
		t.Fatalf("expected 3 spawn slots per side in 3v3, got %d/%d", len(t1), len(t2))
	}
}
