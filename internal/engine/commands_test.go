package engine

import (
	"testing"
	"time"
)

func testPlayers() map[string]*Player {
	now := time.Now()
	return map[string]*Player{
		"p1": NewPlayer(1, "p1", Team1, -30, 0, now),
		"p2": NewPlayer(2, "p2", Team2, 30, 0, now),
	}
}

func TestHandleMoveAcceptsValidTarget(t *testing.T) {
	players := testPlayers()
	cmd := MoveCommand{SessionKey: "p1", TargetX: -40, TargetZ: 10, ActionID: "a1", Seq: 5}
	ack, ok := HandleMove(players, cmd, time.Now(), 42)
	if !ok {
		t.Fatal("expected move to be accepted")
	}
	if ack.ActionID != "a1" || ack.Tick != 42 || ack.PlayerID != 1 {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if !players["p1"].IsMoving || players["p1"].TargetX != -40 {
		t.Fatal("expected player state to reflect the accepted move")
	}
	if players["p1"].LastProcessedSeq != 5 {
		t.Fatal("expected LastProcessedSeq to be updated")
	}
}

func TestHandleMoveRejectsOutOfBounds(t *testing.T) {
	players := testPlayers()
	cmd := MoveCommand{SessionKey: "p1", TargetX: 30, TargetZ: 0} // across the no-go strip onto team2's side
	_, ok := HandleMove(players, cmd, time.Now(), 1)
	if ok {
		t.Fatal("expected move into an invalid target to be rejected")
	}
	if players["p1"].IsMoving {
		t.Fatal("rejected move must not mutate player state")
	}
}

func TestHandleMoveRejectsUnknownOrDeadSender(t *testing.T) {
	players := testPlayers()
	if _, ok := HandleMove(players, MoveCommand{SessionKey: "ghost", TargetX: -40, TargetZ: 0}, time.Now(), 1); ok {
		t.Fatal("expected unknown sender to be rejected")
	}
	players["p1"].IsDead = true
	if _, ok := HandleMove(players, MoveCommand{SessionKey: "p1", TargetX: -40, TargetZ: 0}, time.Now(), 1); ok {
		t.Fatal("expected dead sender to be rejected")
	}
}

func TestHandleThrowRespectsCooldown(t *testing.T) {
	players := testPlayers()
	now := time.Now()
	cmd := ThrowCommand{SessionKey: "p1", TargetX: 0, TargetZ: 0, ActionID: "t1", ClientTimeMs: now.UnixMilli()}

	proj, ok := HandleThrow(players, cmd, now)
	if !ok || proj == nil {
		t.Fatal("expected first throw to be accepted")
	}

	_, ok = HandleThrow(players, cmd, now.Add(time.Millisecond))
	if ok {
		t.Fatal("expected immediate second throw to be rejected by cooldown")
	}

	_, ok = HandleThrow(players, cmd, now.Add(KnifeCooldown+time.Millisecond))
	if !ok {
		t.Fatal("expected throw to be accepted once the cooldown has elapsed")
	}
}

func TestHandleThrowRejectsDeadSender(t *testing.T) {
	players := testPlayers()
	players["p1"].IsDead = true
	_, ok := HandleThrow(players, ThrowCommand{SessionKey: "p1", TargetX: 1, TargetZ: 1}, time.Now())
	if ok {
		t.Fatal("expected dead sender's throw to be rejected")
	}
}

func TestHandleCollisionReportCreditsOpposingTeam(t *testing.T) {
	players := testPlayers()
	update, applied := HandleCollisionReport(players, CollisionReportCommand{SessionKey: "p1", TargetTeam: Team2})
	if !applied {
		t.Fatal("expected collision report to apply")
	}
	if update.PlayerID != 2 || update.Health != MaxHealth-1 {
		t.Fatalf("unexpected update: %+v", update)
	}
}

func TestHandleCollisionReportRejectsOwnTeam(t *testing.T) {
	players := testPlayers()
	_, applied := HandleCollisionReport(players, CollisionReportCommand{SessionKey: "p1", TargetTeam: Team1})
	if applied {
		t.Fatal("expected a report against the attacker's own team to be rejected")
	}
}

func TestHandleCollisionReportRejectsUnknownAttacker(t *testing.T) {
	players := testPlayers()
	_, applied := HandleCollisionReport(players, CollisionReportCommand{SessionKey: "ghost", TargetTeam: Team2})
	if applied {
		t.Fatal("expected an unknown attacker to be rejected")
	}
}

func TestHandleCollisionReportSkipsDeadVictims(t *testing.T) {
	players := testPlayers()
	players["p2"].IsDead = true
	_, applied := HandleCollisionReport(players, CollisionReportCommand{SessionKey: "p1", TargetTeam: Team2})
	if applied {
		t.Fatal("expected no living victim on the target team to report as not applied")
	}
}
