package engine

// CheckGameOver counts living players per team and reports whether the
// match has ended. A match ends when at most one team still has a living
// player.
//
// Open question left by the source behavior: when the last hits on both
// remaining teams land in the same tick, the original implementation
// picked whichever team's survivor count it happened to enumerate first,
// an accident of iteration order rather than a real decision. This
// implementation treats simultaneous elimination as a draw: GameOverPayload
// carries Draw=true and WinningTeam=TeamNone instead of crediting either
// side.
func CheckGameOver(players map[string]*Player) (over bool, result GameOverPayload) {
	if len(players) == 0 {
		return false, GameOverPayload{}
	}
	livingByTeam := map[Team]int{}
	for _, p := range players {
		if !p.IsDead {
			livingByTeam[p.Team]++
		}
	}

	var survivors []Team
	for team, count := range livingByTeam {
		if count > 0 {
			survivors = append(survivors, team)
		}
	}

	switch len(survivors) {
	case 0:
		return true, GameOverPayload{WinningTeam: TeamNone, Draw: true}
	case 1:
		return true, GameOverPayload{WinningTeam: survivors[0]}
	default:
		return false, GameOverPayload{}
	}
}
