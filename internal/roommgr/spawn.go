package roommgr

import (
	"hash/fnv"
	"math/rand"

	"arena-server/internal/engine"
)

// seedFor derives a deterministic RNG seed from the room code and mode, per
// the room configuration's "seed string derived from the room code
// concatenated with the mode".
func seedFor(roomCode string, mode engine.Mode) int64 {
	h := fnv.New64a()
	h.Write([]byte(roomCode))
	h.Write([]byte(mode))
	return int64(h.Sum64())
}

// spawnPositions deterministically assigns one valid spawn point per team
// slot, so two clients computing from the same (roomCode, mode) agree
// without needing to ask the server first.
func spawnPositions(roomCode string, mode engine.Mode) (team1, team2 []struct{ X, Z float64 }) {
	rng := rand.New(rand.NewSource(seedFor(roomCode, mode)))
	slots := mode.MaxPlayers() / 2

	makeSide := func(sign float64) []struct{ X, Z float64 } {
		out := make([]struct{ X, Z float64 }, 0, slots)
		for i := 0; i < slots; i++ {
			x := sign * (engine.NoGoHalfWidth + 10 + rng.Float64()*30)
			z := -40 + rng.Float64()*80
			out = append(out, struct{ X, Z float64 }{X: x, Z: z})
		}
		return out
	}

	return makeSide(-1), makeSide(1)
}
