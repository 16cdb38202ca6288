package main

import (
	"math/rand/v2"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/roster"
)

var opponents = []string{"KFC Peer", "Bree", "Bocholt", "Hamont", "Lommel", "Neerpelt"}

// seedGames plays n random finished games, one a week starting at first.
// Game ids follow the date so they stay unique and ordered.
func seedGames(rng *rand.Rand, players []roster.Player, parents []roster.Parent, n int, first time.Time) []match.Game {
	out := make([]match.Game, 0, n)
	for i := range n {
		date := first.AddDate(0, 0, 7*i)
		present := make([]int64, 0, len(players))
		for _, p := range players {
			if rng.IntN(10) > 0 {
				present = append(present, p.ID)
			}
		}
		g := match.NewGame(date.UnixMilli(), date, present)
		g.Opponent = opponents[rng.IntN(len(opponents))]
		g.IsAway = rng.IntN(2) == 0
		for _, p := range parents {
			if rng.IntN(2) == 0 {
				g.ParentsPresent = append(g.ParentsPresent, p.ID)
			}
		}

		for qi := range g.Quarters {
			q := &g.Quarters[qi]
			q.OpponentGoals = rng.IntN(3)
			if len(present) == 0 {
				continue
			}
			q.SetGoalkeeper(present[rng.IntN(len(present))])
			q.Saves = rng.IntN(4)
			for range rng.IntN(3) {
				q.Goals = append(q.Goals, present[rng.IntN(len(present))])
			}
			for range rng.IntN(2) {
				q.Assists = append(q.Assists, present[rng.IntN(len(present))])
			}
			for range rng.IntN(4) {
				q.Tackles = append(q.Tackles, present[rng.IntN(len(present))])
			}
		}

		ended := date.Add(time.Hour)
		g.Status = match.StatusFinished
		g.EndedAt = &ended
		out = append(out, *g)
	}
	return out
}
