// Package stats derives team and player statistics from match records.
// Only finished games count; every function leaves its input untouched.
package stats

import (
	"cmp"
	"slices"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
)

// Finished returns the finished games in their original order.
func Finished(games []match.Game) []match.Game {
	out := make([]match.Game, 0, len(games))
	for _, g := range games {
		if g.Status == match.StatusFinished {
			out = append(out, g)
		}
	}
	return out
}

func Record(games []match.Game) TeamRecord {
	var r TeamRecord
	for _, g := range Finished(games) {
		r.Played++
		ours, theirs := g.TotalGoals(), g.TotalOpponentGoals()
		switch g.Result() {
		case match.Win:
			r.Wins++
		case match.Draw:
			r.Draws++
		case match.Loss:
			r.Losses++
		}
		r.GoalsFor += ours
		r.GoalsAgainst += theirs
		for _, q := range g.Quarters {
			r.TotalAssists += len(q.Assists)
			r.TotalTackles += len(q.Tackles)
			r.TotalSaves += q.Saves
		}
		r.TotalSpectators += len(g.ParentsPresent)
	}
	r.GoalDiff = r.GoalsFor - r.GoalsAgainst
	return r
}

// tally counts per id and remembers the order ids were first seen in.
type tally struct {
	order  []int64
	counts map[int64]int
}

func newTally() *tally {
	return &tally{counts: make(map[int64]int)}
}

func (t *tally) add(id int64, n int) {
	if _, seen := t.counts[id]; !seen {
		t.order = append(t.order, id)
	}
	t.counts[id] += n
}

// ranked sorts by count, highest first. Equal counts keep first-encounter order,
// or go by name when names is not nil.
func (t *tally) ranked(names map[int64]string) []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, Entry{ID: id, Name: names[id], Count: t.counts[id]})
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if names != nil {
			return cmp.Compare(a.Name, b.Name)
		}
		return 0
	})
	return out
}

func rankSequence(games []match.Game, field match.StatField, names map[int64]string) []Entry {
	t := newTally()
	for _, g := range games {
		for _, q := range g.Quarters {
			var seq []int64
			switch field {
			case match.FieldGoals:
				seq = q.Goals
			case match.FieldAssists:
				seq = q.Assists
			case match.FieldTackles:
				seq = q.Tackles
			}
			for _, id := range seq {
				t.add(id, 1)
			}
		}
	}
	return t.ranked(names)
}

func TopScorers(games []match.Game, names map[int64]string) []Entry {
	return rankSequence(Finished(games), match.FieldGoals, names)
}

func TopAssists(games []match.Game, names map[int64]string) []Entry {
	return rankSequence(Finished(games), match.FieldAssists, names)
}

func TopTacklers(games []match.Game, names map[int64]string) []Entry {
	return rankSequence(Finished(games), match.FieldTackles, names)
}

// TopKeepers credits each quarter's saves to that quarter's goalkeeper.
func TopKeepers(games []match.Game, names map[int64]string) []Entry {
	t := newTally()
	for _, g := range Finished(games) {
		for _, q := range g.Quarters {
			if q.Goalkeeper != nil {
				t.add(*q.Goalkeeper, q.Saves)
			}
		}
	}
	return t.ranked(names)
}

// TopParents counts the finished games each parent attended.
func TopParents(games []match.Game, names map[int64]string) []Entry {
	t := newTally()
	for _, g := range Finished(games) {
		for _, id := range g.ParentsPresent {
			t.add(id, 1)
		}
	}
	return t.ranked(names)
}

// Form returns the last n finished games by date, oldest first.
func Form(games []match.Game, n int) []FormGame {
	finished := Finished(games)
	slices.SortStableFunc(finished, func(a, b match.Game) int {
		return a.Date.Compare(b.Date)
	})
	if n >= 0 && len(finished) > n {
		finished = finished[len(finished)-n:]
	}
	out := make([]FormGame, 0, len(finished))
	for _, g := range finished {
		out = append(out, FormGame{GameID: g.ID, Opponent: g.Opponent, Result: g.Result()})
	}
	return out
}

// Player returns the totals of one player over the finished games they attended.
func Player(games []match.Game, playerID int64) PlayerLine {
	line := PlayerLine{PlayerID: playerID}
	for _, g := range Finished(games) {
		if g.IsPresent(playerID) {
			line.Matches++
		}
		for _, q := range g.Quarters {
			line.Goals += q.Count(match.FieldGoals, playerID)
			line.Assists += q.Count(match.FieldAssists, playerID)
			line.Tackles += q.Count(match.FieldTackles, playerID)
			if q.Goalkeeper != nil && *q.Goalkeeper == playerID {
				line.KeeperSaves += q.Saves
			}
		}
	}
	return line
}

// Summarize computes the record, every ranking and the form strip in one go.
// playerNames and parentNames may be nil for first-encounter tie order.
func Summarize(games []match.Game, playerNames, parentNames map[int64]string, formWindow int) Summary {
	return Summary{
		Record: Record(games),
		Rankings: Rankings{
			Goals:       TopScorers(games, playerNames),
			Assists:     TopAssists(games, playerNames),
			Tackles:     TopTacklers(games, playerNames),
			KeeperSaves: TopKeepers(games, playerNames),
			Parents:     TopParents(games, parentNames),
		},
		Form: Form(games, formWindow),
	}
}

// Top returns at most n entries.
func Top(entries []Entry, n int) []Entry {
	if n < 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
