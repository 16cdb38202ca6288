package live

import (
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
)

// DefaultOpponentName is shown when a game has no opponent filled in.
const DefaultOpponentName = "Opponent"

// Scoreboard is what observers render: the running score of the active game,
// or the result of the last finished one.
type Scoreboard struct {
	GameID    int64          `json:"gameId"`
	Live      bool           `json:"live"`
	Date      time.Time      `json:"date"`
	HomeName  string         `json:"homeName"`
	AwayName  string         `json:"awayName"`
	HomeScore int            `json:"homeScore"`
	AwayScore int            `json:"awayScore"`
	Result    match.Result   `json:"result,omitempty"`
	Quarters  []QuarterScore `json:"quarters"`
}

type QuarterScore struct {
	Number        int `json:"number"`
	Goals         int `json:"goals"`
	OpponentGoals int `json:"opponentGoals"`
}

// NewScoreboard lays the game out from the home side's point of view. For an
// away game the opponent is the home team.
func NewScoreboard(g match.Game, teamName string) Scoreboard {
	opponent := g.Opponent
	if opponent == "" {
		opponent = DefaultOpponentName
	}
	ours, theirs := g.TotalGoals(), g.TotalOpponentGoals()

	sb := Scoreboard{
		GameID:    g.ID,
		Live:      g.Status == match.StatusActive,
		Date:      g.Date,
		HomeName:  teamName,
		AwayName:  opponent,
		HomeScore: ours,
		AwayScore: theirs,
		Quarters:  make([]QuarterScore, 0, len(g.Quarters)),
	}
	if g.IsAway {
		sb.HomeName, sb.AwayName = opponent, teamName
		sb.HomeScore, sb.AwayScore = theirs, ours
	}
	if g.Status == match.StatusFinished {
		sb.Result = g.Result()
	}
	for _, q := range g.Quarters {
		sb.Quarters = append(sb.Quarters, QuarterScore{Number: q.Number, Goals: len(q.Goals), OpponentGoals: q.OpponentGoals})
	}
	return sb
}
