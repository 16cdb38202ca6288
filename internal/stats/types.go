package stats

import "github.com/bsluismans-tech/FootballTracker/internal/match"

// FormWindow is the default number of games in a form strip.
const FormWindow = 5

// TeamRecord sums up every finished game.
type TeamRecord struct {
	Played          int `json:"played"`
	Wins            int `json:"wins"`
	Draws           int `json:"draws"`
	Losses          int `json:"losses"`
	GoalsFor        int `json:"goalsFor"`
	GoalsAgainst    int `json:"goalsAgainst"`
	GoalDiff        int `json:"goalDiff"`
	TotalAssists    int `json:"totalAssists"`
	TotalTackles    int `json:"totalTackles"`
	TotalSaves      int `json:"totalSaves"`
	TotalSpectators int `json:"totalSpectators"`
}

// Entry is one line of a ranking: a player or parent id with its count.
type Entry struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Count int    `json:"count"`
}

// Rankings are sorted from highest count to lowest.
type Rankings struct {
	Goals       []Entry `json:"goals"`
	Assists     []Entry `json:"assists"`
	Tackles     []Entry `json:"tackles"`
	KeeperSaves []Entry `json:"keeperSaves"`
	Parents     []Entry `json:"parents"`
}

// FormGame is one game of the form strip.
type FormGame struct {
	GameID   int64        `json:"gameId"`
	Opponent string       `json:"opponent"`
	Result   match.Result `json:"result"`
}

// PlayerLine is a single player's totals over the finished games.
type PlayerLine struct {
	PlayerID    int64 `json:"playerId"`
	Matches     int   `json:"matches"`
	Goals       int   `json:"goals"`
	Assists     int   `json:"assists"`
	Tackles     int   `json:"tackles"`
	KeeperSaves int   `json:"keeperSaves"`
}

// Summary bundles everything the standings view shows.
type Summary struct {
	Record   TeamRecord `json:"record"`
	Rankings Rankings   `json:"rankings"`
	Form     []FormGame `json:"form"`
}
