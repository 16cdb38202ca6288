package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/live"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/bsluismans-tech/FootballTracker/internal/notifier"
	"github.com/bsluismans-tech/FootballTracker/internal/stats"
	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// topN is how many lines each ranking shows in the standings message.
const topN = 3

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	teamName  string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID, teamName string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		teamName:  teamName,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID, teamName string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		teamName:  teamName,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendResultNotification(game match.Game, names map[int64]string, dryRun bool) error {
	msg := s.formatResultNotification(game, names)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendStandings(summary stats.Summary, dryRun bool) error {
	msg := s.formatStandings(summary)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) formatResultNotification(game match.Game, names map[int64]string) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "⚽ Match finished! ⚽", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Score, with one field per quarter
	sb := live.NewScoreboard(game, s.teamName)
	scoreText := fmt.Sprintf("%s %d - %d %s\nResult: %s", sb.HomeName, sb.HomeScore, sb.AwayScore, sb.AwayName, resultText(game.Result()))
	var quarterFields []*slack.TextBlockObject
	for _, q := range sb.Quarters {
		home, away := q.Goals, q.OpponentGoals
		if game.IsAway {
			home, away = away, home
		}
		quarterFields = append(quarterFields, slack.NewTextBlockObject("plain_text", fmt.Sprintf("Q%d\n%d - %d", q.Number, home, away), false, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", scoreText, true, false), quarterFields, nil))

	// Scorers and assists
	single := []match.Game{game}
	lines := []string{rankingText("Goals", stats.TopScorers(single, names), -1)}
	if assists := stats.TopAssists(single, names); len(assists) > 0 {
		lines = append(lines, rankingText("Assists", assists, -1))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	// Context
	contextText := formatDate(game.Date)
	if game.Notes != "" {
		contextText += " | " + game.Notes
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, false, false)))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatStandings(summary stats.Summary) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s standings 🏆", s.teamName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	rec := summary.Record
	if rec.Played == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No finished games yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	recordText := fmt.Sprintf("Played %d | W %d D %d L %d\nGoals %d - %d (%+d)",
		rec.Played, rec.Wins, rec.Draws, rec.Losses, rec.GoalsFor, rec.GoalsAgainst, rec.GoalDiff)
	if len(summary.Form) > 0 {
		form := make([]string, 0, len(summary.Form))
		for _, f := range summary.Form {
			form = append(form, string(f.Result))
		}
		recordText += "\nForm: " + strings.Join(form, " ")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", recordText, true, false), nil, nil))

	rankings := []struct {
		title   string
		entries []stats.Entry
	}{
		{"Top scorers", summary.Rankings.Goals},
		{"Top assists", summary.Rankings.Assists},
		{"Top tacklers", summary.Rankings.Tackles},
		{"Top keepers", summary.Rankings.KeeperSaves},
		{"Most present parents", summary.Rankings.Parents},
	}
	for _, r := range rankings {
		if len(r.entries) == 0 {
			continue
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", rankingText(r.title, r.entries, topN), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func rankingText(title string, entries []stats.Entry, n int) string {
	entries = stats.Top(entries, n)
	if len(entries) == 0 {
		return title + ": none"
	}
	lines := []string{title + ":"}
	for i, e := range entries {
		var medal string
		if n > 0 {
			switch i {
			case 0:
				medal = "🥇 "
			case 1:
				medal = "🥈 "
			case 2:
				medal = "🥉 "
			}
		}
		lines = append(lines, fmt.Sprintf("• %s%s (%d)", medal, entryName(e), e.Count))
	}
	return strings.Join(lines, "\n")
}

func entryName(e stats.Entry) string {
	if e.Name != "" {
		return e.Name
	}
	return fmt.Sprintf("Player %d", e.ID)
}

func resultText(r match.Result) string {
	switch r {
	case match.Win:
		return "Win 🏆"
	case match.Draw:
		return "Draw"
	default:
		return "Loss"
	}
}

func formatDate(t time.Time) string {
	if loc, err := time.LoadLocation("Europe/Brussels"); err == nil {
		t = t.In(loc)
	}
	return t.Format("Monday 02 Jan, 15:04")
}
