package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/metrics"
	"github.com/bsluismans-tech/FootballTracker/internal/stats"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func finishedGame(away bool) match.Game {
	g := match.NewGame(1, time.Date(2025, 9, 13, 10, 0, 0, 0, time.UTC), []int64{1, 2})
	g.Opponent = "Bree"
	g.IsAway = away
	g.Status = match.StatusFinished
	g.Quarters[0].Goals = []int64{1, 1}
	g.Quarters[0].Assists = []int64{2}
	g.Quarters[1].OpponentGoals = 1
	g.Quarters[2].Goals = []int64{2}
	return *g
}

var names = map[int64]string{1: "Lotte", 2: "Mats"}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", "Kaulille", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", "Kaulille", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", "Kaulille", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendResultNotification_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", "Kaulille", metrics.NewMock())

	err := notifier.SendResultNotification(finishedGame(false), names, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendResultNotification")
}

func TestFormatResultNotification(t *testing.T) {
	t.Run("home game", func(t *testing.T) {
		client := &Notifier{channelID: "C123", teamName: "Kaulille"}
		msg := client.formatResultNotification(finishedGame(false), names)
		require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok, "First block should be a HeaderBlock")
		assert.Equal(t, "⚽ Match finished! ⚽", header.Text.Text)

		score, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok, "Second block should be a SectionBlock")
		assert.Equal(t, "Kaulille 3 - 1 Bree\nResult: Win 🏆", score.Text.Text)
		require.Len(t, score.Fields, 4)
		assert.Equal(t, "Q1\n2 - 0", score.Fields[0].Text)
		assert.Equal(t, "Q2\n0 - 1", score.Fields[1].Text)

		scorers, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok, "Third block should be a SectionBlock")
		assert.Equal(t, "Goals:\n• Lotte (2)\n• Mats (1)\nAssists:\n• Mats (1)", scorers.Text.Text)

		_, ok = msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
		assert.True(t, ok, "Fourth block should be a ContextBlock")
	})

	t.Run("away game flips the score", func(t *testing.T) {
		client := &Notifier{channelID: "C123", teamName: "Kaulille"}
		msg := client.formatResultNotification(finishedGame(true), names)

		score := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "Bree 1 - 3 Kaulille\nResult: Win 🏆", score.Text.Text)
		assert.Equal(t, "Q2\n1 - 0", score.Fields[1].Text)
	})

	t.Run("no goals and unknown names", func(t *testing.T) {
		g := finishedGame(false)
		g.Quarters[0].Goals = nil
		g.Quarters[0].Assists = nil
		g.Quarters[2].Goals = []int64{9}
		client := &Notifier{channelID: "C123", teamName: "Kaulille"}
		msg := client.formatResultNotification(g, names)

		scorers := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		assert.Equal(t, "Goals:\n• Player 9 (1)", scorers.Text.Text)
	})
}

func TestFormatStandings(t *testing.T) {
	t.Run("no games yet", func(t *testing.T) {
		client := &Notifier{teamName: "Kaulille"}
		msg := client.formatStandings(stats.Summary{})
		require.Len(t, msg.Blocks.BlockSet, 2)

		header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		assert.Equal(t, "🏆 Kaulille standings 🏆", header.Text.Text)
		section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "No finished games yet. Go play some matches!", section.Text.Text)
	})

	t.Run("record, form and rankings", func(t *testing.T) {
		summary := stats.Summary{
			Record: stats.TeamRecord{Played: 3, Wins: 2, Losses: 1, GoalsFor: 7, GoalsAgainst: 4, GoalDiff: 3},
			Form: []stats.FormGame{
				{GameID: 1, Result: match.Win},
				{GameID: 2, Result: match.Loss},
				{GameID: 3, Result: match.Win},
			},
			Rankings: stats.Rankings{
				Goals: []stats.Entry{
					{ID: 1, Name: "Lotte", Count: 4},
					{ID: 2, Name: "Mats", Count: 2},
					{ID: 3, Name: "Noor", Count: 1},
					{ID: 4, Name: "Vic", Count: 1},
				},
				Tackles:     []stats.Entry{{ID: 3, Name: "Noor", Count: 5}},
				KeeperSaves: []stats.Entry{{ID: 2, Name: "Mats", Count: 6}},
				Parents:     []stats.Entry{{ID: 11, Name: "Els", Count: 3}, {ID: 12, Name: "Wim", Count: 2}},
			},
		}
		client := &Notifier{teamName: "Kaulille"}
		msg := client.formatStandings(summary)
		require.Len(t, msg.Blocks.BlockSet, 6, "Assists are skipped when empty")

		record := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		assert.Equal(t, "Played 3 | W 2 D 0 L 1\nGoals 7 - 4 (+3)\nForm: W L W", record.Text.Text)

		scorers := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		assert.Equal(t, "Top scorers:\n• 🥇 Lotte (4)\n• 🥈 Mats (2)\n• 🥉 Noor (1)", scorers.Text.Text)

		tacklers := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
		assert.Equal(t, "Top tacklers:\n• 🥇 Noor (5)", tacklers.Text.Text)

		keepers := msg.Blocks.BlockSet[4].(*slackapi.SectionBlock)
		assert.Equal(t, "Top keepers:\n• 🥇 Mats (6)", keepers.Text.Text)

		parents := msg.Blocks.BlockSet[5].(*slackapi.SectionBlock)
		assert.Equal(t, "Most present parents:\n• 🥇 Els (3)\n• 🥈 Wim (2)", parents.Text.Text)
	})
}
