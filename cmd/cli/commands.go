package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bsluismans-tech/FootballTracker/internal/roster"
	"github.com/bsluismans-tech/FootballTracker/internal/snapshot"
	"github.com/bsluismans-tech/FootballTracker/internal/stats"
	"github.com/spf13/cobra"
)

var (
	gamesStatus  string
	gamesLimit   int
	standingsTop int
	dryRun       bool
	snapshotDir  string
	snapshotForm int
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(countersCmd)

	playersCmd.AddCommand(playersAddCmd)
	playersCmd.AddCommand(playersDeleteCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(parentsCmd)

	gamesCmd.Flags().StringVar(&gamesStatus, "status", "", "Only list games with this status")
	gamesCmd.Flags().IntVar(&gamesLimit, "limit", 0, "Maximum number of games, newest first")
	rootCmd.AddCommand(gamesCmd)

	standingsCmd.Flags().IntVar(&standingsTop, "top", 5, "Entries per ranking")
	rootCmd.AddCommand(standingsCmd)
	announceCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the message instead of posting it")
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(scoreboardCmd)

	snapshotCmd.Flags().StringVar(&snapshotDir, "dir", "snapshots", "Directory the server writes snapshots to")
	snapshotCmd.Flags().IntVar(&snapshotForm, "form", stats.FormWindow, "Games in the form strip")
	rootCmd.AddCommand(snapshotCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Get the lifetime counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/counters", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players on the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players", nil)
	},
}

var playersAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a player to the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		player, err := roster.NewPlayer(args[0])
		if err != nil {
			return err
		}
		return performRequest(http.MethodPost, "/players", map[string]string{"name": player.Name})
	},
}

var playersDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a player and their parents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
			return fmt.Errorf("invalid player id %q", args[0])
		}
		return performRequest(http.MethodDelete, "/players/"+args[0], nil)
	},
}

var parentsCmd = &cobra.Command{
	Use:   "parents",
	Short: "List the parents on the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/parents", nil)
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List match records",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if gamesStatus != "" {
			q.Set("status", gamesStatus)
		}
		if gamesLimit > 0 {
			q.Set("limit", strconv.Itoa(gamesLimit))
			q.Set("newest", "true")
		}
		endpoint := "/games"
		if len(q) > 0 {
			endpoint += "?" + q.Encode()
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the team record, rankings and form",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats?top="+strconv.Itoa(standingsTop), nil)
	},
}

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Post the standings to Slack",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/stats/announce?dry_run="+strconv.FormatBool(dryRun), nil)
	},
}

var scoreboardCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "Show the live scoreboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/scoreboard", nil)
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Compute standings from a local snapshot directory, without the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := snapshotStandings(snapshotDir, snapshotForm)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func snapshotStandings(dir string, formWindow int) (stats.Summary, error) {
	contents, err := snapshot.New(dir).LoadAll()
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return stats.Summarize(contents.Games, roster.Names(contents.Players), roster.ParentNames(contents.Parents), formWindow), nil
}

func performRequest(method, endpoint string, payload any) error {
	target := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, target)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
