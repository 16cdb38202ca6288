package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/bsluismans-tech/FootballTracker/internal/games"
	"github.com/bsluismans-tech/FootballTracker/internal/match"
	"github.com/bsluismans-tech/FootballTracker/internal/roster"
	"github.com/bsluismans-tech/FootballTracker/internal/stats"
	"github.com/charmbracelet/log"
)

// saveFailedMessage is shown when the final write of a match fails. The match stays open.
const saveFailedMessage = "Saving the match failed. Nothing was lost, please try again."

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			log.Error("Failed to get counters", "error", err)
			http.Error(w, "Failed to get counters", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}

// Roster

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Roster.GetAllPlayers()
		if err != nil {
			log.Error("Failed to get players from store", "error", err)
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		player, err := roster.NewPlayer(req.Name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		player, err = s.Roster.AddPlayer(player)
		if err != nil {
			writeError(w, "Failed to add player", err)
			return
		}
		log.Info("Player added", "playerID", player.ID, "name", player.Name)
		writeJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.Roster.DeletePlayer(id); err != nil {
			writeError(w, "Failed to delete player", err)
			return
		}
		log.Info("Player deleted", "playerID", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListParentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			parents []roster.Parent
			err     error
		)
		if playerID := r.URL.Query().Get("playerId"); playerID != "" {
			id, perr := strconv.ParseInt(playerID, 10, 64)
			if perr != nil {
				http.Error(w, "Invalid playerId", http.StatusBadRequest)
				return
			}
			parents, err = s.Roster.GetParentsOf(id)
		} else {
			parents, err = s.Roster.GetAllParents()
		}
		if err != nil {
			log.Error("Failed to get parents from store", "error", err)
			http.Error(w, "Failed to get parents", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, parents)
	}
}

func (s *Server) AddParentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		parent, err := roster.NewParent(req.Name, req.PlayerID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := s.Roster.GetPlayer(req.PlayerID); err != nil {
			writeError(w, "Failed to add parent", err)
			return
		}
		parent, err = s.Roster.AddParent(parent)
		if err != nil {
			writeError(w, "Failed to add parent", err)
			return
		}
		log.Info("Parent added", "parentID", parent.ID, "playerID", parent.PlayerID)
		writeJSON(w, http.StatusCreated, parent)
	}
}

func (s *Server) DeleteParentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.Roster.DeleteParent(id); err != nil {
			writeError(w, "Failed to delete parent", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Games

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := games.Filter{
			Status: match.Status(q.Get("status")),
			Newest: q.Get("newest") == "true",
		}
		if !validStatus(filter.Status) {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		if limit := q.Get("limit"); limit != "" {
			n, err := strconv.Atoi(limit)
			if err != nil || n < 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			filter.Limit = n
		}
		list, err := s.Games.Query(r.Context(), filter)
		if err != nil {
			log.Error("Failed to query games", "error", err, "filter", filter)
			http.Error(w, "Failed to get games", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		game, err := s.Games.Get(r.Context(), id)
		if err != nil {
			writeError(w, "Failed to get game", err)
			return
		}
		writeJSON(w, http.StatusOK, game)
	}
}

func (s *Server) PatchGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var patch match.Patch
		if !decodeJSON(w, r, &patch) {
			return
		}
		if patch.Status != nil && (*patch.Status == "" || !validStatus(*patch.Status)) {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		if err := s.Games.Update(r.Context(), id, patch); err != nil {
			writeError(w, "Failed to update game", err)
			return
		}
		game, err := s.Games.Get(r.Context(), id)
		if err != nil {
			writeError(w, "Failed to get game", err)
			return
		}
		writeJSON(w, http.StatusOK, game)
	}
}

func (s *Server) DeleteGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.Games.Delete(r.Context(), id); err != nil {
			writeError(w, "Failed to delete game", err)
			return
		}
		log.Info("Game deleted", "gameID", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// EditGameHandler opens a session on a stored game.
func (s *Server) EditGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		m, err := s.Matches.Edit(r.Context(), id)
		if err != nil {
			writeError(w, "Failed to open game", err)
			return
		}
		writeJSON(w, http.StatusOK, view(m))
	}
}

// Match sessions

func (s *Server) ListSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Matches.Sessions())
	}
}

func (s *Server) NewMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Matches.NewMatch()
		if err != nil {
			writeError(w, "Failed to start a match", err)
			return
		}
		writeJSON(w, http.StatusCreated, view(m))
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		m, err := s.Matches.Get(id)
		if err != nil {
			writeError(w, "Failed to get match", err)
			return
		}
		writeJSON(w, http.StatusOK, view(m))
	}
}

func (s *Server) MatchCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var cmd match.Command
		if !decodeJSON(w, r, &cmd) {
			return
		}
		log.Debug("Match command", "gameID", id, "action", cmd.Action)
		m, err := s.Matches.Dispatch(r.Context(), id, cmd)
		if err != nil {
			if cmd.Action == match.ActionSave && statusFor(err) == http.StatusInternalServerError {
				log.Error("Saving match failed", "gameID", id, "error", err)
				http.Error(w, saveFailedMessage, http.StatusBadGateway)
				return
			}
			writeError(w, "Command failed", err)
			return
		}
		writeJSON(w, http.StatusOK, view(m))
	}
}

// Stats

func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top := -1
		if v := r.URL.Query().Get("top"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "Invalid top", http.StatusBadRequest)
				return
			}
			top = n
		}
		summary, err := s.Processor.Standings(r.Context())
		if err != nil {
			log.Error("Failed to compute standings", "error", err)
			http.Error(w, "Failed to compute standings", http.StatusInternalServerError)
			return
		}
		rk := &summary.Rankings
		rk.Goals = stats.Top(rk.Goals, top)
		rk.Assists = stats.Top(rk.Assists, top)
		rk.Tackles = stats.Top(rk.Tackles, top)
		rk.KeeperSaves = stats.Top(rk.KeeperSaves, top)
		rk.Parents = stats.Top(rk.Parents, top)
		writeJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		player, err := s.Roster.GetPlayer(id)
		if err != nil {
			writeError(w, "Failed to get player", err)
			return
		}
		finished, err := s.Games.Query(r.Context(), games.Filter{Status: match.StatusFinished})
		if err != nil {
			log.Error("Failed to query finished games", "error", err)
			http.Error(w, "Failed to get games", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, playerStatsView{Player: *player, Stats: stats.Player(finished, id)})
	}
}

func (s *Server) AnnounceStandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.Processor.AnnounceStandings(r.Context(), isDryRunFromContext(r))
		if err != nil {
			http.Error(w, "Failed to announce standings", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// Live

func (s *Server) ScoreboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.Board.Latest()
		if !ok {
			http.Error(w, "No game to show yet", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, u.Scoreboard)
	}
}

// GameFinishedPushHandler receives game-finished events from a Pub/Sub push subscription.
func (s *Server) GameFinishedPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received game finished message", "body", string(bodyBytes))

		var pubsubMsg pushRequest
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		if err := s.Processor.Handler(isDryRunFromContext(r))(rawData); err != nil {
			log.Error("Failed to process finished game", "error", err)
			http.Error(w, "Failed to process finished game", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func view(m *match.Machine) matchView {
	return matchView{State: m.State(), Game: m.Game()}
}

func validStatus(st match.Status) bool {
	switch st {
	case "", match.StatusSetup, match.StatusActive, match.StatusFinished, match.StatusCancelled:
		return true
	}
	return false
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warn("Failed to decode request body", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, roster.ErrNotFound), errors.Is(err, games.ErrNotFound), errors.Is(err, match.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, roster.ErrEmptyName), errors.Is(err, match.ErrEmptyRoster),
		errors.Is(err, match.ErrInvalidQuarter), errors.Is(err, match.ErrUnknownField),
		errors.Is(err, match.ErrUnknownAction), errors.Is(err, match.ErrInvalidQuarters),
		errors.Is(err, match.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, match.ErrInvalidTransition), errors.Is(err, match.ErrNotPlaying),
		errors.Is(err, match.ErrNotInSetup), errors.Is(err, match.ErrTerminal),
		errors.Is(err, match.ErrNotOnField), errors.Is(err, match.ErrNotSubstitute),
		errors.Is(err, match.ErrNotPresent), errors.Is(err, match.ErrCancelNotRequested):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(msg, "error", err)
		http.Error(w, msg, status)
		return
	}
	log.Warn(msg, "error", err, "status", status)
	http.Error(w, err.Error(), status)
}
