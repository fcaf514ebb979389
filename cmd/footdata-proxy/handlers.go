package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/matchpulse/footdata/pkg/aggregate"
)

// parseSections turns the `sections` query parameter into a lookup set.
// Absent means every section.
func parseSections(r *http.Request) map[string]bool {
	raw := r.URL.Query().Get("sections")
	if raw == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = true
		}
	}
	return set
}

func wants(set map[string]bool, name string) bool {
	return set == nil || set[name]
}

func parseSeason(r *http.Request) int {
	season, _ := strconv.Atoi(r.URL.Query().Get("season"))
	return season
}

func subjectID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func teamHandler(agg *aggregate.Aggregator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := subjectID(r)
		if !ok {
			http.Error(w, `{"success":false,"message":"invalid team id"}`, http.StatusBadRequest)
			return
		}

		sections := parseSections(r)
		opts := aggregate.TeamOptions{
			FetchMatches:     wants(sections, "matches"),
			FetchSquad:       wants(sections, "squad"),
			FetchPlayerStats: wants(sections, "playerStats"),
			FetchStandings:   wants(sections, "standings"),
			FetchTransfers:   wants(sections, "transfers"),
			Season:           parseSeason(r),
		}

		result, err := agg.FetchTeamFullData(r.Context(), id, opts)
		if err != nil {
			logger.Error().Err(err).Int64("team", id).Msg("Team aggregate failed")
			http.Error(w, `{"success":false,"message":"internal error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, result, result.Success)
	}
}

func playerHandler(agg *aggregate.Aggregator, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := subjectID(r)
		if !ok {
			http.Error(w, `{"success":false,"message":"invalid player id"}`, http.StatusBadRequest)
			return
		}

		sections := parseSections(r)
		opts := aggregate.PlayerOptions{
			FetchSeasons:   wants(sections, "seasons"),
			FetchStats:     wants(sections, "stats"),
			FetchFixtures:  wants(sections, "fixtures"),
			FetchTrophies:  wants(sections, "trophies"),
			FetchTransfers: wants(sections, "transfers"),
			FetchInjuries:  wants(sections, "injuries"),
			FetchRankings:  wants(sections, "rankings"),
			Season:         parseSeason(r),
		}

		result, err := agg.FetchPlayerFullData(r.Context(), id, opts)
		if err != nil {
			logger.Error().Err(err).Int64("player", id).Msg("Player aggregate failed")
			http.Error(w, `{"success":false,"message":"internal error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, result, result.Success)
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// writeJSON renders an aggregate result. A failed aggregate (core fetch
// failed with no cache) maps to 502 since the upstream is at fault.
func writeJSON(w http.ResponseWriter, v any, success bool) {
	w.Header().Set("Content-Type", "application/json")
	if !success {
		w.WriteHeader(http.StatusBadGateway)
	}
	json.NewEncoder(w).Encode(v)
}
