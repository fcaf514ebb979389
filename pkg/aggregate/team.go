package aggregate

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matchpulse/footdata/pkg/cache"
)

// defaultLeagueID is used when no domestic league can be discovered for a
// team (39 is the Premier League).
const defaultLeagueID = 39

// TeamOptions selects which optional sections FetchTeamFullData assembles.
// Team info and season statistics are always fetched.
type TeamOptions struct {
	FetchMatches     bool `json:"fetchMatches"`
	FetchSquad       bool `json:"fetchSquad"`
	FetchPlayerStats bool `json:"fetchPlayerStats"`
	FetchStandings   bool `json:"fetchStandings"`
	FetchTransfers   bool `json:"fetchTransfers"`

	// Season overrides the season used for season-scoped sections.
	// Zero means the current season.
	Season int `json:"season,omitempty"`
}

// AllTeamOptions enables every optional section.
func AllTeamOptions() TeamOptions {
	return TeamOptions{
		FetchMatches:     true,
		FetchSquad:       true,
		FetchPlayerStats: true,
		FetchStandings:   true,
		FetchTransfers:   true,
	}
}

// TeamData is the always-present core of a team aggregate: the profile and,
// when available, the season statistics in the discovered domestic league.
type TeamData struct {
	Success bool            `json:"success"`
	Team    json.RawMessage `json:"team,omitempty"`
	Stats   json.RawMessage `json:"stats,omitempty"`
	Message string          `json:"message,omitempty"`
}

// TeamFullData is the aggregate response for one team. Optional sections are
// nil when not requested; a requested section that failed upstream and has no
// cached fallback carries Success=false and the failure message.
type TeamFullData struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	TeamData *TeamData `json:"teamData,omitempty"`

	Matches     *Section `json:"matches,omitempty"`
	Squad       *Section `json:"squad,omitempty"`
	PlayerStats *Section `json:"playerStats,omitempty"`
	Standings   *Section `json:"standings,omitempty"`
	Transfers   *Section `json:"transfers,omitempty"`
}

// FetchTeamFullData assembles the full view of a team. The core profile is
// fetched first and its failure fails the whole call; the requested optional
// sections then run concurrently, and each failure is confined to its own
// section.
func (a *Aggregator) FetchTeamFullData(ctx context.Context, teamID int64, opts TeamOptions) (*TeamFullData, error) {
	timer := prometheus.NewTimer(aggregateDuration.WithLabelValues("team"))
	defer timer.ObserveDuration()

	season := opts.Season
	if season == 0 {
		season = CurrentSeason(a.now())
	}

	teamData := a.fetchTeamData(ctx, teamID, season)
	result := &TeamFullData{TeamData: teamData}
	if !teamData.Success {
		result.Message = teamData.Message
		return result, nil
	}

	var wg sync.WaitGroup
	run := func(dst **Section, sf subfetch) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			section := a.load(ctx, sf)
			*dst = &section
		}()
	}

	if opts.FetchMatches {
		run(&result.Matches, subfetch{
			store:     a.teamStore,
			subjectID: teamID,
			dataType:  cache.DataTypeMatches,
			season:    &season,
			key: cache.Key{Endpoint: "fixtures", Params: map[string]any{
				"team":   teamID,
				"season": season,
			}},
			ttlFromPayload: fixturesTTLContext,
		})
	}
	if opts.FetchSquad {
		run(&result.Squad, subfetch{
			store:     a.teamStore,
			subjectID: teamID,
			dataType:  cache.DataTypeSquad,
			key: cache.Key{Endpoint: "players/squads", Params: map[string]any{
				"team": teamID,
			}},
		})
	}
	if opts.FetchPlayerStats {
		run(&result.PlayerStats, subfetch{
			store:     a.teamStore,
			subjectID: teamID,
			dataType:  cache.DataTypePlayerStats,
			season:    &season,
			key: cache.Key{Endpoint: "players", Params: map[string]any{
				"team":   teamID,
				"season": season,
			}},
			paged: true,
		})
	}
	if opts.FetchStandings {
		run(&result.Standings, subfetch{
			store:     a.teamStore,
			subjectID: teamID,
			dataType:  cache.DataTypeStandings,
			season:    &season,
			key: cache.Key{Endpoint: "standings", Params: map[string]any{
				"team":   teamID,
				"season": season,
			}},
		})
	}
	if opts.FetchTransfers {
		run(&result.Transfers, subfetch{
			store:     a.teamStore,
			subjectID: teamID,
			dataType:  cache.DataTypeTransfers,
			key: cache.Key{Endpoint: "transfers", Params: map[string]any{
				"team": teamID,
			}},
		})
	}

	wg.Wait()
	result.Success = true
	return result, nil
}

// fetchTeamData loads the required team profile and, best effort, the season
// statistics in the team's domestic league.
func (a *Aggregator) fetchTeamData(ctx context.Context, teamID int64, season int) *TeamData {
	info := a.load(ctx, subfetch{
		store:     a.teamStore,
		subjectID: teamID,
		dataType:  cache.DataTypeInfo,
		key: cache.Key{Endpoint: "teams", Params: map[string]any{
			"id": teamID,
		}},
	})
	if !info.Success {
		return &TeamData{Message: info.Message}
	}

	data := &TeamData{Success: true, Team: info.Data}

	leagueID := a.discoverTeamLeague(ctx, teamID, season)
	stats := a.load(ctx, subfetch{
		store:     a.teamStore,
		subjectID: teamID,
		dataType:  cache.DataTypeStats,
		season:    &season,
		key: cache.Key{Endpoint: "teams/statistics", Params: map[string]any{
			"team":   teamID,
			"season": season,
			"league": leagueID,
		}},
	})
	if stats.Success {
		data.Stats = stats.Data
	} else {
		data.Message = stats.Message
	}
	return data
}

// leagueEntry is the slice of the leagues payload needed for discovery.
type leagueEntry struct {
	League struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"league"`
}

// discoverTeamLeague resolves the team's domestic league for the season.
// Continental cups (Champions/Europa/Conference League) are skipped so team
// statistics reflect the primary domestic competition. Falls back to
// defaultLeagueID when nothing usable comes back.
func (a *Aggregator) discoverTeamLeague(ctx context.Context, teamID int64, season int) int {
	section := a.load(ctx, subfetch{
		store:     a.teamStore,
		subjectID: teamID,
		dataType:  cache.DataTypeLeagues,
		season:    &season,
		key: cache.Key{Endpoint: "leagues", Params: map[string]any{
			"team":   teamID,
			"season": season,
		}},
	})
	if !section.Success {
		return defaultLeagueID
	}

	var entries []leagueEntry
	if err := json.Unmarshal(section.Data, &entries); err != nil || len(entries) == 0 {
		return defaultLeagueID
	}

	for _, e := range entries {
		if e.League.Type == "League" && !isContinentalCup(e.League.Name) {
			return e.League.ID
		}
	}
	return entries[0].League.ID
}

// fixturesTTLContext derives a TTL context from a cached fixtures payload.
// The fixture whose state demands the shortest TTL wins, so a single live
// match makes the whole section refresh on the live cadence.
func fixturesTTLContext(payload json.RawMessage, now time.Time) cache.Context {
	var fixtures []struct {
		Fixture struct {
			Timestamp int64 `json:"timestamp"`
			Status    struct {
				Short string `json:"short"`
			} `json:"status"`
		} `json:"fixture"`
	}
	if err := json.Unmarshal(payload, &fixtures); err != nil {
		return cache.Context{}
	}

	best := cache.Context{}
	bestTTL := time.Duration(-1)
	for _, f := range fixtures {
		if f.Fixture.Status.Short == "" {
			continue
		}
		ttl := cache.MatchTTL(f.Fixture.Status.Short, f.Fixture.Timestamp, now)
		if bestTTL < 0 || ttl < bestTTL {
			bestTTL = ttl
			best = cache.Context{
				Live:        ttl <= cache.TTLLive,
				MatchStatus: f.Fixture.Status.Short,
				KickoffUnix: f.Fixture.Timestamp,
			}
		}
	}
	return best
}

func isContinentalCup(name string) bool {
	for _, cup := range []string{"Champions League", "Europa League", "Conference League"} {
		if strings.Contains(name, cup) {
			return true
		}
	}
	return false
}
