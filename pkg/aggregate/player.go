package aggregate

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matchpulse/footdata/pkg/cache"
)

// PlayerOptions selects which optional sections FetchPlayerFullData
// assembles. The player profile is always fetched.
type PlayerOptions struct {
	FetchSeasons   bool `json:"fetchSeasons"`
	FetchStats     bool `json:"fetchStats"`
	FetchFixtures  bool `json:"fetchFixtures"`
	FetchTrophies  bool `json:"fetchTrophies"`
	FetchTransfers bool `json:"fetchTransfers"`
	FetchInjuries  bool `json:"fetchInjuries"`
	FetchRankings  bool `json:"fetchRankings"`

	// Season overrides the season used for season-scoped sections.
	// Zero means the current season.
	Season int `json:"season,omitempty"`
}

// AllPlayerOptions enables every optional section.
func AllPlayerOptions() PlayerOptions {
	return PlayerOptions{
		FetchSeasons:   true,
		FetchStats:     true,
		FetchFixtures:  true,
		FetchTrophies:  true,
		FetchTransfers: true,
		FetchInjuries:  true,
		FetchRankings:  true,
	}
}

// PlayerFullData is the aggregate response for one player.
type PlayerFullData struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message,omitempty"`
	PlayerData *Section `json:"playerData,omitempty"`

	Seasons    *Section `json:"seasons,omitempty"`
	Statistics *Section `json:"statistics,omitempty"`
	Fixtures   *Section `json:"fixtures,omitempty"`
	Trophies   *Section `json:"trophies,omitempty"`
	Transfers  *Section `json:"transfers,omitempty"`
	Injuries   *Section `json:"injuries,omitempty"`
	Rankings   *Section `json:"rankings,omitempty"`
}

// FetchPlayerFullData assembles the full view of a player. The profile is
// required; the requested optional sections run concurrently and fail
// independently.
func (a *Aggregator) FetchPlayerFullData(ctx context.Context, playerID int64, opts PlayerOptions) (*PlayerFullData, error) {
	timer := prometheus.NewTimer(aggregateDuration.WithLabelValues("player"))
	defer timer.ObserveDuration()

	season := opts.Season
	if season == 0 {
		season = CurrentSeason(a.now())
	}

	info := a.load(ctx, subfetch{
		store:     a.playerStore,
		subjectID: playerID,
		dataType:  cache.DataTypeInfo,
		season:    &season,
		key: cache.Key{Endpoint: "players", Params: map[string]any{
			"id":     playerID,
			"season": season,
		}},
	})
	result := &PlayerFullData{PlayerData: &info}
	if !info.Success {
		result.Message = info.Message
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

	if opts.FetchSeasons {
		run(&result.Seasons, subfetch{
			store:     a.playerStore,
			subjectID: playerID,
			dataType:  cache.DataTypeSeasons,
			key: cache.Key{Endpoint: "players/seasons", Params: map[string]any{
				"player": playerID,
			}},
		})
	}
	if opts.FetchStats {
		run(&result.Statistics, subfetch{
			store:     a.playerStore,
			subjectID: playerID,
			dataType:  cache.DataTypeStats,
			season:    &season,
			key: cache.Key{Endpoint: "players", Params: map[string]any{
				"id":     playerID,
				"season": season,
			}},
		})
	}
	if opts.FetchFixtures {
		run(&result.Fixtures, subfetch{
			store:     a.playerStore,
			subjectID: playerID,
			dataType:  cache.DataTypeFixtures,
			season:    &season,
			key: cache.Key{Endpoint: "fixtures", Params: map[string]any{
				"player": playerID,
				"season": season,
			}},
		})
	}
	if opts.FetchTrophies {
		run(&result.Trophies, subfetch{
			store:     a.playerStore,
			subjectID: playerID,
			dataType:  cache.DataTypeTrophies,
			key: cache.Key{Endpoint: "trophies", Params: map[string]any{
				"player": playerID,
			}},
		})
	}
	if opts.FetchTransfers {
		run(&result.Transfers, subfetch{
			store:     a.playerStore,
			subjectID: playerID,
			dataType:  cache.DataTypeTransfers,
			key: cache.Key{Endpoint: "transfers", Params: map[string]any{
				"player": playerID,
			}},
		})
	}
	if opts.FetchInjuries {
		run(&result.Injuries, subfetch{
			store:     a.playerStore,
			subjectID: playerID,
			dataType:  cache.DataTypeInjuries,
			season:    &season,
			key: cache.Key{Endpoint: "injuries", Params: map[string]any{
				"player": playerID,
				"season": season,
			}},
		})
	}
	if opts.FetchRankings {
		leagueID := playerLeague(info.Data)
		run(&result.Rankings, subfetch{
			store:     a.playerStore,
			subjectID: playerID,
			dataType:  cache.DataTypeRankings,
			season:    &season,
			key: cache.Key{Endpoint: "players/topscorers", Params: map[string]any{
				"league": leagueID,
				"season": season,
			}},
		})
	}

	wg.Wait()
	result.Success = true
	return result, nil
}

// playerLeague pulls the league the player currently plays in out of the
// profile payload (first statistics entry). Falls back to defaultLeagueID.
func playerLeague(payload json.RawMessage) int {
	var entries []struct {
		Statistics []struct {
			League struct {
				ID int `json:"id"`
			} `json:"league"`
		} `json:"statistics"`
	}
	if err := json.Unmarshal(payload, &entries); err != nil {
		return defaultLeagueID
	}
	for _, e := range entries {
		for _, s := range e.Statistics {
			if s.League.ID != 0 {
				return s.League.ID
			}
		}
	}
	return defaultLeagueID
}
