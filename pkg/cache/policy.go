package cache

import (
	"time"
)

// DataType classifies one cached sub-fetch of team or player data.
type DataType string

const (
	DataTypeInfo        DataType = "info"
	DataTypeMatches     DataType = "matches"
	DataTypeSquad       DataType = "squad"
	DataTypeStats       DataType = "stats"
	DataTypePlayerStats DataType = "player_stats"
	DataTypeStandings   DataType = "standings"
	DataTypeTransfers   DataType = "transfers"
	DataTypeLeagues     DataType = "leagues"
	DataTypeSeasons     DataType = "seasons"
	DataTypeFixtures    DataType = "fixtures"
	DataTypeTrophies    DataType = "trophies"
	DataTypeInjuries    DataType = "injuries"
	DataTypeRankings    DataType = "rankings"
)

// TTL tiers. The api-football data set splits cleanly into four freshness
// classes; the live tier exists because in-progress matches change every
// few seconds while historical rows never change again.
const (
	// TTLStatic covers reference data that effectively never changes.
	TTLStatic = 24 * time.Hour

	// TTLSemiStatic covers data that changes a few times per season.
	TTLSemiStatic = time.Hour

	// TTLSemiRealtime covers data that changes around match days.
	TTLSemiRealtime = 15 * time.Minute

	// TTLLive is the ceiling for any data related to an in-progress match.
	TTLLive = 30 * time.Second

	// TTLDefault is the conservative fallback for unknown data types.
	TTLDefault = 5 * time.Minute
)

// baseTTLs maps each data type to its tier.
var baseTTLs = map[DataType]time.Duration{
	DataTypeLeagues:   TTLStatic,
	DataTypeTransfers: TTLStatic,
	DataTypeTrophies:  TTLStatic,

	DataTypeInfo:        TTLSemiStatic,
	DataTypeSquad:       TTLSemiStatic,
	DataTypeStats:       TTLSemiStatic,
	DataTypePlayerStats: TTLSemiStatic,
	DataTypeStandings:   TTLSemiStatic,
	DataTypeSeasons:     TTLSemiStatic,

	DataTypeMatches:  TTLSemiRealtime,
	DataTypeFixtures: TTLSemiRealtime,
	DataTypeInjuries: TTLSemiRealtime,
	DataTypeRankings: TTLSemiRealtime,
}

// Context carries the dynamic inputs to TTL resolution.
type Context struct {
	// Live indicates the related match is currently in progress.
	Live bool

	// MatchStatus is the api-football short status code (1H, HT, FT, NS, ...).
	// Empty when no single match is in scope.
	MatchStatus string

	// KickoffUnix is the match kickoff time in Unix seconds, 0 when unknown.
	KickoffUnix int64
}

// TTLFor computes the effective TTL for a data type in the given context.
// Unknown data types fall back to TTLDefault rather than erroring. A live
// context never lengthens the TTL, so TTLFor(t, live) <= TTLFor(t, idle)
// holds for every type.
func TTLFor(dataType DataType, ctx Context) time.Duration {
	base, ok := baseTTLs[dataType]
	if !ok {
		base = TTLDefault
	}

	if ctx.Live {
		if base < TTLLive {
			return base
		}
		return TTLLive
	}

	if ctx.MatchStatus != "" {
		ttl := MatchTTL(ctx.MatchStatus, ctx.KickoffUnix, time.Now())
		if ttl < base {
			return ttl
		}
	}

	return base
}

// Match status groups used by MatchTTL.
var (
	liveStatuses     = []string{"1H", "2H", "HT", "ET", "BT", "P", "LIVE", "INT"}
	finishedStatuses = []string{"FT", "AET", "PEN", "AWD", "WO"}
	preMatchStatuses = []string{"NS", "TBD", "PST", "SUSP", "CANC"}
)

// MatchTTL derives a TTL from a match status code and kickoff time.
//
// In-progress matches refresh every 30s. Just-finished matches keep a short
// window for late stat corrections, then settle into the historical tier.
// Upcoming matches shorten to 1m inside the half hour before kickoff.
func MatchTTL(status string, kickoffUnix int64, now time.Time) time.Duration {
	if contains(liveStatuses, status) {
		return TTLLive
	}

	if contains(finishedStatuses, status) {
		if status == "FT" && kickoffUnix > 0 {
			// A regulation match runs roughly 105 minutes wall clock.
			end := time.Unix(kickoffUnix, 0).Add(105 * time.Minute)
			since := now.Sub(end)
			if since < 10*time.Minute {
				return 2 * time.Minute
			}
			if since < time.Hour {
				return 5 * time.Minute
			}
		}
		return TTLStatic
	}

	if contains(preMatchStatuses, status) {
		if kickoffUnix > 0 {
			untilKickoff := time.Unix(kickoffUnix, 0).Sub(now)
			if untilKickoff < 30*time.Minute {
				return time.Minute
			}
		}
		return TTLSemiRealtime
	}

	return TTLDefault
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
