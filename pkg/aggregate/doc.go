// Package aggregate assembles full team and player views from api-football
// data, combining fresh upstream fetches with the persisted cache.
//
// Every sub-fetch follows the same read-through flow: serve the cached entry
// while it is inside its TTL, otherwise fetch upstream, write the result
// through, and serve it. When the upstream call fails and a stale entry
// exists, the stale payload is served and flagged; only a failure with no
// cached fallback surfaces as a failed section.
//
// Aggregate calls tolerate partial failure. The core profile fetch is
// required, but each optional section runs concurrently and fails on its
// own without affecting the others:
//
//	agg, _ := aggregate.New(aggregate.Config{Client: c, TeamStore: ts, PlayerStore: ps})
//	full, _ := agg.FetchTeamFullData(ctx, 33, aggregate.TeamOptions{
//		FetchSquad:     true,
//		FetchStandings: true,
//	})
//
// Concurrent requests for the same upstream resource are collapsed into a
// single outbound call.
package aggregate
