// Package pagination provides parallel fetching for paginated api-football
// endpoints. Endpoints like players and transfers cap each response at one
// page and report the total in the paging block; the batch fetcher pulls the
// first page, fans out the rest over a bounded worker pool, and merges the
// response arrays.
package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matchpulse/footdata/pkg/client"
)

// FetchFunc fetches a single endpoint call; client.Client.Get satisfies it.
type FetchFunc func(ctx context.Context, endpoint string, params map[string]any) (*client.Envelope, error)

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel page requests.
	MaxConcurrency int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{MaxConcurrency: 4}
}

// BatchFetcher fetches all pages of a paginated endpoint.
type BatchFetcher struct {
	fetch  FetchFunc
	config Config
}

// NewBatchFetcher creates a new batch fetcher.
func NewBatchFetcher(fetch FetchFunc, config Config) *BatchFetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	return &BatchFetcher{fetch: fetch, config: config}
}

// pageResult carries one fetched page through the worker pool.
type pageResult struct {
	page     int
	response json.RawMessage
	err      error
}

// FetchAll fetches every page of an endpoint and returns the concatenated
// response array. Failed pages after the first are skipped with a warning;
// a failed first page fails the whole call.
func (bf *BatchFetcher) FetchAll(ctx context.Context, endpoint string, params map[string]any) (json.RawMessage, error) {
	start := time.Now()

	first, err := bf.fetchPage(ctx, endpoint, params, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}

	totalPages := first.Paging.Total
	if totalPages <= 1 {
		return first.Response, nil
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	pages := make([]json.RawMessage, totalPages+1)
	pages[1] = first.Response

	pageQueue := make(chan int, totalPages)
	results := make(chan pageResult, totalPages)

	for page := 2; page <= totalPages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range pageQueue {
				env, err := bf.fetchPage(ctx, endpoint, params, page)
				if err != nil {
					results <- pageResult{page: page, err: err}
					continue
				}
				results <- pageResult{page: page, response: env.Response}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	fetched := 1
	for result := range results {
		if result.err != nil {
			log.Warn().
				Err(result.err).
				Str("endpoint", endpoint).
				Int("page", result.page).
				Msg("Page fetch failed")
			continue
		}
		pages[result.page] = result.response
		fetched++
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("pages", fetched).
		Int("total_pages", totalPages).
		Dur("duration", time.Since(start)).
		Msg("Parallel page fetch complete")

	return MergeArrays(pages[1:])
}

// fetchPage fetches one page by adding the page parameter.
func (bf *BatchFetcher) fetchPage(ctx context.Context, endpoint string, params map[string]any, page int) (*client.Envelope, error) {
	paged := make(map[string]any, len(params)+1)
	for k, v := range params {
		paged[k] = v
	}
	if page > 1 {
		paged["page"] = page
	}
	return bf.fetch(ctx, endpoint, paged)
}

// MergeArrays concatenates JSON arrays into one. Nil entries (failed pages)
// are skipped.
func MergeArrays(arrays []json.RawMessage) (json.RawMessage, error) {
	merged := make([]json.RawMessage, 0)
	for _, raw := range arrays {
		if len(raw) == 0 {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("merge pages: %w", err)
		}
		merged = append(merged, items...)
	}
	return json.Marshal(merged)
}
