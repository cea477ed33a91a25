// Package engine implements randomized catalog search with backtracking.
//
// Discovery pages return titles regardless of how many images the provider
// has archived for them, while a round needs a fixed number of distinct
// screenshots. The engine picks a random page, shuffles the batch, and
// checks each candidate's image yield before giving up on the page, so one
// discovery call amortizes across several sufficiency checks.
package engine

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/frameguessr/frameguessr-server/internal/content"
	apperr "github.com/frameguessr/frameguessr-server/internal/errors"
	"github.com/frameguessr/frameguessr-server/internal/id"
)

const (
	// MinScreenshots is the hard floor on distinct images per round.
	// A title yielding fewer is rejected, not padded.
	MinScreenshots = 6

	// MaxBatchRetries bounds the number of discovery pages tried before
	// the acquisition fails.
	MaxBatchRetries = 10
)

// Catalog is the provider surface the engine drives. Page selection is the
// engine's job; implementations never advance pages internally.
type Catalog interface {
	MaxPage() int
	DiscoverPage(ctx context.Context, filters content.FilterSet, page int) ([]content.Candidate, error)
	FetchImages(ctx context.Context, itemID int) ([]string, error)
}

// Engine acquires one qualifying content record per call. Safe for
// concurrent use as long as the injected rand source is.
type Engine struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// New creates an engine with a seeded random source.
func New(logger *slog.Logger) *Engine {
	return NewWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), logger)
}

// NewWithRand creates an engine with the given random source, so tests can
// pin page selection and shuffles.
func NewWithRand(rng *rand.Rand, logger *slog.Logger) *Engine {
	return &Engine{
		rng:    rng,
		logger: logger,
	}
}

// Acquire finds one title with at least MinScreenshots images.
//
// Candidate order is randomized twice: random page selection at the catalog
// level, then an explicit shuffle of the returned batch, so no round leans on
// the catalog's natural sort order. Per-candidate image failures and empty
// pages are absorbed; cancellation aborts the remaining retry budget
// immediately. The returned record carries no category; the owning strategy
// sets it exactly once.
func (e *Engine) Acquire(ctx context.Context, catalog Catalog, filters content.FilterSet) (*content.Record, error) {
	attemptID := id.MustGenerate(id.PrefixAcquisition)
	log := e.logger.With("acquisition_id", attemptID)

	var lastErr error
	for attempt := 1; attempt <= MaxBatchRetries; attempt++ {
		if cerr := apperr.FromContext(ctx.Err()); cerr != nil {
			return nil, cerr
		}

		page := e.rng.IntN(catalog.MaxPage()) + 1

		candidates, err := catalog.DiscoverPage(ctx, filters, page)
		if err != nil {
			if cerr := apperr.FromContext(err); cerr != nil || apperr.Is(err, apperr.ErrCancelled) {
				return nil, err
			}
			if attempt == MaxBatchRetries {
				return nil, err
			}
			log.Warn("discovery page failed",
				"attempt", attempt,
				"page", page,
				"error", err,
			)
			lastErr = err
			continue
		}

		if len(candidates) == 0 {
			log.Debug("empty discovery page", "attempt", attempt, "page", page)
			continue
		}

		e.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		for _, candidate := range candidates {
			images, err := catalog.FetchImages(ctx, candidate.ID)
			if err != nil {
				if cerr := apperr.FromContext(err); cerr != nil || apperr.Is(err, apperr.ErrCancelled) {
					return nil, err
				}
				// Unsuitable, not fatal. Move to the next candidate.
				log.Debug("image fetch failed",
					"candidate", candidate.ID,
					"error", err,
				)
				continue
			}

			if len(images) < MinScreenshots {
				log.Debug("candidate below screenshot floor",
					"candidate", candidate.ID,
					"images", len(images),
				)
				continue
			}

			record := e.buildRecord(candidate, images)
			log.Info("content acquired",
				"candidate", candidate.ID,
				"attempt", attempt,
				"images", len(images),
			)
			return record, nil
		}

		log.Debug("batch exhausted", "attempt", attempt, "candidates", len(candidates))
	}

	err := apperr.InsufficientContent("no title with enough screenshots after retries")
	if lastErr != nil {
		err = err.WithCause(lastErr)
	}
	return nil, err
}

// buildRecord assembles the final record: a random MinScreenshots-element
// subset of the fetched images, shuffled so replays never reveal images in
// the same order, with the first screenshot standing in for a missing poster.
func (e *Engine) buildRecord(candidate content.Candidate, images []string) *content.Record {
	shuffled := make([]string, len(images))
	copy(shuffled, images)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	screenshots := shuffled[:MinScreenshots]

	poster := candidate.PosterImage
	if poster == "" {
		poster = screenshots[0]
	}

	return &content.Record{
		ID:            candidate.ID,
		PrimaryName:   candidate.PrimaryName,
		SecondaryName: candidate.SecondaryName,
		PosterImage:   poster,
		Screenshots:   screenshots,
		DetailURL:     candidate.DetailURL,
	}
}
