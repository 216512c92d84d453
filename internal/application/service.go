package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/config"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/infrastructure/memory"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/metrics"
)

type UnifyOptions struct {
	ForceRefresh bool
	// Strategy overrides the service's default conflict-resolution strategy
	// for this run when set.
	Strategy ResolutionStrategy
}

type EnrichOptions struct {
	ForceRefresh bool
	Strategy     ResolutionStrategy
}

// ReconciliationService is the engine facade. It owns the metadata cache and
// coordinates rate-limited batching; all collaborators are injected so the
// service holds no hidden global state.
type ReconciliationService struct {
	gateway  Gateway
	matcher  Matcher
	resolver *ConflictResolver
	cache    *memory.MetadataCache
	cacheTTL time.Duration
	batch    config.BatchConfig
}

func NewReconciliationService(
	gateway Gateway,
	resolver *ConflictResolver,
	cache *memory.MetadataCache,
	cacheTTL time.Duration,
	batch config.BatchConfig,
) *ReconciliationService {
	if batch.MatchBatchSize <= 0 {
		batch.MatchBatchSize = 5
	}
	if batch.EnrichBatchSize <= 0 {
		batch.EnrichBatchSize = 10
	}
	if batch.BatchDelay <= 0 {
		batch.BatchDelay = 1 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 1 * time.Hour
	}

	return &ReconciliationService{
		gateway:  gateway,
		matcher:  NewMatcher(gateway),
		resolver: resolver,
		cache:    cache,
		cacheTTL: cacheTTL,
		batch:    batch,
	}
}

func (s *ReconciliationService) Cache() *memory.MetadataCache {
	return s.cache
}

func (s *ReconciliationService) MatchTrack(ctx context.Context, source *domain.PlatformTrack, targetPlatform domain.Platform, cfg domain.MatchConfig) (*domain.MatchResult, error) {
	result, err := s.matcher.Match(ctx, source, targetPlatform, cfg)
	if err != nil {
		metrics.TrackMatches.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}

	if result.BestMatch != nil {
		metrics.TrackMatches.WithLabelValues(metrics.OutcomeMatched).Inc()
	} else {
		metrics.TrackMatches.WithLabelValues(metrics.OutcomeUnmatched).Inc()
	}

	return result, nil
}

// CacheKey builds the composite cache key for a pair of source tracks.
// Either track may be nil.
func CacheKey(trackA, trackB *domain.PlatformTrack) string {
	var parts []string
	for _, track := range []*domain.PlatformTrack{trackA, trackB} {
		if track != nil {
			parts = append(parts, fmt.Sprintf("%s:%s", track.Platform, track.ID))
		}
	}
	return strings.Join(parts, "|")
}

func targetCacheKey(target domain.EnrichTarget) string {
	var parts []string
	if target.SpotifyID != "" {
		parts = append(parts, fmt.Sprintf("%s:%s", domain.PlatformSpotify, target.SpotifyID))
	}
	if target.AppleMusicID != "" {
		parts = append(parts, fmt.Sprintf("%s:%s", domain.PlatformAppleMusic, target.AppleMusicID))
	}
	return strings.Join(parts, "|")
}

// CreateUnifiedMetadata reconciles the supplied per-platform tracks into one
// canonical record. At least one track is required. The result is cached for
// the configured TTL; ForceRefresh rebuilds and replaces the cached record.
func (s *ReconciliationService) CreateUnifiedMetadata(ctx context.Context, trackA, trackB *domain.PlatformTrack, opts UnifyOptions) (*domain.UnifiedMetadata, error) {
	if trackA == nil && trackB == nil {
		return nil, domain.ErrMissingSource
	}

	if err := ctx.Err(); err != nil {
		return nil, &domain.CancelledError{Err: err}
	}

	key := CacheKey(trackA, trackB)
	if !opts.ForceRefresh {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	start := time.Now()
	now := start

	var sources []domain.MetadataSource
	platforms := make(map[domain.Platform]*domain.PlatformTrack)
	for _, track := range []*domain.PlatformTrack{trackA, trackB} {
		if track == nil {
			continue
		}
		sources = append(sources, buildSource(track, now))
		platforms[track.Platform] = track
	}

	resolver := s.resolver
	if opts.Strategy != "" {
		resolver = NewConflictResolver(opts.Strategy)
	}

	conflicts := resolver.DetectConflicts(trackA, trackB)
	normalized := resolver.Merge(trackA, trackB, conflicts)
	quality := AssessQuality(sources, conflicts)

	unified := &domain.UnifiedMetadata{
		Platforms:   platforms,
		Normalized:  normalized,
		Quality:     quality,
		Conflicts:   conflicts,
		LastUpdated: now,
		CacheExpiry: now.Add(s.cacheTTL),
	}

	s.cache.Put(key, unified, s.cacheTTL)
	metrics.ReconcileDuration.Observe(time.Since(start).Seconds())

	return unified, nil
}

// BatchMatchTracks matches the input tracks in fixed-size batches. Items
// within a batch run concurrently and fail independently; a failed item
// yields a nil result, while a clean no-match yields a result without a best
// match. Output order follows input order. A fixed delay between batches
// respects provider rate limits.
func (s *ReconciliationService) BatchMatchTracks(ctx context.Context, tracks []*domain.PlatformTrack, targetPlatform domain.Platform, cfg domain.MatchConfig) ([]*domain.MatchResult, error) {
	results := make([]*domain.MatchResult, len(tracks))

	for batchStart := 0; batchStart < len(tracks); batchStart += s.batch.MatchBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, &domain.CancelledError{Err: err}
		}

		batchEnd := min(batchStart+s.batch.MatchBatchSize, len(tracks))

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = s.matchBatchItem(ctx, tracks[i], targetPlatform, cfg)
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, &domain.CancelledError{Err: err}
		}

		if batchEnd < len(tracks) {
			select {
			case <-ctx.Done():
				return nil, &domain.CancelledError{Err: ctx.Err()}
			case <-time.After(s.batch.BatchDelay):
			}
		}
	}

	return results, nil
}

// matchBatchItem returns nil when the item failed, so callers can tell a
// failure apart from a result that cleanly matched nothing.
func (s *ReconciliationService) matchBatchItem(ctx context.Context, track *domain.PlatformTrack, targetPlatform domain.Platform, cfg domain.MatchConfig) *domain.MatchResult {
	if track == nil {
		metrics.BatchItems.WithLabelValues(string(domain.OperationMatch), metrics.OutcomeFailed).Inc()
		return nil
	}

	select {
	case <-ctx.Done():
		return nil
	default:
	}

	result, err := s.matcher.Match(ctx, track, targetPlatform, cfg)
	if err != nil {
		log.Printf("batch match failed for track %s (%s): %v", track.ID, track.Name, err)
		metrics.BatchItems.WithLabelValues(string(domain.OperationMatch), metrics.OutcomeFailed).Inc()
		return nil
	}

	outcome := metrics.OutcomeUnmatched
	if result.BestMatch != nil {
		outcome = metrics.OutcomeMatched
	}
	metrics.BatchItems.WithLabelValues(string(domain.OperationMatch), outcome).Inc()

	return result
}

// BatchEnrichMetadata fetches and reconciles metadata for each target in
// fixed-size batches. Targets whose fetch or reconciliation fails are logged
// and omitted from the output; remaining results preserve input order.
func (s *ReconciliationService) BatchEnrichMetadata(ctx context.Context, targets []domain.EnrichTarget, opts EnrichOptions) ([]*domain.UnifiedMetadata, error) {
	collected := make([]*domain.UnifiedMetadata, len(targets))

	for batchStart := 0; batchStart < len(targets); batchStart += s.batch.EnrichBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, &domain.CancelledError{Err: err}
		}

		batchEnd := min(batchStart+s.batch.EnrichBatchSize, len(targets))

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				unified, err := s.enrichOne(ctx, targets[i], opts)
				if err != nil {
					if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
						log.Printf("batch enrich failed for target %+v: %v", targets[i], err)
					}
					metrics.BatchItems.WithLabelValues(string(domain.OperationEnrich), metrics.OutcomeFailed).Inc()
					return
				}

				metrics.BatchItems.WithLabelValues(string(domain.OperationEnrich), metrics.OutcomeEnriched).Inc()
				collected[i] = unified
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, &domain.CancelledError{Err: err}
		}

		if batchEnd < len(targets) {
			select {
			case <-ctx.Done():
				return nil, &domain.CancelledError{Err: ctx.Err()}
			case <-time.After(s.batch.BatchDelay):
			}
		}
	}

	results := make([]*domain.UnifiedMetadata, 0, len(targets))
	for _, unified := range collected {
		if unified != nil {
			results = append(results, unified)
		}
	}

	return results, nil
}

func (s *ReconciliationService) enrichOne(ctx context.Context, target domain.EnrichTarget, opts EnrichOptions) (*domain.UnifiedMetadata, error) {
	if target.IsZero() {
		return nil, domain.ErrMissingSource
	}

	if !opts.ForceRefresh {
		if cached, ok := s.cache.Get(targetCacheKey(target)); ok {
			return cached, nil
		}
	}

	var spotifyTrack, appleTrack *domain.PlatformTrack
	var err error

	if target.SpotifyID != "" {
		spotifyTrack, err = s.gateway.FetchTrack(ctx, domain.PlatformSpotify, target.SpotifyID)
		if err != nil {
			return nil, err
		}
	}

	if target.AppleMusicID != "" {
		appleTrack, err = s.gateway.FetchTrack(ctx, domain.PlatformAppleMusic, target.AppleMusicID)
		if err != nil {
			return nil, err
		}
	}

	return s.CreateUnifiedMetadata(ctx, spotifyTrack, appleTrack, UnifyOptions{
		ForceRefresh: opts.ForceRefresh,
		Strategy:     opts.Strategy,
	})
}
