package application

import (
	"fmt"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
)

type ResolutionStrategy string

const (
	StrategyConfidence ResolutionStrategy = "confidence"
	StrategyMajority   ResolutionStrategy = "majority"
	StrategyNewest     ResolutionStrategy = "newest"
	StrategyManual     ResolutionStrategy = "manual"
)

func ParseStrategy(s string) (ResolutionStrategy, bool) {
	switch strategy := ResolutionStrategy(s); strategy {
	case StrategyConfidence, StrategyMajority, StrategyNewest, StrategyManual:
		return strategy, true
	default:
		return StrategyConfidence, false
	}
}

// Per-platform trust weights for conflict resolution and source records.
// These are fixed source-type weights, not recomputed match confidence.
var platformConfidence = map[domain.Platform]float64{
	domain.PlatformSpotify:    0.9,
	domain.PlatformAppleMusic: 0.85,
}

const defaultSourceConfidence = 0.5

// freshestPlatform is the platform the "newest" strategy prefers. This is a
// policy constant, not derived from retrieval timestamps.
const freshestPlatform = domain.PlatformAppleMusic

// Detection thresholds. A field supplied by a single source never conflicts.
const (
	fieldSimilarityThreshold    = 0.9
	durationConflictToleranceMs = 5000
)

func sourceConfidence(platform domain.Platform) float64 {
	if confidence, ok := platformConfidence[platform]; ok {
		return confidence
	}
	return defaultSourceConfidence
}

type ConflictResolver struct {
	strategy ResolutionStrategy
}

func NewConflictResolver(strategy ResolutionStrategy) *ConflictResolver {
	if _, ok := ParseStrategy(string(strategy)); !ok || strategy == "" {
		strategy = StrategyConfidence
	}
	return &ConflictResolver{strategy: strategy}
}

// DetectConflicts compares the two sources field by field. Either side may be
// nil, in which case there is nothing to disagree about.
func (r *ConflictResolver) DetectConflicts(a, b *domain.PlatformTrack) []domain.MetadataConflict {
	if a == nil || b == nil {
		return nil
	}

	var conflicts []domain.MetadataConflict

	if a.Name != "" && b.Name != "" && domain.Similarity(a.Name, b.Name) < fieldSimilarityThreshold {
		conflicts = append(conflicts, newConflict("title", a, b, a.Name, b.Name))
	}

	if a.ArtistName != "" && b.ArtistName != "" && domain.Similarity(a.ArtistName, b.ArtistName) < fieldSimilarityThreshold {
		conflicts = append(conflicts, newConflict("artist", a, b, a.ArtistName, b.ArtistName))
	}

	if a.DurationMs > 0 && b.DurationMs > 0 {
		diff := a.DurationMs - b.DurationMs
		if diff < 0 {
			diff = -diff
		}
		if diff > durationConflictToleranceMs {
			conflicts = append(conflicts, newConflict("duration", a, b, a.DurationMs, b.DurationMs))
		}
	}

	return conflicts
}

func newConflict(field string, a, b *domain.PlatformTrack, valueA, valueB any) domain.MetadataConflict {
	return domain.MetadataConflict{
		Field: field,
		Sources: []domain.ConflictSource{
			{Platform: a.Platform, Value: valueA, Confidence: sourceConfidence(a.Platform)},
			{Platform: b.Platform, Value: valueB, Confidence: sourceConfidence(b.Platform)},
		},
	}
}

// Resolve applies the configured strategy, recording the resolved value and a
// human-readable reason on the conflict.
func (r *ConflictResolver) Resolve(conflict *domain.MetadataConflict) any {
	if len(conflict.Sources) == 0 {
		return nil
	}

	var winner domain.ConflictSource
	var reason string

	switch r.strategy {
	case StrategyMajority:
		winner = resolveByMajority(conflict.Sources)
		reason = fmt.Sprintf("most frequent %s value, from %s", conflict.Field, winner.Platform)
	case StrategyNewest:
		winner = resolveByFreshness(conflict.Sources)
		reason = fmt.Sprintf("preferred %s data for %s per freshness policy", winner.Platform, conflict.Field)
	case StrategyManual:
		// Manual review is not wired up; fall back to confidence resolution
		// and surface the pending state in the reason.
		winner = resolveByConfidence(conflict.Sources)
		reason = fmt.Sprintf("pending manual review; defaulted to %s value (source confidence %.2f)",
			winner.Platform, winner.Confidence)
	default:
		winner = resolveByConfidence(conflict.Sources)
		reason = fmt.Sprintf("picked %s value (source confidence %.2f)", winner.Platform, winner.Confidence)
	}

	conflict.Resolution = domain.ResolutionAutomatic
	conflict.ResolvedValue = winner.Value
	conflict.ResolutionReason = reason

	return winner.Value
}

// Ties always keep the first-listed source.
func resolveByConfidence(sources []domain.ConflictSource) domain.ConflictSource {
	winner := sources[0]
	for _, source := range sources[1:] {
		if source.Confidence > winner.Confidence {
			winner = source
		}
	}
	return winner
}

func resolveByMajority(sources []domain.ConflictSource) domain.ConflictSource {
	counts := make(map[string]int, len(sources))
	for _, source := range sources {
		counts[fmt.Sprint(source.Value)]++
	}

	winner := sources[0]
	best := 0
	for _, source := range sources {
		if count := counts[fmt.Sprint(source.Value)]; count > best {
			best = count
			winner = source
		}
	}
	return winner
}

func resolveByFreshness(sources []domain.ConflictSource) domain.ConflictSource {
	for _, source := range sources {
		if source.Platform == freshestPlatform {
			return source
		}
	}
	return sources[0]
}

// Merge builds the normalized record from both sources, applying resolved
// conflict values and filling every remaining field from the
// highest-confidence source that supplies it.
func (r *ConflictResolver) Merge(a, b *domain.PlatformTrack, conflicts []domain.MetadataConflict) domain.NormalizedTrack {
	resolved := make(map[string]any, len(conflicts))
	for i := range conflicts {
		resolved[conflicts[i].Field] = r.Resolve(&conflicts[i])
	}

	var normalized domain.NormalizedTrack

	if title, ok := resolved["title"].(string); ok {
		normalized.Title = title
	} else if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return t.Name != "" }); winner != nil {
		normalized.Title = winner.Name
	}

	if artist, ok := resolved["artist"].(string); ok {
		normalized.Artists = []string{artist}
	} else if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return t.ArtistName != "" }); winner != nil {
		normalized.Artists = []string{winner.ArtistName}
	}

	if duration, ok := resolved["duration"].(int); ok {
		normalized.DurationMs = duration
	} else if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return t.DurationMs > 0 }); winner != nil {
		normalized.DurationMs = winner.DurationMs
	}

	if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return t.AlbumName != "" }); winner != nil {
		normalized.Album = winner.AlbumName
	}
	if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return t.ReleaseDate != "" }); winner != nil {
		normalized.ReleaseDate = winner.ReleaseDate
	}
	if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return len(t.Genres) > 0 }); winner != nil {
		normalized.Genres = winner.Genres
	}
	if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return t.ISRC != "" }); winner != nil {
		normalized.ISRC = winner.ISRC
	}
	if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return t.Popularity > 0 }); winner != nil {
		normalized.Popularity = winner.Popularity
	}
	if winner := pickSource(a, b, func(t *domain.PlatformTrack) bool { return true }); winner != nil {
		normalized.Explicit = winner.Explicit
	}

	normalized.Artwork = pickArtwork(a, b)

	for _, track := range []*domain.PlatformTrack{a, b} {
		if track == nil {
			continue
		}
		if track.PreviewURL != "" {
			if normalized.PreviewURLs == nil {
				normalized.PreviewURLs = make(map[domain.Platform]string)
			}
			normalized.PreviewURLs[track.Platform] = track.PreviewURL
		}
		if track.ExternalURL != "" {
			if normalized.ExternalURLs == nil {
				normalized.ExternalURLs = make(map[domain.Platform]string)
			}
			normalized.ExternalURLs[track.Platform] = track.ExternalURL
		}
	}

	return normalized
}

// pickSource returns the supplying track with the higher source confidence;
// ties keep the first argument.
func pickSource(a, b *domain.PlatformTrack, supplies func(*domain.PlatformTrack) bool) *domain.PlatformTrack {
	var winner *domain.PlatformTrack
	for _, track := range []*domain.PlatformTrack{a, b} {
		if track == nil || !supplies(track) {
			continue
		}
		if winner == nil || sourceConfidence(track.Platform) > sourceConfidence(winner.Platform) {
			winner = track
		}
	}
	return winner
}

// Apple Music artwork is preferred over Spotify's when both are present.
func pickArtwork(a, b *domain.PlatformTrack) *domain.Artwork {
	var preferred, fallback *domain.Artwork
	for _, track := range []*domain.PlatformTrack{a, b} {
		if track == nil || track.Artwork == nil {
			continue
		}
		if track.Platform == domain.PlatformAppleMusic {
			preferred = track.Artwork
		} else if fallback == nil {
			fallback = track.Artwork
		}
	}
	if preferred != nil {
		return preferred
	}
	return fallback
}
