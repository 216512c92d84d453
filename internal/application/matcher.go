package application

import (
	"context"
	"sort"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
)

type Matcher interface {
	Match(ctx context.Context, source *domain.PlatformTrack, targetPlatform domain.Platform, cfg domain.MatchConfig) (*domain.MatchResult, error)
}

type trackMatcher struct {
	gateway Gateway
}

func NewMatcher(gateway Gateway) Matcher {
	return &trackMatcher{gateway: gateway}
}

// Match searches the target platform, scores every returned candidate,
// discards weak ones and ranks the rest by confidence. Ties keep the
// provider's result order.
func (m *trackMatcher) Match(ctx context.Context, source *domain.PlatformTrack, targetPlatform domain.Platform, cfg domain.MatchConfig) (*domain.MatchResult, error) {
	results, err := m.gateway.Search(ctx, source, targetPlatform)
	if err != nil {
		return nil, &domain.MatchFailedError{Platform: targetPlatform, Err: err}
	}

	candidates := make([]domain.MatchCandidate, 0, len(results))
	for _, track := range results {
		confidence, criteria := ScoreMatch(source, track, cfg)
		if confidence <= domain.MinCandidateConfidence {
			continue
		}
		candidates = append(candidates, domain.MatchCandidate{
			Track:      track,
			Confidence: confidence,
			MatchedBy:  criteria,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	result := &domain.MatchResult{
		SourceTrack: source,
		Candidates:  candidates,
	}
	if len(candidates) > 0 {
		result.BestMatch = candidates[0].Track
	}

	return result, nil
}
