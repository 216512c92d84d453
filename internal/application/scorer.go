package application

import (
	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
)

// Factor weights for confidence scoring. The ISRC factor only enters the
// evaluation when both tracks carry an ISRC; title, artist and duration are
// always evaluated. The album bonus sits outside the weighted normalization.
const (
	isrcWeight     = 1.0
	titleWeight    = 0.4
	artistWeight   = 0.3
	durationWeight = 0.2
	albumBonus     = 0.1

	albumSimilarityFloor = 0.7
)

// ScoreMatch computes a [0, 1] confidence that source and candidate describe
// the same recording, plus the set of criteria the candidate matched on.
func ScoreMatch(source, candidate *domain.PlatformTrack, cfg domain.MatchConfig) (float64, []domain.MatchCriterion) {
	if cfg.RequireISRC && (source.ISRC == "" || candidate.ISRC == "") {
		return 0, nil
	}

	var score, totalWeight float64

	bothHaveISRC := source.ISRC != "" && candidate.ISRC != ""
	if bothHaveISRC {
		totalWeight += isrcWeight
		if source.ISRC == candidate.ISRC {
			score += isrcWeight
		}
	}

	titleSim := domain.Similarity(source.Name, candidate.Name)
	totalWeight += titleWeight
	if titleSim >= cfg.TitleSimilarityThreshold {
		score += titleSim * titleWeight
	}

	artistSim := domain.Similarity(source.ArtistName, candidate.ArtistName)
	totalWeight += artistWeight
	if artistSim >= cfg.ArtistSimilarityThreshold {
		score += artistSim * artistWeight
	}

	durationDiff := source.DurationMs - candidate.DurationMs
	if durationDiff < 0 {
		durationDiff = -durationDiff
	}
	totalWeight += durationWeight
	if cfg.DurationToleranceMs > 0 && durationDiff <= cfg.DurationToleranceMs {
		score += (1 - float64(durationDiff)/float64(cfg.DurationToleranceMs)) * durationWeight
	}

	confidence := score / totalWeight

	if source.AlbumName != "" && candidate.AlbumName != "" {
		if albumSim := domain.Similarity(source.AlbumName, candidate.AlbumName); albumSim > albumSimilarityFloor {
			confidence += albumSim * albumBonus
		}
	}

	if confidence > 1 {
		confidence = 1
	}

	return confidence, matchedCriteria(source, candidate, cfg, titleSim, artistSim, durationDiff)
}

// matchedCriteria reports which individual criteria held. Criteria reporting
// is informational and checked against each criterion's own threshold,
// independent of the cumulative score.
func matchedCriteria(source, candidate *domain.PlatformTrack, cfg domain.MatchConfig, titleSim, artistSim float64, durationDiff int) []domain.MatchCriterion {
	var criteria []domain.MatchCriterion

	if source.ISRC != "" && candidate.ISRC != "" && source.ISRC == candidate.ISRC {
		criteria = append(criteria, domain.CriterionISRC)
	}
	if titleSim >= cfg.TitleSimilarityThreshold {
		criteria = append(criteria, domain.CriterionTitle)
	}
	if artistSim >= cfg.ArtistSimilarityThreshold {
		criteria = append(criteria, domain.CriterionArtist)
	}
	if cfg.DurationToleranceMs > 0 && durationDiff <= cfg.DurationToleranceMs {
		criteria = append(criteria, domain.CriterionDuration)
	}

	if len(criteria) > 1 {
		criteria = append(criteria, domain.CriterionCombined)
	}

	return criteria
}
