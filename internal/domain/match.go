package domain

type MatchCriterion string

const (
	CriterionISRC     MatchCriterion = "isrc"
	CriterionTitle    MatchCriterion = "title"
	CriterionArtist   MatchCriterion = "artist"
	CriterionDuration MatchCriterion = "duration"
	CriterionCombined MatchCriterion = "combined"
)

// MinCandidateConfidence is the floor below which a scored candidate is
// discarded before ranking.
const MinCandidateConfidence = 0.3

type MatchConfig struct {
	TitleSimilarityThreshold  float64 `json:"titleSimilarityThreshold"`
	ArtistSimilarityThreshold float64 `json:"artistSimilarityThreshold"`
	DurationToleranceMs       int     `json:"durationToleranceMs"`
	RequireISRC               bool    `json:"requireIsrc"`
}

func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		TitleSimilarityThreshold:  0.8,
		ArtistSimilarityThreshold: 0.8,
		DurationToleranceMs:       5000,
		RequireISRC:               false,
	}
}

type MatchCandidate struct {
	Track      *PlatformTrack   `json:"track"`
	Confidence float64          `json:"confidence"`
	MatchedBy  []MatchCriterion `json:"matchedBy"`
}

type MatchResult struct {
	SourceTrack *PlatformTrack   `json:"sourceTrack"`
	Candidates  []MatchCandidate `json:"candidates"`
	BestMatch   *PlatformTrack   `json:"bestMatch,omitempty"`
}
