package domain

import "time"

// MetadataSource records one platform's contribution to a unified record.
// Confidence here is source-level trust, not match confidence.
type MetadataSource struct {
	Platform     Platform  `json:"platform"`
	Confidence   float64   `json:"confidence"`
	RetrievedAt  time.Time `json:"retrievedAt"`
	DataComplete bool      `json:"dataComplete"`
	Fields       []string  `json:"fields"`
}

type ConflictResolution string

const (
	ResolutionAutomatic ConflictResolution = "automatic"
	ResolutionManual    ConflictResolution = "manual"
)

type ConflictSource struct {
	Platform   Platform `json:"platform"`
	Value      any      `json:"value"`
	Confidence float64  `json:"confidence"`
}

// MetadataConflict is a single field where sources disagree past tolerance.
// Fields supplied by only one source never produce a conflict.
type MetadataConflict struct {
	Field            string             `json:"field"`
	Sources          []ConflictSource   `json:"sources"`
	Resolution       ConflictResolution `json:"resolution"`
	ResolvedValue    any                `json:"resolvedValue,omitempty"`
	ResolutionReason string             `json:"resolutionReason,omitempty"`
}

type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "verified"
	VerificationUnverified VerificationStatus = "unverified"
	VerificationDisputed   VerificationStatus = "disputed"
)

// VerificationFromOverall maps an overall quality score to a status.
func VerificationFromOverall(overall float64) VerificationStatus {
	switch {
	case overall > 0.8:
		return VerificationVerified
	case overall > 0.6:
		return VerificationUnverified
	default:
		return VerificationDisputed
	}
}

type MetadataQuality struct {
	Overall            float64            `json:"overall"`
	Completeness       float64            `json:"completeness"`
	Accuracy           float64            `json:"accuracy"`
	Consistency        float64            `json:"consistency"`
	Freshness          float64            `json:"freshness"`
	Sources            []MetadataSource   `json:"sources"`
	ConflictCount      int                `json:"conflictCount"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
}

// NormalizedTrack holds the resolved canonical fields of a unified record,
// each populated from the winning source for that field.
type NormalizedTrack struct {
	Title       string              `json:"title"`
	Artists     []string            `json:"artists"`
	Album       string              `json:"album,omitempty"`
	DurationMs  int                 `json:"durationMs"`
	ReleaseDate string              `json:"releaseDate,omitempty"`
	Genres      []string            `json:"genres,omitempty"`
	ISRC        string              `json:"isrc,omitempty"`
	Artwork     *Artwork            `json:"artwork,omitempty"`
	PreviewURLs map[Platform]string `json:"previewUrls,omitempty"`
	ExternalURLs map[Platform]string `json:"externalUrls,omitempty"`
	Explicit    bool                `json:"explicit"`
	Popularity  int                 `json:"popularity"`
}

// UnifiedMetadata is the canonical reconciled record. It is replaced as a
// whole on refresh, never partially mutated.
type UnifiedMetadata struct {
	Platforms   map[Platform]*PlatformTrack `json:"platforms"`
	Normalized  NormalizedTrack             `json:"normalized"`
	Quality     MetadataQuality             `json:"quality"`
	Conflicts   []MetadataConflict          `json:"conflicts"`
	LastUpdated time.Time                   `json:"lastUpdated"`
	CacheExpiry time.Time                   `json:"cacheExpiry"`
}
