package application

import (
	"time"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
)

// canonicalFieldCount is the number of fields a fully populated normalized
// record carries.
const canonicalFieldCount = 12

// Quality component weights.
const (
	completenessWeight = 0.3
	accuracyWeight     = 0.3
	consistencyWeight  = 0.25
	freshnessWeight    = 0.15

	conflictPenalty = 0.1
)

// AssessQuality scores a reconciled record from its sources and conflicts.
// Freshness is 1.0: sources are retrieved at assessment time and there is no
// historical decay model.
func AssessQuality(sources []domain.MetadataSource, conflicts []domain.MetadataConflict) domain.MetadataQuality {
	supplied := make(map[string]struct{})
	for _, source := range sources {
		for _, field := range source.Fields {
			supplied[field] = struct{}{}
		}
	}

	completeness := float64(len(supplied)) / canonicalFieldCount
	if completeness > 1 {
		completeness = 1
	}

	var accuracy float64
	if len(sources) > 0 {
		for _, source := range sources {
			accuracy += source.Confidence
		}
		accuracy /= float64(len(sources))
	}

	consistency := 1 - conflictPenalty*float64(len(conflicts))
	if consistency < 0 {
		consistency = 0
	}

	freshness := 1.0

	overall := completenessWeight*completeness +
		accuracyWeight*accuracy +
		consistencyWeight*consistency +
		freshnessWeight*freshness

	return domain.MetadataQuality{
		Overall:            overall,
		Completeness:       completeness,
		Accuracy:           accuracy,
		Consistency:        consistency,
		Freshness:          freshness,
		Sources:            sources,
		ConflictCount:      len(conflicts),
		VerificationStatus: domain.VerificationFromOverall(overall),
	}
}

// suppliedFields lists the canonical field names a track actually provides.
func suppliedFields(track *domain.PlatformTrack) []string {
	var fields []string

	if track.Name != "" {
		fields = append(fields, "title")
	}
	if track.ArtistName != "" {
		fields = append(fields, "artists")
	}
	if track.AlbumName != "" {
		fields = append(fields, "album")
	}
	if track.DurationMs > 0 {
		fields = append(fields, "durationMs")
	}
	if track.ReleaseDate != "" {
		fields = append(fields, "releaseDate")
	}
	if len(track.Genres) > 0 {
		fields = append(fields, "genres")
	}
	if track.ISRC != "" {
		fields = append(fields, "isrc")
	}
	if track.Artwork != nil {
		fields = append(fields, "artwork")
	}
	if track.PreviewURL != "" {
		fields = append(fields, "previewUrl")
	}
	if track.ExternalURL != "" {
		fields = append(fields, "externalUrl")
	}
	if track.Explicit {
		fields = append(fields, "explicit")
	}
	if track.Popularity > 0 {
		fields = append(fields, "popularity")
	}

	return fields
}

// mandatory fields for a source to count as complete
var mandatoryFields = []string{"title", "artists", "album", "durationMs"}

func buildSource(track *domain.PlatformTrack, retrievedAt time.Time) domain.MetadataSource {
	fields := suppliedFields(track)

	fieldSet := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		fieldSet[field] = struct{}{}
	}

	complete := true
	for _, field := range mandatoryFields {
		if _, ok := fieldSet[field]; !ok {
			complete = false
			break
		}
	}

	confidence := sourceConfidence(track.Platform)
	if !complete {
		confidence -= 0.1
		if confidence < 0 {
			confidence = 0
		}
	}

	return domain.MetadataSource{
		Platform:     track.Platform,
		Confidence:   confidence,
		RetrievedAt:  retrievedAt,
		DataComplete: complete,
		Fields:       fields,
	}
}
