package application

import (
	"math"
	"testing"
	"time"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
)

func fullSource(platform domain.Platform, confidence float64) domain.MetadataSource {
	return domain.MetadataSource{
		Platform:     platform,
		Confidence:   confidence,
		RetrievedAt:  time.Now(),
		DataComplete: true,
		Fields: []string{
			"title", "artists", "album", "durationMs", "releaseDate", "genres",
			"isrc", "artwork", "previewUrl", "externalUrl", "explicit", "popularity",
		},
	}
}

func TestAssessQuality_FullRecord(t *testing.T) {
	sources := []domain.MetadataSource{
		fullSource(domain.PlatformSpotify, 0.9),
		fullSource(domain.PlatformAppleMusic, 0.85),
	}

	quality := AssessQuality(sources, nil)

	if quality.Completeness != 1 {
		t.Errorf("expected completeness 1, got %v", quality.Completeness)
	}
	if math.Abs(quality.Accuracy-0.875) > 1e-9 {
		t.Errorf("expected accuracy 0.875, got %v", quality.Accuracy)
	}
	if quality.Consistency != 1 {
		t.Errorf("expected consistency 1 without conflicts, got %v", quality.Consistency)
	}
	if quality.Freshness != 1 {
		t.Errorf("expected freshness 1, got %v", quality.Freshness)
	}
	if quality.VerificationStatus != domain.VerificationVerified {
		t.Errorf("expected verified status, got %s", quality.VerificationStatus)
	}
	if quality.ConflictCount != 0 {
		t.Errorf("expected no conflicts, got %d", quality.ConflictCount)
	}
}

func TestAssessQuality_ConflictsLowerConsistency(t *testing.T) {
	sources := []domain.MetadataSource{fullSource(domain.PlatformSpotify, 0.9)}
	conflicts := []domain.MetadataConflict{{Field: "title"}, {Field: "duration"}}

	quality := AssessQuality(sources, conflicts)

	if math.Abs(quality.Consistency-0.8) > 1e-9 {
		t.Errorf("expected consistency 0.8 with two conflicts, got %v", quality.Consistency)
	}
	if quality.ConflictCount != 2 {
		t.Errorf("expected conflict count 2, got %d", quality.ConflictCount)
	}

	clean := AssessQuality(sources, nil)
	if quality.Overall >= clean.Overall {
		t.Errorf("conflicts should lower overall: with=%v without=%v", quality.Overall, clean.Overall)
	}
}

func TestAssessQuality_ConsistencyFloorsAtZero(t *testing.T) {
	conflicts := make([]domain.MetadataConflict, 15)
	quality := AssessQuality(nil, conflicts)

	if quality.Consistency != 0 {
		t.Errorf("expected consistency floored at 0, got %v", quality.Consistency)
	}
}

func TestAssessQuality_CompletenessIsUnionOfFields(t *testing.T) {
	sources := []domain.MetadataSource{
		{Platform: domain.PlatformSpotify, Confidence: 0.9, Fields: []string{"title", "artists", "isrc"}},
		{Platform: domain.PlatformAppleMusic, Confidence: 0.85, Fields: []string{"title", "artists", "genres"}},
	}

	quality := AssessQuality(sources, nil)

	// 4 distinct fields out of 12.
	if math.Abs(quality.Completeness-4.0/12.0) > 1e-9 {
		t.Errorf("expected completeness 4/12, got %v", quality.Completeness)
	}
}

func TestAssessQuality_VerificationBands(t *testing.T) {
	// No sources, no conflicts: overall = 0.25 + 0.15 = 0.4 -> disputed.
	quality := AssessQuality(nil, nil)
	if quality.VerificationStatus != domain.VerificationDisputed {
		t.Errorf("expected disputed for overall %v, got %s", quality.Overall, quality.VerificationStatus)
	}

	// A single sparse source lands between the thresholds -> unverified.
	sources := []domain.MetadataSource{
		{Platform: domain.PlatformSpotify, Confidence: 0.8, Fields: []string{"title", "artists", "album", "durationMs"}},
	}
	quality = AssessQuality(sources, nil)
	if quality.VerificationStatus != domain.VerificationUnverified {
		t.Errorf("expected unverified for overall %v, got %s", quality.Overall, quality.VerificationStatus)
	}
}

func TestBuildSource_CompleteTrack(t *testing.T) {
	track := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").
		WithDuration(180000).WithAlbum("Test Album")

	source := buildSource(track, time.Now())

	if !source.DataComplete {
		t.Error("expected track with mandatory fields to be complete")
	}
	if source.Confidence != 0.9 {
		t.Errorf("expected spotify source confidence 0.9, got %v", source.Confidence)
	}
	if len(source.Fields) != 4 {
		t.Errorf("expected 4 supplied fields, got %v", source.Fields)
	}
}

func TestBuildSource_IncompletePenalty(t *testing.T) {
	track := testTrack(t, domain.PlatformAppleMusic, "am1", "Test Song", "Test Artist")

	source := buildSource(track, time.Now())

	if source.DataComplete {
		t.Error("track without album and duration should be incomplete")
	}
	if math.Abs(source.Confidence-0.75) > 1e-9 {
		t.Errorf("expected penalized confidence 0.75, got %v", source.Confidence)
	}
}

func TestSuppliedFields_AllTwelve(t *testing.T) {
	track := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").
		WithDuration(180000).
		WithAlbum("Test Album").
		WithISRC("USRC17607839").
		WithReleaseDate("2020-01-01").
		WithGenres([]string{"Pop"}).
		WithArtwork("https://img.example/a.jpg", 640, 640).
		WithPreviewURL("https://preview.example/p").
		WithExternalURL("https://open.example/t").
		WithExplicit(true).
		WithPopularity(50)

	if fields := suppliedFields(track); len(fields) != canonicalFieldCount {
		t.Errorf("expected %d fields, got %d: %v", canonicalFieldCount, len(fields), fields)
	}
}
