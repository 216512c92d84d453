package application

import (
	"testing"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
)

func conflictFixture() domain.MetadataConflict {
	return domain.MetadataConflict{
		Field: "title",
		Sources: []domain.ConflictSource{
			{Platform: domain.PlatformSpotify, Value: "Song (Remastered)", Confidence: 0.9},
			{Platform: domain.PlatformAppleMusic, Value: "Song", Confidence: 0.85},
		},
	}
}

func TestDetectConflicts_NilSides(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	track := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist")

	if conflicts := resolver.DetectConflicts(nil, track); conflicts != nil {
		t.Errorf("expected no conflicts with nil side, got %v", conflicts)
	}
	if conflicts := resolver.DetectConflicts(track, nil); conflicts != nil {
		t.Errorf("expected no conflicts with nil side, got %v", conflicts)
	}
	if conflicts := resolver.DetectConflicts(nil, nil); conflicts != nil {
		t.Errorf("expected no conflicts with both sides nil, got %v", conflicts)
	}
}

func TestDetectConflicts_AgreementProducesNone(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	a := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").WithDuration(180000)
	b := testTrack(t, domain.PlatformAppleMusic, "am1", "Test Song", "Test Artist").WithDuration(182000)

	if conflicts := resolver.DetectConflicts(a, b); len(conflicts) != 0 {
		t.Errorf("expected no conflicts for matching tracks, got %v", conflicts)
	}
}

func TestDetectConflicts_ThresholdViolations(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	a := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").WithDuration(180000)
	b := testTrack(t, domain.PlatformAppleMusic, "am1", "An Entirely Other Title", "Somebody Else").WithDuration(190000)

	conflicts := resolver.DetectConflicts(a, b)
	if len(conflicts) != 3 {
		t.Fatalf("expected 3 conflicts, got %d: %v", len(conflicts), conflicts)
	}

	fields := map[string]bool{}
	for _, conflict := range conflicts {
		fields[conflict.Field] = true
		if len(conflict.Sources) != 2 {
			t.Errorf("conflict %s should carry both sources, got %d", conflict.Field, len(conflict.Sources))
		}
	}
	for _, field := range []string{"title", "artist", "duration"} {
		if !fields[field] {
			t.Errorf("expected conflict on %s", field)
		}
	}
}

func TestDetectConflicts_DurationWithinTolerance(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	a := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").WithDuration(180000)
	b := testTrack(t, domain.PlatformAppleMusic, "am1", "Test Song", "Test Artist").WithDuration(185000)

	if conflicts := resolver.DetectConflicts(a, b); len(conflicts) != 0 {
		t.Errorf("5s duration difference should be tolerated, got %v", conflicts)
	}
}

func TestResolve_Confidence(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	conflict := conflictFixture()

	value := resolver.Resolve(&conflict)

	if value != "Song (Remastered)" {
		t.Errorf("expected the higher-confidence spotify value, got %v", value)
	}
	if conflict.Resolution != domain.ResolutionAutomatic {
		t.Errorf("expected automatic resolution, got %s", conflict.Resolution)
	}
	if conflict.ResolvedValue != value {
		t.Errorf("resolved value not recorded on conflict: %v", conflict.ResolvedValue)
	}
	if conflict.ResolutionReason == "" {
		t.Error("expected a resolution reason")
	}
}

func TestResolve_Majority(t *testing.T) {
	resolver := NewConflictResolver(StrategyMajority)
	conflict := domain.MetadataConflict{
		Field: "title",
		Sources: []domain.ConflictSource{
			{Platform: domain.PlatformSpotify, Value: "Song", Confidence: 0.9},
			{Platform: domain.PlatformAppleMusic, Value: "Song (Live)", Confidence: 0.85},
			{Platform: domain.PlatformAppleMusic, Value: "Song", Confidence: 0.85},
		},
	}

	if value := resolver.Resolve(&conflict); value != "Song" {
		t.Errorf("expected the most frequent value, got %v", value)
	}
}

func TestResolve_Newest(t *testing.T) {
	resolver := NewConflictResolver(StrategyNewest)
	conflict := conflictFixture()

	if value := resolver.Resolve(&conflict); value != "Song" {
		t.Errorf("expected the apple-music value under the freshness policy, got %v", value)
	}
}

func TestResolve_ManualFallsBackToConfidence(t *testing.T) {
	resolver := NewConflictResolver(StrategyManual)
	conflict := conflictFixture()

	value := resolver.Resolve(&conflict)

	if value != "Song (Remastered)" {
		t.Errorf("expected confidence fallback, got %v", value)
	}
	if conflict.Resolution != domain.ResolutionAutomatic {
		t.Errorf("expected automatic resolution while manual review is pending, got %s", conflict.Resolution)
	}
}

func TestResolve_EmptySources(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	conflict := domain.MetadataConflict{Field: "title"}

	if value := resolver.Resolve(&conflict); value != nil {
		t.Errorf("expected nil for a conflict without sources, got %v", value)
	}
}

func TestNewConflictResolver_UnknownStrategy(t *testing.T) {
	resolver := NewConflictResolver("bogus")
	conflict := conflictFixture()

	if value := resolver.Resolve(&conflict); value != "Song (Remastered)" {
		t.Errorf("unknown strategy should behave like confidence, got %v", value)
	}
}

func TestMerge_AppliesResolvedValues(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	a := testTrack(t, domain.PlatformSpotify, "sp1", "Some Song (Remastered 2011)", "Test Artist").
		WithDuration(180000).WithAlbum("Album A").WithISRC("USRC17607839")
	b := testTrack(t, domain.PlatformAppleMusic, "am1", "Another Name Entirely", "Test Artist").
		WithDuration(181000).WithGenres([]string{"Rock"})

	conflicts := resolver.DetectConflicts(a, b)
	if len(conflicts) != 1 {
		t.Fatalf("expected a single title conflict, got %v", conflicts)
	}

	normalized := resolver.Merge(a, b, conflicts)

	if normalized.Title != "Some Song (Remastered 2011)" {
		t.Errorf("expected the resolved spotify title, got %q", normalized.Title)
	}
	if len(normalized.Artists) != 1 || normalized.Artists[0] != "Test Artist" {
		t.Errorf("unexpected artists: %v", normalized.Artists)
	}
	if normalized.DurationMs != 180000 {
		t.Errorf("expected duration from the higher-confidence source, got %d", normalized.DurationMs)
	}
	if normalized.Album != "Album A" {
		t.Errorf("album should come from the only supplier, got %q", normalized.Album)
	}
	if normalized.ISRC != "USRC17607839" {
		t.Errorf("isrc should come from the only supplier, got %q", normalized.ISRC)
	}
	if len(normalized.Genres) != 1 || normalized.Genres[0] != "Rock" {
		t.Errorf("genres should come from the only supplier, got %v", normalized.Genres)
	}
}

func TestMerge_PrefersAppleMusicArtwork(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	a := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").
		WithArtwork("https://spotify.example/art.jpg", 640, 640)
	b := testTrack(t, domain.PlatformAppleMusic, "am1", "Test Song", "Test Artist").
		WithArtwork("https://apple.example/art.jpg", 1000, 1000)

	normalized := resolver.Merge(a, b, nil)

	if normalized.Artwork == nil || normalized.Artwork.URL != "https://apple.example/art.jpg" {
		t.Errorf("expected apple-music artwork, got %+v", normalized.Artwork)
	}

	// With only spotify artwork available, it is kept.
	b.Artwork = nil
	normalized = resolver.Merge(a, b, nil)
	if normalized.Artwork == nil || normalized.Artwork.URL != "https://spotify.example/art.jpg" {
		t.Errorf("expected spotify artwork fallback, got %+v", normalized.Artwork)
	}
}

func TestMerge_CollectsURLsPerPlatform(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	a := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").
		WithPreviewURL("https://spotify.example/preview").WithExternalURL("https://open.spotify.com/track/sp1")
	b := testTrack(t, domain.PlatformAppleMusic, "am1", "Test Song", "Test Artist").
		WithExternalURL("https://music.apple.com/track/am1")

	normalized := resolver.Merge(a, b, nil)

	if got := normalized.PreviewURLs[domain.PlatformSpotify]; got != "https://spotify.example/preview" {
		t.Errorf("missing spotify preview url, got %q", got)
	}
	if _, ok := normalized.PreviewURLs[domain.PlatformAppleMusic]; ok {
		t.Error("apple-music supplied no preview url, map should not have the key")
	}
	if len(normalized.ExternalURLs) != 2 {
		t.Errorf("expected external urls from both platforms, got %v", normalized.ExternalURLs)
	}
}

func TestMerge_SingleSource(t *testing.T) {
	resolver := NewConflictResolver(StrategyConfidence)
	a := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").WithDuration(180000)

	normalized := resolver.Merge(a, nil, nil)

	if normalized.Title != "Test Song" || normalized.DurationMs != 180000 {
		t.Errorf("single-source merge should carry the track through, got %+v", normalized)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, valid := range []string{"confidence", "majority", "newest", "manual"} {
		if _, ok := ParseStrategy(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}

	strategy, ok := ParseStrategy("something-else")
	if ok {
		t.Error("expected unknown strategy to be rejected")
	}
	if strategy != StrategyConfidence {
		t.Errorf("expected the confidence default, got %s", strategy)
	}
}
