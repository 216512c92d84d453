package application

import (
	"context"
	"errors"
	"testing"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
)

type mockGateway struct {
	searchResults []*domain.PlatformTrack
	searchErr     error
	searchCalls   int

	fetchTracks map[string]*domain.PlatformTrack
	fetchErr    error
	fetchCalls  int
}

func (m *mockGateway) Search(ctx context.Context, track *domain.PlatformTrack, targetPlatform domain.Platform) ([]*domain.PlatformTrack, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockGateway) FetchTrack(ctx context.Context, platform domain.Platform, id string) (*domain.PlatformTrack, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if track, ok := m.fetchTracks[id]; ok {
		return track, nil
	}
	return nil, errors.New("track not found")
}

func TestMatch_RanksCandidatesByConfidence(t *testing.T) {
	source := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").
		WithDuration(180000).WithISRC("USRC17607839")

	exact := testTrack(t, domain.PlatformAppleMusic, "am1", "Test Song", "Test Artist").
		WithDuration(180000).WithISRC("USRC17607839")
	near := testTrack(t, domain.PlatformAppleMusic, "am2", "Test Song", "Test Artist").
		WithDuration(183000)
	unrelated := testTrack(t, domain.PlatformAppleMusic, "am3", "Completely Different Song", "Different Artist").
		WithDuration(120000)

	gateway := &mockGateway{searchResults: []*domain.PlatformTrack{unrelated, near, exact}}
	matcher := NewMatcher(gateway)

	result, err := matcher.Match(context.Background(), source, domain.PlatformAppleMusic, domain.DefaultMatchConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Candidates) != 2 {
		t.Fatalf("expected the unrelated track filtered out, got %d candidates", len(result.Candidates))
	}
	if result.Candidates[0].Track.ID != "am1" {
		t.Errorf("expected exact match first, got %s", result.Candidates[0].Track.ID)
	}
	if result.Candidates[0].Confidence <= result.Candidates[1].Confidence {
		t.Errorf("candidates not sorted by confidence: %v vs %v",
			result.Candidates[0].Confidence, result.Candidates[1].Confidence)
	}
	if result.BestMatch == nil || result.BestMatch.ID != "am1" {
		t.Errorf("expected best match am1, got %+v", result.BestMatch)
	}
	if result.SourceTrack != source {
		t.Error("result should carry the source track")
	}
}

func TestMatch_NoCandidates(t *testing.T) {
	source := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist").
		WithDuration(180000)
	unrelated := testTrack(t, domain.PlatformAppleMusic, "am3", "Completely Different Song", "Different Artist").
		WithDuration(120000)

	gateway := &mockGateway{searchResults: []*domain.PlatformTrack{unrelated}}
	matcher := NewMatcher(gateway)

	result, err := matcher.Match(context.Background(), source, domain.PlatformAppleMusic, domain.DefaultMatchConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BestMatch != nil {
		t.Errorf("expected no best match, got %+v", result.BestMatch)
	}
	if len(result.Candidates) != 0 {
		t.Errorf("expected no candidates, got %v", result.Candidates)
	}
}

func TestMatch_EmptySearchResults(t *testing.T) {
	source := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist")
	gateway := &mockGateway{}
	matcher := NewMatcher(gateway)

	result, err := matcher.Match(context.Background(), source, domain.PlatformAppleMusic, domain.DefaultMatchConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BestMatch != nil || len(result.Candidates) != 0 {
		t.Errorf("expected an empty result, got %+v", result)
	}
}

func TestMatch_SearchFailureWrapped(t *testing.T) {
	source := testTrack(t, domain.PlatformSpotify, "sp1", "Test Song", "Test Artist")
	gateway := &mockGateway{searchErr: errors.New("service unavailable")}
	matcher := NewMatcher(gateway)

	_, err := matcher.Match(context.Background(), source, domain.PlatformAppleMusic, domain.DefaultMatchConfig())
	if err == nil {
		t.Fatal("expected an error")
	}

	var matchErr *domain.MatchFailedError
	if !errors.As(err, &matchErr) {
		t.Fatalf("expected MatchFailedError, got %T: %v", err, err)
	}
	if matchErr.Platform != domain.PlatformAppleMusic {
		t.Errorf("expected platform apple-music on the error, got %s", matchErr.Platform)
	}
}
