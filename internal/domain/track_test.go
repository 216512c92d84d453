package domain

import "testing"

func TestNewPlatformTrack(t *testing.T) {
	track, err := NewPlatformTrack(PlatformSpotify, "sp1", "Test Song", "Test Artist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if track.Platform != PlatformSpotify {
		t.Errorf("expected platform spotify, got %v", track.Platform)
	}
	if track.ID != "sp1" {
		t.Errorf("expected ID sp1, got %s", track.ID)
	}
	if track.Name != "Test Song" {
		t.Errorf("expected name Test Song, got %s", track.Name)
	}
	if track.ArtistName != "Test Artist" {
		t.Errorf("expected artist Test Artist, got %s", track.ArtistName)
	}
}

func TestNewPlatformTrack_Validation(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		id       string
		title    string
		artist   string
	}{
		{"invalid platform", Platform("tidal"), "id", "name", "artist"},
		{"empty id", PlatformSpotify, "", "name", "artist"},
		{"empty name", PlatformSpotify, "id", "", "artist"},
		{"empty artist", PlatformSpotify, "id", "name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPlatformTrack(tt.platform, tt.id, tt.title, tt.artist); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPlatformTrackBuilders(t *testing.T) {
	track, _ := NewPlatformTrack(PlatformAppleMusic, "am1", "Test Song", "Test Artist")

	track.WithAlbum("Test Album").
		WithDuration(180000).
		WithISRC("USRC17607839").
		WithPreviewURL("https://example.com/preview.m4a").
		WithExternalURL("https://music.apple.com/song/am1").
		WithArtwork("https://example.com/art.jpg", 640, 640).
		WithReleaseDate("2020-01-01").
		WithGenres([]string{"Rock"}).
		WithExplicit(true).
		WithPopularity(75)

	if track.AlbumName != "Test Album" {
		t.Errorf("expected album, got %s", track.AlbumName)
	}
	if track.DurationMs != 180000 {
		t.Errorf("expected duration 180000, got %d", track.DurationMs)
	}
	if track.ISRC != "USRC17607839" {
		t.Errorf("expected ISRC, got %s", track.ISRC)
	}
	if track.Artwork == nil || track.Artwork.Width != 640 {
		t.Errorf("expected 640px artwork, got %+v", track.Artwork)
	}
	if !track.Explicit {
		t.Error("expected explicit flag set")
	}
}

func TestWithDuration_NegativeClamped(t *testing.T) {
	track, _ := NewPlatformTrack(PlatformSpotify, "sp1", "Test Song", "Test Artist")
	track.WithDuration(-500)

	if track.DurationMs != 0 {
		t.Errorf("expected negative duration clamped to 0, got %d", track.DurationMs)
	}
}

func TestWithArtwork_EmptyURLIgnored(t *testing.T) {
	track, _ := NewPlatformTrack(PlatformSpotify, "sp1", "Test Song", "Test Artist")
	track.WithArtwork("", 640, 640)

	if track.Artwork != nil {
		t.Errorf("expected no artwork for empty URL, got %+v", track.Artwork)
	}
}
