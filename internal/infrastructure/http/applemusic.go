package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/config"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/infrastructure/redis"
)

type AppleMusicClient interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]*domain.PlatformTrack, error)
	GetTrack(ctx context.Context, id string) (*domain.PlatformTrack, error)
}

type appleMusicClient struct {
	baseURL      string
	httpClient   *http.Client
	sessionStore redis.SessionStore
}

func NewAppleMusicClient(cfg config.ServiceConfig, sessionStore redis.SessionStore) AppleMusicClient {
	return &appleMusicClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		sessionStore: sessionStore,
	}
}

type appleMusicSearchResponse struct {
	Results struct {
		Songs struct {
			Data []appleMusicRawTrack `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

type appleMusicRawTrack struct {
	ID         string `json:"id"`
	Attributes struct {
		Name             string   `json:"name"`
		ArtistName       string   `json:"artistName"`
		AlbumName        string   `json:"albumName"`
		DurationInMillis int      `json:"durationInMillis"`
		ISRC             string   `json:"isrc"`
		ReleaseDate      string   `json:"releaseDate"`
		GenreNames       []string `json:"genreNames"`
		URL              string   `json:"url"`
		ContentRating    string   `json:"contentRating"`
		Previews         []struct {
			URL string `json:"url"`
		} `json:"previews"`
		Artwork struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"artwork"`
	} `json:"attributes"`
}

func (c *appleMusicClient) SearchTracks(ctx context.Context, query string, limit int) ([]*domain.PlatformTrack, error) {
	searchURL := fmt.Sprintf("%s/internal/apple-music/v1/search?term=%s&types=songs&limit=%d",
		c.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("apple music service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result appleMusicSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	tracks := make([]*domain.PlatformTrack, 0, len(result.Results.Songs.Data))
	for _, item := range result.Results.Songs.Data {
		if track := appleMusicToTrack(item); track != nil {
			tracks = append(tracks, track)
		}
	}

	return tracks, nil
}

func (c *appleMusicClient) GetTrack(ctx context.Context, id string) (*domain.PlatformTrack, error) {
	trackURL := fmt.Sprintf("%s/internal/apple-music/v1/songs/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("apple music service returned status %d: %s", resp.StatusCode, string(body))
	}

	var raw appleMusicRawTrack
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	track := appleMusicToTrack(raw)
	if track == nil {
		return nil, fmt.Errorf("apple music service returned an incomplete track for id %s", id)
	}

	return track, nil
}

func (c *appleMusicClient) authorize(ctx context.Context, req *http.Request) error {
	req.Header.Set("Accept", "application/json")

	sessionID := sessionIDFrom(ctx)
	if sessionID == "" {
		return nil
	}

	token, err := c.sessionStore.GetToken(ctx, sessionID, domain.PlatformAppleMusic)
	if err != nil {
		return fmt.Errorf("failed to get apple music token: %w", err)
	}

	req.Header.Set("Music-User-Token", token.AccessToken)
	return nil
}

// appleMusicToTrack is the normalization adapter from the raw Apple Music
// shape to the engine's canonical track. Artwork URL templates are resolved
// to the reported dimensions.
func appleMusicToTrack(raw appleMusicRawTrack) *domain.PlatformTrack {
	attrs := raw.Attributes
	if raw.ID == "" || attrs.Name == "" || attrs.ArtistName == "" {
		return nil
	}

	track, err := domain.NewPlatformTrack(domain.PlatformAppleMusic, raw.ID, attrs.Name, attrs.ArtistName)
	if err != nil {
		return nil
	}

	track.WithAlbum(attrs.AlbumName).
		WithDuration(attrs.DurationInMillis).
		WithISRC(attrs.ISRC).
		WithExternalURL(attrs.URL).
		WithReleaseDate(attrs.ReleaseDate).
		WithGenres(attrs.GenreNames).
		WithExplicit(attrs.ContentRating == "explicit")

	if len(attrs.Previews) > 0 {
		track.WithPreviewURL(attrs.Previews[0].URL)
	}

	if attrs.Artwork.URL != "" {
		track.WithArtwork(resolveArtworkURL(attrs.Artwork.URL, attrs.Artwork.Width, attrs.Artwork.Height),
			attrs.Artwork.Width, attrs.Artwork.Height)
	}

	return track
}

func resolveArtworkURL(template string, width, height int) string {
	if width <= 0 || height <= 0 {
		return template
	}
	resolved := strings.ReplaceAll(template, "{w}", fmt.Sprintf("%d", width))
	return strings.ReplaceAll(resolved, "{h}", fmt.Sprintf("%d", height))
}
