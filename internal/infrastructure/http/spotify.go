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

type SpotifyClient interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]*domain.PlatformTrack, error)
	GetTrack(ctx context.Context, id string) (*domain.PlatformTrack, error)
}

type spotifyClient struct {
	baseURL      string
	httpClient   *http.Client
	sessionStore redis.SessionStore
}

func NewSpotifyClient(cfg config.ServiceConfig, sessionStore redis.SessionStore) SpotifyClient {
	return &spotifyClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		sessionStore: sessionStore,
	}
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []spotifyRawTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyRawTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name        string `json:"name"`
		ReleaseDate string `json:"releaseDate"`
		Images      []struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"images"`
	} `json:"album"`
	DurationMs  int `json:"durationMs"`
	ExternalIDs struct {
		ISRC string `json:"isrc"`
	} `json:"externalIds"`
	PreviewURL   string `json:"previewUrl"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"externalUrls"`
	Explicit   bool `json:"explicit"`
	Popularity int  `json:"popularity"`
}

func (c *spotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]*domain.PlatformTrack, error) {
	searchURL := fmt.Sprintf("%s/internal/spotify/v1/search?q=%s&type=track&limit=%d",
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
		return nil, fmt.Errorf("spotify service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result spotifySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	tracks := make([]*domain.PlatformTrack, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		if track := spotifyToTrack(item); track != nil {
			tracks = append(tracks, track)
		}
	}

	return tracks, nil
}

func (c *spotifyClient) GetTrack(ctx context.Context, id string) (*domain.PlatformTrack, error) {
	trackURL := fmt.Sprintf("%s/internal/spotify/v1/tracks/%s", c.baseURL, url.PathEscape(id))

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
		return nil, fmt.Errorf("spotify service returned status %d: %s", resp.StatusCode, string(body))
	}

	var raw spotifyRawTrack
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	track := spotifyToTrack(raw)
	if track == nil {
		return nil, fmt.Errorf("spotify service returned an incomplete track for id %s", id)
	}

	return track, nil
}

func (c *spotifyClient) authorize(ctx context.Context, req *http.Request) error {
	req.Header.Set("Accept", "application/json")

	sessionID := sessionIDFrom(ctx)
	if sessionID == "" {
		return nil
	}

	token, err := c.sessionStore.GetToken(ctx, sessionID, domain.PlatformSpotify)
	if err != nil {
		return fmt.Errorf("failed to get spotify token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return nil
}

// spotifyToTrack is the normalization adapter from the raw Spotify shape to
// the engine's canonical track.
func spotifyToTrack(raw spotifyRawTrack) *domain.PlatformTrack {
	if raw.ID == "" || raw.Name == "" || len(raw.Artists) == 0 {
		return nil
	}

	names := make([]string, 0, len(raw.Artists))
	for _, artist := range raw.Artists {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}

	track, err := domain.NewPlatformTrack(domain.PlatformSpotify, raw.ID, raw.Name, strings.Join(names, ", "))
	if err != nil {
		return nil
	}

	track.WithAlbum(raw.Album.Name).
		WithDuration(raw.DurationMs).
		WithISRC(raw.ExternalIDs.ISRC).
		WithPreviewURL(raw.PreviewURL).
		WithExternalURL(raw.ExternalURLs.Spotify).
		WithReleaseDate(raw.Album.ReleaseDate).
		WithExplicit(raw.Explicit).
		WithPopularity(raw.Popularity)

	if len(raw.Album.Images) > 0 {
		img := raw.Album.Images[0]
		track.WithArtwork(img.URL, img.Width, img.Height)
	}

	return track
}
