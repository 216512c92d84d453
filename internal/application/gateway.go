package application

import (
	"context"
	"fmt"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/config"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/infrastructure/http"
	"golang.org/x/time/rate"
)

// searchLimit is the maximum number of raw results requested per search.
const searchLimit = 20

// Gateway wraps the per-platform search providers behind one interface.
// Implementations do not retry; retry policy belongs to the caller.
type Gateway interface {
	Search(ctx context.Context, track *domain.PlatformTrack, targetPlatform domain.Platform) ([]*domain.PlatformTrack, error)
	FetchTrack(ctx context.Context, platform domain.Platform, id string) (*domain.PlatformTrack, error)
}

type platformGateway struct {
	spotify    http.SpotifyClient
	appleMusic http.AppleMusicClient
	limiters   map[domain.Platform]*rate.Limiter
}

func NewPlatformGateway(spotify http.SpotifyClient, appleMusic http.AppleMusicClient, services config.ServicesConfig) Gateway {
	return &platformGateway{
		spotify:    spotify,
		appleMusic: appleMusic,
		limiters: map[domain.Platform]*rate.Limiter{
			domain.PlatformSpotify:    rate.NewLimiter(rate.Limit(services.Spotify.RequestsPerSecond), 1),
			domain.PlatformAppleMusic: rate.NewLimiter(rate.Limit(services.AppleMusic.RequestsPerSecond), 1),
		},
	}
}

// BuildSearchQuery builds the provider-agnostic structured query from the
// source track's fields. The album clause is appended only when present.
func BuildSearchQuery(track *domain.PlatformTrack) string {
	query := fmt.Sprintf("track:%q artist:%q", track.Name, track.ArtistName)
	if track.AlbumName != "" {
		query += fmt.Sprintf(" album:%q", track.AlbumName)
	}
	return query
}

func (g *platformGateway) Search(ctx context.Context, track *domain.PlatformTrack, targetPlatform domain.Platform) ([]*domain.PlatformTrack, error) {
	if err := g.wait(ctx, targetPlatform); err != nil {
		return nil, &domain.SearchFailedError{Platform: targetPlatform, Err: err}
	}

	query := BuildSearchQuery(track)

	var results []*domain.PlatformTrack
	var err error

	switch targetPlatform {
	case domain.PlatformSpotify:
		results, err = g.spotify.SearchTracks(ctx, query, searchLimit)
	case domain.PlatformAppleMusic:
		results, err = g.appleMusic.SearchTracks(ctx, query, searchLimit)
	default:
		err = fmt.Errorf("unsupported platform: %s", targetPlatform)
	}

	if err != nil {
		return nil, &domain.SearchFailedError{Platform: targetPlatform, Err: err}
	}

	return results, nil
}

func (g *platformGateway) FetchTrack(ctx context.Context, platform domain.Platform, id string) (*domain.PlatformTrack, error) {
	if err := g.wait(ctx, platform); err != nil {
		return nil, &domain.SearchFailedError{Platform: platform, Err: err}
	}

	var track *domain.PlatformTrack
	var err error

	switch platform {
	case domain.PlatformSpotify:
		track, err = g.spotify.GetTrack(ctx, id)
	case domain.PlatformAppleMusic:
		track, err = g.appleMusic.GetTrack(ctx, id)
	default:
		err = fmt.Errorf("unsupported platform: %s", platform)
	}

	if err != nil {
		return nil, &domain.SearchFailedError{Platform: platform, Err: err}
	}

	return track, nil
}

func (g *platformGateway) wait(ctx context.Context, platform domain.Platform) error {
	limiter, ok := g.limiters[platform]
	if !ok {
		return nil
	}
	return limiter.Wait(ctx)
}
