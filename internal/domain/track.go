package domain

import "errors"

type Artwork struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// PlatformTrack is the canonical representation of one platform's view of a
// track. It is built once by a normalization adapter and never mutated
// afterwards; (Platform, ID) identifies the track within that platform.
type PlatformTrack struct {
	Platform    Platform `json:"platform"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ArtistName  string   `json:"artistName"`
	AlbumName   string   `json:"albumName,omitempty"`
	DurationMs  int      `json:"durationMs"`
	ISRC        string   `json:"isrc,omitempty"`
	PreviewURL  string   `json:"previewUrl,omitempty"`
	ExternalURL string   `json:"externalUrl,omitempty"`
	Artwork     *Artwork `json:"artwork,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Explicit    bool     `json:"explicit,omitempty"`
	Popularity  int      `json:"popularity,omitempty"`
}

func NewPlatformTrack(platform Platform, id, name, artistName string) (*PlatformTrack, error) {
	if !platform.IsValid() {
		return nil, errors.New("invalid platform")
	}
	if id == "" {
		return nil, errors.New("platform ID cannot be empty")
	}
	if name == "" {
		return nil, errors.New("track name cannot be empty")
	}
	if artistName == "" {
		return nil, errors.New("track artist cannot be empty")
	}

	return &PlatformTrack{
		Platform:   platform,
		ID:         id,
		Name:       name,
		ArtistName: artistName,
	}, nil
}

func (t *PlatformTrack) WithAlbum(album string) *PlatformTrack {
	t.AlbumName = album
	return t
}

func (t *PlatformTrack) WithDuration(durationMs int) *PlatformTrack {
	if durationMs < 0 {
		durationMs = 0
	}
	t.DurationMs = durationMs
	return t
}

func (t *PlatformTrack) WithISRC(isrc string) *PlatformTrack {
	t.ISRC = isrc
	return t
}

func (t *PlatformTrack) WithPreviewURL(url string) *PlatformTrack {
	t.PreviewURL = url
	return t
}

func (t *PlatformTrack) WithExternalURL(url string) *PlatformTrack {
	t.ExternalURL = url
	return t
}

func (t *PlatformTrack) WithArtwork(url string, width, height int) *PlatformTrack {
	if url != "" {
		t.Artwork = &Artwork{URL: url, Width: width, Height: height}
	}
	return t
}

func (t *PlatformTrack) WithReleaseDate(date string) *PlatformTrack {
	t.ReleaseDate = date
	return t
}

func (t *PlatformTrack) WithGenres(genres []string) *PlatformTrack {
	t.Genres = genres
	return t
}

func (t *PlatformTrack) WithExplicit(explicit bool) *PlatformTrack {
	t.Explicit = explicit
	return t
}

func (t *PlatformTrack) WithPopularity(popularity int) *PlatformTrack {
	t.Popularity = popularity
	return t
}
