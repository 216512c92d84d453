package domain

type Platform string

const (
	PlatformSpotify    Platform = "spotify"
	PlatformAppleMusic Platform = "apple-music"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformSpotify, PlatformAppleMusic:
		return true
	default:
		return false
	}
}

func (p Platform) String() string {
	return string(p)
}

func ParsePlatform(s string) (Platform, bool) {
	p := Platform(s)
	return p, p.IsValid()
}
