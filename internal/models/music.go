package models

// MusicItem is the sealed sum of Track, Album, Artist and MusicGenre.
// Consumers switch on the concrete type; the set is closed to this package.
type MusicItem interface {
	Kind() MusicKind
	musicItem()
}

// ArtistRef points at the artist an item belongs to
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumRef points at the album a track belongs to
type AlbumRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// Track is a single song
type Track struct {
	Type       MusicKind `json:"type"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Duration   int       `json:"duration"` // seconds
	PreviewURL string    `json:"previewUrl,omitempty"`
	Artist     ArtistRef `json:"artist"`
	Album      AlbumRef  `json:"album"`
	ImageURL   string    `json:"imageUrl"`
}

// Album is a release with its optional track listing
type Album struct {
	Type        MusicKind `json:"type"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      ArtistRef `json:"artist"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	TrackCount  int       `json:"trackCount"`
	ImageURL    string    `json:"imageUrl"`
	Tracks      []Track   `json:"tracks,omitempty"`
}

// Artist is a performer with optional top tracks
type Artist struct {
	Type       MusicKind `json:"type"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FanCount   int       `json:"fanCount"`
	AlbumCount int       `json:"albumCount"`
	ImageURL   string    `json:"imageUrl"`
	TopTracks  []Track   `json:"topTracks,omitempty"`
}

// MusicGenre is a music catalog genre
type MusicGenre struct {
	Type     MusicKind `json:"type"`
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl"`
}

func (Track) Kind() MusicKind      { return MusicKindTrack }
func (Album) Kind() MusicKind      { return MusicKindAlbum }
func (Artist) Kind() MusicKind     { return MusicKindArtist }
func (MusicGenre) Kind() MusicKind { return MusicKindGenre }

func (Track) musicItem()      {}
func (Album) musicItem()      {}
func (Artist) musicItem()     {}
func (MusicGenre) musicItem() {}

// DisplayName returns the label shown on a card for any music item
func DisplayName(item MusicItem) string {
	switch v := item.(type) {
	case Track:
		return v.Title
	case Album:
		return v.Title
	case Artist:
		return v.Name
	case MusicGenre:
		return v.Name
	default:
		return ""
	}
}

// MusicCharts groups the chart carousels by category
type MusicCharts map[ChartCategory][]MusicItem

// SearchedTrack is a recording search hit enriched with cover art
type SearchedTrack struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Release     string `json:"release,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	CoverURL    string `json:"coverUrl"` // placeholder when no art was found
}

// StreamingProvider is a subscription service offering a title
type StreamingProvider struct {
	Name     string `json:"name"`
	IconURL  string `json:"iconUrl"`
	DeepLink string `json:"deepLink"`
}
