package models

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

// Valid reports whether t is a known media type
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeShow
}

// Source names the catalog an external id belongs to. Ids from different
// sources share no namespace.
type Source string

const (
	SourceTMDB   Source = "tmdb"
	SourceTVMaze Source = "tvmaze"
)

// Valid reports whether s is a known catalog source
func (s Source) Valid() bool {
	return s == SourceTMDB || s == SourceTVMaze
}

// MusicKind is the discriminator carried by every music item
type MusicKind string

const (
	MusicKindTrack  MusicKind = "track"
	MusicKindAlbum  MusicKind = "album"
	MusicKindArtist MusicKind = "artist"
	MusicKindGenre  MusicKind = "genre"
)

// Valid reports whether k is a known music kind
func (k MusicKind) Valid() bool {
	switch k {
	case MusicKindTrack, MusicKindAlbum, MusicKindArtist, MusicKindGenre:
		return true
	}
	return false
}

// Searchable reports whether the music catalog has a search endpoint for k.
// Genres are only listed, never searched.
func (k MusicKind) Searchable() bool {
	return k.Valid() && k != MusicKindGenre
}

// ChartCategory is one of the music chart carousels
type ChartCategory string

const (
	ChartTracks  ChartCategory = "tracks"
	ChartAlbums  ChartCategory = "albums"
	ChartArtists ChartCategory = "artists"
	ChartGenres  ChartCategory = "genres"
)

// ChartCategories lists every chart carousel in display order
var ChartCategories = []ChartCategory{ChartTracks, ChartAlbums, ChartArtists, ChartGenres}
