package models

// Movie is the unified film entity produced by the catalog clients
type Movie struct {
	Type        MediaType `json:"type"` // always "movie"
	ID          string    `json:"id"`   // upstream numeric id as string
	LibraryID   *uint     `json:"libraryId,omitempty"`
	Title       string    `json:"title"`
	Year        int       `json:"year"` // 0 when unknown
	Runtime     *int      `json:"runtime,omitempty"`
	Genres      []string  `json:"genres"`
	Rating      float64   `json:"rating"` // 0-10
	Synopsis    *string   `json:"synopsis"`
	Cast        []string  `json:"cast,omitempty"` // at most MaxCast names
	Director    string    `json:"director,omitempty"`
	PosterURL   string    `json:"posterUrl"`
	BackdropURL string    `json:"backdropUrl"`
	TrailerURL  string    `json:"trailerUrl,omitempty"`
}

// Show is the unified TV entity produced by the catalog clients
type Show struct {
	Type        MediaType `json:"type"` // always "show"
	ID          string    `json:"id"`
	LibraryID   *uint     `json:"libraryId,omitempty"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Genres      []string  `json:"genres"`
	Rating      float64   `json:"rating"`
	Synopsis    *string   `json:"synopsis"`
	Cast        []string  `json:"cast,omitempty"`
	Director    string    `json:"director,omitempty"`
	PosterURL   string    `json:"posterUrl"`
	BackdropURL string    `json:"backdropUrl"`
	TrailerURL  string    `json:"trailerUrl,omitempty"`
	Episodes    []Episode `json:"episodes,omitempty"`
	Seasons     []Season  `json:"seasons,omitempty"`
}

// Episode is a single episode embedded in a Show
type Episode struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Season   int     `json:"season"`
	Number   int     `json:"number"`
	Synopsis *string `json:"synopsis"`
	StillURL *string `json:"stillUrl"`
}

// Season is a season summary embedded in a Show
type Season struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Number       int    `json:"number"`
	EpisodeCount int    `json:"episodeCount"`
	PosterPath   string `json:"posterPath"`
}

// Genre is a film/TV genre as listed by the catalog
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MaxCast is the number of credited names kept on a title
const MaxCast = 10

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ImageOr returns url, or placeholder when url is empty
func ImageOr(url, placeholder string) string {
	if url == "" {
		return placeholder
	}
	return url
}

// EnsureImages substitutes the placeholder for any missing poster or backdrop
func (m *Movie) EnsureImages(placeholder string) {
	m.PosterURL = ImageOr(m.PosterURL, placeholder)
	m.BackdropURL = ImageOr(m.BackdropURL, placeholder)
}

// EnsureImages substitutes the placeholder for any missing poster or backdrop
func (s *Show) EnsureImages(placeholder string) {
	s.PosterURL = ImageOr(s.PosterURL, placeholder)
	s.BackdropURL = ImageOr(s.BackdropURL, placeholder)
}
