package tmdb

// Raw TMDB v3 response shapes. Only the fields the mappers read are declared.

type pageDTO struct {
	Page         int        `json:"page"`
	Results      []titleDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// titleDTO covers both movie and tv payloads; movies use Title/ReleaseDate,
// tv uses Name/FirstAirDate
type titleDTO struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Name         string      `json:"name"`
	Overview     string      `json:"overview"`
	PosterPath   *string     `json:"poster_path"`
	BackdropPath *string     `json:"backdrop_path"`
	ReleaseDate  string      `json:"release_date"`
	FirstAirDate string      `json:"first_air_date"`
	GenreIDs     []int       `json:"genre_ids"`
	Genres       []genreDTO  `json:"genres"`
	VoteAverage  float64     `json:"vote_average"`
	Runtime      int         `json:"runtime"`
	Credits      *creditsDTO `json:"credits"`
	Videos       *videosDTO  `json:"videos"`
	Seasons      []seasonDTO `json:"seasons"`
	CreatedBy    []struct {
		Name string `json:"name"`
	} `json:"created_by"`
}

type genreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListDTO struct {
	Genres []genreDTO `json:"genres"`
}

type creditsDTO struct {
	Cast []struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type videosDTO struct {
	Results []videoDTO `json:"results"`
}

type videoDTO struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type seasonDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SeasonNumber int     `json:"season_number"`
	EpisodeCount int     `json:"episode_count"`
	PosterPath   *string `json:"poster_path"`
}

type findDTO struct {
	MovieResults []struct {
		ID int64 `json:"id"`
	} `json:"movie_results"`
	TVResults []struct {
		ID int64 `json:"id"`
	} `json:"tv_results"`
}
