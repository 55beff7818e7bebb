package tvmaze

// Raw TVmaze response shapes

type imageDTO struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

type showDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Genres    []string  `json:"genres"`
	Premiered string    `json:"premiered"`
	Summary   *string   `json:"summary"`
	Image     *imageDTO `json:"image"`
	Rating    struct {
		Average *float64 `json:"average"`
	} `json:"rating"`
	Externals struct {
		IMDB *string `json:"imdb"`
	} `json:"externals"`
	Embedded *embeddedDTO `json:"_embedded"`
}

type embeddedDTO struct {
	Episodes []episodeDTO `json:"episodes"`
	Cast     []castDTO    `json:"cast"`
	Seasons  []seasonDTO  `json:"seasons"`
}

type episodeDTO struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Season  int       `json:"season"`
	Number  *int      `json:"number"` // null for specials
	Summary *string   `json:"summary"`
	Image   *imageDTO `json:"image"`
}

type castDTO struct {
	Person struct {
		Name string `json:"name"`
	} `json:"person"`
}

type seasonDTO struct {
	ID           int64     `json:"id"`
	Number       int       `json:"number"`
	Name         string    `json:"name"`
	EpisodeOrder *int      `json:"episodeOrder"`
	Image        *imageDTO `json:"image"`
}

type searchHitDTO struct {
	Score float64 `json:"score"`
	Show  showDTO `json:"show"`
}
