package justwatch

type providerDTO struct {
	ID        int64  `json:"id"`
	ClearName string `json:"clear_name"`
	ShortName string `json:"short_name"`
	IconURL   string `json:"icon_url"` // contains a {profile} size token
}

type searchBodyDTO struct {
	Query        string   `json:"query"`
	ContentTypes []string `json:"content_types"`
	PageSize     int      `json:"page_size"`
}

type searchDTO struct {
	Items []titleDTO `json:"items"`
}

type titleDTO struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	ObjectType          string     `json:"object_type"`
	OriginalReleaseYear int        `json:"original_release_year"`
	Offers              []offerDTO `json:"offers"`
}

type offerDTO struct {
	MonetizationType string `json:"monetization_type"`
	ProviderID       int64  `json:"provider_id"`
	PresentationType string `json:"presentation_type"`
	URLs             struct {
		StandardWeb string `json:"standard_web"`
	} `json:"urls"`
}
