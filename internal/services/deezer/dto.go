package deezer

// itemDTO is the union of every Deezer object the mappers read. The "type"
// member says which fields are meaningful.
type itemDTO struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Name  string `json:"name"`

	Duration    int    `json:"duration"`
	Preview     string `json:"preview"`
	ReleaseDate string `json:"release_date"`
	NbTracks    int    `json:"nb_tracks"`
	NbFan       int    `json:"nb_fan"`
	NbAlbum     int    `json:"nb_album"`

	Picture       string `json:"picture"`
	PictureMedium string `json:"picture_medium"`
	PictureBig    string `json:"picture_big"`
	PictureXL     string `json:"picture_xl"`

	Cover       string `json:"cover"`
	CoverMedium string `json:"cover_medium"`
	CoverBig    string `json:"cover_big"`
	CoverXL     string `json:"cover_xl"`

	Artist *itemDTO `json:"artist"`
	Album  *itemDTO `json:"album"`
	Tracks *listDTO `json:"tracks"`
}

type listDTO struct {
	Data  []itemDTO `json:"data"`
	Total int       `json:"total"`
}
