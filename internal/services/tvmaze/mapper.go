package tvmaze

import (
	"fmt"
	"strconv"

	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/utils"
)

func mapShow(s showDTO, placeholder string) models.Show {
	placeholder = utils.UpgradeScheme(placeholder)
	show := models.Show{
		Type:        models.MediaTypeShow,
		ID:          strconv.FormatInt(s.ID, 10),
		Title:       s.Name,
		Year:        utils.ParseYear(s.Premiered),
		Genres:      uniqueGenres(s.Genres),
		Rating:      rating(s),
		Synopsis:    plainText(s.Summary),
		PosterURL:   models.ImageOr(imageURL(s.Image, false), placeholder),
		BackdropURL: models.ImageOr(imageURL(s.Image, true), placeholder),
	}

	if s.Embedded == nil {
		return show
	}

	for _, e := range s.Embedded.Episodes {
		show.Episodes = append(show.Episodes, mapEpisode(e))
	}
	for _, se := range s.Embedded.Seasons {
		show.Seasons = append(show.Seasons, mapSeason(se))
	}
	for i, c := range s.Embedded.Cast {
		if i == models.MaxCast {
			break
		}
		show.Cast = append(show.Cast, c.Person.Name)
	}

	return show
}

func mapEpisode(e episodeDTO) models.Episode {
	episode := models.Episode{
		ID:       strconv.FormatInt(e.ID, 10),
		Name:     e.Name,
		Season:   e.Season,
		Synopsis: plainText(e.Summary),
		StillURL: models.StringPtr(imageURL(e.Image, true)),
	}
	if e.Number != nil {
		episode.Number = *e.Number
	}
	return episode
}

func mapSeason(s seasonDTO) models.Season {
	season := models.Season{
		ID:         strconv.FormatInt(s.ID, 10),
		Name:       s.Name,
		Number:     s.Number,
		PosterPath: imageURL(s.Image, false),
	}
	if season.Name == "" {
		season.Name = fmt.Sprintf("Season %d", s.Number)
	}
	if s.EpisodeOrder != nil {
		season.EpisodeCount = *s.EpisodeOrder
	}
	return season
}

func rating(s showDTO) float64 {
	if s.Rating.Average == nil {
		return 0
	}
	return *s.Rating.Average
}

// imageURL picks the original or medium rendition, falling back to the
// other one, always over https
func imageURL(img *imageDTO, preferOriginal bool) string {
	if img == nil {
		return ""
	}
	first, second := img.Medium, img.Original
	if preferOriginal {
		first, second = second, first
	}
	if first == "" {
		first = second
	}
	return utils.UpgradeScheme(first)
}

func plainText(summary *string) *string {
	if summary == nil {
		return nil
	}
	return models.StringPtr(utils.StripMarkup(*summary))
}

func uniqueGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		if _, dup := seen[g]; dup || g == "" {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
