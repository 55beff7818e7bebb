package tmdb

import (
	"strconv"
	"strings"

	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/utils"
)

// mapMovie converts a TMDB payload into the unified Movie.
// genres must already be resolved to names.
func mapMovie(t titleDTO, genres []string, placeholder string) models.Movie {
	movie := models.Movie{
		Type:        models.MediaTypeMovie,
		ID:          strconv.FormatInt(t.ID, 10),
		Title:       pickTitle(t),
		Year:        utils.ParseYear(t.ReleaseDate),
		Genres:      nonNil(genres),
		Rating:      t.VoteAverage,
		Synopsis:    models.StringPtr(strings.TrimSpace(t.Overview)),
		PosterURL:   buildImageURL(t.PosterPath, posterSize, placeholder),
		BackdropURL: buildImageURL(t.BackdropPath, backdropSize, placeholder),
	}

	if t.Runtime > 0 {
		runtime := t.Runtime
		movie.Runtime = &runtime
	}
	if t.Credits != nil {
		movie.Cast = castNames(t.Credits)
		movie.Director = director(t.Credits)
	}
	if t.Videos != nil {
		movie.TrailerURL = pickTrailer(t.Videos.Results)
	}

	return movie
}

// mapShow converts a TMDB tv payload into the unified Show
func mapShow(t titleDTO, genres []string, placeholder string) models.Show {
	show := models.Show{
		Type:        models.MediaTypeShow,
		ID:          strconv.FormatInt(t.ID, 10),
		Title:       pickTitle(t),
		Year:        utils.ParseYear(t.FirstAirDate),
		Genres:      nonNil(genres),
		Rating:      t.VoteAverage,
		Synopsis:    models.StringPtr(strings.TrimSpace(t.Overview)),
		PosterURL:   buildImageURL(t.PosterPath, posterSize, placeholder),
		BackdropURL: buildImageURL(t.BackdropPath, backdropSize, placeholder),
	}

	if t.Credits != nil {
		show.Cast = castNames(t.Credits)
		show.Director = director(t.Credits)
	}
	if show.Director == "" && len(t.CreatedBy) > 0 {
		show.Director = t.CreatedBy[0].Name
	}
	if t.Videos != nil {
		show.TrailerURL = pickTrailer(t.Videos.Results)
	}
	for _, s := range t.Seasons {
		show.Seasons = append(show.Seasons, models.Season{
			ID:           strconv.FormatInt(s.ID, 10),
			Name:         s.Name,
			Number:       s.SeasonNumber,
			EpisodeCount: s.EpisodeCount,
			PosterPath:   buildImageURL(s.PosterPath, posterSize, ""),
		})
	}

	return show
}

func pickTitle(t titleDTO) string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

// embeddedGenres returns the names carried by a detail payload, de-duplicated in order
func embeddedGenres(t titleDTO) []string {
	out := make([]string, 0, len(t.Genres))
	seen := make(map[string]struct{}, len(t.Genres))
	for _, g := range t.Genres {
		if g.Name == "" {
			continue
		}
		if _, dup := seen[g.Name]; dup {
			continue
		}
		seen[g.Name] = struct{}{}
		out = append(out, g.Name)
	}
	return out
}

// buildImageURL joins a TMDB image path with the CDN prefix and size, or
// returns placeholder when the path is missing
func buildImageURL(imagePath *string, size, placeholder string) string {
	if imagePath == nil {
		return placeholder
	}
	trimmed := strings.TrimPrefix(strings.TrimSpace(*imagePath), "/")
	if trimmed == "" {
		return placeholder
	}
	return imageBaseURL + "/" + size + "/" + trimmed
}

func castNames(credits *creditsDTO) []string {
	n := len(credits.Cast)
	if n > models.MaxCast {
		n = models.MaxCast
	}
	names := make([]string, 0, n)
	for _, member := range credits.Cast[:n] {
		names = append(names, member.Name)
	}
	return names
}

// director returns the first crew member credited as Director
func director(credits *creditsDTO) string {
	for _, member := range credits.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

// pickTrailer prefers an official YouTube trailer, then any YouTube trailer
func pickTrailer(videos []videoDTO) string {
	var fallback string
	for _, v := range videos {
		if !strings.EqualFold(v.Site, "YouTube") || v.Type != "Trailer" || strings.TrimSpace(v.Key) == "" {
			continue
		}
		if v.Official {
			return youtubeWatchURL + v.Key
		}
		if fallback == "" {
			fallback = youtubeWatchURL + v.Key
		}
	}
	return fallback
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
