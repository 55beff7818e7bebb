package tmdb

import (
	"context"
	"strings"

	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
)

const (
	// BaseURL is the TMDB v3 API root
	BaseURL = "https://api.themoviedb.org/3"

	imageBaseURL     = "https://image.tmdb.org/t/p"
	posterSize       = "w500"
	backdropSize     = "w1280"
	youtubeWatchURL  = "https://www.youtube.com/watch?v="
	animationGenreID = 16
)

// api carries the key and language every TMDB request needs
type api struct {
	http     *fetch.Client
	apiKey   string
	language string
}

func (a *api) get(ctx context.Context, path string, params fetch.Params, policy fetch.CachePolicy, out any) error {
	merged := fetch.Params{
		"api_key":  a.apiKey,
		"language": normalizeLanguage(a.language),
	}
	for k, v := range params {
		merged[k] = v
	}
	return a.http.Get(ctx, path, merged, policy, out)
}

// kindPath maps a media type onto TMDB's path segment
func kindPath(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeShow {
		return "tv"
	}
	return "movie"
}

func normalizeLanguage(lang string) string {
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if len(lang) == 2 {
		return strings.ToLower(lang) + "-US"
	}
	if len(lang) >= 5 {
		return strings.ToLower(lang[:2]) + "-" + strings.ToUpper(lang[3:5])
	}
	return "en-US"
}
