package justwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/metrics"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/amaumene/mediagate/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	// BaseURL is the JustWatch content API root
	BaseURL = "https://apis.justwatch.com/content"

	flatrate       = "flatrate"
	searchPageSize = 10
)

// Query identifies the title whose providers are wanted. Year 0 means unknown.
type Query struct {
	Title string
	Type  models.MediaType
	Year  int
}

// candidateMatch is the candidate picked for a query, with diagnostics
// that never influence the pick
type candidateMatch struct {
	Title       titleDTO
	YearMatched bool
	Distance    int // edit distance between normalised query and candidate titles
}

// Client resolves which subscription services carry a title
type Client struct {
	http      *fetch.Client
	directory *Directory
	degrader  *fetch.Degrader
	metrics   *metrics.Metrics
	locale    string
	ttl       time.Duration
	logger    *logrus.Logger
}

// NewClient creates a new watch-provider client. Not-found results are
// expected and are not logged.
func NewClient(http *fetch.Client, directory *Directory, degrader *fetch.Degrader, m *metrics.Metrics, cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		http:      http,
		directory: directory,
		degrader:  degrader.QuietNotFound(),
		metrics:   m,
		locale:    cfg.JustWatchLocale,
		ttl:       cfg.CacheTTL,
		logger:    logger,
	}
}

// FetchProviders runs the resolution pipeline and returns the first error
func (c *Client) FetchProviders(ctx context.Context, q Query) ([]models.StreamingProvider, error) {
	if c.directory.Len(ctx) == 0 {
		return []models.StreamingProvider{}, nil
	}

	candidates, err := c.search(ctx, q)
	if err != nil {
		return nil, err
	}

	match := selectMatch(q, candidates)
	c.metrics.ObserveMatchDistance(match.Distance)
	c.logger.WithFields(logrus.Fields{
		"query":        q.Title,
		"year":         q.Year,
		"candidate":    match.Title.Title,
		"candidate_id": match.Title.ID,
		"year_matched": match.YearMatched,
		"distance":     match.Distance,
	}).Debug("Selected watch-provider candidate")

	providers := make([]models.StreamingProvider, 0)
	for _, offer := range flatrateOffers(match.Title.Offers) {
		p, ok := c.directory.Lookup(ctx, offer.ProviderID)
		if !ok {
			c.logger.WithField("provider_id", offer.ProviderID).Debug("Offer from unknown provider skipped")
			continue
		}
		providers = append(providers, models.StreamingProvider{
			Name:     p.Name,
			IconURL:  p.IconURL,
			DeepLink: offer.URLs.StandardWeb,
		})
	}
	return providers, nil
}

// Providers returns the subscription services carrying the title. It never
// fails; errors other than not-found are logged.
func (c *Client) Providers(ctx context.Context, q Query) []models.StreamingProvider {
	providers, err := c.FetchProviders(ctx, q)
	return fetch.OrEmpty(c.degrader, "justwatch.providers", providers, err)
}

func (c *Client) search(ctx context.Context, q Query) ([]titleDTO, error) {
	title := strings.TrimSpace(q.Title)
	path := fmt.Sprintf("/titles/%s/popular", url.PathEscape(c.locale))
	if title == "" {
		return nil, &fetch.NotFoundError{Path: path, Resource: "empty title"}
	}

	body, err := json.Marshal(searchBodyDTO{
		Query:        title,
		ContentTypes: []string{contentType(q.Type)},
		PageSize:     searchPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search body: %w", err)
	}

	var payload searchDTO
	if err := c.http.Get(ctx, path, fetch.Params{"body": string(body)}, fetch.CacheFor(c.ttl), &payload); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", title, err)
	}
	if len(payload.Items) == 0 {
		return nil, &fetch.NotFoundError{Path: path, Resource: title}
	}
	return payload.Items, nil
}

// selectMatch picks the first candidate whose original release year equals
// the queried year, else the first candidate. candidates must be non-empty.
// Title similarity is measured for diagnostics only.
func selectMatch(q Query, candidates []titleDTO) candidateMatch {
	match := candidateMatch{Title: candidates[0]}
	if q.Year > 0 {
		for _, candidate := range candidates {
			if candidate.OriginalReleaseYear == q.Year {
				match = candidateMatch{Title: candidate, YearMatched: true}
				break
			}
		}
	}
	match.Distance = levenshtein.ComputeDistance(utils.NormalizeTitle(q.Title), utils.NormalizeTitle(match.Title.Title))
	return match
}

// flatrateOffers keeps subscription offers with a web deep link, one per provider
func flatrateOffers(offers []offerDTO) []offerDTO {
	out := make([]offerDTO, 0, len(offers))
	seen := make(map[int64]struct{}, len(offers))
	for _, o := range offers {
		if o.MonetizationType != flatrate || o.URLs.StandardWeb == "" {
			continue
		}
		if _, dup := seen[o.ProviderID]; dup {
			continue
		}
		seen[o.ProviderID] = struct{}{}
		out = append(out, o)
	}
	return out
}

func contentType(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeShow {
		return "show"
	}
	return "movie"
}
