package justwatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/metrics"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/amaumene/mediagate/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providersPayload = `[
	{"id":8,"clear_name":"Netflix","short_name":"nfx","icon_url":"/icon/207360008/{profile}"},
	{"id":337,"clear_name":"Disney Plus","short_name":"dnp","icon_url":"/icon/147638351/{profile}"},
	{"id":2,"clear_name":"Apple iTunes","short_name":"itu","icon_url":"/icon/190848813/{profile}"}
]`

type fakeJustWatch struct {
	providerStatus int
	titles         map[string]string // search query -> response body

	providerCalls int32
	searchCalls   int32

	mu       sync.Mutex
	lastBody searchBodyDTO
}

func (f *fakeJustWatch) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/providers/locale/en_US":
			atomic.AddInt32(&f.providerCalls, 1)
			if f.providerStatus != 0 {
				w.WriteHeader(f.providerStatus)
				return
			}
			w.Write([]byte(providersPayload))
		case "/titles/en_US/popular":
			atomic.AddInt32(&f.searchCalls, 1)
			var body searchBodyDTO
			assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("body")), &body))
			f.mu.Lock()
			f.lastBody = body
			f.mu.Unlock()
			resp, ok := f.titles[body.Query]
			if !ok {
				resp = `{"items":[]}`
			}
			w.Write([]byte(resp))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func (f *fakeJustWatch) body() searchBodyDTO {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func newTestClient(t *testing.T, fake *fakeJustWatch, logger *logrus.Logger) *Client {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	if logger == nil {
		logger = utils.NullLogger()
	}
	noRetry := uint64(0)
	fc := fetch.NewClient(fetch.Options{Name: "justwatch", BaseURL: server.URL, MaxRetries: &noRetry, Logger: utils.NullLogger()})
	cfg := &config.Config{JustWatchLocale: "en_US", CacheTTL: time.Minute}
	directory := NewDirectory(fc, cfg.JustWatchLocale, utils.NullLogger())
	return NewClient(fc, directory, fetch.NewDegrader(logger, nil), metrics.New(prometheus.NewRegistry()), cfg, logger)
}

const twoEditions = `{"items":[
	{"id":1,"title":"The Karate Kid","original_release_year":1984,"offers":[
		{"monetization_type":"flatrate","provider_id":8,"urls":{"standard_web":"https://www.netflix.com/title/1984"}}]},
	{"id":2,"title":"The Karate Kid","original_release_year":2010,"offers":[
		{"monetization_type":"flatrate","provider_id":337,"urls":{"standard_web":"https://www.disneyplus.com/movies/2010"}}]}
]}`

func TestProvidersPicksYearMatch(t *testing.T) {
	fake := &fakeJustWatch{titles: map[string]string{"The Karate Kid": twoEditions}}
	client := newTestClient(t, fake, nil)

	providers := client.Providers(context.Background(), Query{Title: "The Karate Kid", Type: models.MediaTypeMovie, Year: 2010})
	require.Len(t, providers, 1)
	assert.Equal(t, models.StreamingProvider{
		Name:     "Disney Plus",
		IconURL:  "https://images.justwatch.com/icon/147638351/s100",
		DeepLink: "https://www.disneyplus.com/movies/2010",
	}, providers[0])

	assert.Equal(t, []string{"movie"}, fake.body().ContentTypes)
}

func TestProvidersFallsBackToFirstCandidate(t *testing.T) {
	fake := &fakeJustWatch{titles: map[string]string{"The Karate Kid": twoEditions}}
	client := newTestClient(t, fake, nil)

	providers := client.Providers(context.Background(), Query{Title: "The Karate Kid", Type: models.MediaTypeMovie, Year: 1999})
	require.Len(t, providers, 1)
	assert.Equal(t, "Netflix", providers[0].Name)

	providers = client.Providers(context.Background(), Query{Title: "The Karate Kid", Type: models.MediaTypeMovie})
	require.Len(t, providers, 1)
	assert.Equal(t, "Netflix", providers[0].Name)
}

// Only the release year disambiguates candidates. When the queried year is
// unknown to the index, a better-titled later candidate still loses to the
// first one.
func TestProvidersMatchPrecisionLimit(t *testing.T) {
	fake := &fakeJustWatch{titles: map[string]string{"Dune": `{"items":[
		{"id":10,"title":"Dune: Part Two","original_release_year":2024,"offers":[
			{"monetization_type":"flatrate","provider_id":8,"urls":{"standard_web":"https://www.netflix.com/title/dune2"}}]},
		{"id":11,"title":"Dune","original_release_year":1984,"offers":[
			{"monetization_type":"flatrate","provider_id":337,"urls":{"standard_web":"https://www.disneyplus.com/dune"}}]}
	]}`}}
	client := newTestClient(t, fake, nil)

	providers := client.Providers(context.Background(), Query{Title: "Dune", Type: models.MediaTypeMovie, Year: 2021})
	require.Len(t, providers, 1)
	assert.Equal(t, "https://www.netflix.com/title/dune2", providers[0].DeepLink)
}

func TestSelectMatchDiagnostics(t *testing.T) {
	candidates := []titleDTO{
		{ID: 1, Title: "Amélie", OriginalReleaseYear: 2001},
		{ID: 2, Title: "Amelie from Montmartre", OriginalReleaseYear: 2001},
	}

	match := selectMatch(Query{Title: "Amelie", Year: 2001}, candidates)
	assert.Equal(t, int64(1), match.Title.ID)
	assert.True(t, match.YearMatched)
	assert.Equal(t, 0, match.Distance)

	match = selectMatch(Query{Title: "Amelie", Year: 1990}, candidates)
	assert.Equal(t, int64(1), match.Title.ID)
	assert.False(t, match.YearMatched)
}

func TestProvidersFlatrateDeduplication(t *testing.T) {
	fake := &fakeJustWatch{titles: map[string]string{"Inception": `{"items":[
		{"id":1,"title":"Inception","original_release_year":2010,"offers":[
			{"monetization_type":"flatrate","provider_id":8,"presentation_type":"hd","urls":{"standard_web":"https://www.netflix.com/title/70131314?hd"}},
			{"monetization_type":"flatrate","provider_id":8,"presentation_type":"sd","urls":{"standard_web":"https://www.netflix.com/title/70131314?sd"}},
			{"monetization_type":"rent","provider_id":2,"urls":{"standard_web":"https://itunes.apple.com/inception"}},
			{"monetization_type":"flatrate","provider_id":337,"urls":{"standard_web":""}}
		]}
	]}`}}
	client := newTestClient(t, fake, nil)

	providers := client.Providers(context.Background(), Query{Title: "Inception", Type: models.MediaTypeMovie, Year: 2010})
	require.Len(t, providers, 1)
	assert.Equal(t, "Netflix", providers[0].Name)
	assert.Equal(t, "https://www.netflix.com/title/70131314?hd", providers[0].DeepLink)
}

func TestProvidersEmptyDirectorySkipsSearch(t *testing.T) {
	fake := &fakeJustWatch{providerStatus: http.StatusInternalServerError, titles: map[string]string{"Inception": twoEditions}}
	client := newTestClient(t, fake, nil)
	ctx := context.Background()

	providers := client.Providers(ctx, Query{Title: "Inception", Type: models.MediaTypeMovie})
	assert.NotNil(t, providers)
	assert.Empty(t, providers)

	client.Providers(ctx, Query{Title: "Inception", Type: models.MediaTypeMovie})
	assert.Equal(t, int32(0), atomic.LoadInt32(&fake.searchCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.providerCalls), "a failed directory is not refetched")
}

func TestDirectoryLoadsOnceUnderConcurrency(t *testing.T) {
	fake := &fakeJustWatch{}
	client := newTestClient(t, fake, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, ok := client.directory.Lookup(context.Background(), 8)
			assert.True(t, ok)
			assert.Equal(t, "Netflix", p.Name)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.providerCalls))
}

func TestProvidersNotFoundIsQuiet(t *testing.T) {
	logger, hook := test.NewNullLogger()
	fake := &fakeJustWatch{titles: map[string]string{}}
	client := newTestClient(t, fake, logger)

	providers := client.Providers(context.Background(), Query{Title: "No Such Film", Type: models.MediaTypeMovie})
	assert.Empty(t, providers)
	assert.Empty(t, hook.AllEntries())

	_, err := client.FetchProviders(context.Background(), Query{Title: "No Such Film", Type: models.MediaTypeMovie})
	assert.True(t, fetch.IsNotFound(err))
}

func TestProvidersLogsOtherFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	fake := &fakeJustWatch{titles: map[string]string{"Broken": `{"items":`}}
	client := newTestClient(t, fake, logger)

	providers := client.Providers(context.Background(), Query{Title: "Broken", Type: models.MediaTypeShow})
	assert.NotNil(t, providers)
	assert.Empty(t, providers)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, fetch.KindAPI, hook.LastEntry().Data["kind"])
	assert.Equal(t, []string{"show"}, fake.body().ContentTypes)
}
