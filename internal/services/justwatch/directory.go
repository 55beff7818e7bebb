package justwatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	iconBaseURL     = "https://images.justwatch.com"
	iconProfile     = "s100"
	populateTimeout = 10 * time.Second
)

// Provider is one directory entry
type Provider struct {
	ID      int64
	Name    string
	IconURL string // absolute, size token already substituted
}

// Directory is the process-lifetime provider index for one locale.
// It is fetched at most once; a failed fetch leaves it empty for good.
type Directory struct {
	http   *fetch.Client
	locale string
	logger *logrus.Logger

	group     singleflight.Group
	providers atomic.Pointer[map[int64]Provider]
}

// NewDirectory creates an unpopulated provider directory
func NewDirectory(http *fetch.Client, locale string, logger *logrus.Logger) *Directory {
	return &Directory{http: http, locale: locale, logger: logger}
}

// Lookup returns the provider with id
func (d *Directory) Lookup(ctx context.Context, id int64) (Provider, bool) {
	p, ok := d.load(ctx)[id]
	return p, ok
}

// Len returns the number of known providers, populating the directory if needed
func (d *Directory) Len(ctx context.Context) int {
	return len(d.load(ctx))
}

func (d *Directory) load(ctx context.Context) map[int64]Provider {
	if providers := d.providers.Load(); providers != nil {
		return *providers
	}

	v, _, _ := d.group.Do(d.locale, func() (any, error) {
		if providers := d.providers.Load(); providers != nil {
			return *providers, nil
		}

		providers, err := d.fetch(ctx)
		if err != nil {
			d.logger.WithError(err).WithField("locale", d.locale).
				Warn("Failed to fetch watch-provider directory, provider lookups disabled")
			providers = map[int64]Provider{}
		} else {
			d.logger.WithFields(logrus.Fields{
				"locale": d.locale,
				"count":  len(providers),
			}).Info("Watch-provider directory loaded")
		}
		d.providers.Store(&providers)
		return providers, nil
	})
	return v.(map[int64]Provider)
}

func (d *Directory) fetch(ctx context.Context) (map[int64]Provider, error) {
	// Population outlives the request that triggered it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), populateTimeout)
	defer cancel()

	var payload []providerDTO
	path := "/providers/locale/" + url.PathEscape(d.locale)
	if err := d.http.Get(ctx, path, nil, fetch.NoCache, &payload); err != nil {
		return nil, fmt.Errorf("failed to get providers: %w", err)
	}

	providers := make(map[int64]Provider, len(payload))
	for _, p := range payload {
		name := p.ClearName
		if name == "" {
			name = p.ShortName
		}
		providers[p.ID] = Provider{ID: p.ID, Name: name, IconURL: iconURL(p.IconURL)}
	}
	return providers, nil
}

func iconURL(template string) string {
	if template == "" {
		return ""
	}
	return iconBaseURL + strings.ReplaceAll(template, "{profile}", iconProfile)
}
