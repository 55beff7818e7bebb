package deezer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/amaumene/mediagate/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPlaceholder = "https://placehold.test/none.png"
	noDataEnvelope  = `{"error":{"type":"DataException","message":"no data","code":800}}`
	quotaEnvelope   = `{"error":{"type":"Exception","message":"Quota limit exceeded","code":4}}`
)

func newTestClient(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	logger := utils.NullLogger()
	noRetry := uint64(0)
	fc := fetch.NewClient(fetch.Options{Name: "deezer", BaseURL: server.URL, MaxRetries: &noRetry, Logger: logger})
	cfg := &config.Config{PlaceholderImageURL: testPlaceholder, CacheTTL: time.Minute}
	return NewClient(fc, fetch.NewDegrader(logger, nil), cfg, logger)
}

func TestChartErrorEnvelopeDegradesToEmpty(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/chart/0/tracks": quotaEnvelope,
		"/album/1":        quotaEnvelope,
	})
	ctx := context.Background()

	items := client.Chart(ctx, models.ChartTracks)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	assert.Nil(t, client.Detail(ctx, "/album/1", nil))
	assert.Nil(t, client.Album(ctx, "1"))

	_, err := client.FetchList(ctx, "/chart/0/tracks", nil)
	assert.Equal(t, fetch.KindAPI, fetch.KindOf(err))
}

func TestHTTPFailureDegrades(t *testing.T) {
	client := newTestClient(t, map[string]string{})
	ctx := context.Background()

	assert.Empty(t, client.List(ctx, "/chart/0/albums", nil))
	assert.NotNil(t, client.List(ctx, "/chart/0/albums", nil))
	assert.Nil(t, client.Detail(ctx, "/artist/27", nil))
}

func TestNoDataIsNotFound(t *testing.T) {
	client := newTestClient(t, map[string]string{"/artist/0": noDataEnvelope})

	_, err := client.FetchDetail(context.Background(), "/artist/0", nil)
	assert.True(t, fetch.IsNotFound(err))
	assert.Nil(t, client.Artist(context.Background(), "0"))
}

func TestListDecodesEveryVariant(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/chart/0/mixed": `{"data":[
			{"id":3135556,"type":"track","title":"Harder, Better, Faster, Stronger","duration":224,"preview":"http://cdn-preview.dzcdn.net/a.mp3",
			 "artist":{"id":27,"name":"Daft Punk","type":"artist"},
			 "album":{"id":302127,"title":"Discovery","cover_medium":"https://e-cdns.dzcdn.net/m.jpg","cover_big":"https://e-cdns.dzcdn.net/b.jpg","type":"album"}},
			{"id":302127,"type":"album","title":"Discovery","cover_xl":"https://e-cdns.dzcdn.net/xl.jpg","cover_big":"https://e-cdns.dzcdn.net/b.jpg","artist":{"id":27,"name":"Daft Punk"}},
			{"id":27,"type":"artist","name":"Daft Punk","picture_medium":"https://e-cdns.dzcdn.net/pm.jpg","nb_fan":4000000},
			{"id":132,"type":"genre","name":"Pop"},
			{"id":1,"type":"playlist","title":"Skipped"}
		]}`,
	})

	items := client.List(context.Background(), "/chart/0/mixed", nil)
	require.Len(t, items, 4)

	track, ok := items[0].(models.Track)
	require.True(t, ok)
	assert.Equal(t, models.MusicKindTrack, track.Type)
	assert.Equal(t, "Daft Punk", track.Artist.Name)
	assert.Equal(t, "https://e-cdns.dzcdn.net/b.jpg", track.ImageURL, "big wins over medium")
	assert.Equal(t, "https://cdn-preview.dzcdn.net/a.mp3", track.PreviewURL)

	album, ok := items[1].(models.Album)
	require.True(t, ok)
	assert.Equal(t, "https://e-cdns.dzcdn.net/xl.jpg", album.ImageURL, "xl wins")

	artist, ok := items[2].(models.Artist)
	require.True(t, ok)
	assert.Equal(t, "https://e-cdns.dzcdn.net/pm.jpg", artist.ImageURL)
	assert.Equal(t, 4000000, artist.FanCount)

	genre, ok := items[3].(models.MusicGenre)
	require.True(t, ok)
	assert.Equal(t, testPlaceholder, genre.ImageURL)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, models.DisplayName(item))
	}
	assert.Equal(t, []string{"Harder, Better, Faster, Stronger", "Discovery", "Daft Punk", "Pop"}, names)
}

func TestAlbumTracksInheritAlbumReference(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/album/302127": `{"id":302127,"type":"album","title":"Discovery","cover_big":"https://e-cdns.dzcdn.net/b.jpg",
			"artist":{"id":27,"name":"Daft Punk"},
			"tracks":{"data":[
				{"id":3135553,"type":"track","title":"One More Time","duration":320,"artist":{"id":27,"name":"Daft Punk"}},
				{"id":3135554,"type":"track","title":"Aerodynamic","duration":212,"artist":{"id":27,"name":"Daft Punk"}}
			]}}`,
	})

	album := client.Album(context.Background(), "302127")
	require.NotNil(t, album)
	assert.Equal(t, 2, album.TrackCount)
	require.Len(t, album.Tracks, 2)
	assert.Equal(t, "302127", album.Tracks[0].Album.ID)
	assert.Equal(t, "https://e-cdns.dzcdn.net/b.jpg", album.Tracks[1].ImageURL)
}

func TestArtistTopTracks(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/artist/27/top": `{"data":[{"id":1,"type":"track","title":"Get Lucky"},{"id":2,"type":"track","title":"Around the World"}],"total":2}`,
	})

	tracks := client.ArtistTopTracks(context.Background(), "27")
	require.Len(t, tracks, 2)
	assert.Equal(t, "Get Lucky", tracks[0].Title)
	assert.Equal(t, testPlaceholder, tracks[0].ImageURL)
}

func TestSearchBlankQuery(t *testing.T) {
	client := newTestClient(t, map[string]string{})

	items := client.Search(context.Background(), models.MusicKindTrack, " ")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSearchGenreIsNotRequested(t *testing.T) {
	client := newTestClient(t, map[string]string{
		"/search/genre": `{"data":[{"id":132,"type":"genre","name":"Pop"}],"total":1}`,
	})

	items := client.Search(context.Background(), models.MusicKindGenre, "pop")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
