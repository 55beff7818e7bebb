package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMusicKindSearchable(t *testing.T) {
	for _, kind := range []MusicKind{MusicKindTrack, MusicKindAlbum, MusicKindArtist} {
		assert.True(t, kind.Searchable(), kind)
	}
	assert.True(t, MusicKindGenre.Valid())
	assert.False(t, MusicKindGenre.Searchable())
	assert.False(t, MusicKind("playlist").Searchable())
}
