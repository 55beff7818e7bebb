package deezer

import (
	"fmt"
	"strconv"

	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/utils"
)

// mapItem decodes one payload into the matching MusicItem variant
func mapItem(d itemDTO, placeholder string) (models.MusicItem, error) {
	switch models.MusicKind(d.Type) {
	case models.MusicKindTrack:
		return mapTrack(d, nil, placeholder), nil
	case models.MusicKindAlbum:
		return mapAlbum(d, placeholder), nil
	case models.MusicKindArtist:
		return mapArtist(d, placeholder), nil
	case models.MusicKindGenre:
		return models.MusicGenre{
			Type:     models.MusicKindGenre,
			ID:       id(d.ID),
			Name:     d.Name,
			ImageURL: pictureURL(d, placeholder),
		}, nil
	default:
		return nil, fmt.Errorf("unknown music item type %q", d.Type)
	}
}

// mapTrack converts a track. parent fills the album reference for tracks
// listed inside an album payload, which omit it.
func mapTrack(d itemDTO, parent *itemDTO, placeholder string) models.Track {
	track := models.Track{
		Type:       models.MusicKindTrack,
		ID:         id(d.ID),
		Title:      d.Title,
		Duration:   d.Duration,
		PreviewURL: utils.UpgradeScheme(d.Preview),
	}

	if d.Artist != nil {
		track.Artist = models.ArtistRef{ID: id(d.Artist.ID), Name: d.Artist.Name}
	}

	album := d.Album
	if album == nil {
		album = parent
	}
	if album != nil {
		track.Album = models.AlbumRef{
			ID:       id(album.ID),
			Title:    album.Title,
			ImageURL: coverURL(*album, placeholder),
		}
		track.ImageURL = track.Album.ImageURL
	} else {
		track.ImageURL = placeholder
	}

	return track
}

func mapAlbum(d itemDTO, placeholder string) models.Album {
	album := models.Album{
		Type:        models.MusicKindAlbum,
		ID:          id(d.ID),
		Title:       d.Title,
		ReleaseDate: d.ReleaseDate,
		TrackCount:  d.NbTracks,
		ImageURL:    coverURL(d, placeholder),
	}
	if d.Artist != nil {
		album.Artist = models.ArtistRef{ID: id(d.Artist.ID), Name: d.Artist.Name}
	}
	if d.Tracks != nil {
		for _, t := range d.Tracks.Data {
			album.Tracks = append(album.Tracks, mapTrack(t, &d, placeholder))
		}
		if album.TrackCount == 0 {
			album.TrackCount = len(album.Tracks)
		}
	}
	return album
}

func mapArtist(d itemDTO, placeholder string) models.Artist {
	return models.Artist{
		Type:       models.MusicKindArtist,
		ID:         id(d.ID),
		Name:       d.Name,
		FanCount:   d.NbFan,
		AlbumCount: d.NbAlbum,
		ImageURL:   pictureURL(d, placeholder),
	}
}

// pictureURL picks xl, then big, then medium artwork
func pictureURL(d itemDTO, placeholder string) string {
	return firstImage(placeholder, d.PictureXL, d.PictureBig, d.PictureMedium)
}

func coverURL(d itemDTO, placeholder string) string {
	return firstImage(placeholder, d.CoverXL, d.CoverBig, d.CoverMedium)
}

func firstImage(placeholder string, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return utils.UpgradeScheme(c)
		}
	}
	return placeholder
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
