package models

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LibraryEntry marks a catalog title as owned by the user
type LibraryEntry struct {
	ID         uint      `gorm:"primaryKey"`
	Source     Source    `gorm:"uniqueIndex:idx_library_external;not null;default:tmdb"`
	MediaType  MediaType `gorm:"uniqueIndex:idx_library_external;not null"`
	ExternalID string    `gorm:"uniqueIndex:idx_library_external;not null"`
	Title      string
	CreatedAt  time.Time
}

// Library wraps the user's library store
type Library struct {
	db *gorm.DB
}

// NewLibrary opens (and migrates) the library database at path
func NewLibrary(path string) (*Library, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}

	if err := db.AutoMigrate(&LibraryEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate library database: %w", err)
	}

	return &Library{db: db}, nil
}

// Close closes the database connection
func (l *Library) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Add stores an entry, returning the existing one if the title is already owned
func (l *Library) Add(entry *LibraryEntry) error {
	if !entry.Source.Valid() {
		return fmt.Errorf("invalid source %q", entry.Source)
	}
	if !entry.MediaType.Valid() {
		return fmt.Errorf("invalid media type %q", entry.MediaType)
	}
	if entry.ExternalID == "" {
		return fmt.Errorf("external id is required")
	}

	err := l.db.
		Where(LibraryEntry{Source: entry.Source, MediaType: entry.MediaType, ExternalID: entry.ExternalID}).
		Attrs(LibraryEntry{Title: entry.Title}).
		FirstOrCreate(entry).Error
	if err != nil {
		return fmt.Errorf("failed to add library entry: %w", err)
	}
	return nil
}

// ResolveSource fills in the source of a library entry. Movies only come
// from TMDB; shows come from TMDB or TVmaze and must name one.
func ResolveSource(source Source, mediaType MediaType) (Source, error) {
	if source == "" {
		if mediaType == MediaTypeMovie {
			return SourceTMDB, nil
		}
		return "", fmt.Errorf("source is required for %s entries", mediaType)
	}
	if !source.Valid() {
		return "", fmt.Errorf("invalid source %q", source)
	}
	return source, nil
}

// Lookup returns the library ids of the given source's external ids that
// are owned. Ids not in the library are absent from the map.
func (l *Library) Lookup(source Source, mediaType MediaType, externalIDs []string) (map[string]uint, error) {
	owned := make(map[string]uint)
	if len(externalIDs) == 0 {
		return owned, nil
	}

	var entries []LibraryEntry
	err := l.db.
		Where("source = ? AND media_type = ? AND external_id IN ?", source, mediaType, externalIDs).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up library entries: %w", err)
	}

	for _, e := range entries {
		owned[e.ExternalID] = e.ID
	}
	return owned, nil
}
