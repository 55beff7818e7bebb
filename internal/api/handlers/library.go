package handlers

import (
	"strings"

	"github.com/amaumene/mediagate/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LibraryStore records owned titles
type LibraryStore interface {
	Add(entry *models.LibraryEntry) error
}

type libraryRequest struct {
	Source     models.Source    `json:"source"`
	MediaType  models.MediaType `json:"mediaType"`
	ExternalID string           `json:"externalId"`
	Title      string           `json:"title"`
}

type libraryResponse struct {
	LibraryID  uint             `json:"libraryId"`
	Source     models.Source    `json:"source"`
	MediaType  models.MediaType `json:"mediaType"`
	ExternalID string           `json:"externalId"`
	Title      string           `json:"title"`
}

// LibraryHandler marks catalog titles as owned
type LibraryHandler struct {
	library LibraryStore
	logger  *logrus.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library LibraryStore, logger *logrus.Logger) *LibraryHandler {
	return &LibraryHandler{library: library, logger: logger}
}

// Add stores the posted title. Source may be omitted for movies. Adding an
// owned title again returns the existing library id.
func (h *LibraryHandler) Add(c *fiber.Ctx) error {
	var req libraryRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to decode library payload")
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	req.ExternalID = strings.TrimSpace(req.ExternalID)
	if !req.MediaType.Valid() || req.ExternalID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "mediaType and externalId are required")
	}

	source, err := models.ResolveSource(req.Source, req.MediaType)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	entry := &models.LibraryEntry{Source: source, MediaType: req.MediaType, ExternalID: req.ExternalID, Title: req.Title}
	if err := h.library.Add(entry); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"source":      source,
			"media_type":  req.MediaType,
			"external_id": req.ExternalID,
		}).Error("Failed to add library entry")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add library entry")
	}

	h.logger.WithFields(logrus.Fields{
		"library_id":  entry.ID,
		"source":      entry.Source,
		"media_type":  entry.MediaType,
		"external_id": entry.ExternalID,
		"title":       entry.Title,
	}).Info("Library entry stored")

	return c.Status(fiber.StatusCreated).JSON(libraryResponse{
		LibraryID:  entry.ID,
		Source:     entry.Source,
		MediaType:  entry.MediaType,
		ExternalID: entry.ExternalID,
		Title:      entry.Title,
	})
}
