package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/storyforge-api/internal/logger"
	"github.com/Conceptual-Machines/storyforge-api/internal/models"
	"github.com/Conceptual-Machines/storyforge-api/internal/store"
	"github.com/gin-gonic/gin"
)

type GalleryHandler struct {
	repo store.Repository
}

func NewGalleryHandler(repo store.Repository) *GalleryHandler {
	return &GalleryHandler{repo: repo}
}

// GetStory handles GET /api/getstory/:userId/:storyId. A story the user does
// not have yields an empty list.
func (h *GalleryHandler) GetStory(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}

	records, err := h.repo.FindStory(c.Request.Context(), userID, c.Param("storyId"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, []models.SceneRecord{})
		return
	}
	if err != nil {
		logger.Error("Failed to fetch story", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve story."})
		return
	}

	c.JSON(http.StatusOK, records)
}

// ListStories handles GET /api/getfullstory/:userId
func (h *GalleryHandler) ListStories(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}

	summaries, err := h.repo.ListStorySummaries(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to fetch stories", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgStoriesFailed})
		return
	}
	if summaries == nil {
		summaries = []models.StorySummary{}
	}

	c.JSON(http.StatusOK, summaries)
}

// PublishStory handles POST /api/publishstory/:userId/:storyId
func (h *GalleryHandler) PublishStory(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}

	storyID := c.Param("storyId")
	entry, err := h.repo.Publish(c.Request.Context(), userID, storyID)
	if err != nil {
		respondError(c, err)
		return
	}

	fields := logger.WithContext(c)
	fields["story_id"] = storyID
	logger.Info("Story published", fields)

	c.JSON(http.StatusOK, gin.H{
		"message": "Story published",
		"story":   entry,
	})
}

// ListPublicStories handles GET /api/publicstories
func (h *GalleryHandler) ListPublicStories(c *gin.Context) {
	entries, err := h.repo.ListPublicSummaries(c.Request.Context())
	if err != nil {
		logger.Error("Failed to fetch public stories", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load public stories"})
		return
	}
	if entries == nil {
		entries = []models.PublishedStory{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetPublicStory handles GET /api/publicstory/:storyId
func (h *GalleryHandler) GetPublicStory(c *gin.Context) {
	records, err := h.repo.FindPublicStory(c.Request.Context(), c.Param("storyId"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgStoryNotFound})
		return
	}
	if err != nil {
		logger.Error("Failed to fetch public story", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgPublicStoryFailed})
		return
	}

	c.JSON(http.StatusOK, records)
}
