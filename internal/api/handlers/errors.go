package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/storyforge-api/internal/llm"
	"github.com/Conceptual-Machines/storyforge-api/internal/logger"
	"github.com/Conceptual-Machines/storyforge-api/internal/middleware"
	"github.com/Conceptual-Machines/storyforge-api/internal/store"
	"github.com/Conceptual-Machines/storyforge-api/internal/story"
	"github.com/gin-gonic/gin"
)

// respondError maps pipeline and store errors to HTTP responses
func respondError(c *gin.Context, err error) {
	fields := logger.WithContext(c)

	var (
		modErr     *story.ModerationError
		valErr     *story.ValidationError
		schemaErr  *story.SchemaError
		formatErr  *story.GenerationFormatError
		imageErr   *story.ImageGenerationError
		persistErr *story.PersistenceError
		backendErr *llm.BackendError
	)

	switch {
	case errors.As(err, &modErr):
		fields["category"] = modErr.Category
		fields["term"] = modErr.Term
		logger.Warn("Content rejected by moderation", fields)
		if modErr.Subject == story.SubjectPrompt {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgPromptRejected, "suggestion": msgSaferPrompt})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msgStoryRejected})

	case errors.As(err, &valErr), errors.As(err, &schemaErr):
		fields["error"] = err.Error()
		logger.Warn("Request validation failed", fields)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgStoryNotFound})

	case errors.Is(err, store.ErrAlreadyPublished):
		c.JSON(http.StatusConflict, gin.H{"error": msgAlreadyPublished})

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logger.Warn("Request timed out or was canceled", fields)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": msgTimedOut})

	case errors.As(err, &imageErr):
		fields["scene_key"] = imageErr.SceneKey
		logger.Error("Image generation failed", err, fields)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgImageFailed})

	case errors.As(err, &formatErr), errors.As(err, &backendErr):
		logger.Error("Story generation failed", err, fields)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgStoryFailed})

	case errors.As(err, &persistErr):
		logger.Error("Failed to persist story", err, fields)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSaveFailed})

	default:
		logger.Error("Request failed", err, fields)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}

// authorizeUser rejects requests whose authenticated user differs from the
// user named in the request. Anonymous requests are allowed through.
func authorizeUser(c *gin.Context, userID string) bool {
	if !middleware.IsAuthenticated(c) {
		return true
	}
	current, _ := middleware.GetCurrentUserID(c)
	if current == userID {
		return true
	}

	fields := logger.WithContext(c)
	fields["requested_user_id"] = userID
	logger.Warn("User mismatch", fields)
	c.JSON(http.StatusForbidden, gin.H{"error": msgForbidden})
	return false
}
