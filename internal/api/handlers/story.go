package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/storyforge-api/internal/logger"
	"github.com/Conceptual-Machines/storyforge-api/internal/story"
	"github.com/gin-gonic/gin"
)

// StoryPipeline is the story generation and illustration pipeline
type StoryPipeline interface {
	GenerateStory(ctx context.Context, req story.Request) (*story.StructuredStory, error)
	IllustrateStory(ctx context.Context, req story.IllustrateRequest) (*story.AssembledStory, error)
}

type StoryHandler struct {
	pipeline StoryPipeline
}

func NewStoryHandler(pipeline StoryPipeline) *StoryHandler {
	return &StoryHandler{pipeline: pipeline}
}

// GenerateStory handles POST /api/genstory
func (h *StoryHandler) GenerateStory(c *gin.Context) {
	var req story.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	result, err := h.pipeline.GenerateStory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	fields := logger.WithContext(c)
	fields["title"] = result.Title
	fields["scenes"] = len(result.Scenes)
	logger.Info("Story generated", fields)

	c.JSON(http.StatusOK, result)
}

// IllustrateRequest is the body of POST /api/genimg
type IllustrateRequest struct {
	UserID   string          `json:"userId"`
	StoryID  string          `json:"storyId"`
	Genre    string          `json:"genre"`
	Tone     string          `json:"tone"`
	Audience string          `json:"audience"`
	Story    json.RawMessage `json:"story"`
}

// IllustrateStory handles POST /api/genimg
func (h *StoryHandler) IllustrateStory(c *gin.Context) {
	var body IllustrateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	if body.UserID != "" && !authorizeUser(c, body.UserID) {
		return
	}

	structured, err := decodeStory(body.Story)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.pipeline.IllustrateStory(c.Request.Context(), story.IllustrateRequest{
		UserID:  body.UserID,
		StoryID: body.StoryID,
		Tags: story.Tags{
			Genre:    body.Genre,
			Tone:     body.Tone,
			Audience: body.Audience,
		},
		Story: structured,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	fields := logger.WithContext(c)
	fields["story_id"] = body.StoryID
	fields["scenes"] = len(result.Scenes)
	logger.Info("Story illustrated", fields)

	c.JSON(http.StatusOK, result)
}

// decodeStory parses the submitted story object. A missing story yields nil
// so the pipeline reports it as a required field.
func decodeStory(raw json.RawMessage) (*story.StructuredStory, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var structured story.StructuredStory
	if err := json.Unmarshal(trimmed, &structured); err != nil {
		var schemaErr *story.SchemaError
		if errors.As(err, &schemaErr) {
			return nil, schemaErr
		}
		return nil, &story.ValidationError{Field: "story", Reason: "must be an object"}
	}
	return &structured, nil
}
