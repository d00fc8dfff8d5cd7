package handlers

import (
	"context"

	"github.com/Conceptual-Machines/storyforge-api/internal/middleware"
	"github.com/Conceptual-Machines/storyforge-api/internal/models"
	"github.com/Conceptual-Machines/storyforge-api/internal/store"
	"github.com/Conceptual-Machines/storyforge-api/internal/story"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockStoryPipeline is a mock type for the StoryPipeline type
type MockStoryPipeline struct {
	mock.Mock
}

func (m *MockStoryPipeline) GenerateStory(ctx context.Context, req story.Request) (*story.StructuredStory, error) {
	ret := m.Called(ctx, req)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*story.StructuredStory), ret.Error(1)
}

func (m *MockStoryPipeline) IllustrateStory(ctx context.Context, req story.IllustrateRequest) (*story.AssembledStory, error) {
	ret := m.Called(ctx, req)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*story.AssembledStory), ret.Error(1)
}

var _ StoryPipeline = (*MockStoryPipeline)(nil)

// MockRepository is a mock type for the store.Repository type
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertStoryRecords(ctx context.Context, userID, storyID string, records []models.SceneRecord) error {
	return m.Called(ctx, userID, storyID, records).Error(0)
}

func (m *MockRepository) FindMeta(ctx context.Context, userID, storyID string) (*models.SceneRecord, error) {
	ret := m.Called(ctx, userID, storyID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*models.SceneRecord), ret.Error(1)
}

func (m *MockRepository) ListStorySummaries(ctx context.Context, userID string) ([]models.StorySummary, error) {
	ret := m.Called(ctx, userID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]models.StorySummary), ret.Error(1)
}

func (m *MockRepository) FindStory(ctx context.Context, userID, storyID string) ([]models.SceneRecord, error) {
	ret := m.Called(ctx, userID, storyID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]models.SceneRecord), ret.Error(1)
}

func (m *MockRepository) Publish(ctx context.Context, userID, storyID string) (*models.PublishedStory, error) {
	ret := m.Called(ctx, userID, storyID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*models.PublishedStory), ret.Error(1)
}

func (m *MockRepository) ListPublicSummaries(ctx context.Context) ([]models.PublishedStory, error) {
	ret := m.Called(ctx)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]models.PublishedStory), ret.Error(1)
}

func (m *MockRepository) FindPublicStory(ctx context.Context, storyID string) ([]models.SceneRecord, error) {
	ret := m.Called(ctx, storyID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]models.SceneRecord), ret.Error(1)
}

var _ store.Repository = (*MockRepository)(nil)

// setupTestRouter registers the story routes behind a fake auth layer that
// attaches authUser (anonymous when empty)
func setupTestRouter(pipeline StoryPipeline, repo store.Repository, authUser string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if authUser == "" {
			c.Set(middleware.UserIDKey, middleware.AnonymousUserID)
		} else {
			c.Set(middleware.UserIDKey, authUser)
		}
		c.Next()
	})

	storyHandler := NewStoryHandler(pipeline)
	router.POST("/api/genstory", storyHandler.GenerateStory)
	router.POST("/api/genimg", storyHandler.IllustrateStory)

	galleryHandler := NewGalleryHandler(repo)
	router.GET("/api/getstory/:userId/:storyId", galleryHandler.GetStory)
	router.GET("/api/getfullstory/:userId", galleryHandler.ListStories)
	router.POST("/api/publishstory/:userId/:storyId", galleryHandler.PublishStory)
	router.GET("/api/publicstories", galleryHandler.ListPublicStories)
	router.GET("/api/publicstory/:storyId", galleryHandler.GetPublicStory)

	return router
}
