package store

import (
	"context"
	"testing"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepository struct {
	*MemoryRepository
	listCalls  int
	storyCalls int
}

func (c *countingRepository) ListPublicSummaries(ctx context.Context) ([]models.PublishedStory, error) {
	c.listCalls++
	return c.MemoryRepository.ListPublicSummaries(ctx)
}

func (c *countingRepository) FindPublicStory(ctx context.Context, storyID string) ([]models.SceneRecord, error) {
	c.storyCalls++
	return c.MemoryRepository.FindPublicStory(ctx, storyID)
}

func TestCachedGallery_ListIsCachedUntilPublish(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepository{MemoryRepository: NewMemoryRepository()}
	gallery := NewCachedGallery(inner, time.Minute)

	require.NoError(t, gallery.InsertStoryRecords(ctx, "u1", "s1", sampleRecords("One")))
	require.NoError(t, gallery.InsertStoryRecords(ctx, "u1", "s2", sampleRecords("Two")))
	_, err := gallery.Publish(ctx, "u1", "s1")
	require.NoError(t, err)

	listing, err := gallery.ListPublicSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, listing, 1)
	_, err = gallery.ListPublicSummaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)

	_, err = gallery.Publish(ctx, "u1", "s2")
	require.NoError(t, err)

	listing, err = gallery.ListPublicSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, listing, 2)
	assert.Equal(t, 2, inner.listCalls)
}

func TestCachedGallery_FindPublicStory(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepository{MemoryRepository: NewMemoryRepository()}
	gallery := NewCachedGallery(inner, time.Minute)

	_, err := gallery.FindPublicStory(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, gallery.InsertStoryRecords(ctx, "u1", "s1", sampleRecords("One")))
	_, err = gallery.Publish(ctx, "u1", "s1")
	require.NoError(t, err)

	first, err := gallery.FindPublicStory(ctx, "s1")
	require.NoError(t, err)
	second, err := gallery.FindPublicStory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// one miss before publish, one fill after
	assert.Equal(t, 2, inner.storyCalls)
}

func TestCachedGallery_FailedPublishKeepsCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepository{MemoryRepository: NewMemoryRepository()}
	gallery := NewCachedGallery(inner, time.Minute)

	_, err := gallery.ListPublicSummaries(ctx)
	require.NoError(t, err)

	_, err = gallery.Publish(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = gallery.ListPublicSummaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)
}

func TestWithGalleryCache(t *testing.T) {
	inner := NewMemoryRepository()

	assert.Same(t, inner, WithGalleryCache(inner, 0))
	assert.Same(t, inner, WithGalleryCache(inner, -time.Second))

	cached, ok := WithGalleryCache(inner, time.Minute).(*CachedGallery)
	require.True(t, ok)
	assert.Same(t, inner, cached.Repository)
}

func TestWithGalleryCache_ZeroTTLReadsThrough(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepository{MemoryRepository: NewMemoryRepository()}
	gallery := WithGalleryCache(inner, 0)

	require.NoError(t, gallery.InsertStoryRecords(ctx, "u1", "s1", sampleRecords("One")))
	_, err := gallery.Publish(ctx, "u1", "s1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := gallery.ListPublicSummaries(ctx)
		require.NoError(t, err)
		_, err = gallery.FindPublicStory(ctx, "s1")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.listCalls)
	assert.Equal(t, 3, inner.storyCalls)
}
