package store

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/logger"
	"github.com/Conceptual-Machines/storyforge-api/internal/models"
	"github.com/patrickmn/go-cache"
)

const (
	publicListKey        = "public:list"
	publicStoryKeyPrefix = "public:story:"
	cacheCleanupInterval = 10 * time.Minute
)

// CachedGallery caches the public gallery reads of a Repository. Publishing
// through it drops the cached listing.
type CachedGallery struct {
	Repository
	cache *cache.Cache
}

// WithGalleryCache wraps repo in a CachedGallery. A ttl of zero or less
// disables caching and returns repo unchanged; go-cache would otherwise treat
// zero as "never expire".
func WithGalleryCache(repo Repository, ttl time.Duration) Repository {
	if ttl <= 0 {
		return repo
	}
	return NewCachedGallery(repo, ttl)
}

// NewCachedGallery wraps repo with a public gallery cache of the given TTL.
// The ttl must be positive.
func NewCachedGallery(repo Repository, ttl time.Duration) *CachedGallery {
	return &CachedGallery{
		Repository: repo,
		cache:      cache.New(ttl, cacheCleanupInterval),
	}
}

func (g *CachedGallery) Publish(ctx context.Context, userID, storyID string) (*models.PublishedStory, error) {
	entry, err := g.Repository.Publish(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}
	g.cache.Delete(publicListKey)
	g.cache.Delete(publicStoryKeyPrefix + storyID)
	return entry, nil
}

func (g *CachedGallery) ListPublicSummaries(ctx context.Context) ([]models.PublishedStory, error) {
	if cached, found := g.cache.Get(publicListKey); found {
		if entries, ok := cached.([]models.PublishedStory); ok {
			return entries, nil
		}
	}

	entries, err := g.Repository.ListPublicSummaries(ctx)
	if err != nil {
		return nil, err
	}
	g.cache.SetDefault(publicListKey, entries)
	logger.Debug("Cached public gallery listing", logger.Fields{"count": len(entries)})
	return entries, nil
}

func (g *CachedGallery) FindPublicStory(ctx context.Context, storyID string) ([]models.SceneRecord, error) {
	key := publicStoryKeyPrefix + storyID
	if cached, found := g.cache.Get(key); found {
		if records, ok := cached.([]models.SceneRecord); ok {
			return records, nil
		}
	}

	records, err := g.Repository.FindPublicStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	g.cache.SetDefault(key, records)
	return records, nil
}
