package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/models"
)

// MemoryRepository is an in-process Repository for development and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	records   map[string]map[string][]models.SceneRecord // namespace -> story id -> records
	published map[string]models.PublishedStory
	now       func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:   map[string]map[string][]models.SceneRecord{},
		published: map[string]models.PublishedStory{},
		now:       time.Now,
	}
}

func (r *MemoryRepository) InsertStoryRecords(_ context.Context, userID, storyID string, records []models.SceneRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	namespace := models.UserNamespace(userID)
	stored := copyToNamespace(records, namespace)
	for i := range stored {
		stored[i].StoryID = storyID
	}
	r.put(namespace, storyID, stored)
	return nil
}

func (r *MemoryRepository) FindMeta(_ context.Context, userID, storyID string) (*models.SceneRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta := findMeta(r.records[models.UserNamespace(userID)][storyID])
	if meta == nil {
		return nil, ErrNotFound
	}
	found := *meta
	return &found, nil
}

func (r *MemoryRepository) ListStorySummaries(_ context.Context, userID string) ([]models.StorySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stories := r.records[models.UserNamespace(userID)]
	summaries := make([]models.StorySummary, 0, len(stories))
	for storyID, records := range stories {
		summaries = append(summaries, models.SummaryFromMeta(storyID, findMeta(records)))
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].StoryID < summaries[j].StoryID })
	return summaries, nil
}

func (r *MemoryRepository) FindStory(_ context.Context, userID, storyID string) ([]models.SceneRecord, error) {
	return r.find(models.UserNamespace(userID), storyID)
}

func (r *MemoryRepository) Publish(_ context.Context, userID, storyID string) (*models.PublishedStory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.records[models.UserNamespace(userID)][storyID]
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	if _, exists := r.published[storyID]; exists {
		return nil, ErrAlreadyPublished
	}

	entry := newPublishedStory(userID, storyID, findMeta(records))
	entry.PublishedAt = r.now().UTC()
	r.published[storyID] = *entry
	r.put(models.PublicNamespace, storyID, copyToNamespace(records, models.PublicNamespace))
	return entry, nil
}

func (r *MemoryRepository) ListPublicSummaries(_ context.Context) ([]models.PublishedStory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PublishedStory, 0, len(r.published))
	for _, entry := range r.published {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].StoryID < out[j].StoryID
	})
	return out, nil
}

func (r *MemoryRepository) FindPublicStory(_ context.Context, storyID string) ([]models.SceneRecord, error) {
	return r.find(models.PublicNamespace, storyID)
}

func (r *MemoryRepository) find(namespace, storyID string) ([]models.SceneRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.records[namespace][storyID]
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	out := make([]models.SceneRecord, len(records))
	copy(out, records)
	sortRecords(out)
	return out, nil
}

// put replaces a story's records; callers hold the write lock.
func (r *MemoryRepository) put(namespace, storyID string, records []models.SceneRecord) {
	stories, ok := r.records[namespace]
	if !ok {
		stories = map[string][]models.SceneRecord{}
		r.records[namespace] = stories
	}
	stories[storyID] = records
}
