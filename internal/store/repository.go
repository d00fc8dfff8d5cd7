// Package store persists story records, per user and in the public gallery.
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/Conceptual-Machines/storyforge-api/internal/models"
)

var (
	// ErrNotFound is returned when a story has no records in the namespace.
	ErrNotFound = errors.New("story not found")
	// ErrAlreadyPublished is returned when a story is published a second time.
	ErrAlreadyPublished = errors.New("story already published")
)

// Repository is the persistence collaborator of the story pipeline.
type Repository interface {
	// InsertStoryRecords writes one story version atomically, replacing any
	// previous version of the same story for that user.
	InsertStoryRecords(ctx context.Context, userID, storyID string, records []models.SceneRecord) error
	// FindMeta returns the meta record of a user's story.
	FindMeta(ctx context.Context, userID, storyID string) (*models.SceneRecord, error)
	// ListStorySummaries lists every story of a user.
	ListStorySummaries(ctx context.Context, userID string) ([]models.StorySummary, error)
	// FindStory returns a user's story records, meta first then scenes in order.
	FindStory(ctx context.Context, userID, storyID string) ([]models.SceneRecord, error)
	// Publish copies a user's story into the public gallery.
	Publish(ctx context.Context, userID, storyID string) (*models.PublishedStory, error)
	// ListPublicSummaries lists published stories, newest first.
	ListPublicSummaries(ctx context.Context) ([]models.PublishedStory, error)
	// FindPublicStory returns the public copy of a story.
	FindPublicStory(ctx context.Context, storyID string) ([]models.SceneRecord, error)
}

// sortRecords puts the meta record first, then scenes by position.
func sortRecords(records []models.SceneRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].IsMeta() != records[j].IsMeta() {
			return records[i].IsMeta()
		}
		return records[i].Position < records[j].Position
	})
}

// findMeta returns the meta record within a story's records.
func findMeta(records []models.SceneRecord) *models.SceneRecord {
	for i := range records {
		if records[i].IsMeta() {
			return &records[i]
		}
	}
	return nil
}

// newPublishedStory builds the public index row from a story's meta record.
func newPublishedStory(userID, storyID string, meta *models.SceneRecord) *models.PublishedStory {
	summary := models.SummaryFromMeta(storyID, meta)
	return &models.PublishedStory{
		StoryID:  storyID,
		UserID:   userID,
		Title:    summary.Title,
		Cover:    summary.Cover,
		Genre:    summary.Genre,
		Tone:     summary.Tone,
		Audience: summary.Audience,
	}
}

// copyToNamespace clones records into another namespace, dropping ids.
func copyToNamespace(records []models.SceneRecord, namespace string) []models.SceneRecord {
	out := make([]models.SceneRecord, len(records))
	for i, r := range records {
		r.ID = 0
		r.Namespace = namespace
		out[i] = r
	}
	return out
}
