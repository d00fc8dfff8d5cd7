package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/models"
	"gorm.io/gorm"
)

// GormRepository stores story records in postgres.
type GormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormRepository creates a repository over an open, migrated database.
// The connection must be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db, now: time.Now}
}

func (r *GormRepository) InsertStoryRecords(ctx context.Context, userID, storyID string, records []models.SceneRecord) error {
	namespace := models.UserNamespace(userID)
	rows := copyToNamespace(records, namespace)
	for i := range rows {
		rows[i].StoryID = storyID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteStory(tx, namespace, storyID); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert story records: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) FindMeta(ctx context.Context, userID, storyID string) (*models.SceneRecord, error) {
	var meta models.SceneRecord
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND story_id = ? AND scene_key = ?", models.UserNamespace(userID), storyID, models.MetaSceneKey).
		First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find story meta: %w", err)
	}
	return &meta, nil
}

func (r *GormRepository) ListStorySummaries(ctx context.Context, userID string) ([]models.StorySummary, error) {
	var metas []models.SceneRecord
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND scene_key = ?", models.UserNamespace(userID), models.MetaSceneKey).
		Order("story_id ASC").
		Find(&metas).Error
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	summaries := make([]models.StorySummary, 0, len(metas))
	for i := range metas {
		summaries = append(summaries, models.SummaryFromMeta(metas[i].StoryID, &metas[i]))
	}
	return summaries, nil
}

func (r *GormRepository) FindStory(ctx context.Context, userID, storyID string) ([]models.SceneRecord, error) {
	return findStory(r.db.WithContext(ctx), models.UserNamespace(userID), storyID)
}

func (r *GormRepository) Publish(ctx context.Context, userID, storyID string) (*models.PublishedStory, error) {
	var entry *models.PublishedStory

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records, err := findStory(tx, models.UserNamespace(userID), storyID)
		if err != nil {
			return err
		}

		entry = newPublishedStory(userID, storyID, findMeta(records))
		entry.PublishedAt = r.now().UTC()
		// The unique index on story_id decides concurrent publishes.
		if err := tx.Create(entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPublished
			}
			return fmt.Errorf("record published story: %w", err)
		}

		public := copyToNamespace(records, models.PublicNamespace)
		if err := deleteStory(tx, models.PublicNamespace, storyID); err != nil {
			return err
		}
		if err := tx.Create(&public).Error; err != nil {
			return fmt.Errorf("copy story to public gallery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *GormRepository) ListPublicSummaries(ctx context.Context) ([]models.PublishedStory, error) {
	var entries []models.PublishedStory
	err := r.db.WithContext(ctx).
		Order("published_at DESC, story_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list public stories: %w", err)
	}
	return entries, nil
}

func (r *GormRepository) FindPublicStory(ctx context.Context, storyID string) ([]models.SceneRecord, error) {
	return findStory(r.db.WithContext(ctx), models.PublicNamespace, storyID)
}

func findStory(db *gorm.DB, namespace, storyID string) ([]models.SceneRecord, error) {
	var records []models.SceneRecord
	err := db.Where("namespace = ? AND story_id = ?", namespace, storyID).
		Order("position ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("find story: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	sortRecords(records)
	return records, nil
}

func deleteStory(tx *gorm.DB, namespace, storyID string) error {
	err := tx.Where("namespace = ? AND story_id = ?", namespace, storyID).
		Delete(&models.SceneRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete story records: %w", err)
	}
	return nil
}
