package models

import (
	"strings"
	"time"
)

const (
	// MetaSceneKey marks the per-story metadata record
	MetaSceneKey = "meta"
	// PublicNamespace holds published copies of stories
	PublicNamespace = "public"
	// UnknownTag is reported for summaries missing a genre/tone/audience
	UnknownTag = "unknown"
)

// UserNamespace returns the private namespace for a user's stories
func UserNamespace(userID string) string {
	return "user:" + userID
}

// SceneRecord is one persisted unit of a story: either the meta record
// (title, cover, tags) or one scene (text, image, tags).
type SceneRecord struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	Namespace string    `gorm:"not null;uniqueIndex:idx_story_scene,priority:1" json:"-"`
	StoryID   string    `gorm:"not null;uniqueIndex:idx_story_scene,priority:2;index" json:"storyId"`
	SceneKey  string    `gorm:"not null;uniqueIndex:idx_story_scene,priority:3" json:"sceneKey"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	Text      *string   `gorm:"type:text" json:"text"`
	Image     *string   `gorm:"type:text" json:"image"`
	Title     *string   `json:"title,omitempty"`
	Cover     *string   `gorm:"type:text" json:"cover,omitempty"`
	Genre     string    `json:"genre"`
	Tone      string    `json:"tone"`
	Audience  string    `json:"audience"`
}

// IsMeta reports whether this is the story's metadata record
func (r *SceneRecord) IsMeta() bool {
	return r.SceneKey == MetaSceneKey
}

// StorySummary is the listing view of one story
type StorySummary struct {
	StoryID  string  `json:"storyId"`
	Title    string  `json:"title"`
	Cover    *string `json:"cover"`
	Genre    string  `json:"genre"`
	Tone     string  `json:"tone"`
	Audience string  `json:"audience"`
}

// SummaryFromMeta builds a summary, falling back to the story id for a
// missing title and "unknown" for missing tags.
func SummaryFromMeta(storyID string, meta *SceneRecord) StorySummary {
	summary := StorySummary{
		StoryID:  storyID,
		Title:    strings.ReplaceAll(storyID, "_", " "),
		Genre:    UnknownTag,
		Tone:     UnknownTag,
		Audience: UnknownTag,
	}
	if meta == nil {
		return summary
	}
	if meta.Title != nil && strings.TrimSpace(*meta.Title) != "" {
		summary.Title = *meta.Title
	}
	summary.Cover = meta.Cover
	if meta.Genre != "" {
		summary.Genre = meta.Genre
	}
	if meta.Tone != "" {
		summary.Tone = meta.Tone
	}
	if meta.Audience != "" {
		summary.Audience = meta.Audience
	}
	return summary
}

// PublishedStory is the public index row written when a story is published
type PublishedStory struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	StoryID     string    `gorm:"uniqueIndex;not null" json:"storyId"`
	UserID      string    `gorm:"index;not null" json:"userId"`
	Title       string    `json:"title"`
	Cover       *string   `gorm:"type:text" json:"cover"`
	Genre       string    `json:"genre"`
	Tone        string    `json:"tone"`
	Audience    string    `json:"audience"`
	PublishedAt time.Time `gorm:"index" json:"publishedAt"`
}
