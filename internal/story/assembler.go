package story

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/models"
)

// RecordWriter persists the records of one story version atomically.
type RecordWriter interface {
	InsertStoryRecords(ctx context.Context, userID, storyID string, records []models.SceneRecord) error
}

// IllustratedScene is one scene of an assembled story.
type IllustratedScene struct {
	Key   string
	Text  string
	Image string
}

// AssembledStory is the response of the illustrate path. Its JSON form is
// {"title": ..., "cover": {"image": ...}, "sceneN": {"text": ..., "image": ...}}.
type AssembledStory struct {
	Title      string
	CoverImage string
	Scenes     []IllustratedScene
}

// MarshalJSON writes the flat response object with scenes in order.
func (a AssembledStory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeJSONField(&buf, titleKey, a.Title); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeJSONField(&buf, coverKey, map[string]string{"image": a.CoverImage}); err != nil {
		return nil, err
	}
	for _, scene := range a.Scenes {
		buf.WriteByte(',')
		if err := writeJSONField(&buf, scene.Key, struct {
			Text  string `json:"text"`
			Image string `json:"image"`
		}{scene.Text, scene.Image}); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Assembler turns a story and its images into records and the client payload.
type Assembler struct {
	writer RecordWriter
	now    func() time.Time
}

// NewAssembler creates an assembler writing through writer.
func NewAssembler(writer RecordWriter) *Assembler {
	return &Assembler{writer: writer, now: time.Now}
}

// BuildRecords returns one meta record followed by one record per scene.
// Every scene, and the cover, must have an image.
func (a *Assembler) BuildRecords(story *StructuredStory, images ImageMap, tags Tags) ([]models.SceneRecord, error) {
	cover, ok := images[coverKey]
	if !ok {
		return nil, &ImageGenerationError{SceneKey: coverKey, Err: ErrNoImageReturned}
	}

	createdAt := a.now().UTC()
	title := story.Title
	records := make([]models.SceneRecord, 0, len(story.Scenes)+1)
	records = append(records, models.SceneRecord{
		SceneKey:  models.MetaSceneKey,
		Title:     &title,
		Cover:     &cover,
		Genre:     tags.Genre,
		Tone:      tags.Tone,
		Audience:  tags.Audience,
		CreatedAt: createdAt,
	})

	for i, scene := range story.Scenes {
		image, ok := images[scene.Key]
		if !ok {
			return nil, &ImageGenerationError{SceneKey: scene.Key, Err: ErrNoImageReturned}
		}
		text := scene.Text
		records = append(records, models.SceneRecord{
			SceneKey:  scene.Key,
			Position:  i + 1,
			Text:      &text,
			Image:     &image,
			Genre:     tags.Genre,
			Tone:      tags.Tone,
			Audience:  tags.Audience,
			CreatedAt: createdAt,
		})
	}
	return records, nil
}

// AssembleAndPersist writes the story records and returns the response
// payload. Nothing is returned unless the write succeeded.
func (a *Assembler) AssembleAndPersist(
	ctx context.Context, userID, storyID string, story *StructuredStory, images ImageMap, tags Tags,
) (*AssembledStory, error) {
	records, err := a.BuildRecords(story, images, tags)
	if err != nil {
		return nil, err
	}

	if err := a.writer.InsertStoryRecords(ctx, userID, storyID, records); err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("save story %s", storyID), Err: err}
	}

	assembled := &AssembledStory{
		Title:      story.Title,
		CoverImage: images[coverKey],
		Scenes:     make([]IllustratedScene, 0, len(story.Scenes)),
	}
	for _, scene := range story.Scenes {
		assembled.Scenes = append(assembled.Scenes, IllustratedScene{
			Key:   scene.Key,
			Text:  scene.Text,
			Image: images[scene.Key],
		})
	}
	return assembled, nil
}
