package store

import (
	"testing"

	"github.com/Conceptual-Machines/storyforge-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortRecords_MetaFirstThenPosition(t *testing.T) {
	records := sampleRecords("Title")
	sortRecords(records)

	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.SceneKey
	}
	assert.Equal(t, []string{models.MetaSceneKey, "scene1", "scene2"}, keys)
}

func TestCopyToNamespace(t *testing.T) {
	records := sampleRecords("Title")
	records[0].ID = 42

	copied := copyToNamespace(records, models.PublicNamespace)
	require.Len(t, copied, 3)
	for _, r := range copied {
		assert.Zero(t, r.ID)
		assert.Equal(t, models.PublicNamespace, r.Namespace)
	}
	assert.Equal(t, uint(42), records[0].ID)
	assert.Empty(t, records[0].Namespace)
}

func TestNewPublishedStory(t *testing.T) {
	records := sampleRecords("The Lighthouse")
	entry := newPublishedStory("u1", "the_lighthouse", findMeta(records))

	assert.Equal(t, "the_lighthouse", entry.StoryID)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "The Lighthouse", entry.Title)
	assert.Equal(t, "cover", *entry.Cover)
	assert.Equal(t, "kids", entry.Audience)

	bare := newPublishedStory("u1", "no_meta", nil)
	assert.Equal(t, "no meta", bare.Title)
	assert.Equal(t, models.UnknownTag, bare.Genre)
}
