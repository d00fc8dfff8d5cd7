package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderTemplates(t *testing.T) {
	loader := NewPromptLoader()

	for name, content := range map[string]string{
		"story": loader.GetStoryTemplate(),
		"cover": loader.GetCoverTemplate(),
		"scene": loader.GetSceneTemplate(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, content)
			assert.Equal(t, strings.TrimSpace(content), content)
		})
	}
}

func TestBuildStoryInstruction(t *testing.T) {
	builder := MustPromptBuilder()

	instruction, err := builder.BuildStoryInstruction(StoryParams{
		Prompt:   "A lonely lighthouse keeper",
		Genre:    "fantasy",
		Tone:     "whimsical",
		Audience: "children",
	})
	require.NoError(t, err)

	assert.Contains(t, instruction, "Genre: fantasy")
	assert.Contains(t, instruction, "Tone: whimsical")
	assert.Contains(t, instruction, "Audience: children")
	assert.Contains(t, instruction, "Prompt: A lonely lighthouse keeper")
	assert.Contains(t, instruction, `"scene5"`)
	assert.Contains(t, instruction, "single string")
}

func TestBuildImagePrompts(t *testing.T) {
	builder := MustPromptBuilder()
	params := ImageParams{
		Genre:     "mystery",
		Tone:      "dark",
		Audience:  "adults",
		Title:     "The Fog",
		Summary:   "A town vanishes",
		SceneText: "The fog rolled in over the harbor.",
	}

	cover, err := builder.BuildCoverPrompt(params)
	require.NoError(t, err)
	assert.Contains(t, cover, "cover illustration for a mystery story")
	assert.Contains(t, cover, "Title: The Fog")
	assert.Contains(t, cover, "Summary: A town vanishes...")
	assert.NotContains(t, cover, "harbor")

	scene, err := builder.BuildScenePrompt(params)
	require.NoError(t, err)
	assert.Contains(t, scene, "Tone: dark. Audience: adults.")
	assert.Contains(t, scene, "Scene: The fog rolled in over the harbor.")
	assert.NotContains(t, scene, "The Fog")
}
