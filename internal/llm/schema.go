package llm

import (
	"fmt"
)

// StoryOutputSchema returns the JSON schema for a flat story object: a title
// plus scene1..sceneN, all strings. scene1 is the only required scene.
func StoryOutputSchema(maxScenes int) map[string]any {
	if maxScenes < 1 {
		maxScenes = 1
	}
	properties := map[string]any{
		"title": map[string]any{"type": "string", "description": "Story title"},
	}
	for i := 1; i <= maxScenes; i++ {
		key := fmt.Sprintf("scene%d", i)
		properties[key] = map[string]any{
			"type":        "string",
			"description": fmt.Sprintf("Text of scene %d", i),
		}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             []string{"title", "scene1"},
		"additionalProperties": false,
	}
}
