package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/storyforge-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetStoryTemplate loads the story formatting instruction template
func (l *Loader) GetStoryTemplate() string {
	return strings.TrimSpace(string(embedded.StoryPromptTmpl))
}

// GetCoverTemplate loads the cover illustration prompt template
func (l *Loader) GetCoverTemplate() string {
	return strings.TrimSpace(string(embedded.CoverPromptTmpl))
}

// GetSceneTemplate loads the scene illustration prompt template
func (l *Loader) GetSceneTemplate() string {
	return strings.TrimSpace(string(embedded.ScenePromptTmpl))
}
