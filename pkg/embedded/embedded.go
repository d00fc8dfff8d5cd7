package embedded

import (
	_ "embed"
)

// Prompt templates (text/template syntax)
//
//go:embed data/prompts/story_prompt.tmpl
var StoryPromptTmpl []byte

//go:embed data/prompts/cover_prompt.tmpl
var CoverPromptTmpl []byte

//go:embed data/prompts/scene_prompt.tmpl
var ScenePromptTmpl []byte
