package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// StoryParams fills the story instruction template.
type StoryParams struct {
	Prompt   string
	Genre    string
	Tone     string
	Audience string
}

// ImageParams fills the cover and scene templates. Summary is used by the
// cover template only, SceneText by the scene template only.
type ImageParams struct {
	Genre     string
	Tone      string
	Audience  string
	Title     string
	Summary   string
	SceneText string
}

// Builder renders the embedded prompt templates
type Builder struct {
	story *template.Template
	cover *template.Template
	scene *template.Template
}

// NewPromptBuilder parses the embedded templates once
func NewPromptBuilder() (*Builder, error) {
	loader := NewPromptLoader()

	story, err := template.New("story").Parse(loader.GetStoryTemplate())
	if err != nil {
		return nil, fmt.Errorf("failed to parse story template: %w", err)
	}
	cover, err := template.New("cover").Parse(loader.GetCoverTemplate())
	if err != nil {
		return nil, fmt.Errorf("failed to parse cover template: %w", err)
	}
	scene, err := template.New("scene").Parse(loader.GetSceneTemplate())
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene template: %w", err)
	}

	return &Builder{story: story, cover: cover, scene: scene}, nil
}

// MustPromptBuilder is NewPromptBuilder for package-level wiring and tests.
func MustPromptBuilder() *Builder {
	b, err := NewPromptBuilder()
	if err != nil {
		panic(err)
	}
	return b
}

// BuildStoryInstruction renders the single instruction sent to the text model
func (b *Builder) BuildStoryInstruction(params StoryParams) (string, error) {
	return render(b.story, params)
}

// BuildCoverPrompt renders the cover illustration prompt
func (b *Builder) BuildCoverPrompt(params ImageParams) (string, error) {
	return render(b.cover, params)
}

// BuildScenePrompt renders a scene illustration prompt
func (b *Builder) BuildScenePrompt(params ImageParams) (string, error) {
	return render(b.scene, params)
}

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(sb.String()), nil
}
