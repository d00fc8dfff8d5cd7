package story

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/llm"
	"github.com/Conceptual-Machines/storyforge-api/internal/logger"
	"github.com/Conceptual-Machines/storyforge-api/internal/observability"
	"github.com/Conceptual-Machines/storyforge-api/internal/prompt"
)

const (
	maxScenes         = 5
	storySchemaName   = "structured_story"
	maxRawLogChars    = 500
	codeFence         = "```"
	codeFenceLanguage = "json"
)

// Generator turns a Request into a StructuredStory with one text model call.
type Generator struct {
	provider llm.TextProvider
	model    string
	prompts  *prompt.Builder
	timeout  time.Duration
}

// NewGenerator creates a generator using the given provider and model.
// A zero timeout leaves the deadline to the caller's context.
func NewGenerator(provider llm.TextProvider, model string, prompts *prompt.Builder, timeout time.Duration) *Generator {
	return &Generator{
		provider: provider,
		model:    model,
		prompts:  prompts,
		timeout:  timeout,
	}
}

// GenerateStructuredStory builds the formatting instruction, calls the text
// backend once and parses the result. Backend failures are returned as
// *llm.BackendError, unparseable output as *GenerationFormatError.
func (g *Generator) GenerateStructuredStory(ctx context.Context, req Request) (*StructuredStory, error) {
	instruction, err := g.prompts.BuildStoryInstruction(prompt.StoryParams{
		Prompt:   req.Prompt,
		Genre:    req.Genre,
		Tone:     req.Tone,
		Audience: req.Audience,
	})
	if err != nil {
		return nil, err
	}

	trace := observability.GetClient().StartTrace(ctx, "story.generate", map[string]interface{}{
		"genre":    req.Genre,
		"tone":     req.Tone,
		"audience": req.Audience,
	})
	defer trace.Finish()
	generation := trace.Generation(storySchemaName, nil)
	defer generation.Finish()

	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.provider.Complete(callCtx, &llm.CompletionRequest{
		Model: g.model,
		Parts: []string{instruction},
		OutputSchema: &llm.OutputSchema{
			Name:        storySchemaName,
			Description: "A titled story split into flat string scenes",
			Schema:      llm.StoryOutputSchema(maxScenes),
		},
	})
	if err != nil {
		generation.SetLevel("ERROR")
		return nil, err
	}

	logger.LogGenerationRequest(ctx, g.model, time.Since(start), resp.Usage.InputTokens, resp.Usage.OutputTokens, nil)
	generation.LogCompletion(g.model, instruction, resp.Text, resp.Usage, nil)

	story, err := ParseStructuredStory(resp.Text)
	if err != nil {
		generation.SetLevel("ERROR")
		fields := logger.FromContext(ctx)
		fields["raw_output"] = truncate(resp.Text, maxRawLogChars)
		logger.Error("Failed to parse story from model output", err, fields)
		return nil, err
	}
	return story, nil
}

// ParseStructuredStory strips an optional code fence and decodes the flat
// story JSON. It never returns a partially populated story.
func ParseStructuredStory(raw string) (*StructuredStory, error) {
	var story StructuredStory
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &story); err != nil {
		return nil, &GenerationFormatError{Raw: raw, Err: err}
	}
	if strings.TrimSpace(story.Title) == "" {
		return nil, &GenerationFormatError{Raw: raw, Err: ErrMissingTitle}
	}
	if len(story.Scenes) == 0 {
		return nil, &GenerationFormatError{Raw: raw, Err: ErrNoScenes}
	}
	return &story, nil
}

// StripCodeFence removes a leading ``` or ```json marker and a trailing ```
// marker, then trims whitespace.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, codeFence) {
		return s
	}
	s = strings.TrimPrefix(s, codeFence)
	if len(s) >= len(codeFenceLanguage) && strings.EqualFold(s[:len(codeFenceLanguage)], codeFenceLanguage) {
		s = s[len(codeFenceLanguage):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), codeFence)
	return strings.TrimSpace(s)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// truncate keeps the first maxLen runes of s so multi-byte text is never
// split mid-character.
func truncate(s string, maxLen int) string {
	count := 0
	for i := range s {
		if count == maxLen {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
