package llm

import (
	"context"
)

// TextProvider produces text completions from an ordered list of prompt parts.
type TextProvider interface {
	// Complete sends the prompt parts to the model and returns its raw text.
	// Transport and API failures come back as *BackendError.
	Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// ImageProvider produces candidate image payloads for a single prompt.
type ImageProvider interface {
	GenerateImage(ctx context.Context, request *ImageRequest) (*ImageResponse, error)
	Name() string
}

// CompletionRequest contains all parameters needed for a text completion
type CompletionRequest struct {
	Model        string
	Parts        []string
	SystemPrompt string
	// Optional structured output schema. Providers that support it constrain
	// the model to JSON; callers still parse and validate the text.
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// CompletionResponse is the raw model output.
type CompletionResponse struct {
	Text  string
	Usage Usage
}

// Usage reports token accounting for one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ImageRequest asks a model for one image.
type ImageRequest struct {
	Model  string
	Prompt string
}

// ImageResponse mirrors the candidate/part layout returned by multimodal models.
type ImageResponse struct {
	Candidates []Candidate
	Usage      Usage
}

// Candidate is one alternative answer.
type Candidate struct {
	Parts []Part
}

// Part is either text or inline binary data.
type Part struct {
	Text       string
	InlineData *Blob
}

// Blob is raw inline data with its MIME type.
type Blob struct {
	MIMEType string
	Data     []byte
}

// FirstInlineData returns the first non-empty inline payload across all
// candidates and parts, or nil.
func (r *ImageResponse) FirstInlineData() *Blob {
	if r == nil {
		return nil
	}
	for _, candidate := range r.Candidates {
		for _, part := range candidate.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}
