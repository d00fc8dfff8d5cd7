package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
	geminiUserRole     = "user"
)

// geminiModels is the subset of the genai Models service the provider uses.
type geminiModels interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements TextProvider and ImageProvider using Google's Gemini API
type GeminiProvider struct {
	models geminiModels
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		models: client.Models,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Complete implements TextProvider
func (p *GeminiProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	log.Printf("📖 GEMINI COMPLETION REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "gemini.complete")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	config := &genai.GenerateContentConfig{}
	if request.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		}
	}
	if request.OutputSchema != nil {
		config.ResponseMIMEType = mimeTypeJSON
		config.ResponseSchema = convertSchemaToGemini(request.OutputSchema.Schema)
	}

	span := transaction.StartChild("gemini.api_call")
	apiStartTime := time.Now()
	result, err := p.models.GenerateContent(transaction.Context(), request.Model, buildGeminiContents(request.Parts), config)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ GEMINI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		return nil, &BackendError{Provider: providerNameGemini, Model: request.Model, Err: err}
	}

	log.Printf("⏱️  GEMINI API CALL COMPLETED in %v", apiDuration)

	response := &CompletionResponse{
		Text:  geminiText(result),
		Usage: geminiUsage(result),
	}
	log.Printf("📥 GEMINI RESPONSE: output_length=%d, tokens=%d", len(response.Text), response.Usage.TotalTokens)

	transaction.SetTag("success", "true")
	return response, nil
}

// GenerateImage implements ImageProvider
func (p *GeminiProvider) GenerateImage(ctx context.Context, request *ImageRequest) (*ImageResponse, error) {
	log.Printf("🎨 GEMINI IMAGE REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "gemini.generate_image")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	span := transaction.StartChild("gemini.api_call")
	apiStartTime := time.Now()
	result, err := p.models.GenerateContent(transaction.Context(), request.Model, buildGeminiContents([]string{request.Prompt}), config)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ GEMINI IMAGE REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		return nil, &BackendError{Provider: providerNameGemini, Model: request.Model, Err: err}
	}

	response := &ImageResponse{Usage: geminiUsage(result)}
	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var parts []Part
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			converted := Part{Text: part.Text}
			if part.InlineData != nil {
				converted.InlineData = &Blob{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}
			}
			parts = append(parts, converted)
		}
		response.Candidates = append(response.Candidates, Candidate{Parts: parts})
	}

	log.Printf("⏱️  GEMINI IMAGE CALL COMPLETED in %v (candidates: %d)", apiDuration, len(response.Candidates))
	transaction.SetTag("success", "true")
	return response, nil
}

// buildGeminiContents packs the prompt parts into a single user turn
func buildGeminiContents(parts []string) []*genai.Content {
	geminiParts := make([]*genai.Part, 0, len(parts))
	for _, text := range parts {
		geminiParts = append(geminiParts, &genai.Part{Text: text})
	}
	return []*genai.Content{{Role: geminiUserRole, Parts: geminiParts}}
}

// geminiText concatenates the non-thought text parts of the first candidate
func geminiText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func geminiUsage(result *genai.GenerateContentResponse) Usage {
	if result == nil || result.UsageMetadata == nil {
		return Usage{}
	}
	return Usage{
		InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
		OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
	}
}

// convertSchemaToGemini converts a JSON schema map to Gemini's schema format.
// Only the keywords used by our schemas are mapped.
func convertSchemaToGemini(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{}
	if t, ok := schema["type"].(string); ok {
		switch t {
		case "object":
			out.Type = genai.TypeObject
		case "array":
			out.Type = genai.TypeArray
		case "string":
			out.Type = genai.TypeString
		case "integer":
			out.Type = genai.TypeInteger
		case "number":
			out.Type = genai.TypeNumber
		case "boolean":
			out.Type = genai.TypeBoolean
		}
	}
	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if child, ok := raw.(map[string]any); ok {
				out.Properties[name] = convertSchemaToGemini(child)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = convertSchemaToGemini(items)
	}
	if required, ok := schema["required"].([]string); ok {
		out.Required = required
	}
	return out
}
