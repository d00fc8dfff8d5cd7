package llm

import (
	"context"
	"fmt"
	"strings"
)

// ProviderFactory creates providers based on model name
type ProviderFactory struct {
	openaiAPIKey string
	geminiAPIKey string

	openai *OpenAIProvider
	gemini *GeminiProvider
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(openaiAPIKey, geminiAPIKey string) *ProviderFactory {
	return &ProviderFactory{
		openaiAPIKey: openaiAPIKey,
		geminiAPIKey: geminiAPIKey,
	}
}

// TextProvider returns the provider serving the given text model
func (f *ProviderFactory) TextProvider(ctx context.Context, model string) (TextProvider, error) {
	if isOpenAIModel(model) {
		return f.getOpenAI()
	}
	return f.getGemini(ctx)
}

// ImageProvider returns the provider serving the given image model
func (f *ProviderFactory) ImageProvider(ctx context.Context, model string) (ImageProvider, error) {
	if isOpenAIModel(model) {
		return f.getOpenAI()
	}
	return f.getGemini(ctx)
}

// isOpenAIModel infers the provider from the model name. Anything that is
// not recognizably OpenAI goes to Gemini.
func isOpenAIModel(model string) bool {
	modelLower := strings.ToLower(model)
	for _, prefix := range []string{"gpt-", "dall-e", "o1", "o3", "o4"} {
		if strings.HasPrefix(modelLower, prefix) {
			return true
		}
	}
	return false
}

func (f *ProviderFactory) getOpenAI() (*OpenAIProvider, error) {
	if f.openaiAPIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrProviderNotConfigured)
	}
	if f.openai == nil {
		f.openai = NewOpenAIProvider(f.openaiAPIKey)
	}
	return f.openai, nil
}

func (f *ProviderFactory) getGemini(ctx context.Context) (*GeminiProvider, error) {
	if f.geminiAPIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrProviderNotConfigured)
	}
	if f.gemini == nil {
		provider, err := NewGeminiProvider(ctx, f.geminiAPIKey)
		if err != nil {
			return nil, err
		}
		f.gemini = provider
	}
	return f.gemini, nil
}
