package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const (
	providerNameOpenAI = "openai"
	mimeTypePNG        = "image/png"
)

// OpenAIProvider implements TextProvider (Responses API) and ImageProvider
// (Images API)
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Complete implements TextProvider
func (p *OpenAIProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	log.Printf("📖 OPENAI COMPLETION REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "openai.complete")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := p.buildRequestParams(request)

	span := transaction.StartChild("openai.api_call")
	apiStartTime := time.Now()
	resp, err := p.client.Responses.New(transaction.Context(), params)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ OPENAI REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		return nil, &BackendError{Provider: providerNameOpenAI, Model: request.Model, Err: err}
	}

	log.Printf("⏱️  OPENAI API CALL COMPLETED in %v", apiDuration)
	log.Printf("📊 USAGE: input=%d, output=%d, total=%d",
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens)

	transaction.SetTag("success", "true")
	return &CompletionResponse{
		Text: resp.OutputText(),
		Usage: Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// GenerateImage implements ImageProvider
func (p *OpenAIProvider) GenerateImage(ctx context.Context, request *ImageRequest) (*ImageResponse, error) {
	log.Printf("🎨 OPENAI IMAGE REQUEST STARTED (Model: %s)", request.Model)

	transaction := sentry.StartTransaction(ctx, "openai.generate_image")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	span := transaction.StartChild("openai.api_call")
	apiStartTime := time.Now()
	resp, err := p.client.Images.Generate(transaction.Context(), buildImageParams(request))
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		log.Printf("❌ OPENAI IMAGE REQUEST FAILED after %v: %v", apiDuration, err)
		transaction.SetTag("success", "false")
		return nil, &BackendError{Provider: providerNameOpenAI, Model: request.Model, Err: err}
	}

	response := &ImageResponse{}
	for _, image := range resp.Data {
		if image.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(image.B64JSON)
		if err != nil {
			transaction.SetTag("success", "false")
			return nil, &BackendError{
				Provider: providerNameOpenAI,
				Model:    request.Model,
				Err:      fmt.Errorf("failed to decode image payload: %w", err),
			}
		}
		response.Candidates = append(response.Candidates, Candidate{
			Parts: []Part{{InlineData: &Blob{MIMEType: mimeTypePNG, Data: data}}},
		})
	}

	log.Printf("⏱️  OPENAI IMAGE CALL COMPLETED in %v (images: %d)", apiDuration, len(response.Candidates))
	transaction.SetTag("success", "true")
	return response, nil
}

func (p *OpenAIProvider) buildRequestParams(request *CompletionRequest) responses.ResponseNewParams {
	inputItems := responses.ResponseInputParam{}
	for _, part := range request.Parts {
		inputItems = append(inputItems,
			responses.ResponseInputItemParamOfMessage(part, responses.EasyInputMessageRoleUser),
		)
	}

	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems,
		},
	}
	if request.SystemPrompt != "" {
		params.Instructions = openai.String(request.SystemPrompt)
	}

	if request.OutputSchema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(
				request.OutputSchema.Name,
				request.OutputSchema.Schema,
			),
		}
		log.Printf("📋 JSON SCHEMA CONFIGURED: %s", request.OutputSchema.Name)
	}

	return params
}

func buildImageParams(request *ImageRequest) openai.ImageGenerateParams {
	params := openai.ImageGenerateParams{
		Prompt: request.Prompt,
		Model:  openai.ImageModel(request.Model),
		N:      openai.Int(1),
	}
	// gpt-image models always return base64; dall-e needs to be asked.
	if strings.HasPrefix(strings.ToLower(request.Model), "dall-e") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}
	return params
}
