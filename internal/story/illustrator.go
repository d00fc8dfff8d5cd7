package story

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Conceptual-Machines/storyforge-api/internal/llm"
	"github.com/Conceptual-Machines/storyforge-api/internal/logger"
	"github.com/Conceptual-Machines/storyforge-api/internal/observability"
	"github.com/Conceptual-Machines/storyforge-api/internal/prompt"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	summaryRunes = 300
	// limiterBurst lets the first couple of calls through without waiting
	limiterBurst = 2
)

// ImageContext identifies the image being generated. It is used for logging
// only.
type ImageContext struct {
	UserID   string
	StoryID  string
	SceneKey string
}

// Illustrator produces the cover and scene images of a story.
type Illustrator struct {
	provider    llm.ImageProvider
	model       string
	prompts     *prompt.Builder
	timeout     time.Duration
	concurrency int
	limiter     *rate.Limiter
}

// IllustratorOption configures an Illustrator.
type IllustratorOption func(*Illustrator)

// WithConcurrency allows up to n image calls in flight. n <= 1 keeps the
// strictly sequential order (cover first, then scenes in order).
func WithConcurrency(n int) IllustratorOption {
	return func(il *Illustrator) {
		if n < 1 {
			n = 1
		}
		il.concurrency = n
	}
}

// WithRateInterval spaces image calls at least interval apart (after a small
// burst). Zero disables limiting.
func WithRateInterval(interval time.Duration) IllustratorOption {
	return func(il *Illustrator) {
		if interval > 0 {
			il.limiter = rate.NewLimiter(rate.Every(interval), limiterBurst)
		} else {
			il.limiter = nil
		}
	}
}

// WithImageTimeout bounds each image call.
func WithImageTimeout(timeout time.Duration) IllustratorOption {
	return func(il *Illustrator) {
		il.timeout = timeout
	}
}

// NewIllustrator creates an illustrator for the given image model.
func NewIllustrator(provider llm.ImageProvider, model string, prompts *prompt.Builder, opts ...IllustratorOption) *Illustrator {
	il := &Illustrator{
		provider:    provider,
		model:       model,
		prompts:     prompts,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(il)
	}
	return il
}

// generatedImage is one successful image call.
type generatedImage struct {
	encoded  string
	mimeType string
	size     int
	usage    llm.Usage
}

// generationLog is the part of a Langfuse generation the illustrator writes to.
type generationLog interface {
	LogCompletion(modelName string, input interface{}, output string, usage llm.Usage, metadata map[string]interface{})
	SetLevel(level string)
}

var _ generationLog = (*observability.Generation)(nil)

// GenerateImage makes one image call and returns the first inline image
// payload, base64 encoded.
func (il *Illustrator) GenerateImage(ctx context.Context, promptText string, ic ImageContext) (string, error) {
	image, err := il.generateImage(ctx, promptText, ic)
	if err != nil {
		return "", err
	}
	return image.encoded, nil
}

func (il *Illustrator) generateImage(ctx context.Context, promptText string, ic ImageContext) (*generatedImage, error) {
	callCtx, cancel := withTimeout(ctx, il.timeout)
	defer cancel()

	fields := logger.FromContext(ctx)
	fields["user_id"] = ic.UserID
	fields["story_id"] = ic.StoryID
	fields["scene_key"] = ic.SceneKey
	fields["model"] = il.model

	start := time.Now()
	resp, err := il.provider.GenerateImage(callCtx, &llm.ImageRequest{Model: il.model, Prompt: promptText})
	if err != nil {
		logger.Error("Image generation failed", err, fields)
		return nil, &ImageGenerationError{SceneKey: ic.SceneKey, Err: err}
	}

	blob := resp.FirstInlineData()
	if blob == nil {
		logger.Warn("Image backend returned no image data", fields)
		return nil, &ImageGenerationError{SceneKey: ic.SceneKey, Err: ErrNoImageReturned}
	}

	fields["duration_ms"] = time.Since(start).Milliseconds()
	fields["bytes"] = len(blob.Data)
	fields["total_tokens"] = resp.Usage.TotalTokens
	logger.Info("Image generated", fields)
	return &generatedImage{
		encoded:  base64.StdEncoding.EncodeToString(blob.Data),
		mimeType: blob.MIMEType,
		size:     len(blob.Data),
		usage:    resp.Usage,
	}, nil
}

// logGeneration records the prompt, a short description of the image and the
// backend usage on the Langfuse generation. The image itself is not sent.
func (il *Illustrator) logGeneration(gen generationLog, key, promptText string, image *generatedImage) {
	gen.LogCompletion(il.model, promptText, fmt.Sprintf("%s image, %d bytes", image.mimeType, image.size), image.usage,
		map[string]interface{}{
			"scene_key":   key,
			"image_bytes": image.size,
		})
}

type imageJob struct {
	key    string
	prompt string
}

// IllustrateStory generates the cover and one image per scene. Any failure
// aborts the whole illustration; no partial map is returned.
func (il *Illustrator) IllustrateStory(
	ctx context.Context, userID, storyID string, story *StructuredStory, tags Tags,
) (ImageMap, error) {
	jobs, err := il.buildJobs(story, tags)
	if err != nil {
		return nil, err
	}

	trace := observability.GetClient().StartTrace(ctx, "story.illustrate", map[string]interface{}{
		"story_id": storyID,
		"images":   len(jobs),
	})
	defer trace.Finish()

	results := make([]string, len(jobs))
	run := func(ctx context.Context, i int) error {
		if il.limiter != nil {
			if err := il.limiter.Wait(ctx); err != nil {
				return &ImageGenerationError{SceneKey: jobs[i].key, Err: err}
			}
		}
		generation := trace.Generation(jobs[i].key, map[string]interface{}{"model": il.model})
		defer generation.Finish()

		image, err := il.generateImage(ctx, jobs[i].prompt, ImageContext{
			UserID:   userID,
			StoryID:  storyID,
			SceneKey: jobs[i].key,
		})
		if err != nil {
			generation.SetLevel("ERROR")
			return err
		}
		il.logGeneration(generation, jobs[i].key, jobs[i].prompt, image)
		results[i] = image.encoded
		return nil
	}

	if il.concurrency <= 1 {
		for i := range jobs {
			if err := run(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(il.concurrency)
		for i := range jobs {
			eg.Go(func() error {
				return run(egCtx, i)
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	images := make(ImageMap, len(jobs))
	for i, job := range jobs {
		images[job.key] = results[i]
	}
	return images, nil
}

// buildJobs renders the cover prompt followed by one prompt per scene
func (il *Illustrator) buildJobs(story *StructuredStory, tags Tags) ([]imageJob, error) {
	jobs := make([]imageJob, 0, len(story.Scenes)+1)

	cover, err := il.prompts.BuildCoverPrompt(prompt.ImageParams{
		Genre:    tags.Genre,
		Tone:     tags.Tone,
		Audience: tags.Audience,
		Title:    story.Title,
		Summary:  summarize(story.CombinedText()),
	})
	if err != nil {
		return nil, err
	}
	jobs = append(jobs, imageJob{key: coverKey, prompt: cover})

	for _, scene := range story.Scenes {
		p, err := il.prompts.BuildScenePrompt(prompt.ImageParams{
			Genre:     tags.Genre,
			Tone:      tags.Tone,
			Audience:  tags.Audience,
			SceneText: scene.Text,
		})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, imageJob{key: scene.Key, prompt: p})
	}
	return jobs, nil
}

// summarize keeps the first summaryRunes characters of the combined text
func summarize(text string) string {
	if utf8.RuneCountInString(text) <= summaryRunes {
		return text
	}
	return string([]rune(text)[:summaryRunes])
}
