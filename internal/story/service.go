// Package story implements the story pipeline: structured text generation,
// scene validation, illustration and persistence.
package story

import (
	"context"
	"errors"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/llm"
	"github.com/Conceptual-Machines/storyforge-api/internal/logger"
	"github.com/Conceptual-Machines/storyforge-api/internal/moderation"
	"github.com/getsentry/sentry-go"
)

// Stage is a step of the per-request state machine, logged on every
// transition.
type Stage string

const (
	StageReceived        Stage = "received"
	StageFiltered        Stage = "filtered"
	StageTextGenerated   Stage = "text_generated"
	StageValidated       Stage = "validated"
	StageImagesGenerated Stage = "images_generated"
	StagePersisted       Stage = "persisted"
	StageFailed          Stage = "failed"
)

// Pipeline names used for metrics.
const (
	PipelineGenerate   = "generate"
	PipelineIllustrate = "illustrate"
)

// Outcomes reported to the Recorder.
const (
	OutcomeSuccess     = "success"
	OutcomeModeration  = "moderation"
	OutcomeValidation  = "validation"
	OutcomeFormat      = "format"
	OutcomeBackend     = "backend"
	OutcomeImage       = "image"
	OutcomePersistence = "persistence"
	OutcomeCanceled    = "canceled"
	OutcomeError       = "error"
)

// Recorder receives one observation per finished pipeline run.
type Recorder interface {
	RecordPipeline(ctx context.Context, pipeline, outcome string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordPipeline(context.Context, string, string, time.Duration) {}

// Service is the caller-facing entry point of the pipeline.
type Service struct {
	filter      *moderation.Filter
	generator   *Generator
	illustrator *Illustrator
	assembler   *Assembler
	recorder    Recorder
}

// NewService wires the pipeline components. A nil recorder disables metrics.
func NewService(
	filter *moderation.Filter,
	generator *Generator,
	illustrator *Illustrator,
	assembler *Assembler,
	recorder Recorder,
) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		filter:      filter,
		generator:   generator,
		illustrator: illustrator,
		assembler:   assembler,
		recorder:    recorder,
	}
}

// GenerateStory screens the prompt and asks the text model for a structured
// story. Fails with *ValidationError, *ModerationError,
// *GenerationFormatError or *llm.BackendError.
func (s *Service) GenerateStory(ctx context.Context, req Request) (*StructuredStory, error) {
	span := sentry.StartSpan(ctx, "story.generate")
	defer span.Finish()
	ctx = span.Context()
	start := time.Now()

	s.logStage(ctx, StageReceived, logger.Fields{"pipeline": PipelineGenerate})

	if err := req.Validate(); err != nil {
		return nil, s.fail(ctx, span, PipelineGenerate, start, err)
	}

	if verdict := s.filter.Check(req.Prompt); !verdict.Clean {
		return nil, s.fail(ctx, span, PipelineGenerate, start, &ModerationError{
			Subject:  SubjectPrompt,
			Category: verdict.Category,
			Term:     verdict.Term,
		})
	}
	s.logStage(ctx, StageFiltered, nil)

	story, err := s.generator.GenerateStructuredStory(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, span, PipelineGenerate, start, err)
	}
	s.logStage(ctx, StageTextGenerated, logger.Fields{"scenes": story.Scenes.Keys()})

	s.succeed(ctx, span, PipelineGenerate, start)
	return story, nil
}

// IllustrateStory screens and validates a submitted story, generates every
// image and persists the result. Fails with *ValidationError,
// *ModerationError, *ImageGenerationError or *PersistenceError. Nothing is
// persisted unless every image succeeded.
func (s *Service) IllustrateStory(ctx context.Context, req IllustrateRequest) (*AssembledStory, error) {
	span := sentry.StartSpan(ctx, "story.illustrate")
	defer span.Finish()
	ctx = span.Context()
	start := time.Now()

	s.logStage(ctx, StageReceived, logger.Fields{
		"pipeline": PipelineIllustrate,
		"user_id":  req.UserID,
		"story_id": req.StoryID,
	})

	if err := req.Validate(); err != nil {
		return nil, s.fail(ctx, span, PipelineIllustrate, start, err)
	}

	if verdict := s.filter.Check(req.Story.CombinedText()); !verdict.Clean {
		return nil, s.fail(ctx, span, PipelineIllustrate, start, &ModerationError{
			Subject:  SubjectStory,
			Category: verdict.Category,
			Term:     verdict.Term,
		})
	}
	s.logStage(ctx, StageFiltered, nil)

	if err := ValidateScenes(req.Story.Title, req.Story.Scenes); err != nil {
		return nil, s.fail(ctx, span, PipelineIllustrate, start, err)
	}
	s.logStage(ctx, StageValidated, logger.Fields{"scenes": req.Story.Scenes.Keys()})

	images, err := s.illustrator.IllustrateStory(ctx, req.UserID, req.StoryID, req.Story, req.Tags)
	if err != nil {
		return nil, s.fail(ctx, span, PipelineIllustrate, start, err)
	}
	s.logStage(ctx, StageImagesGenerated, logger.Fields{"images": len(images)})

	assembled, err := s.assembler.AssembleAndPersist(ctx, req.UserID, req.StoryID, req.Story, images, req.Tags)
	if err != nil {
		return nil, s.fail(ctx, span, PipelineIllustrate, start, err)
	}
	s.logStage(ctx, StagePersisted, logger.Fields{"story_id": req.StoryID})

	s.succeed(ctx, span, PipelineIllustrate, start)
	return assembled, nil
}

func (s *Service) logStage(ctx context.Context, stage Stage, extra logger.Fields) {
	fields := logger.FromContext(ctx)
	fields["stage"] = string(stage)
	for k, v := range extra {
		fields[k] = v
	}
	logger.Info("Story pipeline stage", fields)
}

func (s *Service) succeed(ctx context.Context, span *sentry.Span, pipeline string, start time.Time) {
	span.Status = sentry.SpanStatusOK
	span.SetTag("outcome", OutcomeSuccess)
	s.recorder.RecordPipeline(ctx, pipeline, OutcomeSuccess, time.Since(start))
}

func (s *Service) fail(ctx context.Context, span *sentry.Span, pipeline string, start time.Time, err error) error {
	outcome := Outcome(err)
	span.Status = sentry.SpanStatusInternalError
	span.SetTag("outcome", outcome)

	fields := logger.FromContext(ctx)
	fields["stage"] = string(StageFailed)
	fields["pipeline"] = pipeline
	fields["outcome"] = outcome
	fields["reason"] = err.Error()

	var moderationErr *ModerationError
	if errors.As(err, &moderationErr) {
		fields["category"] = moderationErr.Category
	}

	switch outcome {
	case OutcomeModeration, OutcomeValidation, OutcomeCanceled:
		logger.Warn("Story pipeline stage", fields)
	default:
		logger.Error("Story pipeline stage", err, fields)
	}

	s.recorder.RecordPipeline(ctx, pipeline, outcome, time.Since(start))
	return err
}

// Outcome classifies a pipeline error for metrics and logs.
func Outcome(err error) string {
	var (
		moderationErr  *ModerationError
		validationErr  *ValidationError
		formatErr      *GenerationFormatError
		imageErr       *ImageGenerationError
		persistenceErr *PersistenceError
		backendErr     *llm.BackendError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case errors.As(err, &moderationErr):
		return OutcomeModeration
	case errors.As(err, &validationErr):
		return OutcomeValidation
	case errors.As(err, &formatErr):
		return OutcomeFormat
	case errors.As(err, &imageErr):
		return OutcomeImage
	case errors.As(err, &persistenceErr):
		return OutcomePersistence
	case errors.As(err, &backendErr):
		return OutcomeBackend
	default:
		return OutcomeError
	}
}
