package main

import (
	"context"
	"log"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/api"
	"github.com/Conceptual-Machines/storyforge-api/internal/config"
	"github.com/Conceptual-Machines/storyforge-api/internal/database"
	"github.com/Conceptual-Machines/storyforge-api/internal/llm"
	"github.com/Conceptual-Machines/storyforge-api/internal/metrics"
	"github.com/Conceptual-Machines/storyforge-api/internal/moderation"
	"github.com/Conceptual-Machines/storyforge-api/internal/observability"
	"github.com/Conceptual-Machines/storyforge-api/internal/prompt"
	"github.com/Conceptual-Machines/storyforge-api/internal/store"
	"github.com/Conceptual-Machines/storyforge-api/internal/story"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const sentryFlushTimeout = 2 * time.Second

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "storyforge-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	observability.InitializeLangfuse(ctx, cfg)

	cloudWatch, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("Failed to initialize CloudWatch metrics: %v", err)
	}

	deps := api.Dependencies{CloudWatch: cloudWatch}

	var repo store.Repository
	if cfg.UsesDatabase() {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to connect to database:", err)
		}
		if err := database.Migrate(db); err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to run migrations:", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("Failed to get database handle:", err)
		}
		deps.DB = sqlDB
		repo = store.NewGormRepository(db)
		log.Println("💾 Story store: postgres")
	} else {
		repo = store.NewMemoryRepository()
		log.Println("💾 Story store: in-memory (DATABASE_URL not set)")
	}
	deps.Repository = store.WithGalleryCache(repo, cfg.GalleryCacheTTL)
	if cfg.GalleryCacheTTL <= 0 {
		log.Println("🗂️  Public gallery cache disabled (GALLERY_CACHE_TTL <= 0)")
	}

	pipeline, err := buildPipeline(ctx, cfg, deps.Repository, cloudWatch)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to build story pipeline:", err)
	}
	deps.Pipeline = pipeline

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(cfg, deps, GetVersion())

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

// buildPipeline wires the moderation filter, model providers and persistence
// into a story service
func buildPipeline(
	ctx context.Context, cfg *config.Config, repo store.Repository, cloudWatch *metrics.Client,
) (*story.Service, error) {
	dictionary := moderation.DefaultDictionary()
	for _, term := range cfg.ModerationAllowedTerms {
		if !dictionary.Contains(term) {
			log.Printf("⚠️  MODERATION_ALLOWED_TERMS: %q is not in the profanity dictionary", term)
		}
	}
	dictionary.Add(cfg.ModerationExtraTerms...).Remove(cfg.ModerationAllowedTerms...)
	filter := moderation.NewFilter(moderation.WithDictionary(dictionary))

	prompts, err := prompt.NewPromptBuilder()
	if err != nil {
		return nil, err
	}

	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	textProvider, err := factory.TextProvider(ctx, cfg.TextModel)
	if err != nil {
		return nil, err
	}
	imageProvider, err := factory.ImageProvider(ctx, cfg.ImageModel)
	if err != nil {
		return nil, err
	}
	log.Printf("🤖 Text model: %s (%s), image model: %s (%s)",
		cfg.TextModel, textProvider.Name(), cfg.ImageModel, imageProvider.Name())

	generator := story.NewGenerator(textProvider, cfg.TextModel, prompts, cfg.BackendTimeout)
	illustrator := story.NewIllustrator(imageProvider, cfg.ImageModel, prompts,
		story.WithConcurrency(cfg.ImageConcurrency),
		story.WithRateInterval(cfg.ImageRateInterval),
		story.WithImageTimeout(cfg.BackendTimeout),
	)
	assembler := story.NewAssembler(repo)

	var recorders []metrics.PipelineRecorder
	recorders = append(recorders, metrics.NewSentryMetrics())
	if cloudWatch != nil {
		recorders = append(recorders, cloudWatch)
	}

	return story.NewService(filter, generator, illustrator, assembler, metrics.NewFanOut(recorders...)), nil
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
