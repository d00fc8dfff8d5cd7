package story

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Conceptual-Machines/storyforge-api/internal/llm"
	"github.com/Conceptual-Machines/storyforge-api/internal/models"
)

// fakeTextProvider returns a canned completion and records every request.
type fakeTextProvider struct {
	mu       sync.Mutex
	text     string
	err      error
	requests []*llm.CompletionRequest
}

func (f *fakeTextProvider) Name() string { return "fake-text" }

func (f *fakeTextProvider) Complete(_ context.Context, request *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, request)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Text: f.text, Usage: llm.Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}}, nil
}

func (f *fakeTextProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// fakeImageProvider returns the prompt bytes as the image payload. Prompts
// containing failOn get failErr (or an empty response when failErr is nil).
type fakeImageProvider struct {
	mu      sync.Mutex
	prompts []string
	failOn  string
	failErr error
	delay   time.Duration

	inFlight    int
	maxInFlight int
}

func (f *fakeImageProvider) Name() string { return "fake-image" }

func (f *fakeImageProvider) GenerateImage(ctx context.Context, request *llm.ImageRequest) (*llm.ImageResponse, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, request.Prompt)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &llm.BackendError{Provider: "fake", Model: request.Model, Err: ctx.Err()}
		}
	}

	if f.failOn != "" && strings.Contains(request.Prompt, f.failOn) {
		if f.failErr != nil {
			return nil, f.failErr
		}
		return &llm.ImageResponse{Candidates: []llm.Candidate{{Parts: []llm.Part{{Text: "no image today"}}}}}, nil
	}

	return &llm.ImageResponse{
		Candidates: []llm.Candidate{{Parts: []llm.Part{
			{Text: "caption"},
			{InlineData: &llm.Blob{MIMEType: "image/png", Data: []byte(request.Prompt)}},
		}}},
		Usage: fakeImageUsage,
	}, nil
}

var fakeImageUsage = llm.Usage{InputTokens: 12, OutputTokens: 1290, TotalTokens: 1302}

// completionCall is one LogCompletion call seen by recordingGeneration.
type completionCall struct {
	model    string
	input    interface{}
	output   string
	usage    llm.Usage
	metadata map[string]interface{}
}

// recordingGeneration captures what would be sent to Langfuse.
type recordingGeneration struct {
	calls []completionCall
	level string
}

func (g *recordingGeneration) LogCompletion(modelName string, input interface{}, output string, usage llm.Usage, metadata map[string]interface{}) {
	g.calls = append(g.calls, completionCall{model: modelName, input: input, output: output, usage: usage, metadata: metadata})
}

func (g *recordingGeneration) SetLevel(level string) { g.level = level }

func (f *fakeImageProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// recordingWriter keeps the last batch written per story.
type recordingWriter struct {
	mu      sync.Mutex
	batches map[string][]models.SceneRecord
	err     error
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{batches: map[string][]models.SceneRecord{}}
}

func (w *recordingWriter) InsertStoryRecords(_ context.Context, userID, storyID string, records []models.SceneRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.batches[userID+"/"+storyID] = records
	return nil
}

func (w *recordingWriter) get(userID, storyID string) []models.SceneRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.batches[userID+"/"+storyID]
}

type recordedRun struct {
	pipeline string
	outcome  string
}

type fakeRecorder struct {
	mu   sync.Mutex
	runs []recordedRun
}

func (r *fakeRecorder) RecordPipeline(_ context.Context, pipeline, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, recordedRun{pipeline: pipeline, outcome: outcome})
}

const lighthouseJSON = `{
  "title": "The Keeper and the Seal",
  "scene1": "On a windswept island, an old lighthouse keeper named Tobias tended his lamp every night, alone with the gulls and the grey sea.",
  "scene2": "One stormy evening a small seal washed ashore, tangled in fishing line. Tobias freed the seal and wrapped it in his warm coat.",
  "scene3": "The seal returned each dusk, barking at the door until Tobias shared his supper. The two became the best of friends.",
  "scene4": "When fog hid the rocks and a ship drifted close, the seal swam out and barked until the crew saw the lamp and turned away.",
  "scene5": "Sailors told the tale for years: a keeper, a seal, and a light that never went dark."
}`

func lighthouseStory() *StructuredStory {
	story, err := ParseStructuredStory(lighthouseJSON)
	if err != nil {
		panic(err)
	}
	return story
}
