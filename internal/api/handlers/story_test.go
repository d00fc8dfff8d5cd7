package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conceptual-Machines/storyforge-api/internal/llm"
	"github.com/Conceptual-Machines/storyforge-api/internal/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	genStoryBody = `{"prompt":"A lighthouse keeper befriends a seal","genre":"fantasy","tone":"whimsical","audience":"kids"}`
	genImgBody   = `{"userId":"u1","storyId":"the_keeper","genre":"fantasy","tone":"whimsical","audience":"kids",
		"story":{"title":"The Keeper","scene1":"The keeper lit the lamp at dusk.","scene2":"A seal waited on the rocks below."}}`
)

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateStory_Success(t *testing.T) {
	pipeline := &MockStoryPipeline{}
	router := setupTestRouter(pipeline, &MockRepository{}, "")

	expected := story.Request{
		Prompt:   "A lighthouse keeper befriends a seal",
		Genre:    "fantasy",
		Tone:     "whimsical",
		Audience: "kids",
	}
	pipeline.On("GenerateStory", mock.Anything, expected).Return(&story.StructuredStory{
		Title: "The Keeper",
		Scenes: story.SceneMap{
			{Key: "scene1", Text: "The keeper lit the lamp at dusk."},
			{Key: "scene2", Text: "A seal waited on the rocks below."},
		},
	}, nil)

	w := postJSON(t, router, "/api/genstory", genStoryBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"The Keeper","scene1":"The keeper lit the lamp at dusk.","scene2":"A seal waited on the rocks below."}`, w.Body.String())
	pipeline.AssertExpectations(t)
}

func TestGenerateStory_ModerationResponse(t *testing.T) {
	pipeline := &MockStoryPipeline{}
	router := setupTestRouter(pipeline, &MockRepository{}, "")

	pipeline.On("GenerateStory", mock.Anything, mock.Anything).Return(nil, &story.ModerationError{
		Subject:  story.SubjectPrompt,
		Category: "violence",
		Term:     "kill",
	})

	w := postJSON(t, router, "/api/genstory", genStoryBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Prompt contains harmful or inappropriate content.","suggestion":"Try a safer, more creative prompt."}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "kill")
}

func TestGenerateStory_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        &story.ValidationError{Field: "prompt", Reason: "is required"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"prompt is required"}`,
		},
		{
			name:       "backend",
			err:        &llm.BackendError{Provider: "gemini", Model: "gemini-2.5-pro", Err: errors.New("quota")},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"Story generation failed."}`,
		},
		{
			name:       "format",
			err:        &story.GenerationFormatError{Raw: "not json", Err: errors.New("invalid character")},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"Story generation failed."}`,
		},
		{
			name:       "deadline",
			err:        &llm.BackendError{Provider: "gemini", Model: "gemini-2.5-pro", Err: context.DeadlineExceeded},
			wantStatus: http.StatusGatewayTimeout,
			wantBody:   `{"error":"Request timed out."}`,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &MockStoryPipeline{}
			router := setupTestRouter(pipeline, &MockRepository{}, "")
			pipeline.On("GenerateStory", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postJSON(t, router, "/api/genstory", genStoryBody)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestGenerateStory_InvalidBody(t *testing.T) {
	pipeline := &MockStoryPipeline{}
	router := setupTestRouter(pipeline, &MockRepository{}, "")

	w := postJSON(t, router, "/api/genstory", `{"prompt":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body."}`, w.Body.String())
	pipeline.AssertNotCalled(t, "GenerateStory", mock.Anything, mock.Anything)
}

func TestIllustrateStory_Success(t *testing.T) {
	pipeline := &MockStoryPipeline{}
	router := setupTestRouter(pipeline, &MockRepository{}, "u1")

	matchRequest := mock.MatchedBy(func(req story.IllustrateRequest) bool {
		return req.UserID == "u1" &&
			req.StoryID == "the_keeper" &&
			req.Tags == story.Tags{Genre: "fantasy", Tone: "whimsical", Audience: "kids"} &&
			req.Story != nil &&
			req.Story.Title == "The Keeper" &&
			len(req.Story.Scenes) == 2 &&
			req.Story.Scenes[1].Key == "scene2"
	})
	pipeline.On("IllustrateStory", mock.Anything, matchRequest).Return(&story.AssembledStory{
		Title:      "The Keeper",
		CoverImage: "Y292ZXI=",
		Scenes: []story.IllustratedScene{
			{Key: "scene1", Text: "The keeper lit the lamp at dusk.", Image: "aW1nMQ=="},
			{Key: "scene2", Text: "A seal waited on the rocks below.", Image: "aW1nMg=="},
		},
	}, nil)

	w := postJSON(t, router, "/api/genimg", genImgBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"title":"The Keeper",
		"cover":{"image":"Y292ZXI="},
		"scene1":{"text":"The keeper lit the lamp at dusk.","image":"aW1nMQ=="},
		"scene2":{"text":"A seal waited on the rocks below.","image":"aW1nMg=="}
	}`, w.Body.String())
	pipeline.AssertExpectations(t)
}

func TestIllustrateStory_StoryModerationResponse(t *testing.T) {
	pipeline := &MockStoryPipeline{}
	router := setupTestRouter(pipeline, &MockRepository{}, "")

	pipeline.On("IllustrateStory", mock.Anything, mock.Anything).Return(nil, &story.ModerationError{
		Subject:  story.SubjectStory,
		Category: "drugs",
		Term:     "cocaine",
	})

	w := postJSON(t, router, "/api/genimg", genImgBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Story contains harmful or inappropriate content."}`, w.Body.String())
}

func TestIllustrateStory_RejectsBadStoryShape(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantBody string
	}{
		{
			name:     "scene not a string",
			body:     `{"userId":"u1","storyId":"s","genre":"g","tone":"t","audience":"a","story":{"title":"T","scene1":5}}`,
			wantBody: `{"error":"scene1 must be a string"}`,
		},
		{
			name:     "story not an object",
			body:     `{"userId":"u1","storyId":"s","genre":"g","tone":"t","audience":"a","story":"once upon a time"}`,
			wantBody: `{"error":"story must be an object"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &MockStoryPipeline{}
			router := setupTestRouter(pipeline, &MockRepository{}, "")

			w := postJSON(t, router, "/api/genimg", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			pipeline.AssertNotCalled(t, "IllustrateStory", mock.Anything, mock.Anything)
		})
	}
}

func TestIllustrateStory_MissingStoryReachesPipeline(t *testing.T) {
	pipeline := &MockStoryPipeline{}
	router := setupTestRouter(pipeline, &MockRepository{}, "")

	pipeline.On("IllustrateStory", mock.Anything, mock.MatchedBy(func(req story.IllustrateRequest) bool {
		return req.Story == nil
	})).Return(nil, &story.ValidationError{Field: "story", Reason: "is required"})

	w := postJSON(t, router, "/api/genimg", `{"userId":"u1","storyId":"s","genre":"g","tone":"t","audience":"a"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"story is required"}`, w.Body.String())
	pipeline.AssertExpectations(t)
}

func TestIllustrateStory_ForbiddenForOtherUser(t *testing.T) {
	pipeline := &MockStoryPipeline{}
	router := setupTestRouter(pipeline, &MockRepository{}, "someone-else")

	w := postJSON(t, router, "/api/genimg", genImgBody)

	assert.Equal(t, http.StatusForbidden, w.Code)
	pipeline.AssertNotCalled(t, "IllustrateStory", mock.Anything, mock.Anything)
}

func TestIllustrateStory_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "image",
			err:        &story.ImageGenerationError{SceneKey: "scene2", Err: story.ErrNoImageReturned},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error":"Image generation failed."}`,
		},
		{
			name:       "persistence",
			err:        &story.PersistenceError{Op: "save story s", Err: errors.New("connection refused")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to save story."}`,
		},
		{
			name:       "short scene",
			err:        &story.ValidationError{Field: "scene2", Reason: "must be at least 10 characters"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"scene2 must be at least 10 characters"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &MockStoryPipeline{}
			router := setupTestRouter(pipeline, &MockRepository{}, "")
			pipeline.On("IllustrateStory", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postJSON(t, router, "/api/genimg", genImgBody)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
