package story

import (
	"errors"
	"fmt"
)

// ErrNoImageReturned means the image backend answered without any inline
// image data.
var ErrNoImageReturned = errors.New("no image returned")

// Schema problems detected while parsing structured story JSON.
var (
	ErrMissingTitle = errors.New("missing title")
	ErrNoScenes     = errors.New("no scenes")
)

// Moderation subjects
const (
	SubjectPrompt = "prompt"
	SubjectStory  = "story"
)

// ModerationError rejects input that failed the harm filter. Category and
// Term are for logs only and are never sent to clients.
type ModerationError struct {
	Subject  string
	Category string
	Term     string
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("%s contains harmful or inappropriate content", e.Subject)
}

// ValidationError names the first field that failed a precondition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// GenerationFormatError means the text model's output could not be parsed
// into a structured story. Raw is the unmodified model output.
type GenerationFormatError struct {
	Raw string
	Err error
}

func (e *GenerationFormatError) Error() string {
	return fmt.Sprintf("invalid story format from model: %v", e.Err)
}

func (e *GenerationFormatError) Unwrap() error {
	return e.Err
}

// SchemaError reports a key of a structured story whose JSON value has the
// wrong type.
type SchemaError struct {
	Key    string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s %s", e.Key, e.Reason)
}

// ImageGenerationError wraps a failed image call for one scene (or "cover").
type ImageGenerationError struct {
	SceneKey string
	Err      error
}

func (e *ImageGenerationError) Error() string {
	return fmt.Sprintf("image generation failed for %s: %v", e.SceneKey, e.Err)
}

func (e *ImageGenerationError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
