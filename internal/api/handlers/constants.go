package handlers

const (
	// Client-facing messages. Moderation category and matched term stay in logs.
	msgPromptRejected    = "Prompt contains harmful or inappropriate content."
	msgStoryRejected     = "Story contains harmful or inappropriate content."
	msgSaferPrompt       = "Try a safer, more creative prompt."
	msgInvalidBody       = "Invalid request body."
	msgStoryFailed       = "Story generation failed."
	msgImageFailed       = "Image generation failed."
	msgSaveFailed        = "Failed to save story."
	msgTimedOut          = "Request timed out."
	msgStoryNotFound     = "Story not found"
	msgAlreadyPublished  = "Story already published"
	msgForbidden         = "Forbidden"
	msgInternal          = "Internal server error"
	msgStoriesFailed     = "Failed to retrieve stories."
	msgPublicStoryFailed = "Failed to load story"
)
