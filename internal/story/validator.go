package story

import (
	"strings"
	"unicode/utf8"
)

// MinSceneLength is the minimum scene length in characters, after trimming.
const MinSceneLength = 10

// ValidateScenes checks a story before any image is generated: the title
// must be non-blank, there must be at least one scene, and every scene must
// hold at least MinSceneLength characters. The error names the first
// offending key in scene order.
func ValidateScenes(title string, scenes SceneMap) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: titleKey, Reason: "is required"}
	}
	if len(scenes) == 0 {
		return &ValidationError{Field: "scenes", Reason: "no scenes found in story"}
	}
	for _, scene := range scenes {
		if utf8.RuneCountInString(strings.TrimSpace(scene.Text)) < MinSceneLength {
			return &ValidationError{Field: scene.Key, Reason: "is too short or missing"}
		}
	}
	return nil
}
