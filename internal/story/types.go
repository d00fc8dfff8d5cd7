package story

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	titleKey = "title"
	coverKey = "cover"
)

var sceneKeyPattern = regexp.MustCompile(`^scene(\d+)$`)

// ParseSceneKey returns the numeric index of a "sceneN" key.
func ParseSceneKey(key string) (int, bool) {
	m := sceneKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Tags are the three descriptive labels carried by every story.
type Tags struct {
	Genre    string `json:"genre"`
	Tone     string `json:"tone"`
	Audience string `json:"audience"`
}

// Request asks for a new structured story.
type Request struct {
	Prompt   string `json:"prompt"`
	Genre    string `json:"genre"`
	Tone     string `json:"tone"`
	Audience string `json:"audience"`
}

// Validate checks that every field is present after trimming.
func (r Request) Validate() error {
	return requireFields(
		field{"prompt", r.Prompt},
		field{"genre", r.Genre},
		field{"tone", r.Tone},
		field{"audience", r.Audience},
	)
}

// Tags returns the request's descriptive labels.
func (r Request) Tags() Tags {
	return Tags{Genre: r.Genre, Tone: r.Tone, Audience: r.Audience}
}

// IllustrateRequest asks for images for a (possibly user-edited) story and
// persists the result.
type IllustrateRequest struct {
	UserID  string
	StoryID string
	Tags    Tags
	Story   *StructuredStory
}

// Validate checks the required fields of the illustrate path. Scene content
// is checked separately by ValidateScenes.
func (r IllustrateRequest) Validate() error {
	if err := requireFields(
		field{"userId", r.UserID},
		field{"storyId", r.StoryID},
		field{"genre", r.Tags.Genre},
		field{"tone", r.Tags.Tone},
		field{"audience", r.Tags.Audience},
	); err != nil {
		return err
	}
	if r.Story == nil {
		return &ValidationError{Field: "story", Reason: "is required"}
	}
	return requireFields(field{"story.title", r.Story.Title})
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	return nil
}

// Scene is one entry of a SceneMap.
type Scene struct {
	Key  string
	Text string
}

// SceneMap is an ordered list of scenes, sorted by numeric scene index
// (scene10 sorts after scene9).
type SceneMap []Scene

// Keys returns the scene keys in order.
func (m SceneMap) Keys() []string {
	keys := make([]string, len(m))
	for i, s := range m {
		keys[i] = s.Key
	}
	return keys
}

// Set inserts or replaces a scene, keeping numeric order. Keys that are not
// of the form sceneN are rejected.
func (m *SceneMap) Set(key, text string) bool {
	if _, ok := ParseSceneKey(key); !ok {
		return false
	}
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Text = text
			return true
		}
	}
	*m = append(*m, Scene{Key: key, Text: text})
	sort.SliceStable(*m, func(i, j int) bool { return sceneLess((*m)[i].Key, (*m)[j].Key) })
	return true
}

// StructuredStory is a titled story split into scenes. Its JSON form is the
// flat object {"title": ..., "scene1": ..., "sceneN": ...}.
type StructuredStory struct {
	Title  string
	Scenes SceneMap
}

// CombinedText joins the title and every scene text with single spaces, in
// scene order.
func (s *StructuredStory) CombinedText() string {
	parts := make([]string, 0, len(s.Scenes)+1)
	parts = append(parts, s.Title)
	for _, scene := range s.Scenes {
		parts = append(parts, scene.Text)
	}
	return strings.Join(parts, " ")
}

// MarshalJSON writes the flat wire form with keys in scene order.
func (s StructuredStory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeJSONField(&buf, titleKey, s.Title); err != nil {
		return nil, err
	}
	for _, scene := range s.Scenes {
		buf.WriteByte(',')
		if err := writeJSONField(&buf, scene.Key, scene.Text); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONField(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON reads the flat wire form. title and sceneN values must be
// JSON strings; a *SchemaError names the first offending key in scene order.
// Other keys are ignored. Presence of a title or scenes is not checked here.
func (s *StructuredStory) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return &SchemaError{Key: "story", Reason: "must be a JSON object"}
	}

	var out StructuredStory
	if value, ok := raw[titleKey]; ok {
		title, err := decodeString(titleKey, value)
		if err != nil {
			return err
		}
		out.Title = title
	}

	sceneKeys := make([]string, 0, len(raw))
	for key := range raw {
		if _, ok := ParseSceneKey(key); ok {
			sceneKeys = append(sceneKeys, key)
		}
	}
	sortSceneKeys(sceneKeys)

	out.Scenes = make(SceneMap, 0, len(sceneKeys))
	for _, key := range sceneKeys {
		text, err := decodeString(key, raw[key])
		if err != nil {
			return err
		}
		out.Scenes = append(out.Scenes, Scene{Key: key, Text: text})
	}

	*s = out
	return nil
}

func decodeString(key string, value json.RawMessage) (string, error) {
	var text string
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", &SchemaError{Key: key, Reason: "must be a string"}
	}
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return "", &SchemaError{Key: key, Reason: "must be a string"}
	}
	return text, nil
}

func sortSceneKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool { return sceneLess(keys[i], keys[j]) })
}

// sceneLess orders scene keys by numeric index, then lexically for ties
// such as scene1 / scene01.
func sceneLess(a, b string) bool {
	ai, _ := ParseSceneKey(a)
	bi, _ := ParseSceneKey(b)
	if ai != bi {
		return ai < bi
	}
	return a < b
}

// ImageMap maps "cover" and each scene key to a base64 image payload.
type ImageMap map[string]string
