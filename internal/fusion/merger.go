package fusion

import (
	"encoding/json"
	"strings"
)

// MergePath identifies which branch of the heuristic merger produced
// the output.
type MergePath string

const (
	PathStructured MergePath = "structured"
	PathMarkers    MergePath = "markers"
	PathLongest    MergePath = "longest"
)

// NoReply is the placeholder rendered wherever a provider produced no
// text at all.
const NoReply = "no reply received"

// Section markers recognized by the marker-based merge. Matched
// case-insensitively; the matched text runs from the marker to the end
// of the reply.
var (
	scriptMarkers  = []string{"SCRIPT:"}
	videoMarkers   = []string{"VIDEO:"}
	generalMarkers = []string{"ASSETS:", "TRANSCRIPT:"}
)

// Merge combines two raw provider replies into one string without any
// network access. It is deterministic: identical inputs always yield
// byte-identical output.
//
// Precedence: if both replies are self-contained JSON documents they
// are nested under provider-labeled keys; otherwise recognized section
// markers are collected into labeled buckets; otherwise both replies
// are rendered verbatim with the longer one marked as preferred.
func Merge(geminiText, openaiText string) (string, MergePath) {
	if out, ok := mergeStructured(geminiText, openaiText); ok {
		return out, PathStructured
	}
	if out, ok := mergeMarkers(geminiText, openaiText); ok {
		return out, PathMarkers
	}
	return mergeLongest(geminiText, openaiText), PathLongest
}

// mergeStructured nests both replies under provider keys when each is
// a parseable JSON object or array. Field order of the wrapper is
// fixed by the struct; inner ordering is whatever the providers sent,
// which is stable for fixed inputs.
func mergeStructured(geminiText, openaiText string) (string, bool) {
	g, ok := asStructured(geminiText)
	if !ok {
		return "", false
	}
	o, ok := asStructured(openaiText)
	if !ok {
		return "", false
	}
	wrapper := struct {
		Gemini json.RawMessage `json:"gemini"`
		OpenAI json.RawMessage `json:"openai"`
	}{Gemini: g, OpenAI: o}
	out, err := json.Marshal(wrapper)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func asStructured(s string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, false
	}
	// Scalars like "42" are technically valid JSON but are treated as
	// prose; only objects and arrays count as structured replies.
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}

// mergeMarkers scans both replies for section markers and rebuilds one
// document with Script, Video and Other sections in that fixed order.
// A single reply can feed several buckets when it carries several
// markers.
func mergeMarkers(geminiText, openaiText string) (string, bool) {
	var script, video, general []string
	for _, reply := range []string{geminiText, openaiText} {
		script = append(script, extractAfter(reply, scriptMarkers)...)
		video = append(video, extractAfter(reply, videoMarkers)...)
		general = append(general, extractAfter(reply, generalMarkers)...)
	}
	if len(script) == 0 && len(video) == 0 && len(general) == 0 {
		return "", false
	}

	var sections []string
	if len(script) > 0 {
		sections = append(sections, "Script:\n"+strings.Join(script, "\n\n"))
	}
	if len(video) > 0 {
		sections = append(sections, "Video:\n"+strings.Join(video, "\n\n"))
	}
	if len(general) > 0 {
		sections = append(sections, "Other:\n"+strings.Join(general, "\n\n"))
	}
	return strings.Join(sections, "\n\n"), true
}

func extractAfter(reply string, markers []string) []string {
	var out []string
	for _, m := range markers {
		idx := indexFold(reply, m)
		if idx < 0 {
			continue
		}
		content := strings.TrimSpace(reply[idx+len(m):])
		if content == "" {
			// a reply ending exactly at the marker carries no section
			continue
		}
		out = append(out, content)
	}
	return out
}

// indexFold returns the byte index of the first case-insensitive match
// of marker in s. Matching windows of the original string keeps byte
// offsets valid even when s holds runes whose upper-case form has a
// different length (ToUpper turns "ı" into the one-byte "I").
func indexFold(s, marker string) int {
	for i := 0; i+len(marker) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(marker)], marker) {
			return i
		}
	}
	return -1
}

// mergeLongest shows both replies under provider headings and repeats
// the longer one as the preferred answer. Length ties go to openai.
func mergeLongest(geminiText, openaiText string) string {
	preferred := openaiText
	if len(geminiText) > len(openaiText) {
		preferred = geminiText
	}
	return "Gemini:\n" + orPlaceholder(geminiText) +
		"\n\nOpenAI:\n" + orPlaceholder(openaiText) +
		"\n\nPreferred:\n" + orPlaceholder(preferred)
}

func orPlaceholder(s string) string {
	if s == "" {
		return NoReply
	}
	return s
}
