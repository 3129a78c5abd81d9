package fusion

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeStructured(t *testing.T) {
	out, path := Merge(`{"a":1}`, `{"b":2}`)
	require.Equal(t, PathStructured, path)

	var parsed struct {
		Gemini map[string]int `json:"gemini"`
		OpenAI map[string]int `json:"openai"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Equal(t, map[string]int{"a": 1}, parsed.Gemini)
	require.Equal(t, map[string]int{"b": 2}, parsed.OpenAI)
}

func TestMergeStructuredRejectsScalars(t *testing.T) {
	// "42" parses as JSON but is prose for merging purposes
	_, path := Merge(`42`, `{"b":2}`)
	require.NotEqual(t, PathStructured, path)
}

func TestMergeStructuredRequiresBothSides(t *testing.T) {
	out, path := Merge(`{"a":1}`, `plain text`)
	require.Equal(t, PathLongest, path)
	require.Contains(t, out, `{"a":1}`)
}

func TestMergeMarkers(t *testing.T) {
	out, path := Merge("SCRIPT: Hello", "VIDEO: World")
	require.Equal(t, PathMarkers, path)
	require.Contains(t, out, "Script:\nHello")
	require.Contains(t, out, "Video:\nWorld")
	require.NotContains(t, out, "Other:")
}

func TestMergeMarkersCaseInsensitive(t *testing.T) {
	out, path := Merge("script: lower says hi", "")
	require.Equal(t, PathMarkers, path)
	require.Contains(t, out, "Script:\nlower says hi")
}

func TestMergeMarkersOneReplyFeedsMultipleBuckets(t *testing.T) {
	out, path := Merge("SCRIPT: intro\nVIDEO: wide shot", "TRANSCRIPT: raw text")
	require.Equal(t, PathMarkers, path)
	// marker text runs to end of reply, so the script bucket keeps the
	// trailing video line too
	require.Contains(t, out, "Script:\nintro\nVIDEO: wide shot")
	require.Contains(t, out, "Video:\nwide shot")
	require.Contains(t, out, "Other:\nraw text")
}

func TestMergeMarkersOffsetSafeWithNonASCIIPrefix(t *testing.T) {
	// "ı" shrinks by one byte under ToUpper; the marker offset must
	// come from the original string, not a case-folded copy
	out, path := Merge("ı SCRIPT: hello", "")
	require.Equal(t, PathMarkers, path)
	require.Equal(t, "Script:\nhello", out)

	out, path = Merge("ſtill prose before ASSETS: the words", "")
	require.Equal(t, PathMarkers, path)
	require.Equal(t, "Other:\nthe words", out)
}

func TestMergeMarkersEmptySectionSkipped(t *testing.T) {
	// a reply that ends at the marker has no section content
	out, path := Merge("SCRIPT:", "plain prose")
	require.Equal(t, PathLongest, path)
	require.Contains(t, out, "Preferred:\nplain prose")

	out, path = Merge("SCRIPT:   ", "VIDEO: World")
	require.Equal(t, PathMarkers, path)
	require.NotContains(t, out, "Script:")
	require.Contains(t, out, "Video:\nWorld")
}

func TestMergeMarkersFixedSectionOrder(t *testing.T) {
	out, _ := Merge("ASSETS: b-roll", "VIDEO: cut\nSCRIPT: lines")
	scriptIdx := strings.Index(out, "Script:")
	videoIdx := strings.Index(out, "Video:")
	otherIdx := strings.Index(out, "Other:")
	require.True(t, scriptIdx >= 0 && videoIdx >= 0 && otherIdx >= 0)
	require.Less(t, scriptIdx, videoIdx)
	require.Less(t, videoIdx, otherIdx)
}

func TestMergeLongestWins(t *testing.T) {
	short := "12345"
	long := strings.Repeat("x", 50)
	out, path := Merge(short, long)
	require.Equal(t, PathLongest, path)
	require.Contains(t, out, "Gemini:\n"+short)
	require.Contains(t, out, "OpenAI:\n"+long)
	require.Contains(t, out, "Preferred:\n"+long)
}

func TestMergeLongestTieFavorsOpenAI(t *testing.T) {
	out, _ := Merge("aaaaa", "bbbbb")
	require.Contains(t, out, "Preferred:\nbbbbb")
}

func TestMergeLongestEmptyRepliesUsePlaceholder(t *testing.T) {
	out, path := Merge("", "")
	require.Equal(t, PathLongest, path)
	require.Equal(t, "Gemini:\n"+NoReply+"\n\nOpenAI:\n"+NoReply+"\n\nPreferred:\n"+NoReply, out)
}

func TestMergeDeterministic(t *testing.T) {
	inputs := [][2]string{
		{`{"a":1}`, `{"b":2}`},
		{"SCRIPT: Hello", "VIDEO: World"},
		{"short", strings.Repeat("y", 40)},
		{"", ""},
	}
	for _, in := range inputs {
		first, _ := Merge(in[0], in[1])
		for i := 0; i < 10; i++ {
			again, _ := Merge(in[0], in[1])
			require.Equal(t, first, again)
		}
	}
}
