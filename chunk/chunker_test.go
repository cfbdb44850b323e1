package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences_Basic(t *testing.T) {
	spans := splitSentences("First sentence. Second sentence! Third one? Fourth.")
	require.Len(t, spans, 4)
	assert.Equal(t, "First sentence.", spans[0].text)
	assert.Equal(t, "Second sentence!", spans[1].text)
	assert.Equal(t, "Third one?", spans[2].text)
	assert.Equal(t, "Fourth.", spans[3].text)
}

func TestSplitSentences_NoBoundaryOnAbbreviation(t *testing.T) {
	// A period followed by whitespace and a lowercase word is not a
	// sentence boundary.
	spans := splitSentences("e.g. this stays one sentence.")
	require.Len(t, spans, 1)
}

func TestSplitSentences_OffsetsPointIntoOriginalText(t *testing.T) {
	text := "One. Two."
	spans := splitSentences(text)
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Equal(t, s.text, text[s.start:s.end])
	}
}

func TestWindowText_UnderSizeIsSingleWindow(t *testing.T) {
	text := "A short section. Nothing to split here."
	windows := windowText(text, 512, 50)
	require.Len(t, windows, 1)
	assert.Equal(t, text, windows[0].text)
}

func TestWindowText_NeverCutsMidSentence(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("This is sentence number filler that pads out the section. ")
	}
	text := sb.String()

	windows := windowText(text, 100, 20)
	require.Greater(t, len(windows), 1)

	for _, w := range windows {
		trimmed := strings.TrimSpace(w.text)
		require.NotEmpty(t, trimmed)
		assert.Truef(t, strings.HasSuffix(trimmed, "."), "window does not end on a sentence boundary: %q", trimmed)
		first := rune(trimmed[0])
		assert.Truef(t, first == 'T' || first == 't', "window does not start on a sentence: %q", trimmed)
	}
}

func TestWindowText_ConsecutiveWindowsShareTrailingContext(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("Sentence content padding this out further today. ")
	}
	text := sb.String()

	windows := windowText(text, 100, 20)
	require.Greater(t, len(windows), 1)

	firstSentences := splitSentences(windows[0].text)
	secondSentences := splitSentences(windows[1].text)
	require.NotEmpty(t, firstSentences)
	require.NotEmpty(t, secondSentences)
	assert.Equal(t, firstSentences[len(firstSentences)-1].text, secondSentences[0].text)
}

func TestWindowText_EmptyTextProducesNoWindows(t *testing.T) {
	assert.Nil(t, windowText("   ", 512, 50))
}
