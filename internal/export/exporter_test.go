package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voxtext/internal/domain"
)

func singleSegmentResult() domain.TranscriptionResult {
	return domain.TranscriptionResult{
		Text:     " hello ",
		Language: "en",
		Segments: []domain.Segment{
			{ID: 0, Start: 0.0, End: 1.5, Text: " hello "},
		},
	}
}

// TestArtifactPath checks the shared <stem>_transcript.<ext> naming rule.
func TestArtifactPath(t *testing.T) {
	got := ArtifactPath("/out", "/media/meeting notes.mp4", domain.FormatSRT)
	want := filepath.Join("/out", "meeting notes_transcript.srt")
	if got != want {
		t.Fatalf("ArtifactPath() = %q, want %q", got, want)
	}
}

// TestArtifactPathPreservesStemWhitespace checks the stem is carried into
// the artifact name exactly, trailing whitespace included.
func TestArtifactPathPreservesStemWhitespace(t *testing.T) {
	got := ArtifactPath("/out", "/media/talk .mp4", domain.FormatText)
	want := filepath.Join("/out", "talk _transcript.txt")
	if got != want {
		t.Fatalf("ArtifactPath() = %q, want %q", got, want)
	}
}

// TestRenderTextIsVerbatim checks the plain text export is byte-for-byte.
func TestRenderTextIsVerbatim(t *testing.T) {
	content, err := Render(singleSegmentResult(), domain.CaptionStyle{}, domain.FormatText)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(content) != " hello " {
		t.Fatalf("text content = %q, want %q", content, " hello ")
	}
}

// TestRenderSRTSingleSegment checks the exact numbered-cue byte shape.
func TestRenderSRTSingleSegment(t *testing.T) {
	content, err := Render(singleSegmentResult(), domain.CaptionStyle{}, domain.FormatSRT)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "1\n00:00:00,000 --> 00:00:01,500\nhello\n\n"
	if string(content) != want {
		t.Fatalf("srt content = %q, want %q", content, want)
	}
}

// TestRenderVTTStylingDisabled checks no STYLE block leaks when disabled.
func TestRenderVTTStylingDisabled(t *testing.T) {
	style := domain.CaptionStyle{
		Enabled:     false,
		CueSettings: "line:85% align:center",
		CSS:         "::cue { color: yellow }",
	}

	content, err := Render(singleSegmentResult(), style, domain.FormatVTT)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "WEBVTT\n\n00:00:00.000 --> 00:00:01.500\nhello\n\n"
	if string(content) != want {
		t.Fatalf("vtt content = %q, want %q", content, want)
	}
}

// TestRenderVTTStylingEnabled checks STYLE block and cue settings suffix.
func TestRenderVTTStylingEnabled(t *testing.T) {
	style := domain.CaptionStyle{
		Enabled:     true,
		CueSettings: "line:85% align:center",
		CSS:         "::cue { color: yellow }",
	}

	content, err := Render(singleSegmentResult(), style, domain.FormatVTT)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "WEBVTT\n\nSTYLE\n::cue { color: yellow }\n\n" +
		"00:00:00.000 --> 00:00:01.500 line:85% align:center\nhello\n\n"
	if string(content) != want {
		t.Fatalf("vtt content = %q, want %q", content, want)
	}
}

// TestRenderVTTEmptyCueSettings checks the timing line stays bare.
func TestRenderVTTEmptyCueSettings(t *testing.T) {
	style := domain.CaptionStyle{Enabled: true, CueSettings: "  "}

	content, err := Render(singleSegmentResult(), style, domain.FormatVTT)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(string(content), "00:00:00.000 --> 00:00:01.500\n") {
		t.Fatalf("timing line should have no suffix, content = %q", content)
	}
	if strings.Contains(string(content), "STYLE") {
		t.Fatalf("empty css should emit no STYLE block, content = %q", content)
	}
}

// TestRenderHTMLWrapsTranscript checks the disclosure wrapper and footer.
func TestRenderHTMLWrapsTranscript(t *testing.T) {
	content, err := Render(singleSegmentResult(), domain.CaptionStyle{}, domain.FormatHTML)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	text := string(content)
	for _, fragment := range []string{"<details>", "<summary>", " hello ", "Transcribed with Voxtext"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("html missing %q, content = %q", fragment, text)
		}
	}
}

// TestRenderMarkdownWrapsTranscript checks heading and attribution footer.
func TestRenderMarkdownWrapsTranscript(t *testing.T) {
	content, err := Render(singleSegmentResult(), domain.CaptionStyle{}, domain.FormatMarkdown)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	text := string(content)
	if !strings.HasPrefix(text, "# Transcript\n") {
		t.Fatalf("markdown should start with heading, content = %q", text)
	}
	if !strings.Contains(text, "*Transcribed with Voxtext using OpenAI Whisper*") {
		t.Fatalf("markdown missing attribution, content = %q", text)
	}
}

// TestRenderJSONRoundTrip checks the structured export deserializes back
// to the original result with the full per-segment field set.
func TestRenderJSONRoundTrip(t *testing.T) {
	result := domain.TranscriptionResult{
		Text:     "héllo wörld",
		Language: "en",
		Segments: []domain.Segment{
			{ID: 0, Seek: 0, Start: 0, End: 1.5, Text: " héllo ", Tokens: []int{50364, 220}, AvgLogprob: -0.21, CompressionRatio: 1.1, NoSpeechProb: 0.02},
			{ID: 1, Seek: 150, Start: 1.5, End: 2.75, Text: " wörld ", Tokens: []int{42}, Temperature: 0.2},
		},
	}

	content, err := Render(result, domain.CaptionStyle{}, domain.FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(content), `\u`) {
		t.Fatalf("json should preserve non-ASCII, content = %q", content)
	}

	var decoded domain.TranscriptionResult
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Text != result.Text {
		t.Fatalf("text = %q, want %q", decoded.Text, result.Text)
	}
	if len(decoded.Segments) != len(result.Segments) {
		t.Fatalf("segments = %d, want %d", len(decoded.Segments), len(result.Segments))
	}
	for i, segment := range decoded.Segments {
		want := result.Segments[i]
		if segment.Start != want.Start || segment.End != want.End || segment.Text != want.Text {
			t.Fatalf("segment %d = %+v, want %+v", i, segment, want)
		}
		if segment.AvgLogprob != want.AvgLogprob || segment.NoSpeechProb != want.NoSpeechProb {
			t.Fatalf("segment %d extra fields = %+v, want %+v", i, segment, want)
		}
	}
}

// TestWriterExportWritesArtifact checks the write path and returned path.
func TestWriterExportWritesArtifact(t *testing.T) {
	var gotName string
	var gotData []byte
	writer := NewWriterForTests(func(name string, data []byte, perm os.FileMode) error {
		gotName = name
		gotData = data
		return nil
	})

	path, err := writer.Export(singleSegmentResult(), domain.CaptionStyle{}, domain.FormatText, "/out", "/media/talk.mov")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if path != filepath.Join("/out", "talk_transcript.txt") {
		t.Fatalf("path = %q", path)
	}
	if gotName != path {
		t.Fatalf("wrote to %q, want %q", gotName, path)
	}
	if string(gotData) != " hello " {
		t.Fatalf("data = %q", gotData)
	}
}

// TestWriterExportPropagatesWriteFailure checks I/O errors reach the caller.
func TestWriterExportPropagatesWriteFailure(t *testing.T) {
	diskFull := errors.New("disk full")
	writer := NewWriterForTests(func(name string, data []byte, perm os.FileMode) error {
		return diskFull
	})

	_, err := writer.Export(singleSegmentResult(), domain.CaptionStyle{}, domain.FormatSRT, "/out", "/media/talk.mov")
	if !errors.Is(err, diskFull) {
		t.Fatalf("error = %v, want wrapped disk full", err)
	}
}
