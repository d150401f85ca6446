package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"voxtext/internal/domain"
	"voxtext/internal/format"
)

// renderSRT emits numbered cues with comma-separated millisecond timestamps.
func renderSRT(result domain.TranscriptionResult) []byte {
	var b strings.Builder
	for i, segment := range result.Segments {
		start := format.Timestamp(segment.Start, format.SeparatorComma)
		end := format.Timestamp(segment.End, format.SeparatorComma)
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", start, end)
		b.WriteString(strings.TrimSpace(segment.Text))
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}

// renderVTT emits a WEBVTT file, optionally with a STYLE block and per-cue
// settings when caption styling is enabled.
func renderVTT(result domain.TranscriptionResult, style domain.CaptionStyle) []byte {
	var b strings.Builder
	b.WriteString("WEBVTT\n")

	if style.Enabled {
		if css := strings.TrimSpace(style.CSS); css != "" {
			b.WriteString("\nSTYLE\n")
			b.WriteString(css)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	cueSettings := ""
	if style.Enabled {
		if settings := strings.TrimSpace(style.CueSettings); settings != "" {
			cueSettings = " " + settings
		}
	}

	for _, segment := range result.Segments {
		start := format.Timestamp(segment.Start, format.SeparatorPeriod)
		end := format.Timestamp(segment.End, format.SeparatorPeriod)
		fmt.Fprintf(&b, "%s --> %s%s\n", start, end, cueSettings)
		b.WriteString(strings.TrimSpace(segment.Text))
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}

// renderHTML wraps the full transcript in a collapsible disclosure element.
func renderHTML(result domain.TranscriptionResult) []byte {
	content := fmt.Sprintf(`<h3>Full Transcript</h3>
<details>
<summary>Click to expand transcript</summary>

%s

</details>

<p><em>Transcribed with Voxtext using OpenAI Whisper</em></p>`, result.Text)
	return []byte(content)
}

// renderMarkdown wraps the full transcript under a heading with a footer.
func renderMarkdown(result domain.TranscriptionResult) []byte {
	content := fmt.Sprintf(`# Transcript

%s

---

*Transcribed with Voxtext using OpenAI Whisper*
`, result.Text)
	return []byte(content)
}

// renderJSON serializes the complete raw inference result as indented text
// with non-ASCII characters preserved.
func renderJSON(result domain.TranscriptionResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("encode transcription result: %w", err)
	}
	return buf.Bytes(), nil
}
