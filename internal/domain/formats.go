package domain

import (
	"fmt"
	"strings"
)

// OutputFormat identifies one transcript artifact format.
type OutputFormat string

const (
	FormatText     OutputFormat = "txt"
	FormatSRT      OutputFormat = "srt"
	FormatVTT      OutputFormat = "vtt"
	FormatHTML     OutputFormat = "html"
	FormatMarkdown OutputFormat = "md"
	FormatJSON     OutputFormat = "json"
)

// CanonicalFormatOrder is the fixed order outputs are written in,
// independent of the order formats were requested in.
var CanonicalFormatOrder = []OutputFormat{
	FormatText,
	FormatSRT,
	FormatVTT,
	FormatHTML,
	FormatMarkdown,
	FormatJSON,
}

// Extension returns the artifact file extension without the leading dot.
func (f OutputFormat) Extension() string {
	return string(f)
}

// ParseFormats validates format names and returns a de-duplicated set.
// At least one format is required.
func ParseFormats(names []string) ([]OutputFormat, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one output format is required")
	}

	seen := make(map[OutputFormat]struct{}, len(names))
	out := make([]OutputFormat, 0, len(names))
	for _, name := range names {
		format := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
		if !isSupportedFormat(format) {
			return nil, fmt.Errorf("unsupported output format: %s", name)
		}
		if _, ok := seen[format]; ok {
			continue
		}
		seen[format] = struct{}{}
		out = append(out, format)
	}
	return out, nil
}

// isSupportedFormat reports whether format is one of the known outputs.
func isSupportedFormat(format OutputFormat) bool {
	for _, known := range CanonicalFormatOrder {
		if format == known {
			return true
		}
	}
	return false
}
