// Package export produces transcript artifacts from one inference result.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voxtext/internal/domain"
)

// Writer renders and writes transcript artifacts for one job.
type Writer struct {
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// NewWriter constructs the production writer with OS dependencies.
func NewWriter() *Writer {
	return &Writer{writeFile: os.WriteFile}
}

// NewWriterForTests constructs a writer with an injectable file write.
func NewWriterForTests(writeFile func(name string, data []byte, perm os.FileMode) error) *Writer {
	return &Writer{writeFile: writeFile}
}

// ArtifactPath returns the destination path for one format:
// <source-file-stem>_transcript.<format-extension> inside destDir.
func ArtifactPath(destDir, inputPath string, format domain.OutputFormat) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "transcript"
	}
	return filepath.Join(destDir, stem+"_transcript."+format.Extension())
}

// Export renders one format and writes it as UTF-8, returning the artifact
// path. A filesystem write failure propagates to the caller unchanged in
// meaning; no partial cleanup is attempted.
func (w *Writer) Export(result domain.TranscriptionResult, style domain.CaptionStyle, format domain.OutputFormat, destDir, inputPath string) (string, error) {
	content, err := Render(result, style, format)
	if err != nil {
		return "", err
	}

	path := ArtifactPath(destDir, inputPath, format)
	if err := w.writeFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s artifact: %w", format, err)
	}
	return path, nil
}

// Render produces the exact byte content for one output format.
func Render(result domain.TranscriptionResult, style domain.CaptionStyle, format domain.OutputFormat) ([]byte, error) {
	switch format {
	case domain.FormatText:
		return []byte(result.Text), nil
	case domain.FormatSRT:
		return renderSRT(result), nil
	case domain.FormatVTT:
		return renderVTT(result, style), nil
	case domain.FormatHTML:
		return renderHTML(result), nil
	case domain.FormatMarkdown:
		return renderMarkdown(result), nil
	case domain.FormatJSON:
		return renderJSON(result)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
