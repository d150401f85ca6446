package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"voxtext/internal/domain"
)

// transcriptionLanguage is the fixed inference language; the engine always
// transcribes (never translates).
const transcriptionLanguage = "en"

const ffmpegInstallHint = "ffmpeg not found. Whisper needs FFmpeg to decode audio/video files: " +
	"install it with `brew install ffmpeg` (macOS), `sudo apt install ffmpeg` (Linux), " +
	"or download it from ffmpeg.org (Windows)"

const whisperInstallHint = "whisper.cpp not found. Install it with `brew install whisper-cpp` " +
	"or from github.com/ggml-org/whisper.cpp and ensure the binary is on PATH"

// WhisperEngine shells out to ffmpeg and whisper.cpp for one loaded model.
type WhisperEngine struct {
	modelPath   string
	ffmpegPath  string
	whisperPath string
	runner      commandRunner
	mkdirTemp   func(dir, pattern string) (string, error)
	removeAll   func(path string) error
	stat        func(name string) (os.FileInfo, error)
	readFile    func(name string) ([]byte, error)
}

// NewWhisperEngine constructs the production engine with OS dependencies.
func NewWhisperEngine(modelPath string) *WhisperEngine {
	return &WhisperEngine{
		modelPath:   modelPath,
		ffmpegPath:  "ffmpeg",
		whisperPath: "whisper.cpp",
		runner:      &execRunner{},
		mkdirTemp:   os.MkdirTemp,
		removeAll:   os.RemoveAll,
		stat:        os.Stat,
		readFile:    os.ReadFile,
	}
}

// NewWhisperEngineForTests constructs an engine with injectable dependencies.
func NewWhisperEngineForTests(
	modelPath string,
	ffmpegPath string,
	whisperPath string,
	runner commandRunner,
) *WhisperEngine {
	return &WhisperEngine{
		modelPath:   modelPath,
		ffmpegPath:  ffmpegPath,
		whisperPath: whisperPath,
		runner:      runner,
		mkdirTemp:   os.MkdirTemp,
		removeAll:   os.RemoveAll,
		stat:        os.Stat,
		readFile:    os.ReadFile,
	}
}

// Transcribe converts the input media to 16 kHz mono WAV, runs whisper.cpp
// with JSON output, and parses the result into segment values.
func (e *WhisperEngine) Transcribe(ctx context.Context, inputPath string) (domain.TranscriptionResult, error) {
	if strings.TrimSpace(inputPath) == "" {
		return domain.TranscriptionResult{}, &EngineError{
			Stage:   "preprocessing",
			Message: "input media path is required",
		}
	}
	if _, err := e.stat(inputPath); err != nil {
		return domain.TranscriptionResult{}, &EngineError{
			Stage:   "preprocessing",
			Message: fmt.Sprintf("cannot access input media: %s", inputPath),
			Err:     err,
		}
	}

	tempDir, err := e.mkdirTemp("", "voxtext-*")
	if err != nil {
		return domain.TranscriptionResult{}, &EngineError{
			Stage:   "preprocessing",
			Message: "failed to create temporary workspace",
			Err:     err,
		}
	}
	defer func() { _ = e.removeAll(tempDir) }()

	wavPath := filepath.Join(tempDir, "preprocessed-16k-mono.wav")
	ffmpegArgs := buildFFmpegArgs(inputPath, wavPath)
	ffmpegResult, runErr := e.runner.Run(ctx, e.ffmpegPath, ffmpegArgs...)
	if runErr != nil {
		message := "ffmpeg audio conversion failed"
		if errors.Is(runErr, exec.ErrNotFound) {
			message = ffmpegInstallHint
		}
		return domain.TranscriptionResult{}, &EngineError{
			Stage:      "preprocessing",
			Message:    message,
			CommandLog: commandLog(e.ffmpegPath, ffmpegArgs, ffmpegResult),
			Err:        runErr,
		}
	}

	outBase := filepath.Join(tempDir, "transcript")
	whisperArgs := buildWhisperArgs(e.modelPath, wavPath, outBase)
	whisperResult, runErr := e.runner.Run(ctx, e.whisperPath, whisperArgs...)
	if runErr != nil {
		message := "whisper.cpp transcription failed"
		if errors.Is(runErr, exec.ErrNotFound) {
			message = whisperInstallHint
		}
		return domain.TranscriptionResult{}, &EngineError{
			Stage:      "transcribing",
			Message:    message,
			CommandLog: commandLog(e.whisperPath, whisperArgs, whisperResult),
			Err:        runErr,
		}
	}

	rawJSON, err := e.readFile(outBase + ".json")
	if err != nil {
		return domain.TranscriptionResult{}, &EngineError{
			Stage:      "transcribing",
			Message:    "whisper.cpp completed but JSON output is missing",
			CommandLog: commandLog(e.whisperPath, whisperArgs, whisperResult),
			Err:        err,
		}
	}

	result, err := parseWhisperOutput(rawJSON)
	if err != nil {
		return domain.TranscriptionResult{}, &EngineError{
			Stage:   "transcribing",
			Message: "cannot parse whisper.cpp JSON output",
			Err:     err,
		}
	}
	return result, nil
}

// whisperOutput mirrors the whisper.cpp -oj file layout.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text   string `json:"text"`
		Tokens []struct {
			ID int     `json:"id"`
			P  float64 `json:"p"`
		} `json:"tokens"`
	} `json:"transcription"`
}

// parseWhisperOutput converts whisper.cpp millisecond offsets into the
// fractional-second segment model the exporters consume.
func parseWhisperOutput(raw []byte) (domain.TranscriptionResult, error) {
	var out whisperOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.TranscriptionResult{}, err
	}

	result := domain.TranscriptionResult{
		Language: out.Result.Language,
		Segments: make([]domain.Segment, 0, len(out.Transcription)),
	}

	var text strings.Builder
	for i, entry := range out.Transcription {
		segment := domain.Segment{
			ID:    i,
			Start: float64(entry.Offsets.From) / 1000,
			End:   float64(entry.Offsets.To) / 1000,
			Text:  entry.Text,
		}
		for _, token := range entry.Tokens {
			segment.Tokens = append(segment.Tokens, token.ID)
		}
		result.Segments = append(result.Segments, segment)
		text.WriteString(entry.Text)
	}
	result.Text = text.String()
	return result, nil
}

// commandLog builds a serializable record of one command invocation.
func commandLog(name string, args []string, result commandResult) CommandLog {
	return CommandLog{
		Command:  name,
		Args:     args,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
}

// buildFFmpegArgs builds preprocessing CLI args for mono 16k PCM WAV output.
func buildFFmpegArgs(inputPath, outPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	}
}

// buildWhisperArgs builds whisper.cpp args for JSON transcript output.
// The task is always transcription; -tr (translate) is never passed.
func buildWhisperArgs(modelPath, audioPath, outBase string) []string {
	return []string{
		"-m", modelPath,
		"-f", audioPath,
		"-of", outBase,
		"-oj",
		"-l", transcriptionLanguage,
	}
}
