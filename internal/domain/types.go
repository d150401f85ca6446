package domain

// JobStatus tracks each phase of a single transcription job.
type JobStatus string

const (
	JobStatusIdle           JobStatus = "idle"
	JobStatusLoadingModel   JobStatus = "loading_model"
	JobStatusTranscribing   JobStatus = "transcribing"
	JobStatusWritingOutputs JobStatus = "writing_outputs"
	JobStatusDone           JobStatus = "done"
	JobStatusFailed         JobStatus = "failed"
	JobStatusCancelled      JobStatus = "cancelled"
)

// Settings contains user-selectable runtime configuration.
type Settings struct {
	ModelDir     string       `json:"modelDir"`
	OutputDir    string       `json:"outputDir"`
	Model        string       `json:"model"`
	Formats      []string     `json:"formats"`
	CaptionStyle CaptionStyle `json:"captionStyle"`
}

// Job stores the current job identity and lifecycle status.
type Job struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
}

// CaptionStyle configures optional WebVTT cue styling. When Enabled is
// false exporters ignore the remaining fields entirely.
type CaptionStyle struct {
	Enabled     bool   `json:"enabled"`
	CueSettings string `json:"cueSettings"`
	CSS         string `json:"css"`
}

// Segment is one time-bounded span of transcript text. It carries the full
// field set the whisper inference reports, not just the timing triple, so
// the structured export can serialize the complete raw result.
type Segment struct {
	ID               int     `json:"id"`
	Seek             int     `json:"seek"`
	Start            float64 `json:"start"`
	End              float64 `json:"end"`
	Text             string  `json:"text"`
	Tokens           []int   `json:"tokens,omitempty"`
	Temperature      float64 `json:"temperature"`
	AvgLogprob       float64 `json:"avg_logprob"`
	CompressionRatio float64 `json:"compression_ratio"`
	NoSpeechProb     float64 `json:"no_speech_prob"`
}

// TranscriptionResult is the single inference output consumed by all
// exporters. Segments are ordered by non-decreasing start time and each
// segment's end time is >= its start time.
type TranscriptionResult struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Request describes one transcription job. It is copied into the worker at
// job start and never mutated afterward by either side.
type Request struct {
	InputPath string
	Model     ModelTier
	Formats   []OutputFormat
	OutputDir string
	Style     CaptionStyle
}
