package jobs

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voxtext/internal/domain"
	"voxtext/internal/export"
	"voxtext/internal/metrics"
	"voxtext/internal/transcribe"
)

// Progress percentages for each phase boundary; the remaining 15 points are
// split evenly across the requested output formats.
const (
	progressLoadingModel  = 5
	progressModelLoaded   = 10
	progressTranscribing  = 20
	progressWritingOutput = 80
	progressExportBudget  = 15
)

// Controller owns the lifecycle of one transcription job at a time. The
// caller communicates with the worker goroutine only through published
// events (worker to caller) and the cancellation flag (caller to worker).
type Controller struct {
	provider transcribe.Provider
	writer   *export.Writer
	manager  *Manager
	bus      *EventBus
	metrics  *metrics.JobMetrics
	logger   zerolog.Logger
	onEvent  func(Event)

	mu        sync.Mutex
	activeID  string
	cancelled *atomic.Bool
	done      chan struct{}
}

// NewController wires the worker with its collaborators. onEvent may be nil;
// events are always retained in the bus either way.
func NewController(
	provider transcribe.Provider,
	writer *export.Writer,
	bus *EventBus,
	jobMetrics *metrics.JobMetrics,
	logger zerolog.Logger,
	onEvent func(Event),
) *Controller {
	return &Controller{
		provider: provider,
		writer:   writer,
		manager:  NewManager(),
		bus:      bus,
		metrics:  jobMetrics,
		logger:   logger,
		onEvent:  onEvent,
	}
}

// Start launches one job on a dedicated goroutine. Starting while another
// job is active returns ErrJobAlreadyRunning.
func (c *Controller) Start(req domain.Request) (domain.Job, error) {
	jobID := uuid.New().String()
	if err := c.manager.Start(jobID); err != nil {
		return domain.Job{}, err
	}

	cancelled := &atomic.Bool{}
	done := make(chan struct{})
	c.mu.Lock()
	c.activeID = jobID
	c.cancelled = cancelled
	c.done = done
	c.mu.Unlock()

	c.metrics.JobsStarted.Inc()
	c.logger.Info().Str("jobId", jobID).Str("input", req.InputPath).Msg("job started")

	go c.run(jobID, req, cancelled, done)
	return c.manager.Current(), nil
}

// Cancel sets the cancellation flag for the active job. The flag is
// write-once-effective: once set it stays set for that job instance, and
// the worker observes it at the next phase boundary or pre-write check. A
// blocking inference call already in flight is not interrupted.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	cancelled := c.cancelled
	c.mu.Unlock()

	if cancelled == nil || !c.manager.IsRunning() {
		return ErrNoRunningJob
	}
	cancelled.Store(true)
	return nil
}

// Wait blocks until the active job's worker goroutine has finished.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Current returns current job metadata and status.
func (c *Controller) Current() domain.Job {
	return c.manager.Current()
}

// Events returns all events with sequence greater than sinceSeq.
func (c *Controller) Events(sinceSeq int64) []Event {
	return c.bus.Since(sinceSeq)
}

// run executes one job to completion, cancellation, or failure.
func (c *Controller) run(jobID string, req domain.Request, cancelled *atomic.Bool, done chan struct{}) {
	defer close(done)
	defer c.clearActiveJob(jobID)

	if c.checkCancelled(jobID, cancelled) {
		return
	}

	c.progress(jobID, "Loading "+string(req.Model)+" model (first time downloads)...", progressLoadingModel)
	engine, err := c.provider.Load(context.Background(), req.Model)
	if err != nil {
		// A cancellation requested while the call was in flight wins over
		// the error: the job ends silently, not with a failed event.
		if c.checkCancelled(jobID, cancelled) {
			return
		}
		c.fail(jobID, err)
		return
	}

	if c.checkCancelled(jobID, cancelled) {
		return
	}
	c.progress(jobID, "Model loaded successfully.", progressModelLoaded)

	_ = c.manager.Transition(domain.JobStatusTranscribing)
	c.progress(jobID, "Transcribing audio... This may take several minutes.", progressTranscribing)
	result, err := engine.Transcribe(context.Background(), req.InputPath)
	if err != nil {
		if c.checkCancelled(jobID, cancelled) {
			return
		}
		c.fail(jobID, err)
		return
	}

	if c.checkCancelled(jobID, cancelled) {
		return
	}

	_ = c.manager.Transition(domain.JobStatusWritingOutputs)
	c.progress(jobID, "Transcription complete. Writing output files...", progressWritingOutput)

	requested := make(map[domain.OutputFormat]struct{}, len(req.Formats))
	for _, format := range req.Formats {
		requested[format] = struct{}{}
	}

	// Outputs are written sequentially in canonical order, not request
	// order, so per-format progress increments stay observable and ordered.
	step := float64(progressExportBudget) / float64(len(req.Formats))
	current := float64(progressWritingOutput)
	artifacts := make([]string, 0, len(req.Formats))
	for _, format := range domain.CanonicalFormatOrder {
		if _, ok := requested[format]; !ok {
			continue
		}
		if c.checkCancelled(jobID, cancelled) {
			return
		}

		path, err := c.writer.Export(result, req.Style, format, req.OutputDir, req.InputPath)
		if err != nil {
			if c.checkCancelled(jobID, cancelled) {
				return
			}
			c.fail(jobID, err)
			return
		}
		artifacts = append(artifacts, path)
		current += step
		c.progress(jobID, "Created "+filepath.Base(path), int(current))
	}

	if c.checkCancelled(jobID, cancelled) {
		return
	}

	_ = c.manager.Transition(domain.JobStatusDone)
	c.metrics.JobsCompleted.Inc()
	c.logger.Info().Str("jobId", jobID).Int("artifacts", len(artifacts)).Msg("job completed")
	c.publish(Event{
		JobID:     jobID,
		Type:      EventTypeCompleted,
		Status:    domain.JobStatusDone,
		Message:   "Transcription complete",
		Percent:   100,
		Artifacts: artifacts,
	})
}

// checkCancelled observes the cancellation flag at a phase boundary. A
// positive check silences the job: no further events are published, and the
// absence of a terminal event is how the caller distinguishes cancellation
// from failure.
func (c *Controller) checkCancelled(jobID string, cancelled *atomic.Bool) bool {
	if !cancelled.Load() {
		return false
	}

	_ = c.manager.Cancel()
	c.metrics.JobsCancelled.Inc()
	c.logger.Info().Str("jobId", jobID).Msg("job cancelled")
	return true
}

// fail converts any job failure into exactly one failed event.
func (c *Controller) fail(jobID string, err error) {
	_ = c.manager.Transition(domain.JobStatusFailed)
	c.metrics.JobsFailed.Inc()
	c.logger.Error().Str("jobId", jobID).Err(err).Msg("job failed")
	c.publish(Event{
		JobID:   jobID,
		Type:    EventTypeFailed,
		Status:  domain.JobStatusFailed,
		Message: err.Error(),
	})
}

// progress publishes one progress event and mirrors it on the gauge.
func (c *Controller) progress(jobID, message string, percent int) {
	c.metrics.Progress.Set(float64(percent))
	c.publish(Event{
		JobID:   jobID,
		Type:    EventTypeProgress,
		Status:  c.manager.Current().Status,
		Message: message,
		Percent: percent,
	})
}

// publish stores event history and forwards to the caller's callback.
func (c *Controller) publish(event Event) {
	published := c.bus.Publish(event)
	if c.onEvent != nil {
		c.onEvent(published)
	}
}

// clearActiveJob clears cancellation handles for completed job IDs.
func (c *Controller) clearActiveJob(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeID == jobID {
		c.activeID = ""
		c.cancelled = nil
	}
}
