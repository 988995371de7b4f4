package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// Ensure UploadSimulator implements the interface.
var _ driving.UploadDriver = (*UploadSimulator)(nil)

// UploadSimulatorConfig controls simulated upload timing.
type UploadSimulatorConfig struct {
	// Steps is the number of equal progress increments while uploading.
	Steps int

	// StepInterval is the delay before each increment.
	StepInterval time.Duration

	// ProcessingDelay is the time spent in processing before ready.
	ProcessingDelay time.Duration
}

// DefaultUploadSimulatorConfig returns 10 steps of 300ms and 2s of processing.
func DefaultUploadSimulatorConfig() UploadSimulatorConfig {
	return UploadSimulatorConfig{
		Steps:           domain.DefaultUploadSteps,
		StepInterval:    domain.DefaultStepInterval,
		ProcessingDelay: domain.DefaultProcessingDelay,
	}
}

// UploadSimulatorConfigFrom converts upload settings, keeping defaults for
// values that are not positive.
func UploadSimulatorConfigFrom(s domain.UploadSettings) UploadSimulatorConfig {
	cfg := DefaultUploadSimulatorConfig()
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	if s.StepInterval > 0 {
		cfg.StepInterval = s.StepInterval
	}
	if s.ProcessingDelay > 0 {
		cfg.ProcessingDelay = s.ProcessingDelay
	}
	return cfg
}

// UploadSimulator drives documents through their lifecycle on timers,
// standing in for a real upload and indexing backend.
type UploadSimulator struct {
	store  driving.DocumentStore
	config UploadSimulatorConfig
	log    logger.Logger
}

// NewUploadSimulator creates a simulator writing to store.
// Steps is clamped to 1..domain.ProgressMax.
func NewUploadSimulator(store driving.DocumentStore, config UploadSimulatorConfig) *UploadSimulator {
	config.Steps = min(max(config.Steps, 1), domain.ProgressMax)
	return &UploadSimulator{
		store:  store,
		config: config,
		log:    logger.For("upload"),
	}
}

// Drive starts a simulated run for doc. The file content is not used.
func (s *UploadSimulator) Drive(ctx context.Context, doc domain.Document, _ domain.UploadFile) driving.ProgressStream {
	run := &simulatedRun{
		store:   s.store,
		log:     s.log,
		fsm:     newUploadFSM(doc, s.config),
		updates: make(chan domain.Document, s.config.Steps+1),
	}

	run.mu.Lock()
	run.stopWatch = context.AfterFunc(ctx, run.Cancel)
	run.schedule(s.config.StepInterval)
	run.mu.Unlock()

	// Cancel may have lost the lock to the block above.
	if run.cancelled.Load() {
		run.mu.Lock()
		run.stopLocked()
		run.mu.Unlock()
	}

	s.log.Debug("started %s (%d steps)", doc.ID, s.config.Steps)
	return run
}

// uploadFSM is the simulated lifecycle: Uploading with rising progress,
// then Processing at 100, then Ready at 100.
type uploadFSM struct {
	config UploadSimulatorConfig
	doc    domain.Document
	step   int
}

func newUploadFSM(doc domain.Document, config UploadSimulatorConfig) *uploadFSM {
	return &uploadFSM{
		config: config,
		doc:    doc.WithProgress(domain.StatusUploading, 0),
	}
}

// advance performs one transition. It returns the new state, the delay until
// the next transition and whether the machine has reached its terminal state.
func (m *uploadFSM) advance() (domain.Document, time.Duration, bool) {
	switch m.doc.Status {
	case domain.StatusUploading:
		m.step++
		if m.step < m.config.Steps {
			progress := m.step * domain.ProgressMax / m.config.Steps
			m.doc = m.doc.WithProgress(domain.StatusUploading, progress)
			return m.doc, m.config.StepInterval, false
		}
		m.doc = m.doc.WithProgress(domain.StatusProcessing, domain.ProgressMax)
		return m.doc, m.config.ProcessingDelay, false
	case domain.StatusProcessing:
		m.doc = m.doc.WithProgress(domain.StatusReady, domain.ProgressMax)
		return m.doc, 0, true
	default:
		return m.doc, 0, true
	}
}

// state returns the current document.
func (m *uploadFSM) state() domain.Document {
	return m.doc
}

// simulatedRun executes one uploadFSM. mu guards every transition so that
// once Cancel returns no new transition starts. Cancel may be called from a
// store subscriber while a transition is being written; that transition
// completes and then ends the run.
type simulatedRun struct {
	store driving.DocumentStore
	log   logger.Logger

	cancelled atomic.Bool

	mu        sync.Mutex
	fsm       *uploadFSM
	timer     *time.Timer
	finished  bool
	updates   chan domain.Document
	stopWatch func() bool
}

// schedule arms the next transition. Caller must hold r.mu.
func (r *simulatedRun) schedule(d time.Duration) {
	r.timer = time.AfterFunc(d, r.step)
}

func (r *simulatedRun) step() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return
	}
	if r.cancelled.Load() {
		r.stopLocked()
		return
	}

	doc, next, done := r.fsm.advance()
	r.store.Update(doc)
	if r.cancelled.Load() {
		// Cancelled by a subscriber of this very write.
		r.stopLocked()
		return
	}
	r.updates <- doc
	r.log.Debug("%s %s %d%%", doc.ID, doc.Status, doc.ProcessingProgress)

	if done {
		r.finishLocked()
		return
	}
	r.schedule(next)
	if r.cancelled.Load() {
		r.stopLocked()
	}
}

// Updates returns the per-run progress feed.
func (r *simulatedRun) Updates() <-chan domain.Document {
	return r.updates
}

// Cancel stops the run. The document keeps whatever state it had.
func (r *simulatedRun) Cancel() {
	if !r.cancelled.CompareAndSwap(false, true) {
		return
	}
	if !r.mu.TryLock() {
		// A transition or Drive holds the lock and ends the run on release.
		return
	}
	defer r.mu.Unlock()
	r.stopLocked()
}

// stopLocked ends a cancelled run. Caller must hold r.mu.
func (r *simulatedRun) stopLocked() {
	if r.finished {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.log.Debug("cancelled %s at %s", r.fsm.state().ID, r.fsm.state().Status)
	r.finishLocked()
}

// finishLocked closes the feed exactly once. Caller must hold r.mu.
func (r *simulatedRun) finishLocked() {
	r.finished = true
	close(r.updates)
	if r.stopWatch != nil {
		r.stopWatch()
	}
}
