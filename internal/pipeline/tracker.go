package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/capture"
	"github.com/zeittracker/zeit/internal/gate"
)

// ScreenSource is the capture surface the tracker depends on.
type ScreenSource interface {
	CaptureAllDisplays(ctx context.Context) (map[int][]byte, error)
	ActiveDisplayIndex(ctx context.Context) (int, error)
	FrontmostAppName(ctx context.Context) string
	IdleTime(ctx context.Context) (time.Duration, error)
}

// EntryClassifier turns a capture into a classified entry.
type EntryClassifier interface {
	Classify(ctx context.Context, in Input) (*activity.ActivityEntry, error)
}

// EntryStore persists classified entries under their day key.
type EntryStore interface {
	AppendEntry(date string, entry activity.ActivityEntry) error
}

// Outcome reports what one iteration did.
type Outcome struct {
	State   gate.State
	Skipped bool
	Reason  string
	Entry   *activity.ActivityEntry
}

// Tracker runs one tracking iteration: gate, idle check, capture,
// classification, persistence. Stages are strictly sequential.
type Tracker struct {
	screens       ScreenSource
	classifier    EntryClassifier
	store         EntryStore
	workHours     gate.WorkHours
	pause         gate.PauseFlag
	idleThreshold time.Duration
	log           *zap.Logger
}

// New assembles a tracker.
func New(screens ScreenSource, classifier EntryClassifier, store EntryStore,
	workHours gate.WorkHours, pause gate.PauseFlag, idleThreshold time.Duration,
	log *zap.Logger) *Tracker {
	return &Tracker{
		screens:       screens,
		classifier:    classifier,
		store:         store,
		workHours:     workHours,
		pause:         pause,
		idleThreshold: idleThreshold,
		log:           log,
	}
}

// RunOnce executes a single iteration at the given time. Gating and idle
// are read-only snapshots taken here; they are not re-checked mid-pipeline.
// A failed iteration stores nothing, the next scheduled run proceeds
// independently.
func (t *Tracker) RunOnce(ctx context.Context, now time.Time) (*Outcome, error) {
	log := t.log.With(zap.String("iteration_id", uuid.NewString()))

	decision := gate.Evaluate(now, t.workHours, t.pause.Paused())
	if !decision.Permits() {
		log.Info("iteration skipped",
			zap.String("state", string(decision.State)),
			zap.String("reason", decision.Message))
		return &Outcome{State: decision.State, Skipped: true, Reason: decision.Message}, nil
	}

	// Idle is evaluated only after gating passes. The probe failing is not
	// a reason to drop a sample, so it fails open.
	idle, err := t.screens.IdleTime(ctx)
	if err != nil {
		log.Warn("idle probe failed, continuing", zap.Error(err))
	} else if idle >= t.idleThreshold {
		entry := activity.IdleEntry(now)
		if err := t.store.AppendEntry(entry.Date(), entry); err != nil {
			return nil, fmt.Errorf("failed to store idle marker: %w", err)
		}
		log.Info("machine idle, recorded idle marker", zap.Duration("idle", idle))
		return &Outcome{State: decision.State, Skipped: true, Reason: "idle", Entry: &entry}, nil
	}

	screens, err := t.screens.CaptureAllDisplays(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture failed: %w", err)
	}
	log.Info("captured screens", zap.Int("count", len(screens)))

	activeDisplay := 0
	if len(screens) > 1 {
		activeDisplay, err = t.screens.ActiveDisplayIndex(ctx)
		if err != nil {
			var permErr *capture.PermissionError
			if errors.As(err, &permErr) {
				// Without the automation permission every future iteration
				// would fail the same way; surface the hint instead of
				// classifying blind.
				return nil, fmt.Errorf("active display detection: %w", err)
			}
			// The window straddling no display is transient; classify with
			// the visual-cue fallback prompt.
			log.Warn("active display unknown, falling back to visual cues", zap.Error(err))
			activeDisplay = 0
		}
	} else {
		activeDisplay = 1
	}

	entry, err := t.classifier.Classify(ctx, Input{
		Screens:       screens,
		ActiveDisplay: activeDisplay,
		FrontmostApp:  t.screens.FrontmostAppName(ctx),
		Now:           now,
	})
	if err != nil {
		return nil, err
	}

	if err := t.store.AppendEntry(entry.Date(), *entry); err != nil {
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}
	log.Info("entry stored",
		zap.String("activity", entry.Activity.String()),
		zap.String("date", entry.Date()))
	return &Outcome{State: decision.State, Entry: entry}, nil
}
