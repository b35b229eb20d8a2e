// Package capture grabs still images from connected displays and locates
// the focused window.
//
// The compositor is driven through its command-line surface (hyprctl for
// enumeration and window queries, grim for grabs), the same way the rest
// of the system integrates with the host: one short-lived command per
// question, killed with the context.
//
// Display indices are 1-based and follow enumeration order; the same
// order is used for the vision prompt, so "display 2" means the same
// thing everywhere.
package capture

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Sentinel errors for capture preconditions.
var (
	// ErrNoDisplays means display enumeration returned nothing.
	ErrNoDisplays = errors.New("no displays found")

	// ErrCaptureFailedAllDisplays means every per-display grab failed.
	// Partial failures are tolerated and not reported through this error.
	ErrCaptureFailedAllDisplays = errors.New("screen capture failed on all displays")

	// ErrWindowNotOnAnyDisplay means the frontmost window's corner and
	// center both fell outside every display frame.
	ErrWindowNotOnAnyDisplay = errors.New("frontmost window not on any display")
)

// PermissionError reports that a host capability was unavailable, and
// whether that is because the host doesn't support it or because access
// was not granted. The hint tells the user what to do about it.
type PermissionError struct {
	Op           string
	Hint         string
	NotSupported bool
	Err          error
}

func (e *PermissionError) Error() string {
	kind := "permission not granted"
	if e.NotSupported {
		kind = "not supported on this host"
	}
	return fmt.Sprintf("%s: %s (%s)", e.Op, kind, e.Hint)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// MaxImageDimension is the longest-side cap applied to captured images
// before they leave this package, bounding the classification payload.
const MaxImageDimension = 1280

// Subsystem captures displays and window focus state.
type Subsystem struct {
	log    *zap.Logger
	maxDim int
}

// New creates a capture subsystem with the default downscale cap.
func New(log *zap.Logger) *Subsystem {
	return &Subsystem{log: log, maxDim: MaxImageDimension}
}
