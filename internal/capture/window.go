package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// frontWindow is the focused window as reported by hyprctl activewindow -j.
type frontWindow struct {
	At    [2]int `json:"at"`   // top-left corner in layout coordinates
	Size  [2]int `json:"size"` // width, height
	Class string `json:"class"`
	Title string `json:"title"`
}

// point is a position in display-frame space.
type point struct {
	x, y int
}

// ActiveDisplayIndex returns the 1-based index of the display holding the
// focused window. Single-display systems short-circuit to 1 without the
// window query. The window's top-left corner is tested first, then its
// geometric center; the first display frame containing either wins.
func (s *Subsystem) ActiveDisplayIndex(ctx context.Context) (int, error) {
	displays, err := s.enumerateDisplays(ctx)
	if err != nil {
		return 0, err
	}
	if len(displays) == 0 {
		return 0, ErrNoDisplays
	}
	if len(displays) == 1 {
		return 1, nil
	}

	win, err := s.frontmostWindow(ctx)
	if err != nil {
		return 0, err
	}

	corner := toDisplaySpace(win.At[0], win.At[1])
	center := toDisplaySpace(win.At[0]+win.Size[0]/2, win.At[1]+win.Size[1]/2)

	for _, p := range []point{corner, center} {
		for i, d := range displays {
			if pointInDisplay(p, d) {
				s.log.Debug("active display resolved",
					zap.Int("display", i+1),
					zap.String("window_class", win.Class))
				return i + 1, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: window at (%d,%d) size %dx%d",
		ErrWindowNotOnAnyDisplay, win.At[0], win.At[1], win.Size[0], win.Size[1])
}

// FrontmostAppName returns the application class of the focused window.
// Best effort: used only as a prompt hint, so failures yield "".
func (s *Subsystem) FrontmostAppName(ctx context.Context) string {
	win, err := s.frontmostWindow(ctx)
	if err != nil {
		s.log.Debug("frontmost app lookup failed", zap.Error(err))
		return ""
	}
	return win.Class
}

// frontmostWindow queries the compositor for the focused window's bounds.
func (s *Subsystem) frontmostWindow(ctx context.Context) (*frontWindow, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", "activewindow", "-j")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, wrapHostError("window query", err, stderr.String())
	}

	var win frontWindow
	if err := json.Unmarshal(stdout.Bytes(), &win); err != nil {
		return nil, fmt.Errorf("failed to parse focused window: %w", err)
	}
	if win.Size[0] == 0 && win.Size[1] == 0 {
		return nil, fmt.Errorf("no focused window reported")
	}
	return &win, nil
}

// toDisplaySpace converts a window coordinate from the compositor's
// top-left-origin, Y-down layout space into the space the display frames
// are expressed in. hyprctl reports both surfaces in the same layout
// space, so the mapping is direct; hosts whose window surface is Y-up
// would flip here.
func toDisplaySpace(x, y int) point {
	return point{x: x, y: y}
}

// pointInDisplay tests whether p falls inside d's frame.
func pointInDisplay(p point, d display) bool {
	return p.x >= d.X && p.x < d.X+d.Width &&
		p.y >= d.Y && p.y < d.Y+d.Height
}

// wrapHostError classifies a failed host command into a PermissionError
// when possible: a missing binary means the feature isn't supported on
// this host, an access complaint means permission wasn't granted.
func wrapHostError(op string, err error, detail string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return &PermissionError{
			Op:           op,
			Hint:         "required tool is not installed; " + detail,
			NotSupported: true,
			Err:          err,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.ToLower(detail + " " + string(exitErr.Stderr))
		if strings.Contains(msg, "permission denied") || strings.Contains(msg, "not permitted") {
			return &PermissionError{
				Op:   op,
				Hint: "grant the tracker access in your compositor/security settings",
				Err:  err,
			}
		}
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
