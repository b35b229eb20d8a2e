package capture

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// IdleTime measures how long the user's input devices have been quiet,
// via xprintidle (milliseconds since last input). Callers treat a failure
// as "not idle": tracking must not be blocked by a broken idle probe.
func (s *Subsystem) IdleTime(ctx context.Context) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "xprintidle")
	output, err := cmd.Output()
	if err != nil {
		return 0, wrapHostError("idle probe", err, "install xprintidle for idle detection")
	}

	ms, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse idle time %q: %w", strings.TrimSpace(string(output)), err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
