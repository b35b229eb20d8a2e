package gate

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayHours() WorkHours {
	return WorkHours{
		StartHour: 9, StartMinute: 0,
		EndHour: 17, EndMinute: 30,
		WorkDays: map[time.Weekday]bool{
			time.Monday: true, time.Tuesday: true, time.Wednesday: true,
			time.Thursday: true, time.Friday: true,
		},
	}
}

func TestEvaluate(t *testing.T) {
	hours := weekdayHours()

	// 2026-03-04 is a Wednesday, 2026-03-07 a Saturday.
	tests := []struct {
		name   string
		now    time.Time
		paused bool
		want   State
	}{
		{"saturday morning", time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC), false, StateAfterWorkHours},
		{"wednesday 08:59", time.Date(2026, 3, 4, 8, 59, 0, 0, time.UTC), false, StateBeforeWorkHours},
		{"wednesday 09:00", time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), false, StateActive},
		{"wednesday 17:29", time.Date(2026, 3, 4, 17, 29, 0, 0, time.UTC), false, StateActive},
		{"wednesday 17:30", time.Date(2026, 3, 4, 17, 30, 0, 0, time.UTC), false, StateAfterWorkHours},
		{"paused inside hours", time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC), true, StatePausedManual},
		{"paused outside hours reports hours first", time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC), true, StateAfterWorkHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.now, hours, tt.paused)
			assert.Equal(t, tt.want, got.State)
			assert.Equal(t, tt.want == StateActive, got.Permits())
		})
	}
}

func TestEvaluateOutsideWorkDaysMessage(t *testing.T) {
	got := Evaluate(time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC), weekdayHours(), false)
	assert.Equal(t, "outside work days", got.Message)
}

func TestPauseFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zeit_pause")
	flag := NewPauseFlag(path)

	assert.False(t, flag.Paused())

	require.NoError(t, flag.Set(true))
	assert.True(t, flag.Paused())

	require.NoError(t, flag.Set(false))
	assert.False(t, flag.Paused())

	// Clearing an already-clear flag is not an error.
	require.NoError(t, flag.Set(false))

	assert.False(t, NewPauseFlag("").Paused())
}
