package summary

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/provider"
)

type fakeText struct {
	response string
	err      error

	promptSeen string
	schemaSeen *provider.Schema
	tempSeen   float64
}

func (f *fakeText) Generate(context.Context, string, float64) (string, error) { return "", nil }

func (f *fakeText) GenerateStructured(_ context.Context, prompt string, schema *provider.Schema, temp float64) (string, error) {
	f.promptSeen = prompt
	f.schemaSeen = schema
	f.tempSeen = temp
	return f.response, f.err
}

func (f *fakeText) GenerateWithVision(context.Context, string, [][]byte, float64) (*provider.VisionResult, error) {
	return nil, nil
}

func TestSummarize(t *testing.T) {
	catalog := activity.DefaultCatalog()

	t.Run("zero non-idle entries is a normal nil outcome", func(t *testing.T) {
		s := NewSummarizer(&fakeText{}, zap.NewNop())

		got, err := s.Summarize(context.Background(), []activity.ActivityEntry{
			entryAt(t, "09:00", activity.Idle, ""),
		}, catalog, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("builds prompt from groups and breakdown", func(t *testing.T) {
		text := &fakeText{response: `{"summary": "A focused morning of coding."}`}
		s := NewSummarizer(text, zap.NewNop())

		entries := []activity.ActivityEntry{
			entryAt(t, "09:00", "work_coding", "editing main.go"),
			entryAt(t, "09:10", "work_coding", "reviewing a diff"),
			entryAt(t, "09:20", "slack", "standup thread"),
		}
		got, err := s.Summarize(context.Background(), entries, catalog, nil)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, "A focused morning of coding.", got.Summary)
		assert.Empty(t, got.ObjectivesAlignment)
		assert.Equal(t, "09:00", got.Start.Format("15:04"))
		assert.Equal(t, "09:20", got.End.Format("15:04"))

		assert.Contains(t, text.promptSeen, `09:00-09:10 - work coding (2 samples): "editing main.go; reviewing a diff"`)
		assert.Contains(t, text.promptSeen, "- work coding: 66.7%")
		assert.NotContains(t, text.promptSeen, "Objectives")
		assert.InDelta(t, summaryTemperature, text.tempSeen, 0.001)

		require.NotNil(t, text.schemaSeen)
		assert.NotContains(t, text.schemaSeen.Properties, "objectives_alignment")
	})

	t.Run("single-sample group formats as a point in time", func(t *testing.T) {
		text := &fakeText{response: `{"summary": "s"}`}
		s := NewSummarizer(text, zap.NewNop())

		entries := []activity.ActivityEntry{entryAt(t, "14:00", "slack", "")}
		_, err := s.Summarize(context.Background(), entries, catalog, nil)
		require.NoError(t, err)
		assert.Contains(t, text.promptSeen, `14:00 - slack (1 samples): "No description"`)
	})

	t.Run("objectives extend prompt and schema", func(t *testing.T) {
		text := &fakeText{response: `{"summary": "s", "objectives_alignment": "Mostly aligned."}`}
		s := NewSummarizer(text, zap.NewNop())

		obj := &activity.DayObjectives{
			MainObjective:       "Ship the release",
			SecondaryObjectives: []string{"Review open PRs"},
		}
		entries := []activity.ActivityEntry{entryAt(t, "09:00", "work_coding", "r")}
		got, err := s.Summarize(context.Background(), entries, catalog, obj)
		require.NoError(t, err)

		assert.Equal(t, "Mostly aligned.", got.ObjectivesAlignment)
		assert.Contains(t, text.promptSeen, "Ship the release")
		assert.Contains(t, text.promptSeen, "Review open PRs")
		assert.Contains(t, text.schemaSeen.Required, "objectives_alignment")
	})

	t.Run("malformed response surfaces a response error", func(t *testing.T) {
		text := &fakeText{response: "narrative without json"}
		s := NewSummarizer(text, zap.NewNop())

		entries := []activity.ActivityEntry{entryAt(t, "09:00", "work_coding", "r")}
		_, err := s.Summarize(context.Background(), entries, catalog, nil)
		var respErr *provider.ResponseError
		require.ErrorAs(t, err, &respErr)
	})

	t.Run("provider failure propagates", func(t *testing.T) {
		s := NewSummarizer(&fakeText{err: assert.AnError}, zap.NewNop())
		entries := []activity.ActivityEntry{entryAt(t, "09:00", "work_coding", "r")}
		_, err := s.Summarize(context.Background(), entries, catalog, nil)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestFormatTimeRange(t *testing.T) {
	at := func(hhmm string) time.Time {
		ts, err := time.Parse("15:04", hhmm)
		require.NoError(t, err)
		return ts
	}
	assert.Equal(t, "09:15-09:45", formatTimeRange(at("09:15"), at("09:45")))
	assert.Equal(t, "09:15", formatTimeRange(at("09:15"), at("09:15")))
}
