package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/provider"
)

// fakeProvider scripts the two model stages.
type fakeProvider struct {
	visionResponse string
	visionThinking string
	visionErr      error
	structured     string
	structuredErr  error

	visionPromptSeen     string
	visionImagesSeen     int
	structuredPromptSeen string
	schemaSeen           *provider.Schema
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ float64) (string, error) {
	return "", nil
}

func (f *fakeProvider) GenerateStructured(_ context.Context, prompt string, schema *provider.Schema, _ float64) (string, error) {
	f.structuredPromptSeen = prompt
	f.schemaSeen = schema
	return f.structured, f.structuredErr
}

func (f *fakeProvider) GenerateWithVision(_ context.Context, prompt string, images [][]byte, _ float64) (*provider.VisionResult, error) {
	f.visionPromptSeen = prompt
	f.visionImagesSeen = len(images)
	if f.visionErr != nil {
		return nil, f.visionErr
	}
	return &provider.VisionResult{Response: f.visionResponse, Thinking: f.visionThinking}, nil
}

func testInput(screenCount int) Input {
	screens := make(map[int][]byte, screenCount)
	for i := 1; i <= screenCount; i++ {
		screens[i] = []byte{0x89, 'P', 'N', 'G'}
	}
	return Input{
		Screens:       screens,
		ActiveDisplay: 1,
		Now:           time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
	}
}

func TestClassify(t *testing.T) {
	catalog := activity.DefaultCatalog()

	t.Run("zero screenshots is a precondition failure", func(t *testing.T) {
		c := NewClassifier(&fakeProvider{}, &fakeProvider{}, catalog, zap.NewNop())
		_, err := c.Classify(context.Background(), Input{Now: time.Now()})
		assert.ErrorIs(t, err, ErrNoScreenshots)
	})

	t.Run("happy path stamps the iteration timestamp", func(t *testing.T) {
		vision := &fakeProvider{visionResponse: "The user has an IDE open editing Go source."}
		text := &fakeProvider{structured: `{"main_activity": "work_coding", "reasoning": "IDE with source code visible"}`}
		c := NewClassifier(vision, text, catalog, zap.NewNop())

		in := testInput(1)
		entry, err := c.Classify(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, activity.Activity("work_coding"), entry.Activity)
		assert.Equal(t, "IDE with source code visible", entry.Reasoning)
		assert.Equal(t, in.Now.Format(time.RFC3339), entry.Timestamp)
		assert.Equal(t, 1, vision.visionImagesSeen)

		// Classification prompt embeds the vision description and the catalog.
		assert.Contains(t, text.structuredPromptSeen, "IDE open editing Go source")
		assert.Contains(t, text.structuredPromptSeen, "work_coding")
		assert.Contains(t, text.structuredPromptSeen, "personal_browsing")
	})

	t.Run("single display prompt omits disambiguation guidance", func(t *testing.T) {
		vision := &fakeProvider{visionResponse: "desc"}
		text := &fakeProvider{structured: `{"main_activity": "idle", "reasoning": ""}`}
		c := NewClassifier(vision, text, catalog, zap.NewNop())

		_, err := c.Classify(context.Background(), testInput(1))
		require.NoError(t, err)
		assert.NotContains(t, vision.visionPromptSeen, "PRIMARY screen")
	})

	t.Run("multi display prompt carries the active screen hint", func(t *testing.T) {
		vision := &fakeProvider{visionResponse: "desc"}
		text := &fakeProvider{structured: `{"main_activity": "slack", "reasoning": "chat window"}`}
		c := NewClassifier(vision, text, catalog, zap.NewNop())

		in := testInput(2)
		in.ActiveDisplay = 2
		_, err := c.Classify(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, 2, vision.visionImagesSeen)
		assert.Contains(t, vision.visionPromptSeen, "Screen 2 currently contains the focused/active window")
	})

	t.Run("multi display without hint falls back to visual cues", func(t *testing.T) {
		vision := &fakeProvider{visionResponse: "desc"}
		text := &fakeProvider{structured: `{"main_activity": "slack", "reasoning": "chat window"}`}
		c := NewClassifier(vision, text, catalog, zap.NewNop())

		in := testInput(2)
		in.ActiveDisplay = 0
		_, err := c.Classify(context.Background(), in)
		require.NoError(t, err)
		assert.Contains(t, vision.visionPromptSeen, "Identify which screen is the PRIMARY/ACTIVE screen.")
	})

	t.Run("frontmost app name is a prompt hint", func(t *testing.T) {
		vision := &fakeProvider{visionResponse: "desc"}
		text := &fakeProvider{structured: `{"main_activity": "slack", "reasoning": "chat"}`}
		c := NewClassifier(vision, text, catalog, zap.NewNop())

		in := testInput(1)
		in.FrontmostApp = "Slack"
		_, err := c.Classify(context.Background(), in)
		require.NoError(t, err)
		assert.Contains(t, vision.visionPromptSeen, `"Slack"`)
	})

	t.Run("malformed JSON surfaces a response error", func(t *testing.T) {
		vision := &fakeProvider{visionResponse: "desc"}
		text := &fakeProvider{structured: `not json at all`}
		c := NewClassifier(vision, text, catalog, zap.NewNop())

		_, err := c.Classify(context.Background(), testInput(1))
		var respErr *provider.ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Contains(t, respErr.Excerpt, "not json")
	})

	t.Run("out-of-catalog activity is rejected, not coerced", func(t *testing.T) {
		vision := &fakeProvider{visionResponse: "desc"}
		text := &fakeProvider{structured: `{"main_activity": "underwater_basket_weaving", "reasoning": "r"}`}
		c := NewClassifier(vision, text, catalog, zap.NewNop())

		_, err := c.Classify(context.Background(), testInput(1))
		var respErr *provider.ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.ErrorContains(t, err, "not in the catalog")
	})

	t.Run("vision stage failure propagates", func(t *testing.T) {
		vision := &fakeProvider{visionErr: assert.AnError}
		c := NewClassifier(vision, &fakeProvider{}, catalog, zap.NewNop())

		_, err := c.Classify(context.Background(), testInput(1))
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestClassificationSchema(t *testing.T) {
	catalog := activity.Catalog{
		{ID: "deep_work", Name: "Deep Work", Description: "focused work", IsWork: true},
		{ID: "leisure", Name: "Leisure", Description: "downtime", IsWork: false},
	}
	schema := ClassificationSchema(catalog)

	main := schema.Properties["main_activity"]
	require.NotNil(t, main)
	assert.ElementsMatch(t, []string{"deep_work", "leisure", "idle"}, main.Enum)
	assert.ElementsMatch(t, []string{"main_activity", "reasoning"}, schema.Required)
}

func TestClassificationPromptSections(t *testing.T) {
	prompt := classificationPrompt(activity.DefaultCatalog(), "user reading docs", "music player on second screen")

	workIdx := strings.Index(prompt, "work-related categories")
	personalIdx := strings.Index(prompt, "personal categories")
	require.Greater(t, workIdx, 0)
	require.Greater(t, personalIdx, 0)
	assert.Less(t, personalIdx, workIdx)
	assert.Contains(t, prompt, "user reading docs")
	assert.Contains(t, prompt, "music player on second screen")
}
