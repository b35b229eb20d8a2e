// Package pipeline runs one tracking iteration end to end: gate check,
// capture, two-stage classification, persistence. Every invocation is
// independent; there is no caching or deduplication between iterations.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/provider"
)

// ErrNoScreenshots is the precondition failure raised when classification
// is asked to run with zero captured images.
var ErrNoScreenshots = errors.New("no screenshots captured")

// Input carries everything one classification needs. Screens maps 1-based
// display index to PNG bytes; ActiveDisplay is 0 when active-display
// detection failed; FrontmostApp is a best-effort hint, possibly empty.
type Input struct {
	Screens       map[int][]byte
	ActiveDisplay int
	FrontmostApp  string
	Now           time.Time
}

// Classifier turns a capture into a classified activity entry with a
// vision-description stage followed by a text-classification stage.
type Classifier struct {
	vision  provider.Provider
	text    provider.Provider
	catalog activity.Catalog
	log     *zap.Logger
}

// NewClassifier wires the two model stages against the user's catalog.
func NewClassifier(vision, text provider.Provider, catalog activity.Catalog, log *zap.Logger) *Classifier {
	return &Classifier{vision: vision, text: text, catalog: catalog, log: log}
}

// ClassificationSchema constrains the classification response. The
// main_activity enumeration is computed from the catalog plus "idle",
// which is the primary guard against out-of-catalog labels.
func ClassificationSchema(catalog activity.Catalog) *provider.Schema {
	values := append(catalog.IDs(), string(activity.Idle))
	return provider.Object(map[string]*provider.Schema{
		"main_activity": provider.StringEnum(
			"Main detected activity. Select the most prominent activity, no matter if there are indications of other activities.",
			values,
		),
		"reasoning": provider.String(
			"The reasoning behind the selection of the main activity, based on the description of the screenshot.",
		),
		"secondary_context": provider.String(
			"Brief description of activities visible on secondary screens, if any.",
		),
	}, "main_activity", "reasoning")
}

// classificationResponse is the wire shape of the classification stage.
type classificationResponse struct {
	MainActivity     string `json:"main_activity"`
	Reasoning        string `json:"reasoning"`
	SecondaryContext string `json:"secondary_context,omitempty"`
}

// Classify runs both model stages and returns the entry stamped with the
// iteration timestamp. Model responses that violate the expected shape
// surface as *provider.ResponseError; there is no retry or repair.
func (c *Classifier) Classify(ctx context.Context, in Input) (*activity.ActivityEntry, error) {
	if len(in.Screens) == 0 {
		return nil, ErrNoScreenshots
	}

	// Hand images to the model in display order so "Screen N" in the
	// prompt matches the Nth image.
	indices := make([]int, 0, len(in.Screens))
	for i := range in.Screens {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	images := make([][]byte, 0, len(indices))
	for _, i := range indices {
		images = append(images, in.Screens[i])
	}

	prompt := visionPrompt(len(images), in.ActiveDisplay, in.FrontmostApp)
	c.log.Debug("describing screens",
		zap.Int("screen_count", len(images)),
		zap.Int("active_display", in.ActiveDisplay))

	vision, err := c.vision.GenerateWithVision(ctx, prompt, images, 0)
	if err != nil {
		return nil, fmt.Errorf("vision stage failed: %w", err)
	}
	if vision.Thinking != "" {
		c.log.Debug("vision model thinking", zap.Int("thinking_len", len(vision.Thinking)))
	}
	c.log.Debug("screen description received", zap.String("description", vision.Response))

	raw, err := c.text.GenerateStructured(ctx,
		classificationPrompt(c.catalog, vision.Response, ""),
		ClassificationSchema(c.catalog), 0)
	if err != nil {
		return nil, fmt.Errorf("classification stage failed: %w", err)
	}

	var resp classificationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &provider.ResponseError{Excerpt: provider.Excerpt(raw), Err: err}
	}
	if err := c.validate(resp); err != nil {
		return nil, &provider.ResponseError{Excerpt: provider.Excerpt(raw), Err: err}
	}

	entry := activity.NewEntry(in.Now, activity.Activity(resp.MainActivity), resp.Reasoning, resp.SecondaryContext)
	c.log.Info("activity identified",
		zap.String("activity", resp.MainActivity),
		zap.String("reasoning", resp.Reasoning))
	return &entry, nil
}

func (c *Classifier) validate(resp classificationResponse) error {
	if resp.MainActivity == "" {
		return errors.New("missing main_activity")
	}
	if resp.MainActivity == string(activity.Idle) {
		return nil
	}
	if _, ok := c.catalog.Lookup(resp.MainActivity); !ok {
		return fmt.Errorf("activity %q is not in the catalog", resp.MainActivity)
	}
	if resp.Reasoning == "" {
		return errors.New("missing reasoning")
	}
	return nil
}
