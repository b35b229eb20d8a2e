package provider

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// runnerHandle is one loaded-model slot. Its mutex guarantees at most one
// concurrent inference per model: the accelerator can't fit concurrent
// runs of the same weights, so callers queue instead of failing.
type runnerHandle struct {
	mu          sync.Mutex
	binary      string
	weightsPath string
}

// handles caches runner handles by model identifier for the lifetime of
// the process, so repeated calls reuse the same serialization point.
var (
	handlesMu sync.Mutex
	handles   = make(map[string]*runnerHandle)
)

func handleFor(model, binary, weightsPath string) *runnerHandle {
	handlesMu.Lock()
	defer handlesMu.Unlock()

	if h, ok := handles[model]; ok {
		return h
	}
	h := &runnerHandle{binary: binary, weightsPath: weightsPath}
	handles[model] = h
	return h
}

// OnDevice runs inference through a local llama.cpp-style runner binary.
type OnDevice struct {
	model  string
	handle *runnerHandle
	log    *zap.Logger
}

// NewOnDevice creates an on-device provider. It refuses to construct when
// the model has no registered weights mapping or the weights file is not
// on disk: a scheduled tracking iteration must never trigger a blocking
// multi-gigabyte download.
func NewOnDevice(binary, model string, weights map[string]string, log *zap.Logger) (*OnDevice, error) {
	if binary == "" {
		binary = "llama-cli"
	}

	weightsPath, ok := weights[model]
	if !ok {
		return nil, fmt.Errorf("no weights registered for on-device model %q", model)
	}
	if _, err := os.Stat(weightsPath); err != nil {
		return nil, fmt.Errorf("weights for model %q not present at %s; download them before running: %w",
			model, weightsPath, err)
	}

	return &OnDevice{
		model:  model,
		handle: handleFor(model, binary, weightsPath),
		log:    log,
	}, nil
}

// run invokes the runner under the per-model lock.
func (o *OnDevice) run(ctx context.Context, args []string) (string, error) {
	o.handle.mu.Lock()
	defer o.handle.mu.Unlock()

	full := append([]string{"-m", o.handle.weightsPath, "--no-display-prompt"}, args...)
	cmd := exec.CommandContext(ctx, o.handle.binary, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	o.log.Debug("running on-device inference", zap.String("model", o.model))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("on-device runner failed: %w (stderr: %s)", err, Excerpt(stderr.String()))
	}
	return stdout.String(), nil
}

// Generate implements Provider.
func (o *OnDevice) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	raw, err := o.run(ctx, []string{
		"--temp", strconv.FormatFloat(temperature, 'f', -1, 64),
		"-p", prompt,
	})
	if err != nil {
		return "", err
	}
	response, _ := CleanResponse(raw)
	return response, nil
}

// GenerateStructured implements Provider via the prompt-append fallback;
// the runner has no schema enforcement.
func (o *OnDevice) GenerateStructured(ctx context.Context, prompt string, schema *Schema, temperature float64) (string, error) {
	return structuredViaPrompt(func(p string) (string, error) {
		return o.Generate(ctx, p, temperature)
	}, prompt, schema)
}

// GenerateWithVision implements Provider. Images are handed to the runner
// as temporary files, removed once the run completes.
func (o *OnDevice) GenerateWithVision(ctx context.Context, prompt string, images [][]byte, temperature float64) (*VisionResult, error) {
	dir, err := os.MkdirTemp("", "zeit-vision-")
	if err != nil {
		return nil, fmt.Errorf("failed to stage images: %w", err)
	}
	defer os.RemoveAll(dir)

	args := []string{
		"--temp", strconv.FormatFloat(temperature, 'f', -1, 64),
		"-p", prompt,
	}
	for i, img := range images {
		path := filepath.Join(dir, fmt.Sprintf("display_%d.png", i+1))
		if err := os.WriteFile(path, img, 0600); err != nil {
			return nil, fmt.Errorf("failed to stage image %d: %w", i+1, err)
		}
		args = append(args, "--image", path)
	}

	raw, err := o.run(ctx, args)
	if err != nil {
		return nil, err
	}
	response, thinking := CleanResponse(raw)
	return &VisionResult{Response: response, Thinking: thinking}, nil
}
