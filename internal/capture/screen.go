package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// display is one enumerated output, as reported by hyprctl monitors -j.
type display struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Scale   float64 `json:"scale"`
	Focused bool    `json:"focused"`
}

// enumerateDisplays lists connected displays in a stable order. The
// 1-based position in the returned slice is the display index used by
// every other operation.
func (s *Subsystem) enumerateDisplays(ctx context.Context) ([]display, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", "monitors", "-j")
	output, err := cmd.Output()
	if err != nil {
		return nil, wrapHostError("display enumeration", err,
			"install hyprctl or run under a Hyprland session")
	}

	var displays []display
	if err := json.Unmarshal(output, &displays); err != nil {
		return nil, fmt.Errorf("failed to parse display list: %w", err)
	}

	// hyprctl order can change with hotplug; sort by layout position so
	// indices stay stable between the capture and the prompt.
	sort.Slice(displays, func(i, j int) bool {
		if displays[i].X != displays[j].X {
			return displays[i].X < displays[j].X
		}
		return displays[i].Y < displays[j].Y
	})
	return displays, nil
}

// CaptureAllDisplays grabs a PNG from every connected display, keyed by
// 1-based display index. Displays whose grab fails are omitted from the
// map; the call fails only when there are no displays at all or every
// grab failed.
func (s *Subsystem) CaptureAllDisplays(ctx context.Context) (map[int][]byte, error) {
	displays, err := s.enumerateDisplays(ctx)
	if err != nil {
		return nil, err
	}
	if len(displays) == 0 {
		return nil, ErrNoDisplays
	}

	images := make(map[int][]byte, len(displays))
	var lastErr error
	for i, d := range displays {
		idx := i + 1
		data, err := s.grabDisplay(ctx, d.Name)
		if err != nil {
			lastErr = err
			s.log.Warn("display grab failed",
				zap.Int("display", idx),
				zap.String("output", d.Name),
				zap.Error(err))
			continue
		}
		scaled, err := s.downscale(data)
		if err != nil {
			// A grab we can't decode is as good as a failed grab.
			lastErr = err
			s.log.Warn("downscale failed", zap.Int("display", idx), zap.Error(err))
			continue
		}
		images[idx] = scaled
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailedAllDisplays, lastErr)
	}
	s.log.Debug("captured displays", zap.Int("count", len(images)), zap.Int("total", len(displays)))
	return images, nil
}

// grabDisplay captures one output as PNG.
func (s *Subsystem) grabDisplay(ctx context.Context, output string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "grim", "-o", output, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, wrapHostError("screen grab", err,
			"install grim and grant screen capture access, see stderr: "+stderr.String())
	}
	return stdout.Bytes(), nil
}

// downscale bounds the image to maxDim on its longest side, passing it
// through unchanged when already small enough.
func (s *Subsystem) downscale(pngData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode capture: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	nw, nh := fitWithin(w, h, s.maxDim)
	if nw == w && nh == h {
		return pngData, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode downscaled capture: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin computes the dimensions of a w x h image scaled so its longest
// side is at most max, preserving aspect ratio. Images already within the
// cap keep their dimensions.
func fitWithin(w, h, max int) (int, int) {
	longest := w
	if h > w {
		longest = h
	}
	if longest <= max {
		return w, h
	}

	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}
	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return nw, max
}
