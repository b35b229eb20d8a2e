package capture

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"already small", 800, 600, 1280, 800, 600},
		{"exactly at cap", 1280, 720, 1280, 1280, 720},
		{"wide capped", 2560, 1440, 1280, 1280, 720},
		{"tall capped", 1080, 1920, 1280, 720, 1280},
		{"square capped", 4000, 4000, 1280, 1280, 1280},
		{"extreme aspect keeps a pixel", 10000, 2, 1280, 1280, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.w, tt.h, tt.max)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestDownscale(t *testing.T) {
	s := &Subsystem{log: zap.NewNop(), maxDim: 64}

	encode := func(w, h int) []byte {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
		return buf.Bytes()
	}

	t.Run("passes small images through unchanged", func(t *testing.T) {
		original := encode(40, 30)
		out, err := s.downscale(original)
		require.NoError(t, err)
		assert.Equal(t, original, out)
	})

	t.Run("caps the longest side", func(t *testing.T) {
		out, err := s.downscale(encode(200, 100))
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 64, img.Bounds().Dx())
		assert.Equal(t, 32, img.Bounds().Dy())
	})

	t.Run("rejects non-PNG data", func(t *testing.T) {
		_, err := s.downscale([]byte("not a png"))
		assert.Error(t, err)
	})
}

func TestPointInDisplay(t *testing.T) {
	left := display{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := display{X: 1920, Y: 0, Width: 1920, Height: 1080}

	assert.True(t, pointInDisplay(point{0, 0}, left))
	assert.True(t, pointInDisplay(point{1919, 1079}, left))
	assert.False(t, pointInDisplay(point{1920, 0}, left))
	assert.True(t, pointInDisplay(point{1920, 0}, right))
	assert.False(t, pointInDisplay(point{-1, 10}, left))
}

func TestPermissionErrorMessage(t *testing.T) {
	granted := &PermissionError{Op: "window query", Hint: "grant access"}
	assert.Contains(t, granted.Error(), "permission not granted")

	unsupported := &PermissionError{Op: "window query", Hint: "install hyprctl", NotSupported: true}
	assert.Contains(t, unsupported.Error(), "not supported on this host")
}
