package shell

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/entrhq/hypergx/pkg/settings"
)

// MaxTerminalFPS caps the animated background. The fpsLimit slider goes
// to 240, far beyond what a terminal redraw can keep up with.
const MaxTerminalFPS = 30

// Accent slider saturation and lightness.
const (
	accentSaturation = 0.82
	accentLightness  = 0.62
)

// AccentFromHue converts a hue slider position (degrees) to an accent hex
// color.
func AccentFromHue(hue float64) string {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsl(h, accentSaturation, accentLightness).Hex()
}

// HueFromAccent returns the slider position for an accent color, or 0 if
// the color does not parse.
func HueFromAccent(accent string) int {
	c, err := colorful.Hex(accent)
	if err != nil {
		return 0
	}
	h, _, _ := c.Hsl()
	return int(math.Round(h)) % 360
}

// FrameInterval is the delay between background frames. Zero means the
// background is static: image mode, or video mode with the FPS limit at 0.
func FrameInterval(mode settings.BackgroundMode, fpsLimit int) time.Duration {
	if mode != settings.BackgroundVideo || fpsLimit <= 0 {
		return 0
	}
	fps := fpsLimit
	if fps > MaxTerminalFPS {
		fps = MaxTerminalFPS
	}
	return time.Second / time.Duration(fps)
}

// Gradient returns width hex colors interpolated across stops. phase
// shifts the pattern by whole cells; the pattern ping-pongs so successive
// phases loop without a seam.
func Gradient(stops []string, width, phase int) []string {
	if width <= 0 {
		return nil
	}
	colors := make([]colorful.Color, 0, len(stops))
	for _, s := range stops {
		if c, err := colorful.Hex(s); err == nil {
			colors = append(colors, c)
		}
	}
	if len(colors) == 0 {
		return nil
	}

	out := make([]string, width)
	if len(colors) == 1 || width == 1 {
		for i := range out {
			out[i] = colors[0].Hex()
		}
		return out
	}

	period := 2 * width
	for i := range out {
		t := (i + phase) % period
		if t < 0 {
			t += period
		}
		if t >= width {
			t = period - 1 - t
		}
		f := float64(t) / float64(width-1)
		seg := f * float64(len(colors)-1)
		idx := int(seg)
		if idx >= len(colors)-1 {
			idx = len(colors) - 2
		}
		out[i] = colors[idx].BlendLab(colors[idx+1], seg-float64(idx)).Clamped().Hex()
	}
	return out
}
