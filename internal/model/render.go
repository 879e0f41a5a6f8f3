package model

import "math"

// RenderConfig holds every knob for one video render.
// Immutable once the pipeline starts.
type RenderConfig struct {
	// Label is the asset name shown when the reveal is enabled.
	Label  string
	Reveal bool

	Width  int
	Height int
	FPS    int

	// Animation phases, in seconds: blinking hook, curve drawing, ending
	// (reveal fade or call-to-action).
	DrawSeconds      float64
	StartIdleSeconds float64
	EndIdleSeconds   float64

	// Colors as #RRGGBB hex strings.
	Background string
	Grid       string
	Line       string
	Accent     string

	Smooth bool

	// AudioPath is the optional background track muxed into the output.
	// Empty disables audio.
	AudioPath string

	// OutputPath is the final MP4 location.
	OutputPath string

	BitrateKbps int
}

// DrawFrames returns the number of frames in the drawing phase.
func (c RenderConfig) DrawFrames() int {
	return int(math.Round(c.DrawSeconds * float64(c.FPS)))
}

// PreFrames returns the number of idle frames before drawing starts.
func (c RenderConfig) PreFrames() int {
	return int(math.Round(c.StartIdleSeconds * float64(c.FPS)))
}

// PostFrames returns the number of idle frames after drawing ends.
func (c RenderConfig) PostFrames() int {
	return int(math.Round(c.EndIdleSeconds * float64(c.FPS)))
}

// TotalFrames returns the full frame count of the output video.
func (c RenderConfig) TotalFrames() int {
	return c.PreFrames() + c.DrawFrames() + c.PostFrames()
}
