// Package render draws the animation frames: a blinking guess hook, a glowing
// price curve revealed point by point with a slow zoom, and an ending that
// either fades in the answer or shows a call to action.
package render

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"MysteryChart/internal/model"
)

// Plot area as fractions of the canvas.
const (
	plotLeft   = 0.05
	plotRight  = 0.95
	plotTop    = 0.10
	plotBottom = 0.85

	maxDateTicks = 5
	hGridLines   = 6

	// Progressive zoom/pan applied across the drawing phase.
	zoomStrength = 0.15
	panStrength  = 0.10

	// Hook blink period in frames.
	blinkFrames = 15
)

// Renderer produces the frames of one animation. All inputs are fixed at
// construction, so Frame is deterministic and safe to call in any order.
type Renderer struct {
	cfg   model.RenderConfig
	xs    []float64 // unix seconds per point
	ys    []float64
	times []time.Time

	xMin, xMax float64
	yLo, yHi   float64 // padded y range

	pre, draw, post int

	bg, grid, line, accent rgb
	faces                  *faces
}

// New builds a Renderer over a preprocessed series. The series should already
// be resampled to the drawing frame count, though any length of two or more
// points works.
func New(s *model.PriceSeries, cfg model.RenderConfig) (*Renderer, error) {
	if s == nil || s.Len() < 2 {
		return nil, fmt.Errorf("renderer: need at least two points, got %d", sLen(s))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("renderer: invalid canvas %dx%d @ %d fps", cfg.Width, cfg.Height, cfg.FPS)
	}
	if cfg.DrawFrames() < 1 {
		return nil, fmt.Errorf("renderer: drawing phase must span at least one frame")
	}

	r := &Renderer{
		cfg:   cfg,
		times: s.Times(),
		ys:    s.Prices(),
		pre:   cfg.PreFrames(),
		draw:  cfg.DrawFrames(),
		post:  cfg.PostFrames(),
	}
	r.xs = make([]float64, len(r.times))
	for i, t := range r.times {
		r.xs[i] = unixF(t)
	}
	r.xMin, r.xMax = r.xs[0], r.xs[len(r.xs)-1]

	yMin, yMax := s.MinMax()
	pad := (yMax - yMin) * 0.2
	if pad == 0 {
		pad = math.Max(1, yMax*0.2)
	}
	r.yLo, r.yHi = yMin-pad, yMax+pad

	var err error
	colors := []struct {
		hex string
		dst *rgb
	}{
		{cfg.Background, &r.bg}, {cfg.Grid, &r.grid}, {cfg.Line, &r.line}, {cfg.Accent, &r.accent},
	}
	for _, c := range colors {
		if *c.dst, err = parseHex(c.hex); err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
	}

	if r.faces, err = newFaces(float64(cfg.Width) / 1080); err != nil {
		return nil, err
	}
	return r, nil
}

func sLen(s *model.PriceSeries) int {
	if s == nil {
		return 0
	}
	return s.Len()
}

// TotalFrames returns the number of frames this renderer produces.
func (r *Renderer) TotalFrames() int { return r.pre + r.draw + r.post }

// CutoffIndex returns how many series points are visible on the given frame.
// Idle frames before drawing show zero points; frames after the drawing phase
// show the full series. This is the no-look-ahead boundary.
func (r *Renderer) CutoffIndex(frame int) int {
	switch {
	case frame < r.pre:
		return 0
	case frame < r.pre+r.draw:
		curr := frame - r.pre
		n := len(r.xs)
		if r.draw == 1 {
			return n
		}
		return curr*(n-1)/(r.draw-1) + 1
	default:
		return len(r.xs)
	}
}

// Frame renders the image for the given frame index.
func (r *Renderer) Frame(frame int) (image.Image, error) {
	if frame < 0 || frame >= r.TotalFrames() {
		return nil, fmt.Errorf("renderer: frame %d out of range [0,%d)", frame, r.TotalFrames())
	}

	dc := gg.NewContext(r.cfg.Width, r.cfg.Height)
	dc.SetRGB(r.bg.r, r.bg.g, r.bg.b)
	dc.Clear()

	switch {
	case frame < r.pre:
		r.drawAxes(dc, r.xMin, r.xMax)
		r.drawHook(dc, frame)

	case frame < r.pre+r.draw:
		curr := frame - r.pre
		t := float64(curr) / float64(r.draw)
		x0, x1 := r.window(t)
		r.drawAxes(dc, x0, x1)
		r.drawCurve(dc, r.CutoffIndex(frame), x0, x1, 1.0)

	default:
		prog := float64(frame-r.pre-r.draw+1) / float64(r.post)
		x0, x1 := r.window(1)
		r.drawAxes(dc, x0, x1)
		if r.cfg.Reveal {
			r.drawCurve(dc, len(r.xs), x0, x1, 1-prog)
			r.drawReveal(dc, prog)
		} else {
			r.drawCurve(dc, len(r.xs), x0, x1, 1.0)
			r.drawCTA(dc, prog)
		}
	}

	return dc.Image(), nil
}

// window returns the visible x range at drawing progress t in [0,1],
// zooming in and panning right as the curve advances.
func (r *Renderer) window(t float64) (x0, x1 float64) {
	full := r.xMax - r.xMin
	span := full * (1 - zoomStrength*t)
	pan := full * panStrength * t
	center := (r.xMin+r.xMax)/2 + pan
	return center - span/2, center + span/2
}

func (r *Renderer) px(x, x0, x1 float64) float64 {
	w := float64(r.cfg.Width)
	return plotLeft*w + (x-x0)/(x1-x0)*(plotRight-plotLeft)*w
}

func (r *Renderer) py(y float64) float64 {
	h := float64(r.cfg.Height)
	return plotBottom*h - (y-r.yLo)/(r.yHi-r.yLo)*(plotBottom-plotTop)*h
}

// drawAxes paints the grid, the bottom spine and the date tick labels for the
// visible window. Price labels stay hidden so the y scale gives nothing away.
func (r *Renderer) drawAxes(dc *gg.Context, x0, x1 float64) {
	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	left, right := plotLeft*w, plotRight*w
	top, bottom := plotTop*h, plotBottom*h

	// Horizontal grid.
	dc.SetLineWidth(2)
	dc.SetRGBA(r.grid.r, r.grid.g, r.grid.b, 0.5)
	for i := 0; i <= hGridLines; i++ {
		y := top + (bottom-top)*float64(i)/float64(hGridLines)
		dc.DrawLine(left, y, right, y)
		dc.Stroke()
	}

	// Vertical grid at date ticks, plus labels.
	ticks := dateTicks(floatToTime(x0), floatToTime(x1), maxDateTicks)
	dc.SetLineWidth(1)
	for _, tk := range ticks {
		x := r.px(tk.X, x0, x1)
		if x < left || x > right {
			continue
		}
		dc.SetRGBA(r.grid.r, r.grid.g, r.grid.b, 0.3)
		dc.DrawLine(x, top, x, bottom)
		dc.Stroke()

		dc.SetFontFace(r.faces.tick)
		muted, _ := parseHex(colorTextMuted)
		dc.SetRGBA(muted.r, muted.g, muted.b, 1)
		dc.DrawStringAnchored(tk.Label, x, bottom+0.02*h, 0.5, 0.5)
	}

	// Bottom spine.
	dc.SetLineWidth(2)
	dc.SetRGBA(r.grid.r, r.grid.g, r.grid.b, 1)
	dc.DrawLine(left, bottom, right, bottom)
	dc.Stroke()
}

// drawCurve paints the first k points of the series: the translucent area
// fill, a wide glow underlay, the core line, and the glowing head marker.
func (r *Renderer) drawCurve(dc *gg.Context, k int, x0, x1, alpha float64) {
	if k < 2 || alpha <= 0 {
		return
	}
	w := float64(r.cfg.Width)

	pxs := make([]float64, k)
	pys := make([]float64, k)
	for i := 0; i < k; i++ {
		pxs[i] = r.px(r.xs[i], x0, x1)
		pys[i] = r.py(r.ys[i])
	}

	// Area fill down to the padded baseline.
	baseline := r.py(r.yLo)
	dc.MoveTo(pxs[0], baseline)
	for i := 0; i < k; i++ {
		dc.LineTo(pxs[i], pys[i])
	}
	dc.LineTo(pxs[k-1], baseline)
	dc.ClosePath()
	dc.SetRGBA(r.line.r, r.line.g, r.line.b, 0.2*alpha)
	dc.Fill()

	stroke := func(width, a float64) {
		dc.MoveTo(pxs[0], pys[0])
		for i := 1; i < k; i++ {
			dc.LineTo(pxs[i], pys[i])
		}
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.SetLineWidth(width * w / 1080)
		dc.SetRGBA(r.line.r, r.line.g, r.line.b, a)
		dc.Stroke()
	}
	stroke(15, 0.3*alpha) // glow underlay
	stroke(6, alpha)      // core line

	// Head marker: wide accent glow under a white dot.
	hx, hy := pxs[k-1], pys[k-1]
	dc.SetRGBA(r.line.r, r.line.g, r.line.b, 0.3*alpha)
	dc.DrawCircle(hx, hy, 15*w/1080)
	dc.Fill()
	dc.SetRGBA(1, 1, 1, alpha)
	dc.DrawCircle(hx, hy, 4*w/1080)
	dc.Fill()
}

// drawHook paints the blinking "can you guess" opener.
func (r *Renderer) drawHook(dc *gg.Context, frame int) {
	alpha := 1.0
	if (frame/blinkFrames)%2 != 0 {
		alpha = 0.8
	}
	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	dc.SetFontFace(r.faces.hookSmall)
	dc.SetRGBA(1, 1, 1, alpha)
	dc.DrawStringAnchored("CAN YOU GUESS", w/2, 0.15*h, 0.5, 0.5)

	dc.SetFontFace(r.faces.hookBig)
	dc.SetRGBA(r.accent.r, r.accent.g, r.accent.b, alpha)
	dc.DrawStringAnchored("THE STOCK?", w/2, 0.19*h, 0.5, 0.5)
}

// drawReveal fades in the answer over the ending phase.
func (r *Renderer) drawReveal(dc *gg.Context, prog float64) {
	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	muted, _ := parseHex(colorTextMuted)

	dc.SetFontFace(r.faces.revealTag)
	dc.SetRGBA(muted.r, muted.g, muted.b, prog)
	dc.DrawStringAnchored("IT WAS:", w/2, 0.45*h, 0.5, 0.5)

	label := strings.ToUpper(r.cfg.Label)
	r.outlinedString(dc, label, w/2, 0.50*h, r.faces.revealBig,
		r.accent, prog, rgb{1, 1, 1}, 0.8*prog, 5*w/1080)
}

// drawCTA fades in the "comment your guess" prompt with a slight upward drift.
func (r *Renderer) drawCTA(dc *gg.Context, prog float64) {
	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	alpha := math.Min(prog*2, 1)
	y := (0.80 - prog*0.01) * h
	r.outlinedString(dc, "COMMENT YOUR GUESS", w/2, y, r.faces.cta,
		rgb{1, 1, 1}, alpha, r.accent, 0.5*alpha, 4*w/1080)
}

// outlinedString emulates a stroked text effect by stamping the string in the
// stroke color around the target position before filling it.
func (r *Renderer) outlinedString(dc *gg.Context, s string, x, y float64, face font.Face,
	fill rgb, fillAlpha float64, stroke rgb, strokeAlpha, strokeW float64) {
	dc.SetFontFace(face)
	if strokeAlpha > 0 && strokeW > 0 {
		dc.SetRGBA(stroke.r, stroke.g, stroke.b, strokeAlpha)
		for i := 0; i < 8; i++ {
			a := float64(i) * math.Pi / 4
			dc.DrawStringAnchored(s, x+strokeW*math.Cos(a), y+strokeW*math.Sin(a), 0.5, 0.5)
		}
	}
	dc.SetRGBA(fill.r, fill.g, fill.b, fillAlpha)
	dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}
