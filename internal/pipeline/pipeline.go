// Package pipeline wires the stages of one render: fetch or parse the price
// series, resample it to the frame count, draw every frame, and stream them
// into the encoder. Execution is synchronous; the context cancels between
// frames.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"MysteryChart/internal/encode"
	"MysteryChart/internal/model"
	"MysteryChart/internal/provider"
	"MysteryChart/internal/recorder"
	"MysteryChart/internal/render"
	"MysteryChart/internal/series"
)

// Request describes one render. Exactly one of Ticker or ManualText is set.
type Request struct {
	Ticker     string
	Start, End time.Time

	ManualText string

	Label      string // answer text; defaults to the ticker or "MYSTERY ASSET"
	Reveal     bool
	UseAudio   bool
	OutputPath string // optional override of the derived path
}

// Result reports a completed render.
type Result struct {
	OutputPath string
	Frames     int
	Points     int
	Elapsed    time.Duration
}

// Pipeline holds the collaborators of the render flow.
type Pipeline struct {
	Provider  provider.Provider
	Encoder   encode.Encoder
	Recorder  recorder.Recorder
	Base      model.RenderConfig // template: canvas, timing, colors, smoothing
	VideosDir string
	AudioFile string // default background track for UseAudio requests
}

var labelSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Run executes the full render synchronously and records the outcome.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	res, err := p.run(ctx, req, started)

	job := &model.RenderJob{
		ID:        uuid.NewString(),
		StartedAt: started,
		Symbol:    req.Ticker,
		Label:     req.Label,
		Reveal:    req.Reveal,
		Elapsed:   time.Since(started),
		Status:    model.JobStatusOK,
	}
	if req.ManualText != "" {
		job.Source = "manual"
		job.Symbol = "MANUAL"
	} else if p.Provider != nil {
		job.Source = p.Provider.Name()
	}
	if err != nil {
		job.Status = model.JobStatusFailed
		job.Error = err.Error()
	} else {
		job.OutputPath = res.OutputPath
		job.Frames = res.Frames
		job.Points = res.Points
		if fi, statErr := os.Stat(res.OutputPath); statErr == nil {
			job.OutputSize = fi.Size()
		}
	}
	if p.Recorder != nil {
		if recErr := p.Recorder.RecordJob(job); recErr != nil {
			log.Warn().Err(recErr).Msg("record job failed")
		}
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, req Request, started time.Time) (*Result, error) {
	s, label, err := p.loadSeries(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Info().Str("source", s.Source).Int("points", s.Len()).Str("label", label).Msg("series loaded")

	cfg, err := p.renderConfig(req, label)
	if err != nil {
		return nil, err
	}

	resampled, err := series.Preprocess(s, cfg.DrawFrames(), cfg.Smooth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientData, err)
	}

	r, err := render.New(resampled, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	next := func(i int) (image.Image, error) {
		frame, err := r.Frame(i)
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrRenderFailure, i, err)
		}
		return frame, nil
	}
	if err := p.Encoder.Encode(ctx, cfg, cfg.TotalFrames(), next); err != nil {
		if errors.Is(err, ErrRenderFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}

	res := &Result{
		OutputPath: cfg.OutputPath,
		Frames:     cfg.TotalFrames(),
		Points:     resampled.Len(),
		Elapsed:    time.Since(started),
	}
	if fi, err := os.Stat(cfg.OutputPath); err == nil {
		log.Info().Str("output", cfg.OutputPath).
			Str("size", humanize.Bytes(uint64(fi.Size()))).
			Dur("elapsed", res.Elapsed).Msg("render finished")
	}
	return res, nil
}

// loadSeries resolves the data source: pasted rows when present, otherwise a
// remote fetch. Returns the series and the effective answer label.
func (p *Pipeline) loadSeries(ctx context.Context, req Request) (*model.PriceSeries, string, error) {
	label := strings.TrimSpace(req.Label)

	if strings.TrimSpace(req.ManualText) != "" {
		s, err := provider.ParseManual(req.ManualText)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		if label == "" {
			label = "MYSTERY ASSET"
		}
		return s, label, nil
	}

	if strings.TrimSpace(req.Ticker) == "" {
		return nil, "", fmt.Errorf("%w: no ticker and no manual data", ErrDataUnavailable)
	}
	if p.Provider == nil {
		return nil, "", fmt.Errorf("%w: no data provider configured", ErrDataUnavailable)
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	s, err := p.Provider.FetchDaily(ctx, ticker, req.Start, req.End)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if label == "" {
		label = ticker
	}
	return s, label, nil
}

func (p *Pipeline) renderConfig(req Request, label string) (model.RenderConfig, error) {
	cfg := p.Base
	cfg.Label = label
	cfg.Reveal = req.Reveal
	if req.UseAudio {
		cfg.AudioPath = p.AudioFile
	}

	cfg.OutputPath = req.OutputPath
	if cfg.OutputPath == "" {
		name := labelSanitizeRe.ReplaceAllString(label, "")
		if name == "" {
			name = "Chart"
		}
		cfg.OutputPath = filepath.Join(p.VideosDir, "Mystery_"+name+".mp4")
	}
	if dir := filepath.Dir(cfg.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cfg, fmt.Errorf("%w: create output dir: %v", ErrEncodeFailure, err)
		}
	}
	return cfg, nil
}
