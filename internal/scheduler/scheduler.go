// Package scheduler runs configured renders on cron schedules: each entry
// re-fetches its ticker over a lookback window and produces a fresh clip.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"MysteryChart/internal/config"
	"MysteryChart/internal/notify"
	"MysteryChart/internal/pipeline"
)

// Scheduler manages cron-driven render tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Notifier *notify.TelegramNotifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. The notifier may be nil.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, tn *notify.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pipeline: p,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// RegisterAll registers one task per schedule entry.
func (s *Scheduler) RegisterAll(entries []config.ScheduleEntry) error {
	for _, e := range entries {
		e := e
		if _, err := s.Cron.AddFunc(e.Cron, func() { s.renderTask(e) }); err != nil {
			return fmt.Errorf("register schedule %q for %s: %w", e.Cron, e.Ticker, err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) renderTask(e config.ScheduleEntry) {
	log.Info().Str("ticker", e.Ticker).Msg("running scheduled render")

	end := time.Now()
	req := pipeline.Request{
		Ticker:   e.Ticker,
		Start:    end.AddDate(0, 0, -e.LookbackDays),
		End:      end,
		Label:    e.Label,
		Reveal:   e.Reveal,
		UseAudio: e.UseAudio,
	}

	res, err := s.Pipeline.Run(s.Ctx, req)
	if err != nil {
		log.Error().Err(err).Str("ticker", e.Ticker).Str("category", pipeline.Category(err)).
			Msg("scheduled render failed")
		s.trySend(fmt.Sprintf("❌ render %s failed (%s): %v", e.Ticker, pipeline.Category(err), err))
		return
	}

	log.Info().Str("ticker", e.Ticker).Str("output", res.OutputPath).Msg("scheduled render finished")
	s.trySend(fmt.Sprintf("🎬 %s rendered: %s (%d frames in %s)",
		e.Ticker, res.OutputPath, res.Frames, res.Elapsed.Round(time.Second)))
}

func (s *Scheduler) trySend(msg string) {
	if !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, msg, 3); err != nil {
		log.Warn().Err(err).Msg("telegram notify failed")
	}
}
