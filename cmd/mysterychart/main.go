// Command mysterychart renders animated "guess the asset" price-chart videos.
//
// One-shot render from Yahoo Finance:
//
//	mysterychart -ticker BTC-USD -start 2021-01-01 -end 2024-03-01 -answer BITCOIN -reveal
//
// One-shot render from pasted rows (one "YYYY-MM-DD price" per line):
//
//	mysterychart -input prices.txt -answer BITCOIN -reveal
//
// Browser form and scheduled modes:
//
//	mysterychart -serve
//	mysterychart -watch
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"MysteryChart/internal/config"
	"MysteryChart/internal/encode"
	"MysteryChart/internal/form"
	"MysteryChart/internal/notify"
	"MysteryChart/internal/pipeline"
	"MysteryChart/internal/provider"
	"MysteryChart/internal/recorder"
	"MysteryChart/internal/scheduler"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "path to YAML config")
	serve      = flag.Bool("serve", false, "serve the browser form")
	watch      = flag.Bool("watch", false, "run configured schedules")

	ticker = flag.String("ticker", "", "ticker symbol to fetch (e.g. BTC-USD)")
	start  = flag.String("start", "", "fetch start date, YYYY-MM-DD (default: 5 years ago)")
	end    = flag.String("end", "", "fetch end date, YYYY-MM-DD (default: today)")
	input  = flag.String("input", "", "file of manual \"date price\" rows, or - for stdin")
	answer = flag.String("answer", "", "answer label shown on reveal")
	reveal = flag.Bool("reveal", false, "reveal the answer at the end of the video")
	audio  = flag.Bool("audio", false, "mux the configured background audio track")
	out    = flag.String("out", "", "output MP4 path (default: videos/Mystery_<answer>.mp4)")
)

func main() {
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*configPath = v
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Recorder: SQLite when configured, noop otherwise.
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("sqlite recorder unavailable, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	pipe := &pipeline.Pipeline{
		Provider:  provider.NewYahooProvider(cfg.DataSource.Proxy),
		Encoder:   encode.NewFFmpeg(cfg.Video.FFmpegPath),
		Recorder:  rec,
		Base:      cfg.RenderBase(),
		VideosDir: cfg.Video.VideosDir,
		AudioFile: cfg.Video.AudioFile,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *serve:
		runServe(ctx, cfg, pipe, rec)
	case *watch:
		runWatch(ctx, cfg, pipe)
	default:
		runOnce(ctx, pipe)
	}
}

func runOnce(ctx context.Context, pipe *pipeline.Pipeline) {
	if *ticker == "" && *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	req := pipeline.Request{
		Ticker:     *ticker,
		Label:      *answer,
		Reveal:     *reveal,
		UseAudio:   *audio,
		OutputPath: *out,
	}

	if *input != "" {
		text, err := readInput(*input)
		if err != nil {
			log.Fatal().Err(err).Msg("read manual input")
		}
		req.ManualText = text
	} else {
		var err error
		if req.Start, req.End, err = parseRange(*start, *end); err != nil {
			log.Fatal().Err(err).Msg("parse date range")
		}
	}

	res, err := pipe.Run(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("category", pipeline.Category(err)).Msg("render failed")
		os.Exit(1)
	}
	log.Info().Str("output", res.OutputPath).Int("frames", res.Frames).Msg("done")
}

func runServe(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline, rec recorder.Recorder) {
	srv := form.New(pipe, rec)
	go func() {
		if err := srv.Start(cfg.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("form server")
		}
	}()
	log.Info().Msgf("open http://%s in a browser, Ctrl+C to stop", cfg.Server.Listen)

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("form server shutdown")
	}
}

func runWatch(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline) {
	if len(cfg.Schedule) == 0 {
		log.Fatal().Msg("watch mode needs at least one schedule entry in the config")
	}

	tn := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
	sched := scheduler.NewScheduler(ctx, pipe, tn)
	if err := sched.RegisterAll(cfg.Schedule); err != nil {
		log.Fatal().Err(err).Msg("register schedules")
	}
	sched.Start()
	defer sched.Stop()

	log.Info().Int("schedules", len(cfg.Schedule)).Msg("watching, Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	endT := time.Now()
	if endStr != "" {
		var err error
		if endT, err = time.Parse("2006-01-02", endStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	startT := endT.AddDate(-5, 0, 0)
	if startStr != "" {
		var err error
		if startT, err = time.Parse("2006-01-02", startStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return startT, endT, nil
}
