package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"MysteryChart/internal/model"
	"MysteryChart/internal/render"
)

// ScheduleEntry is one cron-driven render.
type ScheduleEntry struct {
	Cron         string `yaml:"cron" validate:"required"`
	Ticker       string `yaml:"ticker" validate:"required"`
	Label        string `yaml:"label"`
	LookbackDays int    `yaml:"lookback_days" default:"365" validate:"gt=1"`
	Reveal       bool   `yaml:"reveal"`
	UseAudio     bool   `yaml:"use_audio"`
}

// Config holds all application configuration.
type Config struct {
	Video struct {
		Width            int     `yaml:"width" default:"1080" validate:"gt=0"`
		Height           int     `yaml:"height" default:"1920" validate:"gt=0"`
		FPS              int     `yaml:"fps" default:"30" validate:"gt=0"`
		DrawSeconds      float64 `yaml:"draw_seconds" default:"15" validate:"gt=0"`
		StartIdleSeconds float64 `yaml:"start_idle_seconds" default:"2" validate:"gte=0"`
		EndIdleSeconds   float64 `yaml:"end_idle_seconds" default:"5" validate:"gte=0"`
		BitrateKbps      int     `yaml:"bitrate_kbps" default:"8000" validate:"gt=0"`
		Background       string  `yaml:"background" validate:"hexcolor"`
		Grid             string  `yaml:"grid" validate:"hexcolor"`
		Line             string  `yaml:"line" validate:"hexcolor"`
		Accent           string  `yaml:"accent" validate:"hexcolor"`
		Smooth           bool    `yaml:"smooth" default:"true"`
		VideosDir        string  `yaml:"videos_dir" default:"videos"`
		AudioFile        string  `yaml:"audio_file" default:"audio/background.mp3"`
		FFmpegPath       string  `yaml:"ffmpeg_path" default:"ffmpeg"`
	} `yaml:"video"`
	DataSource struct {
		Proxy string `yaml:"proxy"`
	} `yaml:"data_source"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Listen string `yaml:"listen" default:"127.0.0.1:8787"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule []ScheduleEntry `yaml:"schedule" validate:"dive"`
	Logging  struct {
		Level string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	} `yaml:"logging"`
}

// Load reads config from a YAML file (missing file is fine), fills defaults,
// then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	// The color defaults live next to the renderer, not in struct tags, so
	// the theme has a single source of truth.
	if cfg.Video.Background == "" {
		cfg.Video.Background = render.DefaultBackground
	}
	if cfg.Video.Grid == "" {
		cfg.Video.Grid = render.DefaultGrid
	}
	if cfg.Video.Line == "" {
		cfg.Video.Line = render.DefaultLine
	}
	if cfg.Video.Accent == "" {
		cfg.Video.Accent = render.DefaultAccent
	}

	// Environment variable overrides
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// RenderBase builds the render template from the video section. Per-request
// fields (label, reveal, audio, output) are filled by the pipeline.
func (c *Config) RenderBase() model.RenderConfig {
	return model.RenderConfig{
		Width:            c.Video.Width,
		Height:           c.Video.Height,
		FPS:              c.Video.FPS,
		DrawSeconds:      c.Video.DrawSeconds,
		StartIdleSeconds: c.Video.StartIdleSeconds,
		EndIdleSeconds:   c.Video.EndIdleSeconds,
		BitrateKbps:      c.Video.BitrateKbps,
		Background:       c.Video.Background,
		Grid:             c.Video.Grid,
		Line:             c.Video.Line,
		Accent:           c.Video.Accent,
		Smooth:           c.Video.Smooth,
	}
}
