// Package encode turns rendered frames into an MP4 by streaming raw RGBA
// data into an external ffmpeg process, with an optional second pass that
// muxes in a background audio track.
package encode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"

	"MysteryChart/internal/model"
)

// FrameFunc supplies the frame image for a given index.
type FrameFunc func(i int) (image.Image, error)

// Encoder assembles an ordered frame sequence into the configured output file.
type Encoder interface {
	Encode(ctx context.Context, cfg model.RenderConfig, total int, next FrameFunc) error
}

// FFmpegEncoder drives the ffmpeg binary over a stdin pipe.
type FFmpegEncoder struct {
	Binary string
}

// NewFFmpeg creates an encoder using the given ffmpeg binary name or path.
// Empty means "ffmpeg" on PATH.
func NewFFmpeg(binary string) *FFmpegEncoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegEncoder{Binary: binary}
}

// videoArgs builds the rawvideo-to-h264 encoding command line.
func videoArgs(cfg model.RenderConfig, out string) []string {
	bitrate := cfg.BitrateKbps
	if bitrate <= 0 {
		bitrate = 8000
	}
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-framerate", strconv.Itoa(cfg.FPS),
		"-i", "-",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-b:v", fmt.Sprintf("%dk", bitrate),
		out,
	}
}

// muxArgs builds the audio muxing command line: video copied as-is, audio
// transcoded to AAC, output cut to the shorter stream.
func muxArgs(video, audio, out string) []string {
	return []string{
		"-y",
		"-i", video,
		"-i", audio,
		"-c:v", "copy",
		"-c:a", "aac",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		out,
	}
}

// Encode streams all frames into ffmpeg, then finalizes the output: muxing
// audio when a track is configured and present, otherwise renaming the
// intermediate file into place.
func (e *FFmpegEncoder) Encode(ctx context.Context, cfg model.RenderConfig, total int, next FrameFunc) error {
	temp := cfg.OutputPath + ".tmp.mp4"
	defer os.Remove(temp)

	if err := e.encodeVideo(ctx, cfg, total, next, temp); err != nil {
		return err
	}

	if cfg.AudioPath != "" {
		if _, err := os.Stat(cfg.AudioPath); err == nil {
			log.Info().Str("audio", cfg.AudioPath).Msg("muxing audio")
			if err := e.run(ctx, muxArgs(temp, cfg.AudioPath, cfg.OutputPath)); err != nil {
				return fmt.Errorf("audio mux: %w", err)
			}
			return nil
		}
		log.Warn().Str("audio", cfg.AudioPath).Msg("audio file missing, saving video only")
	}

	os.Remove(cfg.OutputPath)
	if err := os.Rename(temp, cfg.OutputPath); err != nil {
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}

func (e *FFmpegEncoder) encodeVideo(ctx context.Context, cfg model.RenderConfig, total int, next FrameFunc, out string) error {
	cmd := exec.CommandContext(ctx, e.Binary, videoArgs(cfg, out)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	writeErr := func() error {
		defer stdin.Close()
		for i := 0; i < total; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := next(i)
			if err != nil {
				return err
			}
			if _, err := stdin.Write(rawRGBA(img, cfg.Width, cfg.Height)); err != nil {
				return fmt.Errorf("write frame %d: %w", i, err)
			}
			if i%(cfg.FPS*5) == 0 {
				log.Info().Int("frame", i).Int("total", total).Msgf("encoding: %d%%", i*100/total)
			}
		}
		return nil
	}()

	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	if waitErr != nil {
		return fmt.Errorf("ffmpeg: %w, stderr: %s", waitErr, tail(stderr.String(), 500))
	}
	return nil
}

func (e *FFmpegEncoder) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w, stderr: %s", err, tail(stderr.String(), 500))
	}
	return nil
}

// rawRGBA returns the frame as packed RGBA bytes of exactly w*h*4 length.
func rawRGBA(img image.Image, w, h int) []byte {
	if rgba, ok := img.(*image.RGBA); ok {
		b := rgba.Bounds()
		if b.Dx() == w && b.Dy() == h && rgba.Stride == 4*w && b.Min.X == 0 && b.Min.Y == 0 {
			return rgba.Pix
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst.Pix
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
