package render

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Default visual identity, matching the vertical "mystery chart" look.
const (
	DefaultBackground = "#050505" // deep black
	DefaultGrid       = "#1A1A1A" // subtle grid
	DefaultLine       = "#00FF88" // crypto green
	DefaultAccent     = "#00FF88"

	colorTextMain  = "#FFFFFF"
	colorTextMuted = "#808080"
)

// rgb holds a color as 0..1 components so alpha can vary per draw call.
type rgb struct {
	r, g, b float64
}

func parseHex(s string) (rgb, error) {
	if len(s) != 7 || s[0] != '#' {
		return rgb{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return rgb{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return rgb{float64(r) / 255, float64(g) / 255, float64(b) / 255}, nil
}

// faces holds one font.Face per text role. Fonts are the embedded Go fonts,
// so rendering needs no files and stays deterministic across hosts.
type faces struct {
	hookSmall font.Face // "CAN YOU GUESS"
	hookBig   font.Face // "THE STOCK?"
	cta       font.Face // "COMMENT YOUR GUESS"
	revealTag font.Face // "IT WAS:"
	revealBig font.Face // the asset label
	tick      font.Face // date axis labels
}

func newFaces(scale float64) (*faces, error) {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	face := func(f *truetype.Font, px float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: px * scale})
	}
	return &faces{
		hookSmall: face(bold, 92),
		hookBig:   face(bold, 108),
		cta:       face(bold, 75),
		revealTag: face(regular, 67),
		revealBig: face(bold, 117),
		tick:      face(regular, 30),
	}, nil
}
