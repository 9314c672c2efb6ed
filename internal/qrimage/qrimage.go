// Package qrimage renders payloads as QR code images.
package qrimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"
	"rsc.io/qr"
)

// Level is the error correction level of the code.
type Level string

const (
	LevelL Level = "L"
	LevelM Level = "M"
	LevelQ Level = "Q"
	LevelH Level = "H"
)

const (
	DefaultForeground = "#7C1A8B"
	DefaultBackground = "#FFFFFF"
	defaultModuleSize = 8
	defaultQuietZone  = 4
)

var (
	ErrInvalidLevel = errorutil.New("invalid error correction level")
	ErrInvalidColor = errorutil.New("invalid color, use #RRGGBB")
	ErrEmptyPayload = errorutil.New("payload is empty")
)

type Options struct {
	Level      Level
	Foreground string
	Background string
	// ModuleSize is the side of a module in pixels.
	ModuleSize int
	// QuietZone is the width of the border in modules. Zero means the
	// default of 4, a negative value means no border.
	QuietZone int
}

// DefaultOptions renders level M codes in the PayNow purple.
func DefaultOptions() Options {
	return Options{
		Level:      LevelM,
		Foreground: DefaultForeground,
		Background: DefaultBackground,
		ModuleSize: defaultModuleSize,
		QuietZone:  defaultQuietZone,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Level == "" {
		o.Level = d.Level
	}
	if o.Foreground == "" {
		o.Foreground = d.Foreground
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	if o.ModuleSize <= 0 {
		o.ModuleSize = d.ModuleSize
	}
	if o.QuietZone == 0 {
		o.QuietZone = d.QuietZone
	} else if o.QuietZone < 0 {
		o.QuietZone = 0
	}
	return o
}

// SVG renders payload as a scalable vector image.
func SVG(payload string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	fg, err := parseColor(opts.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := parseColor(opts.Background)
	if err != nil {
		return nil, err
	}

	code, err := encode(payload, opts.Level)
	if err != nil {
		return nil, err
	}

	modules := code.Size + 2*opts.QuietZone
	pixels := modules * opts.ModuleSize

	var path strings.Builder
	for y := 0; y < code.Size; y++ {
		for x := 0; x < code.Size; x++ {
			if code.Black(x, y) {
				fmt.Fprintf(&path, "M%d %dh1v1h-1z", x+opts.QuietZone, y+opts.QuietZone)
			}
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		pixels, pixels, modules, modules)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, modules, modules, hex(bg))
	fmt.Fprintf(&b, `<path fill="%s" d="%s"/>`, hex(fg), path.String())
	b.WriteString(`</svg>`)
	return b.Bytes(), nil
}

// PNG renders payload as a raster image.
func PNG(payload string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	fg, err := parseColor(opts.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := parseColor(opts.Background)
	if err != nil {
		return nil, err
	}

	code, err := encode(payload, opts.Level)
	if err != nil {
		return nil, err
	}

	side := (code.Size + 2*opts.QuietZone) * opts.ModuleSize
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{bg, fg})
	for y := 0; y < code.Size; y++ {
		for x := 0; x < code.Size; x++ {
			if !code.Black(x, y) {
				continue
			}
			x0 := (x + opts.QuietZone) * opts.ModuleSize
			y0 := (y + opts.QuietZone) * opts.ModuleSize
			for dy := 0; dy < opts.ModuleSize; dy++ {
				for dx := 0; dx < opts.ModuleSize; dx++ {
					img.SetColorIndex(x0+dx, y0+dy, 1)
				}
			}
		}
	}

	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return nil, fmt.Errorf("could not encode png: %w", err)
	}
	return b.Bytes(), nil
}

func encode(payload string, level Level) (*qr.Code, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	var l qr.Level
	switch level {
	case LevelL:
		l = qr.L
	case LevelM:
		l = qr.M
	case LevelQ:
		l = qr.Q
	case LevelH:
		l = qr.H
	default:
		return nil, errorutil.Format("%w: %q", ErrInvalidLevel, level)
	}

	code, err := qr.Encode(payload, l)
	if err != nil {
		return nil, fmt.Errorf("could not encode qr code: %w", err)
	}
	return code, nil
}

func parseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, errorutil.Format("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, errorutil.Format("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
