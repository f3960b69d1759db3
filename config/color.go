// SPDX-License-Identifier: Unlicense OR MIT

/*
Package config holds the typed configuration the core consumes.
Parsing configuration files is the collaborator's job; this
package defines the recognized values, the per-monitor and
per-workspace overlay merge, and window rule resolution.
*/
package config

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// Color is a straight-alpha RGBA color with float components in
// [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGBA8 returns c quantized to 8 bits per channel.
func (c Color) RGBA8() color.NRGBA {
	conv := func(v float64) uint8 {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		return uint8(math.Round(v * 255))
	}
	return color.NRGBA{R: conv(c.R), G: conv(c.G), B: conv(c.B), A: conv(c.A)}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// RGBA returns a color from four 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

// ParseColor accepts CSS-style color strings: #rgb, #rgba,
// #rrggbb, #rrggbbaa, rgb(...), rgba(...) and named colors.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[4:len(s)-1], false)
	}
	if c, ok := colornames.Map[s]; ok {
		return RGBA(c.R, c.G, c.B, c.A), nil
	}
	return Color{}, errors.Errorf("unrecognized color %q", s)
}

func parseHexColor(hex string) (Color, error) {
	expand := func(digits string) string {
		var b strings.Builder
		for _, d := range digits {
			b.WriteRune(d)
			b.WriteRune(d)
		}
		return b.String()
	}
	switch len(hex) {
	case 3, 4:
		hex = expand(hex)
	case 6, 8:
	default:
		return Color{}, errors.Errorf("invalid hex color length %d", len(hex))
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Color{}, errors.Wrap(err, "invalid hex color")
	}
	return RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func parseRGBFunc(args string, hasAlpha bool) (Color, error) {
	args = strings.ReplaceAll(args, ",", " ")
	fields := strings.Fields(args)
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(fields) != want {
		return Color{}, errors.Errorf("rgb(): want %d components, got %d", want, len(fields))
	}
	comps := make([]float64, len(fields))
	for i, f := range fields {
		if i < 3 {
			v, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
			if err != nil {
				return Color{}, errors.Wrapf(err, "rgb() component %q", f)
			}
			if strings.HasSuffix(f, "%") {
				v = v / 100 * 255
			}
			comps[i] = v / 255
		} else {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return Color{}, errors.Wrapf(err, "rgb() alpha %q", f)
			}
			comps[i] = v
		}
	}
	c := Color{R: comps[0], G: comps[1], B: comps[2], A: 1}
	if hasAlpha {
		c.A = comps[3]
	}
	return c, nil
}

// ColorSpace selects the space a gradient interpolates in.
type ColorSpace uint8

const (
	ColorSpaceSrgb ColorSpace = iota
	ColorSpaceSrgbLinear
	ColorSpaceOklab
	ColorSpaceOklch
)

// HueInterpolation selects the hue path for oklch interpolation.
type HueInterpolation uint8

const (
	HueShorter HueInterpolation = iota
	HueLonger
	HueIncreasing
	HueDecreasing
)

// GradientRelativeTo selects the geometry a gradient spans.
type GradientRelativeTo uint8

const (
	RelativeToWindow GradientRelativeTo = iota
	RelativeToWorkspaceView
)

// Gradient is a two-stop linear gradient.
type Gradient struct {
	From, To   Color
	AngleDeg   float64
	RelativeTo GradientRelativeTo
	In         ColorSpace
	Hue        HueInterpolation
}

// ParseInterpolation parses the "<colorspace> [<hue-interp> hue]"
// form. Hue interpolation is only valid with oklch.
func ParseInterpolation(s string) (ColorSpace, HueInterpolation, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ColorSpaceSrgb, HueShorter, nil
	}
	var space ColorSpace
	switch fields[0] {
	case "srgb":
		space = ColorSpaceSrgb
	case "srgb-linear":
		space = ColorSpaceSrgbLinear
	case "oklab":
		space = ColorSpaceOklab
	case "oklch":
		space = ColorSpaceOklch
	default:
		return 0, 0, errors.Errorf("unrecognized color space %q", fields[0])
	}
	hue := HueShorter
	if len(fields) > 1 {
		if len(fields) != 3 || fields[2] != "hue" {
			return 0, 0, errors.Errorf("invalid interpolation %q", s)
		}
		if space != ColorSpaceOklch {
			return 0, 0, errors.New("hue interpolation is only valid with oklch")
		}
		switch fields[1] {
		case "shorter":
			hue = HueShorter
		case "longer":
			hue = HueLonger
		case "increasing":
			hue = HueIncreasing
		case "decreasing":
			hue = HueDecreasing
		default:
			return 0, 0, errors.Errorf("unrecognized hue interpolation %q", fields[1])
		}
	}
	return space, hue, nil
}

// At returns the gradient color at position t in [0, 1].
func (g Gradient) At(t float64) Color {
	if t <= 0 {
		return g.From
	}
	if t >= 1 {
		return g.To
	}
	alpha := g.From.A + (g.To.A-g.From.A)*t
	from, to := g.From.colorful(), g.To.colorful()
	var blended colorful.Color
	switch g.In {
	case ColorSpaceSrgbLinear:
		blended = from.BlendLinearRgb(to, t)
	case ColorSpaceOklab:
		blended = from.BlendOkLab(to, t)
	case ColorSpaceOklch:
		blended = blendOklch(from, to, t, g.Hue)
	default:
		blended = from.BlendRgb(to, t)
	}
	return Color{R: blended.R, G: blended.G, B: blended.B, A: alpha}
}

func blendOklch(from, to colorful.Color, t float64, hue HueInterpolation) colorful.Color {
	l1, c1, h1 := from.OkLch()
	l2, c2, h2 := to.OkLch()
	d := h2 - h1
	switch hue {
	case HueShorter:
		if d > 180 {
			d -= 360
		} else if d < -180 {
			d += 360
		}
	case HueLonger:
		if 0 < d && d < 180 {
			d -= 360
		} else if -180 < d && d <= 0 {
			d += 360
		}
	case HueIncreasing:
		if d < 0 {
			d += 360
		}
	case HueDecreasing:
		if d > 0 {
			d -= 360
		}
	}
	h := math.Mod(h1+d*t+360, 360)
	l := l1 + (l2-l1)*t
	c := c1 + (c2-c1)*t
	return colorful.OkLch(l, c, h).Clamped()
}

func (g Gradient) String() string {
	return fmt.Sprintf("gradient(%v -> %v, %g deg)", g.From.RGBA8(), g.To.RGBA8(), g.AngleDeg)
}
