// SPDX-License-Identifier: Unlicense OR MIT

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorForms(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Color
	}{
		{"#fff", RGBA(255, 255, 255, 255)},
		{"#ff0000", RGBA(255, 0, 0, 255)},
		{"#ff000080", RGBA(255, 0, 0, 128)},
		{"#f008", RGBA(255, 0, 0, 136)},
		{"rgb(255, 0, 0)", RGBA(255, 0, 0, 255)},
		{"rgba(0 255 0 0.5)", Color{G: 1, A: 0.5}},
		{"red", RGBA(255, 0, 0, 255)},
		{"navy", RGBA(0, 0, 128, 255)},
		{"  Red ", RGBA(255, 0, 0, 255)},
	} {
		got, err := ParseColor(tc.in)
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want.R, got.R, 0.005, tc.in)
		assert.InDelta(t, tc.want.G, got.G, 0.005, tc.in)
		assert.InDelta(t, tc.want.B, got.B, 0.005, tc.in)
		assert.InDelta(t, tc.want.A, got.A, 0.005, tc.in)
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "#12345", "rgb(1,2)", "notacolor", "#xyzxyz"} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestParseInterpolation(t *testing.T) {
	space, hue, err := ParseInterpolation("oklch longer hue")
	require.NoError(t, err)
	assert.Equal(t, ColorSpaceOklch, space)
	assert.Equal(t, HueLonger, hue)

	space, _, err = ParseInterpolation("srgb-linear")
	require.NoError(t, err)
	assert.Equal(t, ColorSpaceSrgbLinear, space)

	_, _, err = ParseInterpolation("srgb shorter hue")
	assert.Error(t, err, "hue interpolation requires oklch")

	_, _, err = ParseInterpolation("lab")
	assert.Error(t, err)
}

func TestGradientEndpoints(t *testing.T) {
	g := Gradient{
		From: RGBA(255, 0, 0, 255),
		To:   RGBA(0, 0, 255, 128),
		In:   ColorSpaceOklab,
	}
	assert.Equal(t, g.From, g.At(0))
	assert.Equal(t, g.To, g.At(1))

	mid := g.At(0.5)
	assert.InDelta(t, 0.75, mid.A, 0.005, "alpha interpolates linearly")
	assert.Greater(t, mid.R, 0.0)
	assert.Greater(t, mid.B, 0.0)
}

func TestGradientOklchHuePaths(t *testing.T) {
	g := Gradient{
		From: RGBA(255, 0, 0, 255),
		To:   RGBA(0, 0, 255, 255),
		In:   ColorSpaceOklch,
	}
	shorter := g
	shorter.Hue = HueShorter
	longer := g
	longer.Hue = HueLonger
	// The two paths pass through different hues at the midpoint.
	ms, ml := shorter.At(0.5), longer.At(0.5)
	diff := (ms.R-ml.R)*(ms.R-ml.R) + (ms.G-ml.G)*(ms.G-ml.G) + (ms.B-ml.B)*(ms.B-ml.B)
	assert.Greater(t, diff, 0.001)
}

func TestLayoutOverlay(t *testing.T) {
	base := DefaultLayout()
	gaps := 4.0
	display := ColumnDisplayTabbed
	part := &LayoutPart{
		Gaps:                 &gaps,
		DefaultColumnDisplay: &display,
		PresetColumnWidths:   []PresetSize{{Fixed: 640}},
	}
	merged := base.Overlay(part)
	assert.Equal(t, 4.0, merged.Gaps)
	assert.Equal(t, ColumnDisplayTabbed, merged.DefaultColumnDisplay)
	assert.Equal(t, []PresetSize{{Fixed: 640}}, merged.PresetColumnWidths)
	// Untouched fields inherit.
	assert.Equal(t, base.Border, merged.Border)

	assert.Equal(t, base, base.Overlay(nil))
}

func TestOverlayChain(t *testing.T) {
	base := DefaultLayout()
	g1, g2 := 10.0, 20.0
	monitor := &LayoutPart{Gaps: &g1}
	workspace := &LayoutPart{Gaps: &g2}
	merged := base.Overlay(monitor).Overlay(workspace)
	assert.Equal(t, 20.0, merged.Gaps, "the innermost overlay wins")
}

func mustMatch(t *testing.T, title, appID string) Match {
	m, err := CompileMatch(title, appID, nil)
	require.NoError(t, err)
	return m
}

func TestWindowRuleResolution(t *testing.T) {
	floatOn := true
	floatOff := false
	w1, w2 := &PresetSize{Fixed: 400}, &PresetSize{Proportion: 0.5}
	rules := []WindowRule{
		{
			Matches:            []Match{mustMatch(t, "", "^org\\.gnome\\.")},
			OpenFloating:       &floatOn,
			DefaultColumnWidth: w1,
		},
		{
			Matches:            []Match{mustMatch(t, "Terminal", "")},
			OpenFloating:       &floatOff,
			DefaultColumnWidth: w2,
		},
	}

	// Later matching rules overlay earlier ones.
	r := ResolveRules(rules, "Terminal", "org.gnome.Calculator", false)
	require.NotNil(t, r.OpenFloating)
	assert.False(t, *r.OpenFloating)
	assert.Equal(t, w2, r.DefaultColumnWidth)

	// Only the first rule matches.
	r = ResolveRules(rules, "Files", "org.gnome.Nautilus", false)
	require.NotNil(t, r.OpenFloating)
	assert.True(t, *r.OpenFloating)
	assert.Equal(t, w1, r.DefaultColumnWidth)

	// No rules match.
	r = ResolveRules(rules, "vim", "kitty", false)
	assert.Nil(t, r.OpenFloating)
	assert.Equal(t, 1.0, r.Opacity)
}

func TestWindowRuleExcludes(t *testing.T) {
	on := true
	rules := []WindowRule{{
		Matches:      []Match{mustMatch(t, "", "^term")},
		Excludes:     []Match{mustMatch(t, "scratchpad", "")},
		OpenFloating: &on,
	}}
	r := ResolveRules(rules, "shell", "terminal", false)
	assert.NotNil(t, r.OpenFloating)
	r = ResolveRules(rules, "scratchpad", "terminal", false)
	assert.Nil(t, r.OpenFloating, "excluded windows do not match")
}

func TestWindowRuleAtStartup(t *testing.T) {
	atStartup := true
	on := true
	m, err := CompileMatch("", "", &atStartup)
	require.NoError(t, err)
	rules := []WindowRule{{Matches: []Match{m}, OpenMaximized: &on}}

	r := ResolveRules(rules, "x", "y", true)
	assert.NotNil(t, r.OpenMaximized)
	r = ResolveRules(rules, "x", "y", false)
	assert.Nil(t, r.OpenMaximized)
}

func TestCompileMatchRejectsBadRegexp(t *testing.T) {
	_, err := CompileMatch("(", "", nil)
	assert.Error(t, err)
}
