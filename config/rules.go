// SPDX-License-Identifier: Unlicense OR MIT

package config

import (
	"regexp"

	"github.com/pkg/errors"
)

// Match is one predicate of a window rule. Nil fields match
// everything.
type Match struct {
	Title     *regexp.Regexp
	AppID     *regexp.Regexp
	AtStartup *bool
}

// Matches reports whether the predicate accepts the window.
func (m Match) Matches(title, appID string, atStartup bool) bool {
	if m.Title != nil && !m.Title.MatchString(title) {
		return false
	}
	if m.AppID != nil && !m.AppID.MatchString(appID) {
		return false
	}
	if m.AtStartup != nil && *m.AtStartup != atStartup {
		return false
	}
	return true
}

// CompileMatch builds a Match from regexp sources.
func CompileMatch(title, appID string, atStartup *bool) (Match, error) {
	var m Match
	if title != "" {
		re, err := regexp.Compile(title)
		if err != nil {
			return Match{}, errors.Wrap(err, "window rule title")
		}
		m.Title = re
	}
	if appID != "" {
		re, err := regexp.Compile(appID)
		if err != nil {
			return Match{}, errors.Wrap(err, "window rule app-id")
		}
		m.AppID = re
	}
	m.AtStartup = atStartup
	return m, nil
}

// WindowRule overlays properties onto matching windows. A window
// matches when any entry of Matches accepts it (or Matches is
// empty) and no entry of Excludes does.
type WindowRule struct {
	Matches  []Match
	Excludes []Match

	OpenOnWorkspace *string
	OpenOnOutput    *string
	OpenFloating    *bool
	OpenFullscreen  *bool
	OpenMaximized   *bool

	DefaultColumnWidth  *PresetSize
	DefaultWindowHeight *PresetSize
	DefaultFloatingPos  *struct{ X, Y float64 }

	MinWidth, MaxWidth   *int
	MinHeight, MaxHeight *int

	BorderOff                *bool
	FocusRingOff             *bool
	DrawBorderWithBackground *bool
	Opacity                  *float64

	LayoutPart *LayoutPart
}

func (r WindowRule) matches(title, appID string, atStartup bool) bool {
	if len(r.Matches) > 0 {
		matched := false
		for _, m := range r.Matches {
			if m.Matches(title, appID, atStartup) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, m := range r.Excludes {
		if m.Matches(title, appID, atStartup) {
			return false
		}
	}
	return true
}

// ResolvedWindowRules is the overlay of every matching rule in
// declaration order.
type ResolvedWindowRules struct {
	OpenOnWorkspace *string
	OpenOnOutput    *string
	OpenFloating    *bool
	OpenFullscreen  *bool
	OpenMaximized   *bool

	DefaultColumnWidth  *PresetSize
	DefaultWindowHeight *PresetSize
	DefaultFloatingPos  *struct{ X, Y float64 }

	MinWidth, MaxWidth   *int
	MinHeight, MaxHeight *int

	BorderOff                bool
	FocusRingOff             bool
	DrawBorderWithBackground *bool
	Opacity                  float64

	LayoutPart *LayoutPart
}

// ResolveRules computes the effective rule set for a window.
// Later rules win, matching the declaration-order overlay.
func ResolveRules(rules []WindowRule, title, appID string, atStartup bool) ResolvedWindowRules {
	resolved := ResolvedWindowRules{Opacity: 1}
	for i := range rules {
		r := &rules[i]
		if !r.matches(title, appID, atStartup) {
			continue
		}
		if r.OpenOnWorkspace != nil {
			resolved.OpenOnWorkspace = r.OpenOnWorkspace
		}
		if r.OpenOnOutput != nil {
			resolved.OpenOnOutput = r.OpenOnOutput
		}
		if r.OpenFloating != nil {
			resolved.OpenFloating = r.OpenFloating
		}
		if r.OpenFullscreen != nil {
			resolved.OpenFullscreen = r.OpenFullscreen
		}
		if r.OpenMaximized != nil {
			resolved.OpenMaximized = r.OpenMaximized
		}
		if r.DefaultColumnWidth != nil {
			resolved.DefaultColumnWidth = r.DefaultColumnWidth
		}
		if r.DefaultWindowHeight != nil {
			resolved.DefaultWindowHeight = r.DefaultWindowHeight
		}
		if r.DefaultFloatingPos != nil {
			resolved.DefaultFloatingPos = r.DefaultFloatingPos
		}
		if r.MinWidth != nil {
			resolved.MinWidth = r.MinWidth
		}
		if r.MaxWidth != nil {
			resolved.MaxWidth = r.MaxWidth
		}
		if r.MinHeight != nil {
			resolved.MinHeight = r.MinHeight
		}
		if r.MaxHeight != nil {
			resolved.MaxHeight = r.MaxHeight
		}
		if r.BorderOff != nil {
			resolved.BorderOff = *r.BorderOff
		}
		if r.FocusRingOff != nil {
			resolved.FocusRingOff = *r.FocusRingOff
		}
		if r.DrawBorderWithBackground != nil {
			resolved.DrawBorderWithBackground = r.DrawBorderWithBackground
		}
		if r.Opacity != nil {
			resolved.Opacity = *r.Opacity
		}
		if r.LayoutPart != nil {
			resolved.LayoutPart = r.LayoutPart
		}
	}
	return resolved
}
