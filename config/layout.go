// SPDX-License-Identifier: Unlicense OR MIT

package config

// PresetSize is a user-configured width or height.
type PresetSize struct {
	// Proportion of the working area when Fixed is zero.
	Proportion float64
	// Fixed logical pixels; takes precedence when non-zero.
	Fixed int
}

// IsFixed reports whether the preset is a fixed pixel value.
func (p PresetSize) IsFixed() bool { return p.Fixed != 0 }

// CenterFocusedColumn selects when the focused column is centered.
type CenterFocusedColumn uint8

const (
	CenterNever CenterFocusedColumn = iota
	CenterOnOverflow
	CenterAlways
)

// ColumnDisplay is how a column presents its tiles.
type ColumnDisplay uint8

const (
	ColumnDisplayNormal ColumnDisplay = iota
	ColumnDisplayTabbed
)

// Struts reserve space on the edges of the working area.
type Struts struct {
	Left, Right, Top, Bottom float64
}

// Border configures the window border; FocusRing shares the shape.
type Border struct {
	Off              bool
	Width            float64
	ActiveColor      Color
	InactiveColor    Color
	UrgentColor      Color
	ActiveGradient   *Gradient
	InactiveGradient *Gradient
	UrgentGradient   *Gradient
}

// FocusRing renders around the focused window, outside the border.
type FocusRing = Border

// Shadow configures the drop shadow behind tiles.
type Shadow struct {
	On               bool
	Offset           struct{ X, Y float64 }
	Softness         float64
	Spread           float64
	DrawBehindWindow bool
	Color            Color
	InactiveColor    *Color
}

// TabIndicatorPosition places the indicator relative to a column.
type TabIndicatorPosition uint8

const (
	TabIndicatorLeft TabIndicatorPosition = iota
	TabIndicatorRight
	TabIndicatorTop
	TabIndicatorBottom
)

// TabIndicator configures the tabbed-column indicator strip.
type TabIndicator struct {
	Off               bool
	HideWhenSingleTab bool
	PlaceWithinColumn bool
	Gap               float64
	Width             float64
	// Length as a proportion of the column size.
	LengthTotalProportion float64
	Position              TabIndicatorPosition
	GapsBetweenTabs       float64
	CornerRadius          float64
	ActiveColor           Color
	InactiveColor         Color
	UrgentColor           Color
	ActiveGradient        *Gradient
	InactiveGradient      *Gradient
	UrgentGradient        *Gradient
}

// Layout is the fully resolved layout section.
type Layout struct {
	Gaps                     float64
	Struts                   Struts
	Border                   Border
	FocusRing                FocusRing
	Shadow                   Shadow
	TabIndicator             TabIndicator
	PresetColumnWidths       []PresetSize
	PresetWindowHeights      []PresetSize
	DefaultColumnWidth       *PresetSize
	DefaultColumnDisplay     ColumnDisplay
	CenterFocusedColumn      CenterFocusedColumn
	AlwaysCenterSingleColumn bool
	EmptyWorkspaceAboveFirst bool
}

// LayoutPart is a partial layout section used for per-monitor and
// per-workspace overrides. Nil fields inherit.
type LayoutPart struct {
	Gaps                     *float64
	Struts                   *Struts
	Border                   *Border
	FocusRing                *FocusRing
	Shadow                   *Shadow
	TabIndicator             *TabIndicator
	PresetColumnWidths       []PresetSize
	PresetWindowHeights      []PresetSize
	DefaultColumnWidth       *PresetSize
	DefaultColumnDisplay     *ColumnDisplay
	CenterFocusedColumn      *CenterFocusedColumn
	AlwaysCenterSingleColumn *bool
	EmptyWorkspaceAboveFirst *bool
}

// Overlay applies part on top of l, field-wise, scalar-replace.
func (l Layout) Overlay(part *LayoutPart) Layout {
	if part == nil {
		return l
	}
	if part.Gaps != nil {
		l.Gaps = *part.Gaps
	}
	if part.Struts != nil {
		l.Struts = *part.Struts
	}
	if part.Border != nil {
		l.Border = *part.Border
	}
	if part.FocusRing != nil {
		l.FocusRing = *part.FocusRing
	}
	if part.Shadow != nil {
		l.Shadow = *part.Shadow
	}
	if part.TabIndicator != nil {
		l.TabIndicator = *part.TabIndicator
	}
	if part.PresetColumnWidths != nil {
		l.PresetColumnWidths = part.PresetColumnWidths
	}
	if part.PresetWindowHeights != nil {
		l.PresetWindowHeights = part.PresetWindowHeights
	}
	if part.DefaultColumnWidth != nil {
		l.DefaultColumnWidth = part.DefaultColumnWidth
	}
	if part.DefaultColumnDisplay != nil {
		l.DefaultColumnDisplay = *part.DefaultColumnDisplay
	}
	if part.CenterFocusedColumn != nil {
		l.CenterFocusedColumn = *part.CenterFocusedColumn
	}
	if part.AlwaysCenterSingleColumn != nil {
		l.AlwaysCenterSingleColumn = *part.AlwaysCenterSingleColumn
	}
	if part.EmptyWorkspaceAboveFirst != nil {
		l.EmptyWorkspaceAboveFirst = *part.EmptyWorkspaceAboveFirst
	}
	return l
}

// DefaultLayout returns the built-in layout configuration.
func DefaultLayout() Layout {
	return Layout{
		Gaps: 16,
		Border: Border{
			Off:           true,
			Width:         4,
			ActiveColor:   RGBA(0xff, 0xc8, 0x7f, 0xff),
			InactiveColor: RGBA(0x50, 0x50, 0x5a, 0xff),
			UrgentColor:   RGBA(0x9b, 0x00, 0x00, 0xff),
		},
		FocusRing: FocusRing{
			Width:         4,
			ActiveColor:   RGBA(0x7f, 0xc8, 0xff, 0xff),
			InactiveColor: RGBA(0x50, 0x50, 0x5a, 0xff),
			UrgentColor:   RGBA(0x9b, 0x00, 0x00, 0xff),
		},
		Shadow: Shadow{
			Softness: 30,
			Spread:   5,
			Color:    RGBA(0, 0, 0, 0x70),
		},
		TabIndicator: TabIndicator{
			Gap:                   5,
			Width:                 4,
			LengthTotalProportion: 0.5,
			Position:              TabIndicatorLeft,
			ActiveColor:           RGBA(0x7f, 0xc8, 0xff, 0xff),
			InactiveColor:         RGBA(0x50, 0x50, 0x5a, 0xff),
			UrgentColor:           RGBA(0x9b, 0x00, 0x00, 0xff),
		},
		PresetColumnWidths: []PresetSize{
			{Proportion: 1.0 / 3.0},
			{Proportion: 0.5},
			{Proportion: 2.0 / 3.0},
		},
		CenterFocusedColumn: CenterNever,
	}
}

// Animations configures global animation behavior: switching
// animations off and slowing them down.
type Animations struct {
	Off        bool
	SlowdownMs float64
}

// Config is the full typed configuration the core consumes.
type Config struct {
	Layout     Layout
	Animations Animations
	Rules      []WindowRule
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{Layout: DefaultLayout()}
}
