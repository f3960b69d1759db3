// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"math"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/gesture"
	"strata.dev/transaction"
	"strata.dev/unit"
)

// WorkspaceSwitch is the in-flight vertical workspace transition
// on a monitor, either an animation or a gesture. Its value is a
// fractional workspace index.
type WorkspaceSwitch struct {
	isGesture bool

	anim *anim.Animation

	gesture      gesture.Swipe
	gestureStart float64
	gestureValue float64
}

// Current returns the fractional workspace position.
func (s *WorkspaceSwitch) Current() float64 {
	if s.isGesture {
		return s.gestureValue
	}
	return s.anim.Value()
}

// Target returns where the switch is headed.
func (s *WorkspaceSwitch) Target() float64 {
	if s.isGesture {
		return s.gestureValue
	}
	return s.anim.To()
}

// Monitor is one output and its vertical workspace strip.
type Monitor struct {
	outputName string
	outputSize f64.Size
	metric     unit.Metric

	workspaces         []*Workspace
	activeWorkspaceIdx int

	// previousWorkspaceID backs focus-workspace-previous and
	// auto-back-and-forth.
	previousWorkspaceID WorkspaceID

	workspaceSwitch *WorkspaceSwitch

	baseConfig     config.Layout
	configOverride *config.LayoutPart

	clock *anim.Clock
}

// NewMonitor creates a monitor with one scratch workspace.
func NewMonitor(clock *anim.Clock, name string, size f64.Size, scale float64, cfg config.Layout, override *config.LayoutPart) *Monitor {
	m := &Monitor{
		outputName:     name,
		outputSize:     size,
		metric:         unit.Metric{Scale: scale},
		baseConfig:     cfg,
		configOverride: override,
		clock:          clock,
	}
	m.workspaces = []*Workspace{NewWorkspace(clock, size, m.Config())}
	m.ensureScratchWorkspaces()
	return m
}

// OutputName returns the output's connector name.
func (m *Monitor) OutputName() string { return m.outputName }

// OutputSize returns the output's logical size.
func (m *Monitor) OutputSize() f64.Size { return m.outputSize }

// Metric returns the output's scale metric.
func (m *Monitor) Metric() unit.Metric { return m.metric }

// Config returns the monitor's effective layout configuration.
func (m *Monitor) Config() config.Layout {
	return m.baseConfig.Overlay(m.configOverride)
}

// SetConfigOverride installs the per-output override.
func (m *Monitor) SetConfigOverride(part *config.LayoutPart) {
	m.configOverride = part
	m.applyConfig()
}

// UpdateBaseConfig pushes a new global configuration.
func (m *Monitor) UpdateBaseConfig(cfg config.Layout) {
	m.baseConfig = cfg
	m.applyConfig()
}

func (m *Monitor) applyConfig() {
	cfg := m.Config()
	for _, ws := range m.workspaces {
		ws.UpdateBaseConfig(m.outputSize, cfg)
	}
	m.ensureScratchWorkspaces()
}

// Workspaces returns the strip, owned by the monitor.
func (m *Monitor) Workspaces() []*Workspace { return m.workspaces }

// ActiveWorkspaceIdx returns the active workspace index.
func (m *Monitor) ActiveWorkspaceIdx() int { return m.activeWorkspaceIdx }

// ActiveWorkspace returns the active workspace.
func (m *Monitor) ActiveWorkspace() *Workspace {
	return m.workspaces[m.activeWorkspaceIdx]
}

// WorkspaceSwitchState returns the in-flight switch, if any.
func (m *Monitor) WorkspaceSwitchState() *WorkspaceSwitch { return m.workspaceSwitch }

// RenderPosition returns the fractional workspace index shown
// right now.
func (m *Monitor) RenderPosition() float64 {
	if m.workspaceSwitch != nil {
		return m.workspaceSwitch.Current()
	}
	return float64(m.activeWorkspaceIdx)
}

// FindWorkspace returns the workspace with the given id.
func (m *Monitor) FindWorkspace(id WorkspaceID) (*Workspace, int) {
	for i, ws := range m.workspaces {
		if ws.ID() == id {
			return ws, i
		}
	}
	return nil, -1
}

// FindNamedWorkspace returns the workspace with the given name.
func (m *Monitor) FindNamedWorkspace(name string) (*Workspace, int) {
	for i, ws := range m.workspaces {
		if ws.Name() == name {
			return ws, i
		}
	}
	return nil, -1
}

// SwitchWorkspace animates to the workspace at idx, clamped to
// the valid range.
func (m *Monitor) SwitchWorkspace(idx int) {
	idx = unit.Clamp(idx, 0, len(m.workspaces)-1)
	if idx == m.activeWorkspaceIdx && m.workspaceSwitch == nil {
		return
	}
	from := m.RenderPosition()
	if idx != m.activeWorkspaceIdx {
		m.previousWorkspaceID = m.ActiveWorkspace().ID()
	}
	m.activeWorkspaceIdx = idx
	m.workspaceSwitch = &WorkspaceSwitch{
		anim: anim.NewSpring(m.clock, from, float64(idx), 0, anim.DefaultSpring),
	}
}

// SwitchWorkspaceAutoBackAndForth behaves like SwitchWorkspace,
// except that switching to the already-active index returns to
// the previously active workspace instead.
func (m *Monitor) SwitchWorkspaceAutoBackAndForth(idx int) {
	idx = unit.Clamp(idx, 0, len(m.workspaces)-1)
	if idx == m.activeWorkspaceIdx && m.previousWorkspaceID != 0 {
		if _, prevIdx := m.FindWorkspace(m.previousWorkspaceID); prevIdx >= 0 {
			m.SwitchWorkspace(prevIdx)
			return
		}
	}
	m.SwitchWorkspace(idx)
}

// SwitchWorkspacePrevious returns to the previously active
// workspace.
func (m *Monitor) SwitchWorkspacePrevious() {
	if m.previousWorkspaceID == 0 {
		return
	}
	if _, idx := m.FindWorkspace(m.previousWorkspaceID); idx >= 0 {
		m.SwitchWorkspace(idx)
	}
}

// SwitchWorkspaceUp focuses the workspace above.
func (m *Monitor) SwitchWorkspaceUp() {
	m.SwitchWorkspace(m.activeWorkspaceIdx - 1)
}

// SwitchWorkspaceDown focuses the workspace below.
func (m *Monitor) SwitchWorkspaceDown() {
	m.SwitchWorkspace(m.activeWorkspaceIdx + 1)
}

// WorkspaceSwitchGestureBegin starts the vertical switch gesture.
func (m *Monitor) WorkspaceSwitchGestureBegin(isTouchpad bool) {
	sw := &WorkspaceSwitch{isGesture: true}
	sw.gesture.Begin(m.clock.Now(), isTouchpad)
	sw.gestureStart = m.RenderPosition()
	sw.gestureValue = sw.gestureStart
	m.workspaceSwitch = sw
}

// WorkspaceSwitchGestureUpdate accumulates a delta in logical
// pixels; one output height spans one workspace.
func (m *Monitor) WorkspaceSwitchGestureUpdate(delta float64) {
	sw := m.workspaceSwitch
	if sw == nil || !sw.isGesture {
		return
	}
	h := math.Max(m.outputSize.H, 1)
	total := sw.gesture.Update(m.clock.Now(), delta)
	pos := sw.gestureStart + total/h
	// Rubber-band past the ends.
	limit := float64(len(m.workspaces) - 1)
	if pos < 0 {
		pos = pos / 3
	} else if pos > limit {
		pos = limit + (pos-limit)/3
	}
	sw.gestureValue = pos
}

// WorkspaceSwitchGestureEnd finishes the gesture; cancelled ends
// restore the starting workspace.
func (m *Monitor) WorkspaceSwitchGestureEnd(cancelled bool) {
	sw := m.workspaceSwitch
	if sw == nil || !sw.isGesture {
		return
	}
	est := sw.gesture.End(cancelled)
	if cancelled {
		idx := unit.Clamp(int(math.Round(sw.gestureStart)), 0, len(m.workspaces)-1)
		m.finishSwitchTo(idx, sw.gestureValue)
		return
	}
	h := math.Max(m.outputSize.H, 1)
	projected := sw.gestureValue + est.Distance/h
	idx := int(math.Round(projected))
	// A fast flick commits to the next workspace in its
	// direction even when the projection rounds back.
	if math.Abs(est.Velocity)/h > 1.5 {
		if est.Velocity > 0 && idx <= int(sw.gestureValue) {
			idx = int(sw.gestureValue) + 1
		} else if est.Velocity < 0 && idx >= int(math.Ceil(sw.gestureValue)) {
			idx = int(math.Ceil(sw.gestureValue)) - 1
		}
	}
	idx = unit.Clamp(idx, 0, len(m.workspaces)-1)
	m.finishSwitchTo(idx, sw.gestureValue)
}

func (m *Monitor) finishSwitchTo(idx int, from float64) {
	if idx != m.activeWorkspaceIdx {
		m.previousWorkspaceID = m.ActiveWorkspace().ID()
	}
	m.activeWorkspaceIdx = idx
	m.workspaceSwitch = &WorkspaceSwitch{
		anim: anim.NewSpring(m.clock, from, float64(idx), 0, anim.DefaultSpring),
	}
}

// MoveWorkspaceUp swaps the active workspace with the one above.
func (m *Monitor) MoveWorkspaceUp() bool {
	return m.reorderWorkspace(m.activeWorkspaceIdx, m.activeWorkspaceIdx-1)
}

// MoveWorkspaceDown swaps the active workspace with the one
// below.
func (m *Monitor) MoveWorkspaceDown() bool {
	return m.reorderWorkspace(m.activeWorkspaceIdx, m.activeWorkspaceIdx+1)
}

func (m *Monitor) reorderWorkspace(from, to int) bool {
	if from < 0 || from >= len(m.workspaces) || to < 0 || to >= len(m.workspaces) {
		return false
	}
	m.workspaces[from], m.workspaces[to] = m.workspaces[to], m.workspaces[from]
	if m.activeWorkspaceIdx == from {
		m.activeWorkspaceIdx = to
	} else if m.activeWorkspaceIdx == to {
		m.activeWorkspaceIdx = from
	}
	m.ensureScratchWorkspaces()
	return true
}

// InsertWorkspace places ws at idx, keeping the scratch
// invariants.
func (m *Monitor) InsertWorkspace(idx int, ws *Workspace) {
	idx = unit.Clamp(idx, 0, len(m.workspaces))
	ws.UpdateBaseConfig(m.outputSize, m.Config())
	m.workspaces = append(m.workspaces, nil)
	copy(m.workspaces[idx+1:], m.workspaces[idx:])
	m.workspaces[idx] = ws
	if idx <= m.activeWorkspaceIdx && len(m.workspaces) > 1 {
		m.activeWorkspaceIdx++
	}
	m.ensureScratchWorkspaces()
}

// RemoveWorkspace extracts the workspace at idx.
func (m *Monitor) RemoveWorkspace(idx int) *Workspace {
	if idx < 0 || idx >= len(m.workspaces) {
		return nil
	}
	ws := m.workspaces[idx]
	m.workspaces = append(m.workspaces[:idx], m.workspaces[idx+1:]...)
	if m.activeWorkspaceIdx >= len(m.workspaces) {
		m.activeWorkspaceIdx = len(m.workspaces) - 1
	} else if idx < m.activeWorkspaceIdx {
		m.activeWorkspaceIdx--
	}
	m.ensureScratchWorkspaces()
	return ws
}

// ensureScratchWorkspaces maintains the trailing scratch (and the
// optional leading one) so workspace switching never dead-ends.
func (m *Monitor) ensureScratchWorkspaces() {
	if len(m.workspaces) == 0 ||
		!m.workspaces[len(m.workspaces)-1].IsEmpty() ||
		m.workspaces[len(m.workspaces)-1].IsNamed() {
		m.workspaces = append(m.workspaces, NewWorkspace(m.clock, m.outputSize, m.Config()))
	}
	if m.Config().EmptyWorkspaceAboveFirst {
		first := m.workspaces[0]
		if !first.IsEmpty() || first.IsNamed() {
			ws := NewWorkspace(m.clock, m.outputSize, m.Config())
			m.workspaces = append([]*Workspace{ws}, m.workspaces...)
			m.activeWorkspaceIdx++
		}
	}
}

// switchTargetIdx returns the workspace index an in-flight switch
// still needs, or -1.
func (m *Monitor) switchTargetIdx() int {
	if m.workspaceSwitch == nil {
		return -1
	}
	return int(math.Round(m.workspaceSwitch.Target()))
}

// Refresh removes unneeded empty workspaces. Workspaces touched
// by an in-flight switch are kept so the animation target stays
// valid.
func (m *Monitor) Refresh() {
	cfg := m.Config()
	keepLeading := cfg.EmptyWorkspaceAboveFirst
	switchTarget := m.switchTargetIdx()
	var switchLo, switchHi int
	if m.workspaceSwitch != nil {
		cur := m.workspaceSwitch.Current()
		switchLo = int(math.Floor(cur))
		switchHi = int(math.Ceil(cur))
	}

	for i := len(m.workspaces) - 1; i >= 0; i-- {
		ws := m.workspaces[i]
		if ws.IsNamed() || !ws.IsEmpty() || ws.AreAnimationsOngoing() {
			continue
		}
		if i == m.activeWorkspaceIdx {
			continue
		}
		if i == len(m.workspaces)-1 {
			// Trailing scratch.
			continue
		}
		if keepLeading && i == 0 {
			continue
		}
		if m.workspaceSwitch != nil && (i == switchTarget || (i >= switchLo && i <= switchHi)) {
			continue
		}
		m.workspaces = append(m.workspaces[:i], m.workspaces[i+1:]...)
		if i < m.activeWorkspaceIdx {
			m.activeWorkspaceIdx--
		}
		if m.workspaceSwitch != nil && !m.workspaceSwitch.isGesture {
			// Keep the animation anchored on the same workspace.
			if from := m.workspaceSwitch.anim; from.To() > float64(i) {
				from.Offset(-1)
			}
		}
	}
	m.ensureScratchWorkspaces()
	m.activeWorkspaceIdx = unit.Clamp(m.activeWorkspaceIdx, 0, len(m.workspaces)-1)
}

// Update pushes sizes through every workspace.
func (m *Monitor) Update(animate bool, txn *transaction.Transaction) {
	for _, ws := range m.workspaces {
		ws.Update(animate, txn)
	}
}

// AdvanceAnimations settles finished animations.
func (m *Monitor) AdvanceAnimations() {
	if m.workspaceSwitch != nil && !m.workspaceSwitch.isGesture && m.workspaceSwitch.anim.IsDone() {
		m.workspaceSwitch = nil
	}
	for _, ws := range m.workspaces {
		ws.AdvanceAnimations()
	}
}

// AreAnimationsOngoing reports whether anything animates.
func (m *Monitor) AreAnimationsOngoing() bool {
	if m.workspaceSwitch != nil {
		return true
	}
	for _, ws := range m.workspaces {
		if ws.AreAnimationsOngoing() {
			return true
		}
	}
	return false
}
