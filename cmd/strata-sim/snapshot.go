// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"encoding/json"
	"io"

	"strata.dev/layout"
)

// The snapshot shapes mirror what window-list IPC consumers
// expect: outputs with workspace strips, workspaces with columns,
// columns with window ids.

type snapshot struct {
	Outputs []outputSnapshot `json:"outputs"`
	Orphans []wsSnapshot     `json:"orphan_workspaces,omitempty"`
}

type outputSnapshot struct {
	Name            string       `json:"name"`
	ActiveWorkspace int          `json:"active_workspace"`
	Workspaces      []wsSnapshot `json:"workspaces"`
}

type wsSnapshot struct {
	ID           uint64           `json:"id"`
	Name         string           `json:"name,omitempty"`
	ActiveColumn int              `json:"active_column"`
	ViewOffset   float64          `json:"view_offset"`
	Columns      []columnSnapshot `json:"columns"`
	Floating     []windowSnapshot `json:"floating,omitempty"`
}

type columnSnapshot struct {
	ActiveTile int              `json:"active_tile"`
	Tabbed     bool             `json:"tabbed,omitempty"`
	Fullscreen bool             `json:"fullscreen,omitempty"`
	Windows    []windowSnapshot `json:"windows"`
}

type windowSnapshot struct {
	ID     uint64  `json:"id"`
	Title  string  `json:"title,omitempty"`
	AppID  string  `json:"app_id,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func writeSnapshot(out io.Writer, l *layout.Layout) error {
	snap := snapshot{}
	for _, mon := range l.Monitors() {
		os := outputSnapshot{
			Name:            mon.OutputName(),
			ActiveWorkspace: mon.ActiveWorkspaceIdx(),
		}
		for _, ws := range mon.Workspaces() {
			os.Workspaces = append(os.Workspaces, snapshotWorkspace(ws))
		}
		snap.Outputs = append(snap.Outputs, os)
	}
	for _, ws := range l.OrphanWorkspaces() {
		snap.Orphans = append(snap.Orphans, snapshotWorkspace(ws))
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func snapshotWorkspace(ws *layout.Workspace) wsSnapshot {
	sc := ws.Scrolling()
	w := wsSnapshot{
		ID:           uint64(ws.ID()),
		Name:         ws.Name(),
		ActiveColumn: sc.ActiveColumnIdx(),
		ViewOffset:   sc.ViewPos(),
	}
	for _, col := range sc.Columns() {
		cs := columnSnapshot{
			ActiveTile: col.ActiveTileIdx(),
			Tabbed:     col.Display() != 0,
			Fullscreen: col.IsFullscreen(),
		}
		for _, t := range col.Tiles() {
			cs.Windows = append(cs.Windows, snapshotWindow(t))
		}
		w.Columns = append(w.Columns, cs)
	}
	for _, t := range ws.Floating().Tiles() {
		w.Floating = append(w.Floating, snapshotWindow(t))
	}
	return w
}

func snapshotWindow(t *layout.Tile) windowSnapshot {
	size := t.AnimatedSize()
	return windowSnapshot{
		ID:     uint64(t.ID()),
		Title:  t.Window().Title(),
		AppID:  t.Window().AppID(),
		Width:  size.W,
		Height: size.H,
	}
}
