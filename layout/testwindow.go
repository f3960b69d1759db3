// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"image"

	"strata.dev/f64"
)

// TestWindow is the LayoutElement test double. It records
// configures and lets tests acknowledge them with an arbitrary
// size, modeling clients that answer with something other than
// what was requested.
type TestWindow struct {
	id     WindowID
	title  string
	appID  string
	parent *WindowID

	minSize image.Point
	maxSize image.Point

	committed  image.Point
	nextSerial Serial
	pending    []PendingConfigure

	urgent bool
}

// PendingConfigure is one staged configure of a TestWindow.
type PendingConfigure struct {
	Serial Serial
	Size   image.Point
	States WindowStates
	Sent   bool
}

// NewTestWindow returns a test window with the given requested
// bounding box.
func NewTestWindow(id WindowID, bbox image.Point) *TestWindow {
	return &TestWindow{id: id, committed: bbox}
}

func (w *TestWindow) ID() WindowID { return w.id }

func (w *TestWindow) Size() image.Point { return w.committed }

func (w *TestWindow) MinSize() image.Point { return w.minSize }

func (w *TestWindow) MaxSize() image.Point { return w.maxSize }

func (w *TestWindow) Title() string { return w.title }

func (w *TestWindow) AppID() string { return w.appID }

func (w *TestWindow) Parent() (WindowID, bool) {
	if w.parent == nil {
		return 0, false
	}
	return *w.parent, true
}

func (w *TestWindow) IsInInputRegion(p f64.Point) bool {
	return p.X >= 0 && p.Y >= 0 &&
		p.X < float64(w.committed.X) && p.Y < float64(w.committed.Y)
}

func (w *TestWindow) SetPending(size image.Point, states WindowStates) Serial {
	w.nextSerial++
	w.pending = append(w.pending, PendingConfigure{
		Serial: w.nextSerial,
		Size:   size,
		States: states,
	})
	return w.nextSerial
}

func (w *TestWindow) SendConfigure(serial Serial) {
	for i := range w.pending {
		if w.pending[i].Serial == serial {
			w.pending[i].Sent = true
		}
	}
}

func (w *TestWindow) IsUrgent() bool { return w.urgent }

// SetTitle updates the title; the compositor side re-resolves
// window rules on this.
func (w *TestWindow) SetTitle(title string) { w.title = title }

// SetAppID updates the app id.
func (w *TestWindow) SetAppID(appID string) { w.appID = appID }

// SetParent links the window to a parent. Cycle rejection is the
// layout's job, exercised through Layout.CanSetParent.
func (w *TestWindow) SetParent(id *WindowID) { w.parent = id }

// SetMinSize sets the client's minimum size hint.
func (w *TestWindow) SetMinSize(size image.Point) { w.minSize = size }

// SetMaxSize sets the client's maximum size hint.
func (w *TestWindow) SetMaxSize(size image.Point) { w.maxSize = size }

// SetUrgent flags the window as requesting attention.
func (w *TestWindow) SetUrgent(urgent bool) { w.urgent = urgent }

// LastConfigure returns the most recent staged configure.
func (w *TestWindow) LastConfigure() (PendingConfigure, bool) {
	if len(w.pending) == 0 {
		return PendingConfigure{}, false
	}
	return w.pending[len(w.pending)-1], true
}

// AckLast commits the most recent sent configure at the requested
// size and returns its serial. Zero-size axes keep the committed
// value, like a client that ignores the suggestion.
func (w *TestWindow) AckLast() (Serial, bool) {
	pc, ok := w.LastConfigure()
	if !ok {
		return 0, false
	}
	return pc.Serial, w.AckWithSize(pc.Serial, pc.Size)
}

// AckWithSize commits a specific configure with the size the
// client chose.
func (w *TestWindow) AckWithSize(serial Serial, size image.Point) bool {
	idx := -1
	for i := range w.pending {
		if w.pending[i].Serial == serial {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	if size.X > 0 {
		w.committed.X = size.X
	}
	if size.Y > 0 {
		w.committed.Y = size.Y
	}
	w.pending = w.pending[idx+1:]
	return true
}
