// Package view is the interactive display: a window listing the
// rendered panels, with keyboard-driven reload and quit.
package view

import (
	"bytes"
	"image/png"
	"sync/atomic"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/alfbr/opm-utilities/src/plog"
)

// RenderFunc runs one complete render pass from the on-disk data and
// returns the finished panels as PNG bytes.
type RenderFunc func() ([][]byte, error)

type uiState struct {
	window  fyne.Window
	column  *fyne.Container
	render  RenderFunc
	pass    atomic.Int64 // generation counter; stale passes are discarded
	running atomic.Bool
}

// Show opens the viewer over the initial panels and blocks until the
// window closes. R (or Ctrl/Cmd+R) starts a fresh render pass; Q,
// Ctrl/Cmd+W and Ctrl/Cmd+Q quit. A reload issued while a pass is in
// flight supersedes it: the stale pass's panels are dropped.
func Show(title string, initial [][]byte, render RenderFunc) {
	a := app.New()
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(960, 720))

	state := &uiState{window: w, column: container.NewVBox(), render: render}
	state.setPanels(initial)
	w.SetContent(container.NewVScroll(state.column))

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyR:
			state.reload()
		case fyne.KeyQ, fyne.KeyEscape:
			w.Close()
		}
	})
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierControl, fyne.KeyModifierSuper} {
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { state.reload() })
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { w.Close() })
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: mod}, func(fyne.Shortcut) { w.Close() })
	}

	w.ShowAndRun()
}

func (s *uiState) setPanels(pngs [][]byte) {
	s.column.Objects = nil
	for _, b := range pngs {
		img, err := png.Decode(bytes.NewReader(b))
		if err != nil {
			plog.Errorf("decode panel image: %v", err)
			continue
		}
		ci := canvas.NewImageFromImage(img)
		ci.FillMode = canvas.ImageFillContain
		ci.SetMinSize(fyne.NewSize(float32(img.Bounds().Dx()), float32(img.Bounds().Dy())))
		s.column.Add(ci)
	}
	s.column.Refresh()
}

// reload runs a fresh render pass in its own goroutine, isolated from
// the UI loop, and applies the result only if no newer pass started
// meanwhile.
func (s *uiState) reload() {
	gen := s.pass.Add(1)
	if !s.running.CompareAndSwap(false, true) {
		plog.Infof("reload requested, superseding the in-flight render pass")
	}
	go func() {
		defer s.running.Store(false)
		start := time.Now()
		pngs, err := s.render()
		if s.pass.Load() != gen {
			return // a newer pass owns the window now
		}
		if err != nil {
			plog.Errorf("reload failed: %v", err)
			return
		}
		plog.TimeTrack(start, "render pass")
		fyne.Do(func() { s.setPanels(pngs) })
	}()
}
