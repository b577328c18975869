//go:build amd64 && cgo

package device

import (
	"image"
	"sync"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/sirupsen/logrus"
)

type simulationWindow struct {
	lock    sync.RWMutex
	window  *app.Window
	lastImg image.Image
}

func (w *simulationWindow) open(title string, size image.Point) {
	w.window = app.NewWindow(
		app.Title(title),
		app.Size(unit.Px(float32(size.X)), unit.Px(float32(size.Y))),
		app.MinSize(unit.Px(float32(size.X/4)), unit.Px(float32(size.Y/4))),
	)
	go func() {
		if err := w.gioloop(); err != nil {
			logrus.Errorf("Simulation window closed: %v", err)
		}
	}()
	go app.Main()
}

func (w *simulationWindow) show(img image.Image) {
	w.lock.Lock()
	w.lastImg = img
	w.lock.Unlock()
	w.window.Invalidate()
}

func (w *simulationWindow) close() {
	w.window.Close()
}

func (w *simulationWindow) gioloop() error {
	var ops op.Ops
	for {
		e := <-w.window.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			w.lock.RLock()
			lastImg := w.lastImg
			w.lock.RUnlock()

			if lastImg != nil {
				img := widget.Image{Src: paint.NewImageOp(lastImg), Fit: widget.Contain}
				img.Layout(gtx)
			}
			e.Frame(gtx.Ops)
		}
	}
}
