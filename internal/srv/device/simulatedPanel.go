package device

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/jypelle/dsislider/internal/slider"
	"github.com/sirupsen/logrus"
)

// PanelDevice is a slider panel with a lifecycle.
type PanelDevice interface {
	slider.Panel
	Start()
	Stop()
}

// SimulatedPanel behaves like a panel driven by a display controller reading
// the frame buffer: on every refresh it scans out the active window and then
// raises the refresh handler.
type SimulatedPanel struct {
	fb          *slider.FrameBuffer
	refreshRate int64
	showWindow  bool

	lock         sync.RWMutex
	handler      func()
	window       slider.AddressRange
	columns      slider.PixelRange
	lastFrame    *image.RGBA
	refreshCount uint64

	simulationWindow simulationWindow

	refreshTicker *time.Ticker
	askDone       chan bool
	done          chan bool
}

func NewSimulatedPanel(fb *slider.FrameBuffer, refreshRate int64, showWindow bool) *SimulatedPanel {
	size := fb.Size()
	return &SimulatedPanel{
		fb:          fb,
		refreshRate: refreshRate,
		showWindow:  showWindow,
		window:      fb.Window(slider.RegionA),
		columns:     fb.ColumnRange(slider.RegionA),
		lastFrame:   image.NewRGBA(image.Rectangle{Max: size}),
		askDone:     make(chan bool),
		done:        make(chan bool),
	}
}

func (d *SimulatedPanel) Start() {
	logrus.Infof("Start simulated panel device (%d Hz)", d.refreshRate)

	if d.showWindow {
		d.simulationWindow.open("dsislider", d.fb.Size())
	}

	d.refreshTicker = time.NewTicker(time.Second / time.Duration(d.refreshRate))
	go func() {
		for loop := true; loop; {
			select {
			case <-d.refreshTicker.C:
				d.Refresh()
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *SimulatedPanel) Stop() {
	logrus.Infof("Stop simulated panel device")

	d.refreshTicker.Stop()
	d.askDone <- true
	<-d.done

	if d.showWindow {
		d.simulationWindow.close()
	}
}

// Refresh performs one panel refresh.
func (d *SimulatedPanel) Refresh() {
	d.lock.Lock()
	d.fb.ScanOutInto(d.window, d.lastFrame)
	d.refreshCount++
	handler := d.handler
	d.lock.Unlock()

	if d.showWindow {
		d.simulationWindow.show(d.LastFrame())
	}
	if handler != nil {
		handler()
	}
}

func (d *SimulatedPanel) SetActiveWindow(w slider.AddressRange) error {
	size := d.fb.Size()
	if w.Width != size.X || w.Height != size.Y {
		return fmt.Errorf("window %dx%d does not match panel %v", w.Width, w.Height, size)
	}
	if w.Base < 0 || w.Base+(w.Height-1)*w.Pitch+4*w.Width > 2*4*size.X*size.Y {
		return fmt.Errorf("window at %d outside frame buffer", w.Base)
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.window = w
	return nil
}

func (d *SimulatedPanel) SelectColumnRange(r slider.PixelRange) error {
	if r.Len() != r.Axis.Dimension(d.fb.Size()) {
		return fmt.Errorf("range %d-%d does not cover the panel", r.First, r.Last)
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.columns = r
	return nil
}

func (d *SimulatedPanel) SetRefreshHandler(h func()) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.handler = h
}

// LastFrame returns a copy of what the panel displayed at its last refresh.
func (d *SimulatedPanel) LastFrame() *image.RGBA {
	d.lock.RLock()
	defer d.lock.RUnlock()
	img := image.NewRGBA(d.lastFrame.Rect)
	copy(img.Pix, d.lastFrame.Pix)
	return img
}

// Columns returns the range selected by the last swap.
func (d *SimulatedPanel) Columns() slider.PixelRange {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.columns
}

func (d *SimulatedPanel) RefreshCount() uint64 {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.refreshCount
}
