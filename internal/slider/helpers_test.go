package slider

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testImages []*image.RGBA

func newTestImages(n int, size image.Point) testImages {
	var set testImages
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rectangle{Max: size})
		draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: uint8(40 * (i + 1)), G: uint8(i), B: 7, A: 255}), image.Point{}, draw.Src)
		set = append(set, img)
	}
	return set
}

func (s testImages) Count() int                  { return len(s) }
func (s testImages) ImageAt(index int) *image.RGBA { return s[index] }

// copyBlitter is a software block copy; it can be told to fail.
type copyBlitter struct {
	lock     sync.Mutex
	copies   int
	failures int // remaining calls to fail, -1 fails forever
}

func (b *copyBlitter) CopyRegion(src *image.RGBA, sp image.Point, dst *image.RGBA, dp image.Point, width, height int) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.failures != 0 {
		if b.failures > 0 {
			b.failures--
		}
		return errors.New("transfer error")
	}
	r := image.Rect(0, 0, width, height).Add(dst.Rect.Min).Add(dp)
	draw.Draw(dst, r, src, src.Rect.Min.Add(sp), draw.Src)
	b.copies++
	return nil
}

func (b *copyBlitter) failNext(n int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.failures = n
}

// scriptTouch replays samples, repeating the last one.
type scriptTouch struct {
	samples []TouchState
	next    int
}

func (t *scriptTouch) PollState() TouchState {
	if len(t.samples) == 0 {
		return TouchState{}
	}
	s := t.samples[t.next]
	if t.next < len(t.samples)-1 {
		t.next++
	}
	return s
}

func touchAt(detected bool, x int) TouchState {
	return TouchState{Detected: detected, Position: image.Pt(x, 0)}
}

// fakePanel records commands and, once running, raises the refresh handler
// continuously from its own goroutine.
type fakePanel struct {
	lock       sync.Mutex
	handler    func()
	windows    []AddressRange
	ranges     []PixelRange
	failWindow bool

	frozen  atomic.Bool
	running atomic.Bool
	stop    chan struct{}
	stopped chan struct{}
}

func (p *fakePanel) SetActiveWindow(w AddressRange) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.failWindow {
		return errors.New("write rejected")
	}
	p.windows = append(p.windows, w)
	return nil
}

func (p *fakePanel) SelectColumnRange(r PixelRange) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.ranges = append(p.ranges, r)
	return nil
}

func (p *fakePanel) SetRefreshHandler(h func()) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.handler = h
}

func (p *fakePanel) setFailWindow(fail bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.failWindow = fail
}

func (p *fakePanel) windowCount() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.windows)
}

func (p *fakePanel) lastWindow() AddressRange {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.windows[len(p.windows)-1]
}

func (p *fakePanel) run(t *testing.T) {
	p.stop = make(chan struct{})
	p.stopped = make(chan struct{})
	p.running.Store(true)
	go func() {
		defer close(p.stopped)
		for {
			select {
			case <-p.stop:
				return
			default:
			}
			if !p.frozen.Load() {
				p.lock.Lock()
				h := p.handler
				p.lock.Unlock()
				if h != nil {
					h()
				}
			}
			time.Sleep(50 * time.Microsecond)
		}
	}()
	t.Cleanup(func() {
		close(p.stop)
		<-p.stopped
	})
}

// scanPanel is a fakePanel that scans out the window each time it is
// programmed, the way the panel picks up a new frame.
type scanPanel struct {
	*fakePanel
	fb *FrameBuffer

	scanLock sync.Mutex
	window   AddressRange
	shown    *image.RGBA
}

func (p *scanPanel) SetActiveWindow(w AddressRange) error {
	if err := p.fakePanel.SetActiveWindow(w); err != nil {
		return err
	}
	p.scanLock.Lock()
	defer p.scanLock.Unlock()
	p.window = w
	p.shown = p.fb.ScanOut(w)
	return nil
}

// visible returns what the programmed window holds now and what it held when
// it was programmed. shown is nil before the first window.
func (p *scanPanel) visible() (current, shown *image.RGBA) {
	p.scanLock.Lock()
	defer p.scanLock.Unlock()
	if p.shown == nil {
		return nil, nil
	}
	return p.fb.ScanOut(p.window), p.shown
}

// watchBlitter checks after every copy that the visible window still holds
// the frame it was programmed with.
type watchBlitter struct {
	copyBlitter
	panel   *scanPanel
	checked int
	changed int
}

func (b *watchBlitter) CopyRegion(src *image.RGBA, sp image.Point, dst *image.RGBA, dp image.Point, width, height int) error {
	if err := b.copyBlitter.CopyRegion(src, sp, dst, dp, width, height); err != nil {
		return err
	}
	current, shown := b.panel.visible()
	if shown == nil {
		return nil
	}
	b.checked++
	if !sameImage(current, shown) {
		b.changed++
	}
	return nil
}

func testOptions(size image.Point) Options {
	opts := DefaultOptions()
	opts.Size = size
	opts.FrameDelay = 0
	opts.SwapTimeout = 2 * time.Second
	return opts
}

func sameImage(a, b *image.RGBA) bool {
	if a.Rect.Size() != b.Rect.Size() {
		return false
	}
	for y := 0; y < a.Rect.Dy(); y++ {
		for x := 0; x < a.Rect.Dx(); x++ {
			if a.RGBAAt(a.Rect.Min.X+x, a.Rect.Min.Y+y) != b.RGBAAt(b.Rect.Min.X+x, b.Rect.Min.Y+y) {
				return false
			}
		}
	}
	return true
}
