package slider

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Options holds the slider geometry and timing.
type Options struct {
	Size           image.Point   // visible window
	Axis           Axis          // initial axis
	StartIndex     int           // initial image
	FlickThreshold int           // release beyond this displacement commits an index change
	FlickStep      int           // offset step of the flick slide
	SnapStep       int           // offset step of the snap back
	SettleFrames   int           // frames drawn at rest after every animation
	FrameDelay     time.Duration // pause between animation frames
	PollInterval   time.Duration // touch sampling period
	SwapTimeout    time.Duration // 0 waits forever for the panel
	BlitRetries    int           // re-issues of a failed copy
}

func DefaultOptions() Options {
	return Options{
		Size:           image.Pt(800, 480),
		Axis:           Horizontal,
		FlickThreshold: 100,
		FlickStep:      30,
		SnapStep:       10,
		SettleFrames:   2,
		FrameDelay:     50 * time.Millisecond,
		PollInterval:   10 * time.Millisecond,
		SwapTimeout:    500 * time.Millisecond,
		BlitRetries:    1,
	}
}

func (o Options) Validate() error {
	if o.Size.X <= 1 || o.Size.Y <= 1 {
		return fmt.Errorf("slider: invalid window size %v", o.Size)
	}
	if o.FlickThreshold <= 0 {
		return errors.New("slider: flick threshold must be positive")
	}
	if o.FlickStep <= 0 || o.SnapStep <= 0 {
		return errors.New("slider: animation steps must be positive")
	}
	if o.SettleFrames < 1 {
		return errors.New("slider: at least one settle frame is required")
	}
	if o.PollInterval <= 0 {
		return errors.New("slider: poll interval must be positive")
	}
	if o.SwapTimeout < 0 || o.FrameDelay < 0 || o.BlitRetries < 0 {
		return errors.New("slider: negative timing value")
	}
	return nil
}

// Snapshot is a consistent view of the controller for observers.
type Snapshot struct {
	Index         int
	Count         int
	Axis          Axis
	Active        Region
	Dragging      bool
	Offset        int
	Refreshes     uint64
	Swaps         uint64
	IdleRefreshes uint64
	// LastError is the last failure, cleared once a frame reaches the panel
	LastError string
}

// frame is what was last handed to the panel.
type frame struct {
	index  int
	offset int
}

// Controller runs the touch polling loop, composes frames into the drawable
// half and waits for the panel to show them.
type Controller struct {
	opts    Options
	images  ImageSource
	blitter Blitter
	touch   TouchInput
	fb      *FrameBuffer
	coord   *Coordinator

	// owned by the polling goroutine
	state   ScrollState
	shown   frame
	lastErr error

	toggleRequested atomic.Bool

	lock     sync.RWMutex
	snapshot Snapshot
	onChange func(Snapshot)

	sleep      func(time.Duration)
	pollTicker *time.Ticker
	askDone    chan bool
	done       chan bool
}

func NewController(opts Options, fb *FrameBuffer, images ImageSource, blitter Blitter, touch TouchInput, panel Panel) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if images.Count() < 1 {
		return nil, errors.New("slider: empty image set")
	}
	if fb.Size() != opts.Size {
		return nil, fmt.Errorf("slider: frame buffer size %v does not match window %v", fb.Size(), opts.Size)
	}
	if fb.Axis() != opts.Axis {
		fb.Repartition(opts.Axis)
	}

	c := &Controller{
		opts:    opts,
		images:  images,
		blitter: blitter,
		touch:   touch,
		fb:      fb,
		coord:   NewCoordinator(panel, fb),
		state: ScrollState{
			Index: Wrap(opts.StartIndex, images.Count()),
			Axis:  opts.Axis,
		},
		sleep:   time.Sleep,
		askDone: make(chan bool),
		done:    make(chan bool),
	}
	panel.SetRefreshHandler(c.coord.OnRefreshComplete)
	c.publish()
	return c, nil
}

// OnChange registers a hook called from the polling goroutine after the
// index, the axis or the error state changed.
func (c *Controller) OnChange(f func(Snapshot)) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.onChange = f
}

// Prime draws the current image into both halves and shows region A. It must
// run before the polling loop.
func (c *Controller) Prime() error {
	if err := c.resync(); err != nil {
		return err
	}
	c.publish()
	return nil
}

func (c *Controller) Start() error {
	logrus.Infof("Start slider controller")

	if err := c.Prime(); err != nil {
		return err
	}

	c.pollTicker = time.NewTicker(c.opts.PollInterval)
	go func() {
		for loop := true; loop; {
			select {
			case <-c.pollTicker.C:
				c.Poll()
			case <-c.askDone:
				loop = false
			}
		}
		c.done <- true
	}()
	return nil
}

func (c *Controller) Stop() {
	logrus.Infof("Stop slider controller")

	c.pollTicker.Stop()
	c.askDone <- true
	<-c.done
}

// ToggleAxis requests an orientation change. It is safe to call from any
// goroutine; the change applies once no gesture is active.
func (c *Controller) ToggleAxis() {
	c.toggleRequested.Store(true)
}

func (c *Controller) Snapshot() Snapshot {
	c.lock.RLock()
	defer c.lock.RUnlock()
	s := c.snapshot
	s.Refreshes, s.Swaps, s.IdleRefreshes = c.coord.Counters()
	s.Active = c.coord.Active()
	return s
}

// Poll runs one cycle: apply a pending axis toggle, sample the touch input
// and draw what the gesture calls for.
func (c *Controller) Poll() {
	if !c.state.Dragging() && c.toggleRequested.Swap(false) {
		c.applyToggle()
	}

	g := c.state.Observe(c.touch.PollState())
	switch g.Kind {
	case GestureStart, GestureDrag:
		offset := ClampOffset(g.Delta, c.dimension())
		if err := c.renderFrame(c.state.Index, offset); err != nil {
			c.recoverFrom(err)
		}
		if c.publish() {
			c.notify()
		}
	case GestureRelease:
		c.release(g.Delta)
	}
}

func (c *Controller) dimension() int {
	return c.state.Axis.Dimension(c.opts.Size)
}

func (c *Controller) release(delta int) {
	dim := c.dimension()
	delta = ClampOffset(delta, dim)
	kind := Classify(delta, c.opts.FlickThreshold)
	logrus.Debugf("Release %s with delta %d on image %d", kind, delta, c.state.Index)

	previous := c.state.Index
	var err error
	if kind == Flick {
		dir := 1
		if delta < 0 {
			dir = -1
		}
		c.state.Index = Wrap(previous+dir, c.images.Count())
		err = c.animate(c.state.Index, delta-dir*dim, c.opts.FlickStep)
	} else {
		err = c.animate(c.state.Index, delta, c.opts.SnapStep)
	}
	if err != nil {
		c.recoverFrom(err)
	}

	errChanged := c.publish()
	if c.state.Index != previous {
		logrus.Infof("Show image %d/%d", c.state.Index+1, c.images.Count())
	}
	if c.state.Index != previous || errChanged {
		c.notify()
	}
}

func (c *Controller) animate(index, from, step int) error {
	for _, offset := range Animation(from, step, c.opts.SettleFrames) {
		if err := c.renderFrame(index, offset); err != nil {
			return err
		}
		c.sleep(c.opts.FrameDelay)
	}
	return nil
}

// renderFrame composes image index displaced by offset into the drawable
// half, submits the swap and spins until the panel has taken it.
func (c *Controller) renderFrame(index, offset int) error {
	if err := c.waitSwap(); err != nil {
		return err
	}

	dst := c.fb.Half(c.coord.Drawable())
	for _, b := range Tile(c.state.Axis, c.opts.Size, offset) {
		src := c.images.ImageAt(Wrap(index+b.Source.delta(), c.images.Count()))
		if err := c.blit(src, b, dst); err != nil {
			return err
		}
	}

	c.coord.Submit()
	if err := c.waitSwap(); err != nil {
		return err
	}
	c.shown = frame{index: index, offset: offset}
	c.lastErr = nil
	return nil
}

func (c *Controller) blit(src *image.RGBA, b Blit, dst *image.RGBA) error {
	var err error
	for attempt := 0; attempt <= c.opts.BlitRetries; attempt++ {
		err = c.blitter.CopyRegion(src, b.SrcOffset, dst, b.DstOffset, b.Width, b.Height)
		if err == nil {
			return nil
		}
		logrus.Warnf("Blit of %s image failed (attempt %d): %v", b.Source, attempt+1, err)
	}
	return fmt.Errorf("%w: %v", ErrBlitFailure, err)
}

// waitSwap spins until no swap is pending. The refresh handler clears the
// flag from its own goroutine.
func (c *Controller) waitSwap() error {
	var deadline time.Time
	if c.opts.SwapTimeout > 0 {
		deadline = time.Now().Add(c.opts.SwapTimeout)
	}
	for spins := 0; c.coord.Pending(); spins++ {
		if !deadline.IsZero() && spins&0x3f == 0 && time.Now().After(deadline) {
			return fmt.Errorf("%w: no refresh within %v", ErrStarvation, c.opts.SwapTimeout)
		}
		runtime.Gosched()
	}
	return c.coord.TakeFailure()
}

// recoverFrom restores the last frame that reached the panel and, when the panel
// lost track of the swap, redraws both halves.
func (c *Controller) recoverFrom(err error) {
	c.lastErr = err
	c.state.Index = c.shown.index

	if errors.Is(err, ErrBlitFailure) {
		logrus.Warnf("Frame aborted, back to image %d: %v", c.shown.index, err)
		return
	}

	logrus.Errorf("Panel out of sync, resynchronizing: %v", err)
	if rerr := c.resync(); rerr != nil {
		c.lastErr = rerr
		logrus.Errorf("Resynchronization failed: %v", rerr)
	}
}

// resync draws the current image at rest into both halves and makes region A
// visible.
func (c *Controller) resync() error {
	c.coord.Quiesce()

	img := c.images.ImageAt(c.state.Index)
	full := Blit{Source: SourceCurrent, Width: c.opts.Size.X, Height: c.opts.Size.Y}
	for _, r := range []Region{RegionA, RegionB} {
		if err := c.blit(img, full, c.fb.Half(r)); err != nil {
			return err
		}
	}
	if err := c.coord.Reset(RegionA); err != nil {
		return err
	}
	c.shown = frame{index: c.state.Index}
	return nil
}

func (c *Controller) applyToggle() {
	c.coord.Quiesce()
	c.state.Axis = c.state.Axis.Toggle()
	c.fb.Repartition(c.state.Axis)
	logrus.Infof("Slide axis is now %s", c.state.Axis)

	if err := c.resync(); err != nil {
		c.lastErr = err
		logrus.Errorf("Unable to redraw after axis change: %v", err)
	}
	c.publish()
	c.notify()
}

// publish refreshes the snapshot and reports whether the error state changed.
func (c *Controller) publish() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	hadError := c.snapshot.LastError != ""
	c.snapshot.Index = c.state.Index
	c.snapshot.Count = c.images.Count()
	c.snapshot.Axis = c.state.Axis
	c.snapshot.Dragging = c.state.Dragging()
	c.snapshot.Offset = c.shown.offset
	c.snapshot.LastError = ""
	if c.lastErr != nil {
		c.snapshot.LastError = c.lastErr.Error()
	}
	return hadError != (c.snapshot.LastError != "")
}

func (c *Controller) notify() {
	c.lock.RLock()
	f := c.onChange
	c.lock.RUnlock()
	if f != nil {
		f(c.Snapshot())
	}
}
