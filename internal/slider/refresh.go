package slider

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// Swap handoff states. swapInProgress only exists while the refresh handler
// reprograms the panel, so that Reset never races a swap.
const (
	swapIdle int32 = iota
	swapPending
	swapInProgress
)

type swapFailure struct {
	err error
}

// Coordinator flips the visible half of the frame buffer on panel refresh.
// The foreground submits a swap once a frame is drawn and the refresh handler
// completes it; the swap word is the only shared state between the two.
type Coordinator struct {
	panel Panel
	fb    *FrameBuffer

	active  atomic.Int32
	swap    atomic.Int32
	failure atomic.Pointer[swapFailure]

	refreshes atomic.Uint64
	swaps     atomic.Uint64
	idles     atomic.Uint64
}

func NewCoordinator(panel Panel, fb *FrameBuffer) *Coordinator {
	c := &Coordinator{
		panel: panel,
		fb:    fb,
	}
	c.active.Store(int32(RegionA))
	return c
}

// Active returns the half being scanned out.
func (c *Coordinator) Active() Region {
	return Region(c.active.Load())
}

// Drawable returns the half the foreground may draw into.
func (c *Coordinator) Drawable() Region {
	return c.Active().Other()
}

// Pending reports whether a submitted swap has not completed yet.
func (c *Coordinator) Pending() bool {
	return c.swap.Load() != swapIdle
}

// Submit marks the drawable half as ready. Only call it with no swap pending.
func (c *Coordinator) Submit() {
	c.swap.Store(swapPending)
}

// OnRefreshComplete is the panel refresh handler.
func (c *Coordinator) OnRefreshComplete() {
	c.refreshes.Add(1)
	if !c.swap.CompareAndSwap(swapPending, swapInProgress) {
		c.idles.Add(1)
		return
	}

	target := c.Active().Other()
	if err := c.program(target); err != nil {
		c.failure.Store(&swapFailure{err: err})
		c.swap.Store(swapIdle)
		return
	}
	c.active.Store(int32(target))
	c.swaps.Add(1)
	c.swap.Store(swapIdle)
}

// TakeFailure returns and clears the error of the last failed swap.
func (c *Coordinator) TakeFailure() error {
	if f := c.failure.Swap(nil); f != nil {
		return f.err
	}
	return nil
}

// Quiesce drops a pending swap and waits for one in progress to finish.
func (c *Coordinator) Quiesce() {
	for {
		s := c.swap.Load()
		if s == swapIdle {
			return
		}
		if s == swapPending && c.swap.CompareAndSwap(swapPending, swapIdle) {
			return
		}
		runtime.Gosched()
	}
}

// Reset forces r to be the visible half and programs the panel for it.
func (c *Coordinator) Reset(r Region) error {
	c.Quiesce()
	c.failure.Store(nil)
	c.active.Store(int32(r))
	return c.program(r)
}

func (c *Coordinator) program(r Region) error {
	if err := c.panel.SetActiveWindow(c.fb.Window(r)); err != nil {
		return fmt.Errorf("%w: set active window %s: %v", ErrPanelProtocol, r, err)
	}
	if err := c.panel.SelectColumnRange(c.fb.ColumnRange(r)); err != nil {
		return fmt.Errorf("%w: select range %s: %v", ErrPanelProtocol, r, err)
	}
	return nil
}

// Counters returns the number of refreshes seen, swaps performed and
// refreshes with nothing to swap.
func (c *Coordinator) Counters() (refreshes, swaps, idles uint64) {
	return c.refreshes.Load(), c.swaps.Load(), c.idles.Load()
}
