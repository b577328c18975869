package slider

import "errors"

var (
	// ErrBlitFailure reports a block copy that did not complete.
	ErrBlitFailure = errors.New("slider: blit failure")
	// ErrPanelProtocol reports a panel command that was rejected.
	ErrPanelProtocol = errors.New("slider: panel protocol failure")
	// ErrStarvation reports a swap the panel never acknowledged.
	ErrStarvation = errors.New("slider: refresh starvation")
)
