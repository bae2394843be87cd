package doomslug

import (
	"time"

	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
)

// Consumer consumes notifications about the liveness gadget's state
// transitions. Implementations must be non-blocking and concurrency safe:
// they are invoked synchronously from the gadget's hot path.
type Consumer interface {
	// OnTipUpdated is called whenever the gadget adopts a new chain tip.
	OnTipUpdated(tip chain.Tip, lastFinalHeight chain.Height)

	// OnApprovalCreated is called for every approval produced by the timer,
	// endorsements and skips alike, in the order they are produced.
	OnApprovalCreated(approval *model.Approval)

	// OnSkipTimeout is called when the skip deadline fires for the given
	// timed height, with the delay the schedule prescribed for it.
	OnSkipTimeout(height chain.Height, delay time.Duration)
}
