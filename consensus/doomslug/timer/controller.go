package timer

import (
	"time"

	"github.com/vigilchain/doomslug/model/chain"
)

// Controller tracks the scheduling state of the approval timer: when the
// current epoch started, when the last endorsement was sent, and the height
// currently being timed. The Controller does not read a clock and makes no
// scheduling decisions itself; the orchestrator feeds it the observed time
// and interprets the two deadlines.
//
// Not safe for concurrent use.
type Controller struct {
	cfg                 Config
	started             time.Time
	lastEndorsementSent time.Time
	height              chain.Height
}

// NewController creates a timer Controller with both schedule anchors set to
// the given instant.
func NewController(cfg Config, now time.Time) *Controller {
	return &Controller{
		cfg:                 cfg,
		started:             now,
		lastEndorsementSent: now,
	}
}

// Config returns the immutable delay configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Height returns the height currently being timed.
func (c *Controller) Height() chain.Height {
	return c.height
}

// Started returns the instant the current scheduling epoch began.
func (c *Controller) Started() time.Time {
	return c.started
}

// LastEndorsementSent returns the instant the endorsement deadline last fired.
func (c *Controller) LastEndorsementSent() time.Time {
	return c.lastEndorsementSent
}

// Reset re-anchors the schedule to the given instant and starts timing the
// given height. Called on every tip update. The endorsement anchor is left
// untouched so that endorsements keep their fixed cadence across tip changes.
func (c *Controller) Reset(now time.Time, height chain.Height) {
	c.started = now
	c.height = height
}

// MarkEndorsementSent records that the endorsement deadline was serviced at
// the given instant.
func (c *Controller) MarkEndorsementSent(now time.Time) {
	c.lastEndorsementSent = now
}

// AdvanceSkip moves the schedule past one fired skip: the epoch start is
// advanced by the skip delay rather than reset to the present, so that
// multiple overdue timeouts fire at their originally-scheduled virtual
// instants, and the timed height moves up by one.
func (c *Controller) AdvanceSkip(skipDelay time.Duration) {
	c.started = c.started.Add(skipDelay)
	c.height++
}
