// Package doomslug implements the timer-driven half of the Doomslug finality
// gadget: a synchronous state machine that decides, at any instant, whether
// the node should endorse the next block height or permit production to skip
// ahead after a stall. It consumes a chain-tip signal and a time source, and
// produces unsigned approvals; signing and broadcast are the caller's
// collaborators.
package doomslug

import (
	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/consensus/doomslug/timer"
	"github.com/vigilchain/doomslug/model/chain"
)

// maxTimerIters bounds the number of virtual timeouts serviced per
// ProcessTimer call, so a single call does bounded work however far real time
// has advanced since the last one. Remaining overdue skips are serviced on
// the next call.
const maxTimerIters = 20

// Doomslug tracks the chain tip, the approval timer, and the bookkeeping
// needed to never approve the same target height twice.
//
// Doomslug is a purely synchronous state machine with no internal
// concurrency. The caller owns exclusive mutable access: SetTip and
// ProcessTimer must not run concurrently on the same instance.
type Doomslug struct {
	log      zerolog.Logger
	clock    clock.Clock
	notifier Consumer

	// largestTargetHeight is the largest height we ever issued an approval
	// for; it never decreases.
	largestTargetHeight chain.Height
	// largestFinalHeight is the largest height known to have reached
	// finality on the current chain.
	largestFinalHeight chain.Height
	tip                chain.Tip
	// endorsementPending records whether the current tip still awaits its
	// endorsement deadline.
	endorsementPending bool
	timer              *timer.Controller
}

// New creates a Doomslug instance with the given time source and delay
// configuration. The configuration is validated here; a violating set of
// delays yields a model.ConfigurationError and no instance.
func New(
	log zerolog.Logger,
	clk clock.Clock,
	notifier Consumer,
	largestTargetHeight chain.Height,
	cfg timer.Config,
) (*Doomslug, error) {
	cfg, err := timer.NewConfig(cfg.EndorsementDelay, cfg.MinDelay, cfg.DelayStep, cfg.MaxDelay)
	if err != nil {
		return nil, err
	}
	ds := &Doomslug{
		log:                 log.With().Str("component", "doomslug").Logger(),
		clock:               clk,
		notifier:            notifier,
		largestTargetHeight: largestTargetHeight,
		timer:               timer.NewController(cfg, clk.Now()),
	}
	return ds, nil
}

// SetTip updates the current tip of the chain and restarts the timer
// accordingly: the timer starts timing the tip's direct child as of now, and
// the endorsement deadline is re-armed.
//
// lastFinalHeight is the height of the latest ancestor of the tip known to
// have reached finality; it drives the skip-delay escalation.
//
// The caller must supply tips in non-decreasing height order. SetTip does not
// validate this: a regressing tip corrupts the schedule bookkeeping, and
// rejecting it here would mask a protocol violation upstream where it can
// actually be handled.
func (ds *Doomslug) SetTip(blockID chain.Identifier, height chain.Height, lastFinalHeight chain.Height) {
	ds.tip = chain.Tip{BlockID: blockID, Height: height}

	ds.largestFinalHeight = lastFinalHeight
	ds.timer.Reset(ds.clock.Now(), height+1)
	ds.endorsementPending = true

	ds.log.Debug().
		Uint64("height", uint64(height)).
		Uint64("last_final_height", uint64(lastFinalHeight)).
		Str("block_id", blockID.String()).
		Msg("tip updated")
	ds.notifier.OnTipUpdated(ds.tip, lastFinalHeight)
}

// ProcessTimer services the endorsement and skip deadlines against the
// current time and returns the approvals that are due, in order. It returns
// an empty slice when no deadline has been reached.
//
// The skip schedule is anchored by advancing the epoch start by the skip
// delay rather than resetting it to the present, so calling late never
// changes which virtual timeouts fire, only when the caller learns of them.
func (ds *Doomslug) ProcessTimer() []*model.Approval {
	now := ds.clock.Now()
	var approvals []*model.Approval
	for i := 0; i < maxTimerIters; i++ {
		cfg := ds.timer.Config()
		skipDelay := cfg.SkipDelay(heightDelta(ds.timer.Height(), ds.largestFinalHeight))

		if ds.endorsementPending && !now.Before(ds.timer.LastEndorsementSent().Add(cfg.EndorsementDelay)) {
			if ds.tip.Height >= ds.largestTargetHeight {
				ds.largestTargetHeight = ds.tip.Height + 1
				approvals = append(approvals, ds.createApproval(ds.tip.Height+1))
			}
			// the deadline is serviced exactly once per tip, whether or not
			// an approval was due
			ds.timer.MarkEndorsementSent(now)
			ds.endorsementPending = false
		}

		if now.Before(ds.timer.Started().Add(skipDelay)) {
			break
		}

		target := ds.timer.Height() + 1
		if target > ds.largestTargetHeight {
			ds.largestTargetHeight = target
		}
		approvals = append(approvals, ds.createApproval(target))

		ds.notifier.OnSkipTimeout(ds.timer.Height(), skipDelay)
		ds.timer.AdvanceSkip(skipDelay)
	}
	return approvals
}

// TipHeight returns the height of the current tip.
func (ds *Doomslug) TipHeight() chain.Height {
	return ds.tip.Height
}

// LargestTargetHeight returns the largest height for which an approval was
// ever issued.
func (ds *Doomslug) LargestTargetHeight() chain.Height {
	return ds.largestTargetHeight
}

func (ds *Doomslug) createApproval(targetHeight chain.Height) *model.Approval {
	approval := model.NewApproval(ds.tip.BlockID, ds.tip.Height, targetHeight)
	ds.notifier.OnApprovalCreated(approval)
	return approval
}

func heightDelta(a, b chain.Height) chain.HeightDelta {
	if a < b {
		return 0
	}
	return chain.HeightDelta(a - b)
}
