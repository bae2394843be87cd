// Package liveness runs the node-side loop around the doomslug gadget: it
// owns the tick cadence, feeds observed chain tips into the gadget, and hands
// every produced approval to the signing and broadcast collaborators.
package liveness

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/vigilchain/doomslug/consensus/doomslug"
	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/consensus/doomslug/verification"
	"github.com/vigilchain/doomslug/model/chain"
)

// Communicator delivers a signed approval to the block producer responsible
// for its target height. Delivery is best effort; the gadget never retries an
// approval.
type Communicator interface {
	BroadcastApproval(signed *model.SignedApproval) error
}

// Engine periodically services the doomslug timer and broadcasts the signed
// approvals it produces. The gadget itself is single threaded; the engine
// provides the mutual exclusion between tip updates and timer ticks.
type Engine struct {
	log      zerolog.Logger
	mu       sync.Mutex
	ds       *doomslug.Doomslug
	signer   verification.ApprovalSigner
	comm     Communicator
	clock    clock.Clock
	interval time.Duration

	started  *atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a liveness engine ticking the gadget every interval.
func New(
	log zerolog.Logger,
	ds *doomslug.Doomslug,
	signer verification.ApprovalSigner,
	comm Communicator,
	clk clock.Clock,
	interval time.Duration,
) (*Engine, error) {
	if interval <= 0 {
		return nil, model.NewConfigurationErrorf("tick interval must be positive, got %s", interval)
	}
	e := &Engine{
		log:      log.With().Str("engine", "liveness").Logger(),
		ds:       ds,
		signer:   signer,
		comm:     comm,
		clock:    clk,
		interval: interval,
		started:  atomic.NewBool(false),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	return e, nil
}

// Ready starts the tick loop and returns a channel that closes once the loop
// is running. Subsequent calls are no-ops.
func (e *Engine) Ready() <-chan struct{} {
	ready := make(chan struct{})
	if !e.started.CompareAndSwap(false, true) {
		close(ready)
		return ready
	}
	go e.loop(ready)
	return ready
}

// Done stops the tick loop and returns a channel that closes once the loop
// has exited. Like Ready, Done is idempotent; on an engine that was never
// started there is no loop to wait for and the channel closes immediately.
func (e *Engine) Done() <-chan struct{} {
	e.stopOnce.Do(func() {
		close(e.stop)
		if !e.started.Load() {
			e.finish()
		}
	})
	return e.done
}

func (e *Engine) finish() {
	e.doneOnce.Do(func() {
		close(e.done)
	})
}

// OnBlockAccepted informs the engine of a newly accepted chain tip, locally
// built or received. lastFinalHeight is the height of the latest ancestor of
// the tip known to be final.
func (e *Engine) OnBlockAccepted(blockID chain.Identifier, height chain.Height, lastFinalHeight chain.Height) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ds.SetTip(blockID, height, lastFinalHeight)
}

func (e *Engine) loop(ready chan<- struct{}) {
	defer e.finish()

	ticker := e.clock.Ticker(e.interval)
	defer ticker.Stop()
	close(ready)

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) tick() {
	e.mu.Lock()
	approvals := e.ds.ProcessTimer()
	e.mu.Unlock()

	for _, approval := range approvals {
		signed, err := e.signer.SignApproval(approval)
		if err != nil {
			e.log.Error().Err(err).
				Uint64("target_height", uint64(approval.TargetHeight)).
				Msg("could not sign approval")
			continue
		}
		err = e.comm.BroadcastApproval(signed)
		if err != nil {
			e.log.Error().Err(err).
				Uint64("target_height", uint64(approval.TargetHeight)).
				Msg("could not broadcast approval")
		}
	}
}
