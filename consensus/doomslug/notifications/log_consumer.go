package notifications

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vigilchain/doomslug/consensus/doomslug"
	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
)

// LogConsumer is an implementation of the notifications consumer that logs a
// message for each event.
type LogConsumer struct {
	log zerolog.Logger
}

var _ doomslug.Consumer = (*LogConsumer)(nil)

func NewLogConsumer(log zerolog.Logger) *LogConsumer {
	lc := &LogConsumer{
		log: log,
	}
	return lc
}

func (lc *LogConsumer) OnTipUpdated(tip chain.Tip, lastFinalHeight chain.Height) {
	lc.log.Debug().
		Uint64("tip_height", uint64(tip.Height)).
		Uint64("last_final_height", uint64(lastFinalHeight)).
		Hex("block_id", tip.BlockID[:]).
		Msg("tip updated")
}

func (lc *LogConsumer) OnApprovalCreated(approval *model.Approval) {
	entry := lc.log.Debug().
		Uint64("target_height", uint64(approval.TargetHeight))

	switch inner := approval.Inner.(type) {
	case model.Endorsement:
		entry.
			Hex("parent_id", inner.ParentID[:]).
			Msg("endorsement approval created")
	case model.Skip:
		entry.
			Uint64("parent_height", uint64(inner.ParentHeight)).
			Msg("skip approval created")
	}
}

func (lc *LogConsumer) OnSkipTimeout(height chain.Height, delay time.Duration) {
	lc.log.Debug().
		Uint64("timer_height", uint64(height)).
		Dur("skip_delay", delay).
		Msg("skip deadline fired")
}
