package notifications

import (
	"time"

	"github.com/vigilchain/doomslug/consensus/doomslug"
	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
)

// NoopConsumer is a no-op implementation of the notifications consumer, for
// embedding in consumers that only care about a subset of events.
type NoopConsumer struct{}

var _ doomslug.Consumer = (*NoopConsumer)(nil)

func NewNoopConsumer() *NoopConsumer {
	return &NoopConsumer{}
}

func (*NoopConsumer) OnTipUpdated(chain.Tip, chain.Height) {}

func (*NoopConsumer) OnApprovalCreated(*model.Approval) {}

func (*NoopConsumer) OnSkipTimeout(chain.Height, time.Duration) {}
