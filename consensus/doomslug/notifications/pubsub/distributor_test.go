package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
	"github.com/vigilchain/doomslug/utils/unittest"
)

type countingConsumer struct {
	tipUpdates int
	approvals  int
	timeouts   int
}

func (c *countingConsumer) OnTipUpdated(chain.Tip, chain.Height)      { c.tipUpdates++ }
func (c *countingConsumer) OnApprovalCreated(*model.Approval)         { c.approvals++ }
func (c *countingConsumer) OnSkipTimeout(chain.Height, time.Duration) { c.timeouts++ }

func TestDistributorFanOut(t *testing.T) {
	d := NewDistributor()
	first := &countingConsumer{}
	second := &countingConsumer{}
	d.AddConsumer(first)
	d.AddConsumer(second)

	tip := unittest.TipFixture()
	d.OnTipUpdated(tip, tip.Height-1)
	d.OnApprovalCreated(unittest.EndorsementFixture(tip))
	d.OnApprovalCreated(unittest.SkipFixture(tip, 2))
	d.OnSkipTimeout(tip.Height+1, time.Second)

	for _, consumer := range []*countingConsumer{first, second} {
		assert.Equal(t, 1, consumer.tipUpdates)
		assert.Equal(t, 2, consumer.approvals)
		assert.Equal(t, 1, consumer.timeouts)
	}
}

func TestDistributorWithoutConsumers(t *testing.T) {
	d := NewDistributor()
	// events on an empty distributor are dropped without panicking
	d.OnTipUpdated(unittest.TipFixture(), 0)
	d.OnSkipTimeout(5, time.Second)
}
