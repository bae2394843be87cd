package pubsub

import (
	"sync"
	"time"

	"github.com/vigilchain/doomslug/consensus/doomslug"
	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
)

// Distributor distributes liveness notifications to a set of subscribed
// consumers. Consumers can be added at runtime; events are forwarded to all
// consumers in subscription order.
//
// Concurrency safe.
type Distributor struct {
	subscribers []doomslug.Consumer
	lock        sync.RWMutex
}

var _ doomslug.Consumer = (*Distributor)(nil)

func NewDistributor() *Distributor {
	return &Distributor{}
}

// AddConsumer adds an event consumer to the distributor.
func (d *Distributor) AddConsumer(consumer doomslug.Consumer) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.subscribers = append(d.subscribers, consumer)
}

func (d *Distributor) OnTipUpdated(tip chain.Tip, lastFinalHeight chain.Height) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	for _, subscriber := range d.subscribers {
		subscriber.OnTipUpdated(tip, lastFinalHeight)
	}
}

func (d *Distributor) OnApprovalCreated(approval *model.Approval) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	for _, subscriber := range d.subscribers {
		subscriber.OnApprovalCreated(approval)
	}
}

func (d *Distributor) OnSkipTimeout(height chain.Height, delay time.Duration) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	for _, subscriber := range d.subscribers {
		subscriber.OnSkipTimeout(height, delay)
	}
}
