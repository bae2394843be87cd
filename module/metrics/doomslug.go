package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vigilchain/doomslug/consensus/doomslug"
	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
)

const (
	// approval kind labels
	LabelKind           = "kind"
	ApprovalEndorsement = "endorsement"
	ApprovalSkip        = "skip"
)

// DoomslugCollector reports metrics of the liveness gadget. It implements
// the doomslug notifications consumer, so it is wired in next to the log
// consumer.
type DoomslugCollector struct {
	approvalsProduced *prometheus.CounterVec
	tipHeight         prometheus.Gauge
	lastFinalHeight   prometheus.Gauge
	skipDelay         prometheus.Histogram
}

var _ doomslug.Consumer = (*DoomslugCollector)(nil)

// NewDoomslugCollector creates a new collector registered with the given
// registerer.
func NewDoomslugCollector(registerer prometheus.Registerer) *DoomslugCollector {
	approvalsProduced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemDoomslug,
		Name:      "approvals_produced_total",
		Help:      "number of approvals produced by the timer, by kind",
	}, []string{LabelKind})
	tipHeight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemDoomslug,
		Name:      "tip_height",
		Help:      "height of the current chain tip",
	})
	lastFinalHeight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemDoomslug,
		Name:      "last_final_height",
		Help:      "height of the latest ancestor of the tip known to be final",
	})
	skipDelay := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemDoomslug,
		Name:      "skip_delay_seconds",
		Buckets:   []float64{0.5, 1, 1.5, 2, 3, 5},
		Help:      "skip delay prescribed by the schedule for fired skip timeouts",
	})
	registerer.MustRegister(approvalsProduced, tipHeight, lastFinalHeight, skipDelay)
	return &DoomslugCollector{
		approvalsProduced: approvalsProduced,
		tipHeight:         tipHeight,
		lastFinalHeight:   lastFinalHeight,
		skipDelay:         skipDelay,
	}
}

func (dc *DoomslugCollector) OnTipUpdated(tip chain.Tip, lastFinalHeight chain.Height) {
	dc.tipHeight.Set(float64(tip.Height))
	dc.lastFinalHeight.Set(float64(lastFinalHeight))
}

func (dc *DoomslugCollector) OnApprovalCreated(approval *model.Approval) {
	kind := ApprovalSkip
	if approval.IsEndorsement() {
		kind = ApprovalEndorsement
	}
	dc.approvalsProduced.WithLabelValues(kind).Inc()
}

func (dc *DoomslugCollector) OnSkipTimeout(height chain.Height, delay time.Duration) {
	dc.skipDelay.Observe(delay.Seconds())
}
