package timer

import (
	"math"
	"time"

	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
)

// gracePeriodHeights is the number of heights past the last final block that
// still get the flat MinDelay before the skip schedule starts escalating.
const gracePeriodHeights = 2

// Config holds the delay parameters of the approval timer. All four fields
// are immutable once constructed.
type Config struct {
	// EndorsementDelay is the wait between observing a new tip and endorsing
	// its direct child.
	EndorsementDelay time.Duration
	// MinDelay is the shortest wait before skipping a height.
	MinDelay time.Duration
	// DelayStep is the linear increase of the skip delay per height that the
	// chain has drifted past the last final height (beyond the grace period).
	DelayStep time.Duration
	// MaxDelay caps the skip delay however long the stall.
	MaxDelay time.Duration
}

// NewConfig validates the delay parameters and returns the resulting Config.
// The endorsement schedule sends to the producer at the timer height while
// the skip schedule sends to the producer one height above, so the two must
// be at least a factor two apart; violating parameters yield a
// model.ConfigurationError.
func NewConfig(endorsementDelay, minDelay, delayStep, maxDelay time.Duration) (Config, error) {
	if endorsementDelay <= 0 {
		return Config{}, model.NewConfigurationErrorf("endorsement delay must be positive, got %s", endorsementDelay)
	}
	if delayStep < 0 {
		return Config{}, model.NewConfigurationErrorf("delay step must not be negative, got %s", delayStep)
	}
	if minDelay < 2*endorsementDelay {
		return Config{}, model.NewConfigurationErrorf(
			"min delay must be at least twice the endorsement delay, got min %s with endorsement %s",
			minDelay, endorsementDelay,
		)
	}
	if maxDelay < minDelay {
		return Config{}, model.NewConfigurationErrorf("max delay %s below min delay %s", maxDelay, minDelay)
	}
	return Config{
		EndorsementDelay: endorsementDelay,
		MinDelay:         minDelay,
		DelayStep:        delayStep,
		MaxDelay:         maxDelay,
	}, nil
}

// DefaultConfig returns the production delay parameters.
func DefaultConfig() Config {
	return Config{
		EndorsementDelay: 400 * time.Millisecond,
		MinDelay:         1000 * time.Millisecond,
		DelayStep:        100 * time.Millisecond,
		MaxDelay:         3000 * time.Millisecond,
	}
}

// SkipDelay computes the wait before skipping the current timer height, given
// n heights elapsed since the last final block. The first gracePeriodHeights
// heights of a stall get the flat MinDelay, after which the wait grows by
// DelayStep per height, capped at MaxDelay. Pure function of the Config.
func (cfg Config) SkipDelay(n chain.HeightDelta) time.Duration {
	if n <= gracePeriodHeights {
		return cfg.MinDelay
	}
	steps := uint64(n) - gracePeriodHeights
	// saturate the step count before multiplying, extreme drifts are a valid
	// runtime condition and must not overflow the schedule
	if steps > math.MaxUint32 {
		steps = math.MaxUint32
	}
	if cfg.DelayStep > 0 {
		if maxSteps := uint64((cfg.MaxDelay - cfg.MinDelay) / cfg.DelayStep); steps > maxSteps {
			return cfg.MaxDelay
		}
	}
	return cfg.MinDelay + time.Duration(steps)*cfg.DelayStep
}
