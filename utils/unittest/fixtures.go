package unittest

import (
	crand "crypto/rand"
	"math/rand"

	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
)

func IdentifierFixture() chain.Identifier {
	var id chain.Identifier
	_, _ = crand.Read(id[:])
	return id
}

func TipFixture() chain.Tip {
	return chain.Tip{
		BlockID: IdentifierFixture(),
		Height:  chain.Height(rand.Uint64() >> 1),
	}
}

// EndorsementFixture returns an approval endorsing the direct child of the
// given tip.
func EndorsementFixture(tip chain.Tip) *model.Approval {
	return model.NewApproval(tip.BlockID, tip.Height, tip.Height+1)
}

// SkipFixture returns an approval skipping ahead of the given tip by the
// given number of heights (at least two, otherwise it would be an
// endorsement).
func SkipFixture(tip chain.Tip, gap chain.Height) *model.Approval {
	if gap < 2 {
		gap = 2
	}
	return model.NewApproval(tip.BlockID, tip.Height, tip.Height+gap)
}
