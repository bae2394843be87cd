package verification

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/vigilchain/doomslug/consensus/doomslug/model"
)

// approvalDomainTag separates approval signatures from any other signature
// the same key might produce.
const approvalDomainTag = "doomslug-approval-v0"

// approvalMessage is the canonical signable representation of an approval.
// Exactly one of ParentID and ParentHeight is meaningful, selected by Skip.
type approvalMessage struct {
	Tag          string `cbor:"0,keyasint"`
	Skip         bool   `cbor:"1,keyasint"`
	ParentID     []byte `cbor:"2,keyasint"`
	ParentHeight uint64 `cbor:"3,keyasint"`
	TargetHeight uint64 `cbor:"4,keyasint"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not create canonical cbor encoder: %s", err))
	}
}

// MakeApprovalMessage returns the canonical byte message a validator signs to
// produce the given approval.
func MakeApprovalMessage(approval *model.Approval) ([]byte, error) {
	msg := approvalMessage{
		Tag:          approvalDomainTag,
		TargetHeight: uint64(approval.TargetHeight),
	}
	switch inner := approval.Inner.(type) {
	case model.Endorsement:
		msg.ParentID = inner.ParentID.Bytes()
	case model.Skip:
		msg.Skip = true
		msg.ParentHeight = uint64(inner.ParentHeight)
	default:
		return nil, fmt.Errorf("unknown approval inner type %T", inner)
	}
	return encMode.Marshal(msg)
}
