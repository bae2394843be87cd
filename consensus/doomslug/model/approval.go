package model

import (
	"fmt"

	"github.com/vigilchain/doomslug/model/chain"
)

// ApprovalInner is the part of a block approval that differs between
// endorsements and skips. It is a closed sum type: Endorsement and Skip are
// the only two variants, and consumers are expected to switch exhaustively
// over them.
type ApprovalInner interface {
	// sealed prevents variants from being declared outside this package.
	sealed()
}

// Endorsement approves the height immediately following the current tip and
// carries the tip's hash, binding the approval to the concrete parent block.
type Endorsement struct {
	ParentID chain.Identifier
}

// Skip approves a height beyond the immediate next. It is issued when the
// block expected at the next height failed to arrive in time, and carries the
// parent's height instead of its hash.
type Skip struct {
	ParentHeight chain.Height
}

func (Endorsement) sealed() {}
func (Skip) sealed()        {}

// Approval grants the producer of TargetHeight permission to build there.
// It is the unit handed to the signing collaborator; this model carries no
// signature.
type Approval struct {
	Inner        ApprovalInner
	TargetHeight chain.Height
}

// NewApprovalInner derives the approval payload for the given target height
// on top of the given parent: an Endorsement iff the target is the parent's
// immediate successor, a Skip otherwise.
func NewApprovalInner(parentID chain.Identifier, parentHeight, targetHeight chain.Height) ApprovalInner {
	if targetHeight == parentHeight+1 {
		return Endorsement{ParentID: parentID}
	}
	return Skip{ParentHeight: parentHeight}
}

// NewApproval creates an approval for building at targetHeight on top of the
// parent block.
func NewApproval(parentID chain.Identifier, parentHeight, targetHeight chain.Height) *Approval {
	return &Approval{
		Inner:        NewApprovalInner(parentID, parentHeight, targetHeight),
		TargetHeight: targetHeight,
	}
}

// IsEndorsement returns whether the approval endorses the direct child of the
// current tip.
func (a *Approval) IsEndorsement() bool {
	_, ok := a.Inner.(Endorsement)
	return ok
}

func (a *Approval) String() string {
	switch inner := a.Inner.(type) {
	case Endorsement:
		return fmt.Sprintf("Endorsement(%v)->%d", inner.ParentID, a.TargetHeight)
	case Skip:
		return fmt.Sprintf("Skip(%d)->%d", inner.ParentHeight, a.TargetHeight)
	default:
		panic(fmt.Sprintf("unknown approval inner type %T", inner))
	}
}

// SignedApproval is an approval together with the signature and identity of
// the validator that produced it, as attached by the signing collaborator.
type SignedApproval struct {
	Approval Approval
	SignerID chain.Identifier
	SigData  []byte
}
