// Package verification implements the signing collaborator of the liveness
// gadget: it turns unsigned approvals into signed ones and verifies
// signatures produced by other validators.
package verification

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/model/chain"
)

var ErrInvalidSignature = errors.New("invalid approval signature")

// ApprovalSigner attaches a signature and the local signer identity to an
// approval produced by the gadget.
type ApprovalSigner interface {
	SignApproval(approval *model.Approval) (*model.SignedApproval, error)
}

// Ed25519Signer signs approvals with an Ed25519 key. The signer identity is
// the hash of the public key.
type Ed25519Signer struct {
	signerID chain.Identifier
	priv     ed25519.PrivateKey
}

var _ ApprovalSigner = (*Ed25519Signer)(nil)

func NewEd25519Signer(priv ed25519.PrivateKey) *Ed25519Signer {
	pub := priv.Public().(ed25519.PublicKey)
	return &Ed25519Signer{
		signerID: chain.MakeID(pub),
		priv:     priv,
	}
}

// SignerID returns the identity attached to signed approvals.
func (s *Ed25519Signer) SignerID() chain.Identifier {
	return s.signerID
}

func (s *Ed25519Signer) SignApproval(approval *model.Approval) (*model.SignedApproval, error) {
	msg, err := MakeApprovalMessage(approval)
	if err != nil {
		return nil, fmt.Errorf("could not create approval message: %w", err)
	}
	return &model.SignedApproval{
		Approval: *approval,
		SignerID: s.signerID,
		SigData:  ed25519.Sign(s.priv, msg),
	}, nil
}

// VerifyApproval checks the signature of a signed approval against the given
// public key and verifies that the signer identity matches the key. It
// returns ErrInvalidSignature for a failing signature and nil for a valid one.
func VerifyApproval(pub ed25519.PublicKey, signed *model.SignedApproval) error {
	if chain.MakeID(pub) != signed.SignerID {
		return fmt.Errorf("signer identity does not match public key: %w", ErrInvalidSignature)
	}
	msg, err := MakeApprovalMessage(&signed.Approval)
	if err != nil {
		return fmt.Errorf("could not create approval message: %w", err)
	}
	if !ed25519.Verify(pub, msg, signed.SigData) {
		return ErrInvalidSignature
	}
	return nil
}
