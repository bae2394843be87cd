package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vigilchain/doomslug/model/chain"
)

func TestNewApprovalInner(t *testing.T) {
	parentID := chain.MakeID([]byte{1, 2, 3})

	t.Run("direct child is an endorsement", func(t *testing.T) {
		inner := NewApprovalInner(parentID, 7, 8)
		assert.Equal(t, Endorsement{ParentID: parentID}, inner)
	})

	t.Run("any larger gap is a skip", func(t *testing.T) {
		for _, target := range []chain.Height{9, 10, 100} {
			inner := NewApprovalInner(parentID, 7, target)
			assert.Equal(t, Skip{ParentHeight: 7}, inner)
		}
	})
}

func TestApprovalIsEndorsement(t *testing.T) {
	parentID := chain.MakeID([]byte{4, 5})
	assert.True(t, NewApproval(parentID, 3, 4).IsEndorsement())
	assert.False(t, NewApproval(parentID, 3, 5).IsEndorsement())
}

func TestIsConfigurationError(t *testing.T) {
	err := NewConfigurationErrorf("min delay %d too small", 3)
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsConfigurationError(assert.AnError))
}
