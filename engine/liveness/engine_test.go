package liveness

import (
	"crypto/ed25519"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigilchain/doomslug/consensus/doomslug"
	"github.com/vigilchain/doomslug/consensus/doomslug/model"
	"github.com/vigilchain/doomslug/consensus/doomslug/notifications"
	"github.com/vigilchain/doomslug/consensus/doomslug/timer"
	"github.com/vigilchain/doomslug/consensus/doomslug/verification"
	"github.com/vigilchain/doomslug/utils/unittest"
)

// recordingCommunicator captures broadcast approvals for inspection.
type recordingCommunicator struct {
	mu        sync.Mutex
	approvals []*model.SignedApproval
}

func (c *recordingCommunicator) BroadcastApproval(signed *model.SignedApproval) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.approvals = append(c.approvals, signed)
	return nil
}

func (c *recordingCommunicator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.approvals)
}

func (c *recordingCommunicator) last() *model.SignedApproval {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.approvals) == 0 {
		return nil
	}
	return c.approvals[len(c.approvals)-1]
}

func setupEngine(t *testing.T) (*Engine, *clock.Mock, *recordingCommunicator, ed25519.PublicKey) {
	clk := clock.NewMock()
	ds, err := doomslug.New(unittest.Logger(), clk, notifications.NewNoopConsumer(), 0, timer.DefaultConfig())
	require.NoError(t, err)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	comm := &recordingCommunicator{}
	e, err := New(unittest.Logger(), ds, verification.NewEd25519Signer(priv), comm, clk, 50*time.Millisecond)
	require.NoError(t, err)
	return e, clk, comm, pub
}

func TestEngineRejectsBadInterval(t *testing.T) {
	clk := clock.NewMock()
	ds, err := doomslug.New(unittest.Logger(), clk, notifications.NewNoopConsumer(), 0, timer.DefaultConfig())
	require.NoError(t, err)
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, err = New(unittest.Logger(), ds, verification.NewEd25519Signer(priv), &recordingCommunicator{}, clk, 0)
	require.Error(t, err)
	assert.True(t, model.IsConfigurationError(err))
}

func TestEngineBroadcastsSignedEndorsement(t *testing.T) {
	e, clk, comm, pub := setupEngine(t)

	<-e.Ready()
	defer func() { <-e.Done() }()

	tipID := unittest.IdentifierFixture()
	e.OnBlockAccepted(tipID, 1, 1)

	// the endorsement is due 400ms after the tip; tick every 50ms until the
	// engine has picked it up
	require.Eventually(t, func() bool {
		clk.Add(50 * time.Millisecond)
		return comm.count() >= 1
	}, time.Second, time.Millisecond)

	signed := comm.last()
	assert.Equal(t, model.Endorsement{ParentID: tipID}, signed.Approval.Inner)
	assert.NoError(t, verification.VerifyApproval(pub, signed))
}

func TestEngineBroadcastsSkipsDuringStall(t *testing.T) {
	e, clk, comm, pub := setupEngine(t)

	<-e.Ready()
	defer func() { <-e.Done() }()

	e.OnBlockAccepted(unittest.IdentifierFixture(), 1, 1)

	// with no further tips the gadget falls back to skips; wait for the
	// endorsement plus two skips
	require.Eventually(t, func() bool {
		clk.Add(100 * time.Millisecond)
		return comm.count() >= 3
	}, 5*time.Second, time.Millisecond)

	signed := comm.last()
	assert.Equal(t, model.Skip{ParentHeight: 1}, signed.Approval.Inner)
	assert.NoError(t, verification.VerifyApproval(pub, signed))
}

func TestEngineStops(t *testing.T) {
	e, _, _, _ := setupEngine(t)

	<-e.Ready()
	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}

// TestEngineDoneIsIdempotent verifies that stopping an engine twice neither
// panics nor blocks: both calls return a channel that closes once the loop
// has exited.
func TestEngineDoneIsIdempotent(t *testing.T) {
	e, _, _, _ := setupEngine(t)

	<-e.Ready()
	<-e.Done()

	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("second Done call did not close")
	}
}

// TestEngineDoneBeforeReady verifies that an engine that was never started
// can still be shut down: with no loop to wait for, Done closes immediately
// instead of blocking forever.
func TestEngineDoneBeforeReady(t *testing.T) {
	e, _, _, _ := setupEngine(t)

	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("Done on a never-started engine did not close")
	}
}
