package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// stubClientState embeds a nil exported.ClientState, so every ClientState
// method panics if called, and implements exported.StatusOverride itself
// with the two methods allowsUpdateDespiteStatus actually needs.
type stubClientState struct {
	exported.ClientState
	allowExpiry       bool
	allowMisbehaviour bool
}

func (s stubClientState) AllowsUpdateAfterExpiry() bool       { return s.allowExpiry }
func (s stubClientState) AllowsUpdateAfterMisbehaviour() bool { return s.allowMisbehaviour }

var _ exported.StatusOverride = stubClientState{}

func TestAllowsUpdateDespiteStatusNoOverride(t *testing.T) {
	var cs exported.ClientState = plainClientState{}
	require.False(t, allowsUpdateDespiteStatus(cs, exported.Expired))
	require.False(t, allowsUpdateDespiteStatus(cs, exported.Frozen))
}

func TestAllowsUpdateDespiteStatusExpiryOverride(t *testing.T) {
	cs := stubClientState{allowExpiry: true}
	require.True(t, allowsUpdateDespiteStatus(cs, exported.Expired))
	require.False(t, allowsUpdateDespiteStatus(cs, exported.Frozen))
}

func TestAllowsUpdateDespiteStatusMisbehaviourOverride(t *testing.T) {
	cs := stubClientState{allowMisbehaviour: true}
	require.False(t, allowsUpdateDespiteStatus(cs, exported.Expired))
	require.True(t, allowsUpdateDespiteStatus(cs, exported.Frozen))
}

// plainClientState implements only exported.ClientState, with no
// StatusOverride, to exercise the "absent" branch.
type plainClientState struct {
	exported.ClientState
}
