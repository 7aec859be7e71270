package client_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	client "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client"
	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	mocktypes "github.com/BaldwinMarci/ibc-light-client-go/modules/light-clients/mock/types"
)

func validUpgradeClientMsg() clienttypes.MsgUpgradeClient {
	return clienttypes.MsgUpgradeClient{
		ClientID:               updateClientTestID,
		UpgradedClientState:    mocktypes.NewClientState(clienttypes.NewHeight(1, 1)),
		UpgradedConsensusState: &mocktypes.ConsensusState{Timestamp: time.Unix(1_700_003_600, 0).UTC(), Root: []byte("upgraded-root")},
		ProofUpgradeClient:     []byte("proof-client"),
		ProofUpgradeConsState:  []byte("proof-consensus"),
		Signer:                 "cosmos1signer",
	}
}

func TestValidateUpgradeClient(t *testing.T) {
	ctx := newFakeHandlerContext()
	setupMockClient(t, ctx)

	require.NoError(t, client.ValidateUpgradeClient(ctx, validUpgradeClientMsg()))
}

func TestValidateUpgradeClientRejectsFrozenClient(t *testing.T) {
	ctx := newFakeHandlerContext()
	setupMockClient(t, ctx)

	frozen, err := ctx.ClientState(updateClientTestID)
	require.NoError(t, err)
	frozenState := frozen.(*mocktypes.ClientState)
	frozenState.Frozen = true
	require.NoError(t, ctx.StoreClientState(updateClientTestID, frozenState))

	require.Error(t, client.ValidateUpgradeClient(ctx, validUpgradeClientMsg()))
}

func TestValidateUpgradeClientRejectsEmptyProofs(t *testing.T) {
	ctx := newFakeHandlerContext()
	setupMockClient(t, ctx)

	msg := validUpgradeClientMsg()
	msg.ProofUpgradeClient = nil
	require.Error(t, client.ValidateUpgradeClient(ctx, msg))
}

func TestExecuteUpgradeClient(t *testing.T) {
	ctx := newFakeHandlerContext()
	setupMockClient(t, ctx)

	msg := validUpgradeClientMsg()
	require.NoError(t, client.ValidateUpgradeClient(ctx, msg))
	require.NoError(t, client.ExecuteUpgradeClient(ctx, msg))

	stored, err := ctx.ClientState(updateClientTestID)
	require.NoError(t, err)
	upgraded := stored.(*mocktypes.ClientState)
	require.False(t, upgraded.Frozen)
	require.True(t, upgraded.LatestHeight.EQ(clienttypes.NewHeight(1, 1)))

	consState, err := ctx.ConsensusState(updateClientTestID, clienttypes.NewHeight(1, 1))
	require.NoError(t, err)
	require.Equal(t, msg.UpgradedConsensusState, consState)

	require.Len(t, ctx.events, 1)
	require.Equal(t, clienttypes.EventTypeUpgradeClient, ctx.events[0].Type)
}
