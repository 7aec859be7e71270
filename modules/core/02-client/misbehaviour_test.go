package client_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	client "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client"
	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	mocktypes "github.com/BaldwinMarci/ibc-light-client-go/modules/light-clients/mock/types"
)

// The mock client has no dedicated Misbehaviour type; its Header already
// satisfies the evidenceAger shape (GetTime/GetHeight) that
// checkEvidenceAge looks for, and its CheckForMisbehaviour treats a Header
// that conflicts with an already-stored root at the same height as
// misbehaviour, so a conflicting Header doubles as evidence here.
func TestValidateSubmitMisbehaviourRejectsExpiredEvidence(t *testing.T) {
	ctx := newFakeHandlerContext()
	setupMockClient(t, ctx)
	ctx.evidenceMaxAgeDuration = time.Hour

	stale := &mocktypes.Header{
		Height:    clienttypes.NewHeight(0, 2),
		Timestamp: ctx.HostTimestamp().Add(-2 * time.Hour),
		Root:      []byte("root-at-2-conflicting"),
	}
	msg := clienttypes.MsgSubmitMisbehaviour{
		ClientID:     updateClientTestID,
		Misbehaviour: stale,
		Signer:       "cosmos1signer",
	}

	_, err := client.ValidateSubmitMisbehaviour(ctx, msg)
	require.ErrorIs(t, err, clienttypes.ErrMisbehaviourExpired)
}

func TestValidateSubmitMisbehaviourAcceptsEvidenceWithinAgeBound(t *testing.T) {
	ctx := newFakeHandlerContext()
	setupMockClient(t, ctx)
	ctx.evidenceMaxAgeDuration = time.Hour

	recent := &mocktypes.Header{
		Height:    clienttypes.NewHeight(0, 2),
		Timestamp: ctx.HostTimestamp().Add(-10 * time.Minute),
		Root:      []byte("root-at-2"),
	}
	msg := clienttypes.MsgSubmitMisbehaviour{
		ClientID:     updateClientTestID,
		Misbehaviour: recent,
		Signer:       "cosmos1signer",
	}

	updateMsg, err := client.ValidateSubmitMisbehaviour(ctx, msg)
	require.NoError(t, err)
	require.Equal(t, updateClientTestID, updateMsg.ClientID)
	require.Equal(t, recent, updateMsg.ClientMessage)
}

func TestExecuteSubmitMisbehaviourFreezesClient(t *testing.T) {
	ctx := newFakeHandlerContext()
	setupMockClient(t, ctx)

	// Record a trusted root at height 2 via an ordinary update first.
	trusted := &mocktypes.Header{
		Height:    clienttypes.NewHeight(0, 2),
		Timestamp: ctx.HostTimestamp(),
		Root:      []byte("root-at-2"),
	}
	trustedMsg := clienttypes.MsgUpdateClient{ClientID: updateClientTestID, ClientMessage: trusted, Signer: "cosmos1signer"}
	clientState, err := client.ValidateUpdateClient(ctx, trustedMsg)
	require.NoError(t, err)
	_, err = client.ExecuteUpdateClient(ctx, trustedMsg, clientState)
	require.NoError(t, err)

	conflicting := &mocktypes.Header{
		Height:    clienttypes.NewHeight(0, 2),
		Timestamp: ctx.HostTimestamp(),
		Root:      []byte("root-at-2-conflicting"),
	}
	submitMsg := clienttypes.MsgSubmitMisbehaviour{
		ClientID:     updateClientTestID,
		Misbehaviour: conflicting,
		Signer:       "cosmos1signer",
	}

	updateMsg, err := client.ValidateSubmitMisbehaviour(ctx, submitMsg)
	require.NoError(t, err)

	clientState, err = ctx.ClientState(updateClientTestID)
	require.NoError(t, err)

	require.NoError(t, client.ExecuteSubmitMisbehaviour(ctx, updateMsg, clientState))

	stored, err := ctx.ClientState(updateClientTestID)
	require.NoError(t, err)
	require.True(t, stored.(*mocktypes.ClientState).Frozen)

	require.Len(t, ctx.events, 2) // update_client, client_misbehaviour
	require.Equal(t, clienttypes.EventTypeClientMisbehaviour, ctx.events[1].Type)
}
