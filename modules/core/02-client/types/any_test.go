package types_test

import (
	"testing"
	"time"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	ibctm "github.com/BaldwinMarci/ibc-light-client-go/modules/light-clients/07-tendermint/types"
	mocktypes "github.com/BaldwinMarci/ibc-light-client-go/modules/light-clients/mock/types"
)

// TestAnyRoundTripMultipleClientTypes exercises spec.md §4.H's tagged-variant
// dispatch with two independently registered client types sharing the same
// type_url registry, confirming that each one packs under its own type_url
// and unpacks back to its own concrete type.
func TestAnyRoundTripMultipleClientTypes(t *testing.T) {
	tmClient := ibctm.NewClientState(
		"chainA-1", clienttypes.DefaultTrustLevel,
		time.Hour, 2*time.Hour, time.Minute,
		clienttypes.NewHeight(1, 10), []*ics23.ProofSpec{ics23.TendermintSpec}, []string{"upgrade", "upgradedIBCState"},
	)
	mockClient := mocktypes.NewClientState(clienttypes.NewHeight(0, 5))

	anyTm, err := clienttypes.PackClientState(ibctm.TypeURLClientState, tmClient)
	require.NoError(t, err)
	require.Equal(t, ibctm.TypeURLClientState, anyTm.TypeURL)

	anyMock, err := clienttypes.PackClientState(mocktypes.TypeURLClientState, mockClient)
	require.NoError(t, err)
	require.Equal(t, mocktypes.TypeURLClientState, anyMock.TypeURL)

	decodedTm, err := clienttypes.UnpackClientState(anyTm)
	require.NoError(t, err)
	gotTm, ok := decodedTm.(*ibctm.ClientState)
	require.True(t, ok)
	require.Equal(t, tmClient.ChainId, gotTm.ChainId)
	require.True(t, tmClient.LatestHeight.EQ(gotTm.LatestHeight))

	decodedMock, err := clienttypes.UnpackClientState(anyMock)
	require.NoError(t, err)
	gotMock, ok := decodedMock.(*mocktypes.ClientState)
	require.True(t, ok)
	require.True(t, mockClient.LatestHeight.EQ(gotMock.LatestHeight))
}

func TestUnpackClientStateUnregisteredTypeURL(t *testing.T) {
	any := &clienttypes.Any{TypeURL: "/not.a.registered.type", Value: []byte{1, 2, 3}}
	_, err := clienttypes.UnpackClientState(any)
	require.Error(t, err)
}

func TestUnpackClientStateNilAny(t *testing.T) {
	_, err := clienttypes.UnpackClientState(nil)
	require.Error(t, err)
}
