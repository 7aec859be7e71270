// Package types implements the mock light client: a second, non-Tendermint
// ClientState registered in the same type_url registry as 07-tendermint, so
// the polymorphic dispatch in 02-client/types.Any is actually exercised by
// more than one client type (spec.md §4.H "tagged variant over {Tendermint,
// Mock, potentially others}"). It trades real commit verification for a
// voting-power-change threshold check lifted from the bisecting verifier in
// coinexchain-tendermint's lite/client.go, wrapped in github.com/pkg/errors
// the way that package does rather than cosmossdk.io/errors, reflecting
// that this is intentionally a different, older lineage of verifier code
// than the Tendermint client's.
package types

import (
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// ClientTypeMock is the client-type prefix this package registers its
// identifiers under, e.g. "mock-0".
const ClientTypeMock = "mock"

const (
	TypeURLClientState    = "/ibc.lightclients.mock.v1.ClientState"
	TypeURLConsensusState = "/ibc.lightclients.mock.v1.ConsensusState"
	TypeURLHeader         = "/ibc.lightclients.mock.v1.Header"
)

// maxVotingPowerChange is the fraction of total voting power a single
// Header may claim changed since the trusted height before the mock client
// refuses it outright, mirroring compareVotingPowers' 1/3 threshold.
const maxVotingPowerChange = 1.0 / 3.0

var (
	_ exported.ClientState     = (*ClientState)(nil)
	_ exported.ConsensusState  = (*ConsensusState)(nil)
	_ exported.ClientMessage   = (*Header)(nil)
)

// ClientState is deliberately minimal: no validator sets, no signatures,
// just a latest height and a frozen flag. The voting-power-change bound
// every Header must stay within is the package constant
// maxVotingPowerChange, not a field.
type ClientState struct {
	LatestHeight clienttypes.Height `protobuf:"bytes,1,opt,name=latest_height,json=latestHeight,proto3"`
	Frozen       bool               `protobuf:"varint,2,opt,name=frozen,proto3"`
}

func NewClientState(latestHeight clienttypes.Height) *ClientState {
	return &ClientState{LatestHeight: latestHeight}
}

func (ClientState) ClientType() string                 { return ClientTypeMock }
func (cs ClientState) GetLatestHeight() exported.Height { return cs.LatestHeight }

func (cs ClientState) Validate() error {
	if cs.LatestHeight.RevisionHeight == 0 {
		return pkgerrors.New("mock client state: latest height cannot be zero")
	}
	return nil
}

func (cs ClientState) Status(_ exported.ClientValidationContext, _ string) exported.Status {
	if cs.Frozen {
		return exported.Frozen
	}
	return exported.Active
}

func (cs ClientState) GetTimestampAtHeight(ctx exported.ClientValidationContext, clientID string, height exported.Height) (time.Time, error) {
	consState, err := getConsensusState(ctx, clientID, height)
	if err != nil {
		return time.Time{}, err
	}
	return consState.Timestamp, nil
}

// VerifyClientMessage accepts a Header as long as the client isn't frozen
// and the claimed voting-power change against the trusted state is under
// the threshold; there is no signature scheme to check.
func (cs ClientState) VerifyClientMessage(ctx exported.ClientValidationContext, clientID string, clientMsg exported.ClientMessage) error {
	header, ok := clientMsg.(*Header)
	if !ok {
		return pkgerrors.Errorf("mock client: unsupported client message type %T", clientMsg)
	}
	if cs.Frozen {
		return pkgerrors.New("mock client: frozen")
	}
	if header.VotingPowerChange > maxVotingPowerChange {
		return pkgerrors.Errorf("mock client: voting power change %.4f exceeds threshold %.4f", header.VotingPowerChange, maxVotingPowerChange)
	}
	if !header.GetHeight().GT(cs.LatestHeight) && !header.GetHeight().EQ(cs.LatestHeight) {
		return pkgerrors.New("mock client: header height must not regress")
	}
	return nil
}

// CheckForMisbehaviour reports a conflicting root already stored at the
// header's height, the same duplicate-height rule 07-tendermint uses.
func (cs ClientState) CheckForMisbehaviour(ctx exported.ClientValidationContext, clientID string, clientMsg exported.ClientMessage) bool {
	header, ok := clientMsg.(*Header)
	if !ok {
		return false
	}
	existing, err := getConsensusState(ctx, clientID, header.GetHeight())
	if err != nil {
		return false
	}
	return !bytesEqual(existing.Root, header.Root)
}

func (cs ClientState) UpdateStateOnMisbehaviour(ctx exported.ClientExecutionContext, clientID string) error {
	cs.Frozen = true
	return ctx.StoreClientState(clientID, &cs)
}

func (cs ClientState) Initialize(ctx exported.ClientExecutionContext, clientID string, consState exported.ConsensusState) error {
	mockConsState, ok := consState.(*ConsensusState)
	if !ok {
		return pkgerrors.Errorf("mock client: expected %T, got %T", &ConsensusState{}, consState)
	}
	return ctx.StoreConsensusState(clientID, cs.LatestHeight, mockConsState)
}

func (cs ClientState) UpdateState(ctx exported.ClientExecutionContext, clientID string, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		return []exported.Height{}
	}
	newConsState := &ConsensusState{Timestamp: header.Timestamp, Root: header.Root}
	if err := ctx.StoreConsensusState(clientID, header.GetHeight(), newConsState); err != nil {
		return []exported.Height{}
	}
	if header.GetHeight().GT(cs.LatestHeight) {
		cs.LatestHeight = clienttypes.NewHeight(header.GetHeight().GetRevisionNumber(), header.GetHeight().GetRevisionHeight())
	}
	if err := ctx.StoreClientState(clientID, &cs); err != nil {
		return []exported.Height{}
	}
	return []exported.Height{header.GetHeight()}
}

// VerifyUpgradeClient/UpdateStateOnUpgrade: the mock client has no proof
// system to check upgrades against, so it trusts the host's decision to
// call it unconditionally — acceptable only because this client type is
// never registered for a production host (spec.md §4.H non-goal: Mock
// exists purely to exercise dispatch, not to secure real counterparties).
func (cs ClientState) VerifyUpgradeClient(
	_ exported.ClientValidationContext, _ string,
	_ exported.ClientState, _ exported.ConsensusState,
	_, _ []byte, _ exported.Root,
) error {
	return nil
}

func (cs ClientState) UpdateStateOnUpgrade(
	ctx exported.ClientExecutionContext, clientID string,
	newClient exported.ClientState, newConsState exported.ConsensusState,
) (exported.Height, error) {
	newMockClient, ok := newClient.(*ClientState)
	if !ok {
		return nil, pkgerrors.Errorf("mock client: expected %T, got %T", &ClientState{}, newClient)
	}
	newMockConsState, ok := newConsState.(*ConsensusState)
	if !ok {
		return nil, pkgerrors.Errorf("mock client: expected %T, got %T", &ConsensusState{}, newConsState)
	}
	newMockClient.Frozen = false
	if err := ctx.StoreClientState(clientID, newMockClient); err != nil {
		return nil, err
	}
	if err := ctx.StoreConsensusState(clientID, newMockClient.LatestHeight, newMockConsState); err != nil {
		return nil, err
	}
	return newMockClient.LatestHeight, nil
}

// VerifyMembership/VerifyNonMembership compare the value directly against
// the stored root's opaque hash rather than checking an ics23 proof: the
// mock client has no storage-proof format of its own.
func (cs ClientState) VerifyMembership(
	ctx exported.ClientValidationContext, clientID string, height exported.Height,
	_, _ uint64, proof, path, value []byte,
) error {
	consState, err := getConsensusState(ctx, clientID, height)
	if err != nil {
		return err
	}
	if !bytesEqual(proof, consState.Root) {
		return pkgerrors.New("mock client: membership proof does not match stored root")
	}
	if len(path) == 0 || len(value) == 0 {
		return pkgerrors.New("mock client: empty path or value")
	}
	return nil
}

func (cs ClientState) VerifyNonMembership(
	ctx exported.ClientValidationContext, clientID string, height exported.Height,
	_, _ uint64, proof, path []byte,
) error {
	consState, err := getConsensusState(ctx, clientID, height)
	if err != nil {
		return err
	}
	if !bytesEqual(proof, consState.Root) {
		return pkgerrors.New("mock client: non-membership proof does not match stored root")
	}
	if len(path) == 0 {
		return pkgerrors.New("mock client: empty path")
	}
	return nil
}

func getConsensusState(ctx exported.ClientValidationContext, clientID string, height exported.Height) (*ConsensusState, error) {
	consState, err := ctx.GetClientConsensusState(clientID, height)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "mock client: consensus state not found at height %s", height)
	}
	mockConsState, ok := consState.(*ConsensusState)
	if !ok {
		return nil, pkgerrors.Errorf("mock client: expected %T, got %T", &ConsensusState{}, consState)
	}
	return mockConsState, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (cs *ClientState) Reset()      { *cs = ClientState{} }
func (*ClientState) ProtoMessage() {}
func (cs *ClientState) String() string {
	return fmt.Sprintf("ClientState{LatestHeight: %s, Frozen: %t}", cs.LatestHeight, cs.Frozen)
}

func (cs *ClientState) Marshal() ([]byte, error) {
	var b []byte
	lhBz, err := (&cs.LatestHeight).Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, lhBz)
	if cs.Frozen {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b, nil
}

func (cs *ClientState) Unmarshal(data []byte) error {
	*cs = ClientState{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := cs.LatestHeight.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			cs.Frozen = v != 0
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

func decodeClientState(bz []byte) (exported.ClientState, error) {
	cs := &ClientState{}
	if err := cs.Unmarshal(bz); err != nil {
		return nil, err
	}
	return cs, nil
}

func init() {
	clienttypes.RegisterClientState(TypeURLClientState, decodeClientState)
	clienttypes.RegisterConsensusState(TypeURLConsensusState, decodeMockConsensusState)
	clienttypes.RegisterClientMessage(TypeURLHeader, decodeMockHeader)
}
