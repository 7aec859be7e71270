package types_test

import (
	"time"

	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// signedHeaderWithAppHash builds a structurally-complete but not
// cryptographically signed SignedHeader, good enough for tests that exercise
// pure bookkeeping (replay detection, app-hash comparisons) rather than
// cometbft/light.Verify's signature checks.
func signedHeaderWithAppHash(chainID string, height int64, t time.Time, appHash, nextValsHash []byte) *cmtproto.SignedHeader {
	return &cmtproto.SignedHeader{
		Header: &cmtproto.Header{
			ChainID:            chainID,
			Height:             height,
			Time:               t,
			AppHash:            appHash,
			NextValidatorsHash: nextValsHash,
		},
	}
}

// fakeClientContext is a minimal in-memory exported.ClientExecutionContext,
// standing in for a host's concrete Context implementation (spec.md §4.G
// specifies the Context only as an interface boundary; see DESIGN.md's Open
// Question decision on why no SDK-backed keeper ships with this module).
type fakeClientContext struct {
	hostHeight    exported.Height
	hostTimestamp time.Time

	clientStates     map[string]exported.ClientState
	consensusStates  map[string]map[string]exported.ConsensusState
	processedTimes   map[string]map[string]time.Time
	processedHeights map[string]map[string]exported.Height
}

func newFakeClientContext() *fakeClientContext {
	return &fakeClientContext{
		hostHeight:       clienttypes.NewHeight(0, 1),
		hostTimestamp:    time.Unix(1_700_000_000, 0).UTC(),
		clientStates:     map[string]exported.ClientState{},
		consensusStates:  map[string]map[string]exported.ConsensusState{},
		processedTimes:   map[string]map[string]time.Time{},
		processedHeights: map[string]map[string]exported.Height{},
	}
}

func (f *fakeClientContext) ClientStore(string) storetypes.KVStore { return nil }

func (f *fakeClientContext) GetClientConsensusState(clientID string, height exported.Height) (exported.ConsensusState, error) {
	byHeight, ok := f.consensusStates[clientID]
	if !ok {
		return nil, clienttypes.ErrConsensusStateNotFound
	}
	cs, ok := byHeight[height.String()]
	if !ok {
		return nil, clienttypes.ErrConsensusStateNotFound
	}
	return cs, nil
}

func (f *fakeClientContext) GetSelfConsensusState(exported.Height) (exported.ConsensusState, error) {
	return nil, clienttypes.ErrConsensusStateNotFound
}

func (f *fakeClientContext) HostHeight() exported.Height { return f.hostHeight }
func (f *fakeClientContext) HostTimestamp() time.Time    { return f.hostTimestamp }

func (f *fakeClientContext) GetProcessedTime(clientID string, height exported.Height) (time.Time, bool) {
	byHeight, ok := f.processedTimes[clientID]
	if !ok {
		return time.Time{}, false
	}
	t, ok := byHeight[height.String()]
	return t, ok
}

func (f *fakeClientContext) GetProcessedHeight(clientID string, height exported.Height) (exported.Height, bool) {
	byHeight, ok := f.processedHeights[clientID]
	if !ok {
		return nil, false
	}
	h, ok := byHeight[height.String()]
	return h, ok
}

func (f *fakeClientContext) GetNextConsensusState(clientID string, height exported.Height) (exported.Height, exported.ConsensusState, bool) {
	return f.bracket(clientID, height, true)
}

func (f *fakeClientContext) GetPrevConsensusState(clientID string, height exported.Height) (exported.Height, exported.ConsensusState, bool) {
	return f.bracket(clientID, height, false)
}

func (f *fakeClientContext) bracket(clientID string, height exported.Height, next bool) (exported.Height, exported.ConsensusState, bool) {
	byHeight, ok := f.consensusStates[clientID]
	if !ok {
		return nil, nil, false
	}
	var best exported.Height
	for k := range byHeight {
		h := parseHeightKey(k)
		if next {
			if h.GT(height) && (best == nil || h.LT(best)) {
				best = h
			}
		} else {
			if h.LT(height) && (best == nil || h.GT(best)) {
				best = h
			}
		}
	}
	if best == nil {
		return nil, nil, false
	}
	cs, _ := f.GetClientConsensusState(clientID, best)
	return best, cs, cs != nil
}

func parseHeightKey(s string) exported.Height {
	var revision, height uint64
	i := 0
	for ; i < len(s); i++ {
		if s[i] == '-' {
			break
		}
	}
	revision = mustParseUint(s[:i])
	if i < len(s) {
		height = mustParseUint(s[i+1:])
	}
	return clienttypes.NewHeight(revision, height)
}

func mustParseUint(s string) uint64 {
	var v uint64
	for i := 0; i < len(s); i++ {
		v = v*10 + uint64(s[i]-'0')
	}
	return v
}

func (f *fakeClientContext) StoreClientState(clientID string, clientState exported.ClientState) error {
	f.clientStates[clientID] = clientState
	return nil
}

func (f *fakeClientContext) StoreConsensusState(clientID string, height exported.Height, consState exported.ConsensusState) error {
	if f.consensusStates[clientID] == nil {
		f.consensusStates[clientID] = map[string]exported.ConsensusState{}
	}
	f.consensusStates[clientID][height.String()] = consState
	return nil
}

func (f *fakeClientContext) DeleteConsensusState(clientID string, height exported.Height) error {
	delete(f.consensusStates[clientID], height.String())
	return nil
}

func (f *fakeClientContext) StoreUpdateMeta(clientID string, height exported.Height, processedTime time.Time, processedHeight exported.Height) error {
	if f.processedTimes[clientID] == nil {
		f.processedTimes[clientID] = map[string]time.Time{}
	}
	if f.processedHeights[clientID] == nil {
		f.processedHeights[clientID] = map[string]exported.Height{}
	}
	f.processedTimes[clientID][height.String()] = processedTime
	f.processedHeights[clientID][height.String()] = processedHeight
	return nil
}

func (f *fakeClientContext) DeleteUpdateMeta(clientID string, height exported.Height) error {
	delete(f.processedTimes[clientID], height.String())
	delete(f.processedHeights[clientID], height.String())
	return nil
}
