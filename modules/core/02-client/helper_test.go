package client_test

import (
	"time"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"

	client "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client"
	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// fakeHandlerContext is a minimal in-memory client.ExecutionContext, the
// host-side counterpart to the ClientExecutionContext fakes the client-type
// packages use in their own tests — standing in for the SDK keeper this
// module does not ship (see DESIGN.md's Open Question decision on Context).
type fakeHandlerContext struct {
	hostHeight    exported.Height
	hostTimestamp time.Time

	clientStates     map[string]exported.ClientState
	consensusStates  map[string]map[string]exported.ConsensusState
	processedTimes   map[string]map[string]time.Time
	processedHeights map[string]map[string]exported.Height

	clientCounter uint64
	events        []clienttypes.Event

	evidenceMaxAgeDuration time.Duration
	evidenceMaxAgeBlocks   int64
}

func newFakeHandlerContext() *fakeHandlerContext {
	return &fakeHandlerContext{
		hostHeight:       clienttypes.NewHeight(0, 100),
		hostTimestamp:    time.Unix(1_700_000_000, 0).UTC(),
		clientStates:     map[string]exported.ClientState{},
		consensusStates:  map[string]map[string]exported.ConsensusState{},
		processedTimes:   map[string]map[string]time.Time{},
		processedHeights: map[string]map[string]exported.Height{},
	}
}

func (f *fakeHandlerContext) ClientState(clientID string) (exported.ClientState, error) {
	cs, ok := f.clientStates[clientID]
	if !ok {
		return nil, clienttypes.ErrClientNotFound
	}
	return cs, nil
}

func (f *fakeHandlerContext) ConsensusState(clientID string, height exported.Height) (exported.ConsensusState, error) {
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

func (f *fakeHandlerContext) NextConsensusState(clientID string, height exported.Height) (exported.ConsensusState, bool) {
	_, cs, ok := f.bracket(clientID, height, true)
	return cs, ok
}

func (f *fakeHandlerContext) PrevConsensusState(clientID string, height exported.Height) (exported.ConsensusState, bool) {
	_, cs, ok := f.bracket(clientID, height, false)
	return cs, ok
}

func (f *fakeHandlerContext) bracket(clientID string, height exported.Height, next bool) (exported.Height, exported.ConsensusState, bool) {
	byHeight, ok := f.consensusStates[clientID]
	if !ok {
		return nil, nil, false
	}
	var best exported.Height
	for k := range byHeight {
		h := parseHandlerHeightKey(k)
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
	cs, err := f.ConsensusState(clientID, best)
	return best, cs, err == nil
}

func parseHandlerHeightKey(s string) exported.Height {
	i := 0
	for ; i < len(s); i++ {
		if s[i] == '-' {
			break
		}
	}
	revision := mustParseHandlerUint(s[:i])
	var height uint64
	if i < len(s) {
		height = mustParseHandlerUint(s[i+1:])
	}
	return clienttypes.NewHeight(revision, height)
}

func mustParseHandlerUint(s string) uint64 {
	var v uint64
	for i := 0; i < len(s); i++ {
		v = v*10 + uint64(s[i]-'0')
	}
	return v
}

func (f *fakeHandlerContext) HostHeight() exported.Height { return f.hostHeight }
func (f *fakeHandlerContext) HostTimestamp() time.Time    { return f.hostTimestamp }

func (f *fakeHandlerContext) ClientUpdateMeta(clientID string, height exported.Height) (time.Time, exported.Height, error) {
	pt, ok := f.processedTimes[clientID][height.String()]
	if !ok {
		return time.Time{}, nil, clienttypes.ErrContext
	}
	ph := f.processedHeights[clientID][height.String()]
	return pt, ph, nil
}

func (f *fakeHandlerContext) ValidateMessageSigner(signer string) error {
	if signer == "" {
		return clienttypes.ErrInvalidClient
	}
	return nil
}

func (f *fakeHandlerContext) EvidenceMaxAgeDuration() time.Duration { return f.evidenceMaxAgeDuration }
func (f *fakeHandlerContext) EvidenceMaxAgeBlocks() int64           { return f.evidenceMaxAgeBlocks }

func (f *fakeHandlerContext) Logger() log.Logger { return log.NewNopLogger() }

func (f *fakeHandlerContext) GetClientValidationContext(clientID string) exported.ClientValidationContext {
	return f.GetClientExecutionContext(clientID)
}

func (f *fakeHandlerContext) GetClientExecutionContext(clientID string) exported.ClientExecutionContext {
	return &fakeClientExecContext{handler: f, clientID: clientID}
}

func (f *fakeHandlerContext) StoreClientState(clientID string, clientState exported.ClientState) error {
	f.clientStates[clientID] = clientState
	return nil
}

func (f *fakeHandlerContext) StoreConsensusState(clientID string, height exported.Height, consensusState exported.ConsensusState) error {
	if f.consensusStates[clientID] == nil {
		f.consensusStates[clientID] = map[string]exported.ConsensusState{}
	}
	f.consensusStates[clientID][height.String()] = consensusState
	return nil
}

func (f *fakeHandlerContext) DeleteConsensusState(clientID string, height exported.Height) error {
	delete(f.consensusStates[clientID], height.String())
	return nil
}

func (f *fakeHandlerContext) StoreUpdateMeta(clientID string, height exported.Height, processedTime time.Time, processedHeight exported.Height) error {
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

func (f *fakeHandlerContext) DeleteUpdateMeta(clientID string, height exported.Height) error {
	delete(f.processedTimes[clientID], height.String())
	delete(f.processedHeights[clientID], height.String())
	return nil
}

func (f *fakeHandlerContext) EmitIBCEvent(event clienttypes.Event) {
	f.events = append(f.events, event)
}

func (f *fakeHandlerContext) IncreaseClientCounter() uint64 {
	seq := f.clientCounter
	f.clientCounter++
	return seq
}

// fakeClientExecContext narrows fakeHandlerContext down to the
// exported.ClientExecutionContext surface a client type is handed, scoped
// to a single clientID the way GetClientExecutionContext promises.
type fakeClientExecContext struct {
	handler  *fakeHandlerContext
	clientID string
}

func (c *fakeClientExecContext) ClientStore(string) storetypes.KVStore { return nil }

func (c *fakeClientExecContext) GetClientConsensusState(clientID string, height exported.Height) (exported.ConsensusState, error) {
	return c.handler.ConsensusState(clientID, height)
}

func (c *fakeClientExecContext) GetSelfConsensusState(exported.Height) (exported.ConsensusState, error) {
	return nil, clienttypes.ErrConsensusStateNotFound
}

func (c *fakeClientExecContext) HostHeight() exported.Height { return c.handler.HostHeight() }
func (c *fakeClientExecContext) HostTimestamp() time.Time    { return c.handler.HostTimestamp() }

func (c *fakeClientExecContext) GetProcessedTime(clientID string, height exported.Height) (time.Time, bool) {
	byHeight, ok := c.handler.processedTimes[clientID]
	if !ok {
		return time.Time{}, false
	}
	t, ok := byHeight[height.String()]
	return t, ok
}

func (c *fakeClientExecContext) GetProcessedHeight(clientID string, height exported.Height) (exported.Height, bool) {
	byHeight, ok := c.handler.processedHeights[clientID]
	if !ok {
		return nil, false
	}
	h, ok := byHeight[height.String()]
	return h, ok
}

func (c *fakeClientExecContext) GetNextConsensusState(clientID string, height exported.Height) (exported.Height, exported.ConsensusState, bool) {
	return c.handler.bracket(clientID, height, true)
}

func (c *fakeClientExecContext) GetPrevConsensusState(clientID string, height exported.Height) (exported.Height, exported.ConsensusState, bool) {
	return c.handler.bracket(clientID, height, false)
}

func (c *fakeClientExecContext) StoreClientState(clientID string, clientState exported.ClientState) error {
	return c.handler.StoreClientState(clientID, clientState)
}

func (c *fakeClientExecContext) StoreConsensusState(clientID string, height exported.Height, consState exported.ConsensusState) error {
	return c.handler.StoreConsensusState(clientID, height, consState)
}

func (c *fakeClientExecContext) DeleteConsensusState(clientID string, height exported.Height) error {
	return c.handler.DeleteConsensusState(clientID, height)
}

func (c *fakeClientExecContext) StoreUpdateMeta(clientID string, height exported.Height, processedTime time.Time, processedHeight exported.Height) error {
	return c.handler.StoreUpdateMeta(clientID, height, processedTime, processedHeight)
}

func (c *fakeClientExecContext) DeleteUpdateMeta(clientID string, height exported.Height) error {
	return c.handler.DeleteUpdateMeta(clientID, height)
}

var (
	_ client.ValidationContext         = (*fakeHandlerContext)(nil)
	_ client.ExecutionContext          = (*fakeHandlerContext)(nil)
	_ exported.ClientExecutionContext  = (*fakeClientExecContext)(nil)
)
