package types

import (
	"time"

	"cosmossdk.io/errors"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// Every helper below takes the already-scoped exported.ClientValidationContext/
// ClientExecutionContext a handler hands the client at each call (spec.md §9:
// the client never holds a back-reference to its store).

// GetConsensusState fetches and decodes the consensus state this client has
// stored at height, or ErrConsensusStateNotFound (spec.md §9 open question
// b: a pruned or never-stored height resolves to this same error).
func GetConsensusState(ctx exported.ClientValidationContext, clientID string, height exported.Height) (*ConsensusState, error) {
	consState, err := ctx.GetClientConsensusState(clientID, height)
	if err != nil {
		return nil, errors.Wrapf(clienttypes.ErrConsensusStateNotFound, "clientID %s, height %s: %s", clientID, height, err)
	}
	tmConsState, ok := consState.(*ConsensusState)
	if !ok {
		return nil, errors.Wrapf(clienttypes.ErrInvalidConsensusState, "expected type %T, got %T", &ConsensusState{}, consState)
	}
	return tmConsState, nil
}

// GetNextConsensusState returns the height and consensus state of the first
// stored entry strictly greater than height.
func GetNextConsensusState(ctx exported.ClientValidationContext, clientID string, height exported.Height) (exported.Height, *ConsensusState, bool) {
	h, cs, ok := ctx.GetNextConsensusState(clientID, height)
	if !ok {
		return nil, nil, false
	}
	tmConsState, ok := cs.(*ConsensusState)
	return h, tmConsState, ok
}

// GetPreviousConsensusState returns the height and consensus state of the
// last stored entry strictly less than height.
func GetPreviousConsensusState(ctx exported.ClientValidationContext, clientID string, height exported.Height) (exported.Height, *ConsensusState, bool) {
	h, cs, ok := ctx.GetPrevConsensusState(clientID, height)
	if !ok {
		return nil, nil, false
	}
	tmConsState, ok := cs.(*ConsensusState)
	return h, tmConsState, ok
}

// SetConsensusState stores a consensus state at height and records the
// host's processing time/height for it, so later delay-period checks
// (spec.md §4.D) and pruning (spec.md §4.C) have something to read back.
func SetConsensusState(ctx exported.ClientExecutionContext, clientID string, height exported.Height, consState *ConsensusState) error {
	if err := ctx.StoreConsensusState(clientID, height, consState); err != nil {
		return err
	}
	return ctx.StoreUpdateMeta(clientID, height, ctx.HostTimestamp(), ctx.HostHeight())
}

// pruneOldestConsensusState deletes the single oldest stored consensus
// state once its trusting period has elapsed, mirroring the teacher's
// per-update prune of at most one stale height rather than a sweep.
func pruneOldestConsensusState(ctx exported.ClientExecutionContext, clientID string, cs ClientState, now time.Time) {
	oldestHeight, oldest, ok := GetNextConsensusState(ctx, clientID, clienttypes.ZeroHeight())
	if !ok {
		return
	}
	if !cs.IsExpired(oldest.GetTimestamp(), now) {
		return
	}
	_ = ctx.DeleteConsensusState(clientID, oldestHeight)
	_ = ctx.DeleteUpdateMeta(clientID, oldestHeight)
}

// IsExpired returns true if latestTimestamp + trustingPeriod is at or before now.
func (cs ClientState) IsExpired(latestTimestamp, now time.Time) bool {
	return !latestTimestamp.Add(cs.TrustingPeriod).After(now)
}
