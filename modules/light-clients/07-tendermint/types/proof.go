package types

import (
	"time"

	"cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// timeDurationFromNanos interprets a delay-period value, which the IBC
// packet commitment spec encodes as raw nanoseconds, as a time.Duration.
func timeDurationFromNanos(nanos uint64) time.Duration {
	return time.Duration(nanos) //nolint:gosec // bounded packet delay periods
}

// VerifyMembership checks that value is present at path under the
// commitment root stored at height, using the first of this client's
// configured ics23.ProofSpecs (spec.md §4.D). The delay period is enforced
// first: a proof presented before delayTimePeriod/delayBlockPeriod have
// elapsed since height was processed is rejected regardless of validity,
// closing the "race the light client update" window a relayer could
// otherwise exploit.
func (cs ClientState) VerifyMembership(
	ctx exported.ClientValidationContext, clientID string, height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof, path, value []byte,
) error {
	if err := cs.verifyProofPreconditions(ctx, clientID, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return err
	}

	consState, err := GetConsensusState(ctx, clientID, height)
	if err != nil {
		return err
	}

	merkleProof, err := decodeCommitmentProof(proof)
	if err != nil {
		return err
	}

	spec, err := cs.proofSpec()
	if err != nil {
		return err
	}

	if !ics23.VerifyMembership(spec, consState.Root.GetHash(), merkleProof, path, value) {
		return errors.Wrapf(ErrInvalidProof, "failed to verify membership of path %s at height %s", path, height)
	}
	return nil
}

// VerifyNonMembership checks that no value is present at path under the
// commitment root stored at height.
func (cs ClientState) VerifyNonMembership(
	ctx exported.ClientValidationContext, clientID string, height exported.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof, path []byte,
) error {
	if err := cs.verifyProofPreconditions(ctx, clientID, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return err
	}

	consState, err := GetConsensusState(ctx, clientID, height)
	if err != nil {
		return err
	}

	merkleProof, err := decodeCommitmentProof(proof)
	if err != nil {
		return err
	}

	spec, err := cs.proofSpec()
	if err != nil {
		return err
	}

	if !ics23.VerifyNonMembership(spec, consState.Root.GetHash(), merkleProof, path) {
		return errors.Wrapf(ErrInvalidProof, "failed to verify non-membership of path %s at height %s", path, height)
	}
	return nil
}

func (cs ClientState) proofSpec() (*ics23.ProofSpec, error) {
	if len(cs.ProofSpecs) == 0 || cs.ProofSpecs[0] == nil {
		return nil, errors.Wrap(ErrInvalidMisbehaviour, "client state has no configured proof specs")
	}
	return cs.ProofSpecs[0], nil
}

func decodeCommitmentProof(bz []byte) (*ics23.CommitmentProof, error) {
	proof := &ics23.CommitmentProof{}
	if err := proof.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(ErrInvalidProof, err.Error())
	}
	return proof, nil
}

// verifyProofPreconditions rejects a height the client hasn't caught up to
// yet and enforces the delay period against the recorded processed
// time/height for that consensus state.
func (cs ClientState) verifyProofPreconditions(ctx exported.ClientValidationContext, clientID string, height exported.Height, delayTimePeriod, delayBlockPeriod uint64) error {
	if cs.GetLatestHeight().LT(height) {
		return errors.Wrapf(ErrInvalidHeaderHeight, "client state height (%s) < proof height (%s)", cs.GetLatestHeight(), height)
	}

	if cs.FrozenHeight.RevisionHeight != 0 {
		return errors.Wrapf(ErrInvalidMisbehaviour, "client is frozen at height %s", cs.FrozenHeight)
	}

	processedTime, ok := ctx.GetProcessedTime(clientID, height)
	if !ok {
		return errors.Wrapf(clienttypes.ErrConsensusStateNotFound, "processed time not found for height %s", height)
	}
	if delayTimePeriod > 0 {
		validTime := processedTime.Add(timeDurationFromNanos(delayTimePeriod))
		if ctx.HostTimestamp().Before(validTime) {
			return errors.Wrapf(ErrInvalidProof, "packet-specified delay period (%d ns) has not elapsed since processing (valid from %s)", delayTimePeriod, validTime)
		}
	}

	if delayBlockPeriod > 0 {
		processedHeight, ok := ctx.GetProcessedHeight(clientID, height)
		if !ok {
			return errors.Wrapf(clienttypes.ErrConsensusStateNotFound, "processed height not found for height %s", height)
		}
		validHeight := clienttypes.NewHeight(processedHeight.GetRevisionNumber(), processedHeight.GetRevisionHeight()+delayBlockPeriod)
		if ctx.HostHeight().LT(validHeight) {
			return errors.Wrapf(ErrInvalidProof, "packet-specified delay block period (%d) has not elapsed since processing (valid from %s)", delayBlockPeriod, validHeight)
		}
	}

	return nil
}
