package types

import (
	"time"

	"cosmossdk.io/errors"
	cmtlight "github.com/cometbft/cometbft/light"
	cmttypes "github.com/cometbft/cometbft/types"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// verifyHeader runs the ordinary UpdateClient verification path: the
// trusted state must not have expired, the header must not be too far in
// the future, and cometbft/light.Verify must accept the header against the
// trusted header/validator set (adjacent or skipping, light.Verify decides
// which), grounded on the teacher's checkValidity.
func verifyHeader(ctx exported.ClientValidationContext, clientID string, cs ClientState, header *Header, now time.Time) error {
	trustedConsState, err := GetConsensusState(ctx, clientID, header.TrustedHeight)
	if err != nil {
		return errors.Wrapf(err, "could not get trusted consensus state for height %s", header.TrustedHeight)
	}

	if cs.IsExpired(trustedConsState.Timestamp, now) {
		return errors.Wrapf(ErrTrustingPeriodExpired, "time since latest trusted state (%s) has exceeded trusting period (%s)", now.Sub(trustedConsState.Timestamp), cs.TrustingPeriod)
	}

	if !header.GetTime().Before(now.Add(cs.MaxClockDrift)) {
		return errors.Wrapf(ErrInvalidHeader, "header time %s is too far in the future, exceeds now (%s) plus max clock drift (%s)", header.GetTime(), now, cs.MaxClockDrift)
	}

	return verifyHeaderAgainstTrusted(cs, header, trustedConsState, now, true)
}

// verifyMisbehaviourHeader runs the relaxed verification path
// SubmitMisbehaviour uses for each of the two conflicting headers: a
// trusted state that has already expired, or a header whose time is
// implausibly far in the future, is still admissible as misbehaviour
// evidence (spec.md §4.E Scenario 5) — a frozen client is a strictly safer
// outcome than silently dropping evidence of equivocation.
func verifyMisbehaviourHeader(ctx exported.ClientValidationContext, clientID string, cs ClientState, header *Header) error {
	trustedConsState, err := GetConsensusState(ctx, clientID, header.TrustedHeight)
	if err != nil {
		return errors.Wrapf(err, "could not get trusted consensus state for height %s", header.TrustedHeight)
	}

	return verifyHeaderAgainstTrusted(cs, header, trustedConsState, header.GetTime(), false)
}

// verifyHeaderAgainstTrusted delegates the actual signature/voting-power
// check to cometbft/light.Verify, reconstructing a minimal trusted
// SignedHeader from the stored ConsensusState the way the teacher's
// checkValidity does (the full trusted header is never stored, only its
// commitment root, timestamp, and next-validators hash).
func verifyHeaderAgainstTrusted(cs ClientState, header *Header, trustedConsState *ConsensusState, now time.Time, enforceAdjacentValHash bool) error {
	tmTrustedValidators, err := cmttypes.ValidatorSetFromProto(header.TrustedValidators)
	if err != nil {
		return errors.Wrap(ErrInvalidValidatorSet, err.Error())
	}

	if enforceAdjacentValHash && header.GetHeight().EQ(header.TrustedHeight.Increment()) {
		if !bytesEqual(trustedConsState.NextValidatorsHash, tmTrustedValidators.Hash()) {
			return errors.Wrap(ErrInvalidValidatorSet, "trusted validators does not hash to next validators hash of latest trusted consensus state")
		}
	}

	untrustedSH, err := cmttypes.SignedHeaderFromProto(header.SignedHeader)
	if err != nil {
		return errors.Wrap(ErrInvalidHeader, err.Error())
	}
	untrustedVals, err := cmttypes.ValidatorSetFromProto(header.ValidatorSet)
	if err != nil {
		return errors.Wrap(ErrInvalidValidatorSet, err.Error())
	}

	trustedSH := &cmttypes.SignedHeader{
		Header: &cmttypes.Header{
			ChainID:            cs.ChainId,
			Height:             int64(header.TrustedHeight.RevisionHeight), //nolint:gosec // bounded block height
			Time:               trustedConsState.Timestamp,
			NextValidatorsHash: trustedConsState.NextValidatorsHash,
		},
	}

	if err := cmtlight.Verify(
		trustedSH, tmTrustedValidators,
		untrustedSH, untrustedVals,
		cs.TrustingPeriod, now, cs.MaxClockDrift,
		cs.TrustLevel.ToTendermint(),
	); err != nil {
		return errors.Wrap(ErrInsufficientVotingPower, err.Error())
	}

	return nil
}

// checkForMisbehaviourHeader reports whether accepting header would
// conflict with a consensus state this client already trusts: a different
// commitment root already stored at the same height, or a stored
// neighboring height whose timestamp violates monotonic time ordering
// against header (spec.md §4.E, the "self-detected" misbehaviour path a
// well-formed UpdateClient header can also trigger).
func checkForMisbehaviourHeader(ctx exported.ClientValidationContext, clientID string, header *Header) bool {
	height := header.GetHeight()

	if existing, err := GetConsensusState(ctx, clientID, height); err == nil {
		if !bytesEqual(existing.Root.Hash, header.SignedHeader.Header.AppHash) {
			return true
		}
		return false
	}

	if _, next, ok := GetNextConsensusState(ctx, clientID, height); ok {
		if !next.Timestamp.After(header.GetTime()) {
			return true
		}
	}

	if _, prev, ok := GetPreviousConsensusState(ctx, clientID, height); ok {
		if !header.GetTime().After(prev.Timestamp) {
			return true
		}
	}

	return false
}

// checkForMisbehaviourEvidence reports whether a submitted Misbehaviour's
// two headers genuinely conflict once both have passed
// verifyMisbehaviourHeader: same height with different roots, or different
// heights with inverted block times (spec.md §4.E).
func checkForMisbehaviourEvidence(m *Misbehaviour) bool {
	h1, h2 := m.Header1.GetHeight(), m.Header2.GetHeight()
	switch {
	case h1.EQ(h2):
		return !bytesEqual(m.Header1.SignedHeader.Header.AppHash, m.Header2.SignedHeader.Header.AppHash)
	case h1.LT(h2):
		return !m.Header2.GetTime().After(m.Header1.GetTime())
	default:
		return !m.Header1.GetTime().After(m.Header2.GetTime())
	}
}
