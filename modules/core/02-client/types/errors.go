package types

import (
	"cosmossdk.io/errors"
)

// ICS-02 error codespace, shared by every concrete client type through
// wrapping (see 07-tendermint/types/errors.go for the client-specific
// codespace).
const codespace = "client"

var (
	ErrClientExists              = errors.Register(codespace, 2, "light client already exists")
	ErrClientNotFound            = errors.Register(codespace, 3, "light client not found")
	ErrClientFrozen              = errors.Register(codespace, 4, "light client is frozen due to misbehaviour")
	ErrClientNotActive           = errors.Register(codespace, 5, "light client not active")
	ErrInvalidClient             = errors.Register(codespace, 6, "light client is invalid")
	ErrInvalidClientType         = errors.Register(codespace, 7, "invalid client type")
	ErrInvalidClientMetadata     = errors.Register(codespace, 8, "invalid client metadata")
	ErrInvalidClientHeader       = errors.Register(codespace, 9, "invalid client header")
	ErrInvalidHeader             = errors.Register(codespace, 10, "invalid header")
	ErrInvalidHeight             = errors.Register(codespace, 11, "invalid height")
	ErrInvalidConsensusState     = errors.Register(codespace, 12, "invalid consensus state")
	ErrConsensusStateNotFound    = errors.Register(codespace, 13, "consensus state not found")
	ErrInvalidMisbehaviour       = errors.Register(codespace, 14, "invalid misbehaviour")
	ErrMisbehaviourNotDetected   = errors.Register(codespace, 15, "misbehaviour evidence did not satisfy detection rules")
	ErrMisbehaviourExpired       = errors.Register(codespace, 16, "misbehaviour evidence exceeds the host's max evidence age")
	ErrInvalidProof              = errors.Register(codespace, 17, "invalid proof")
	ErrInvalidUpgradeClient      = errors.Register(codespace, 18, "invalid client upgrade")
	ErrInsufficientVotingPower   = errors.Register(codespace, 19, "insufficient voting power to satisfy the verification threshold")
	ErrHeaderInTheFuture         = errors.Register(codespace, 20, "header time is too far in the future")
	ErrHeaderInThePast           = errors.Register(codespace, 21, "trusted consensus state is outside the trusting period")
	ErrNonMonotonicHeader        = errors.Register(codespace, 22, "header violates monotonic time or height ordering")
	ErrTrustedValidatorsMismatch = errors.Register(codespace, 23, "trusted validator set does not match the stored next-validators hash")
	ErrInvalidClientIdentifier   = errors.Register(codespace, 24, "invalid client identifier")
	ErrInvalidChainID            = errors.Register(codespace, 25, "invalid chain id")
	ErrContext                   = errors.Register(codespace, 26, "host context storage failure")
)
