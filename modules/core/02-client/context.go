// Package client implements the ICS-02 handlers (CreateClient, UpdateClient,
// UpgradeClient, SubmitMisbehaviour) against the Context boundary defined in
// this file, split into validate (read-only) and execute (write) phases per
// spec.md §4.F.
package client

import (
	"time"

	"cosmossdk.io/log"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// ValidationContext is the read-only capability set the handlers' validate
// phase requires from the host. ExecutionContext embeds it, so the execute
// phase reads through the same methods (ExecuteUpdateClient, for one, runs
// CheckForMisbehaviour through GetClientValidationContext before deciding
// whether to freeze); it is the Context's job to keep its own mutations
// atomic around the validate/execute pair (spec.md §5).
type ValidationContext interface {
	ClientState(clientID string) (exported.ClientState, error)
	ConsensusState(clientID string, height exported.Height) (exported.ConsensusState, error)
	// NextConsensusState returns the consensus state at the first stored
	// height strictly greater than height, and whether one exists.
	NextConsensusState(clientID string, height exported.Height) (exported.ConsensusState, bool)
	// PrevConsensusState returns the consensus state at the last stored
	// height strictly less than height, and whether one exists.
	PrevConsensusState(clientID string, height exported.Height) (exported.ConsensusState, bool)

	HostHeight() exported.Height
	HostTimestamp() time.Time

	// ClientUpdateMeta returns the (host_timestamp, host_height) recorded
	// when the consensus state at height was inserted.
	ClientUpdateMeta(clientID string, height exported.Height) (time.Time, exported.Height, error)

	ValidateMessageSigner(signer string) error

	// EvidenceMaxAgeDuration / EvidenceMaxAgeBlocks bound how old
	// misbehaviour evidence may be before SubmitMisbehaviour rejects it
	// with ErrMisbehaviourExpired. A zero value disables the bound.
	EvidenceMaxAgeDuration() time.Duration
	EvidenceMaxAgeBlocks() int64

	Logger() log.Logger

	// GetClientValidationContext narrows this interface down to the
	// surface a ClientState implementation needs (exported.ClientValidationContext),
	// breaking the context<->client cycle per spec.md §9: the client
	// never holds a back-reference, it is handed this value as a
	// parameter at each call.
	GetClientValidationContext(clientID string) exported.ClientValidationContext
}

// ExecutionContext is ValidationContext plus the write surface.
type ExecutionContext interface {
	ValidationContext

	StoreClientState(clientID string, clientState exported.ClientState) error
	StoreConsensusState(clientID string, height exported.Height, consensusState exported.ConsensusState) error
	DeleteConsensusState(clientID string, height exported.Height) error

	StoreUpdateMeta(clientID string, height exported.Height, processedTime time.Time, processedHeight exported.Height) error
	DeleteUpdateMeta(clientID string, height exported.Height) error

	EmitIBCEvent(event types.Event)

	// IncreaseClientCounter returns the client sequence to mint the next
	// ClientId with, incrementing the stored counter as a side effect.
	IncreaseClientCounter() uint64

	GetClientExecutionContext(clientID string) exported.ClientExecutionContext
}
