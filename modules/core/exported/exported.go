// Package exported defines the interfaces that the light-client substrate
// and the host chain's Context agree on. Concrete client types (Tendermint,
// Mock, ...) and the 02-client handlers never reference each other's
// packages directly; they meet here.
package exported

import (
	"time"

	"github.com/cosmos/gogoproto/proto"

	storetypes "cosmossdk.io/store/types"
)

// ClientType prefixes, e.g. "07-tendermint".
type ClientType = string

// Marshaler is the gogoproto fast-path interface (github.com/cosmos/gogoproto
// recognises a bare Marshal/Unmarshal pair and skips reflection). Every wire
// type in this module implements it by hand via protowire rather than
// relying on generated code.
type Marshaler interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// Height is a total order over (revision_number, revision_height) pairs.
// revision_number changes only across hard forks; revision_height is
// monotone within a revision.
type Height interface {
	IsZero() bool
	LT(Height) bool
	LTE(Height) bool
	EQ(Height) bool
	GT(Height) bool
	GTE(Height) bool
	GetRevisionNumber() uint64
	GetRevisionHeight() uint64
	Increment() Height
	Decrement() (Height, bool)
	String() string
}

// Status is the derived, never-stored state of a client.
type Status string

const (
	Active  Status = "Active"
	Expired Status = "Expired"
	Frozen  Status = "Frozen"
	Unknown Status = "Unknown"
)

func (s Status) IsActive() bool {
	return s == Active
}

// StatusOverride is implemented by client types that let a status-inactive
// client keep accepting UpdateClient messages for one specific reason
// (e.g. Tendermint's AllowUpdateAfterExpiry/AllowUpdateAfterMisbehaviour).
// Not every ClientState implements it; callers type-assert and fall back
// to the strict Active-only gate when it is absent.
type StatusOverride interface {
	AllowsUpdateAfterExpiry() bool
	AllowsUpdateAfterMisbehaviour() bool
}

// ClientMessage is the sum type a client's update/misbehaviour-detection
// entry points accept: either a Header or a Misbehaviour submission.
type ClientMessage interface {
	proto.Message
	Marshaler
	ClientType() ClientType
	ValidateBasic() error
}

// ConsensusState is the minimal per-height commitment a client stores:
// a commitment root, a validator-set digest, and a timestamp.
type ConsensusState interface {
	proto.Message
	Marshaler
	ClientType() ClientType
	GetRoot() Root
	GetTimestamp() time.Time
	ValidateBasic() error
}

// Root is a commitment root a membership/non-membership proof is checked
// against.
type Root interface {
	GetHash() []byte
	Empty() bool
}

// ClientState is the capability set every registered client type
// (Tendermint, Mock, ...) must implement, taking the host's context as an
// explicit parameter rather than holding a back-reference to it (per the
// "cyclic context <-> client" design note).
type ClientState interface {
	proto.Message
	Marshaler

	ClientType() ClientType
	GetLatestHeight() Height
	Validate() error

	// ClientStateValidation
	VerifyClientMessage(ctx ClientValidationContext, clientID string, clientMsg ClientMessage) error
	CheckForMisbehaviour(ctx ClientValidationContext, clientID string, clientMsg ClientMessage) bool
	UpdateStateOnMisbehaviour(ctx ClientExecutionContext, clientID string) error
	Status(ctx ClientValidationContext, clientID string) Status
	GetTimestampAtHeight(ctx ClientValidationContext, clientID string, height Height) (time.Time, error)

	// VerifyUpgradeClient is the read-only half of an upgrade: it checks
	// that newClient/newConsState are committed to by proofUpgradeClient/
	// proofUpgradeConsState under upgradeRoot (the current consensus
	// state's commitment root), without writing anything.
	VerifyUpgradeClient(
		ctx ClientValidationContext, clientID string,
		newClient ClientState, newConsState ConsensusState,
		proofUpgradeClient, proofUpgradeConsState []byte,
		upgradeRoot Root,
	) error

	// ClientStateExecution
	Initialize(ctx ClientExecutionContext, clientID string, consState ConsensusState) error
	UpdateState(ctx ClientExecutionContext, clientID string, clientMsg ClientMessage) []Height
	// UpdateStateOnUpgrade replaces the stored client/consensus state with
	// the already-verified upgraded pair and returns the new latest height.
	UpdateStateOnUpgrade(
		ctx ClientExecutionContext, clientID string,
		newClient ClientState, newConsState ConsensusState,
	) (Height, error)

	// Membership / non-membership against this client's commitment root.
	VerifyMembership(
		ctx ClientValidationContext, clientID string, height Height,
		delayTimePeriod, delayBlockPeriod uint64,
		proof []byte, path []byte, value []byte,
	) error
	VerifyNonMembership(
		ctx ClientValidationContext, clientID string, height Height,
		delayTimePeriod, delayBlockPeriod uint64,
		proof []byte, path []byte,
	) error
}

// ClientValidationContext is the narrow read-only surface a ClientState
// implementation needs from the host store: enough to fetch its own
// consensus states, never the whole ValidationContext.
type ClientValidationContext interface {
	ClientStore(clientID string) storetypes.KVStore
	GetClientConsensusState(clientID string, height Height) (ConsensusState, error)
	GetSelfConsensusState(height Height) (ConsensusState, error)
	HostHeight() Height
	HostTimestamp() time.Time

	// GetProcessedTime / GetProcessedHeight return the host's own clock
	// reading at the moment the consensus state at height was inserted,
	// the delay-period bookkeeping VerifyMembership/VerifyNonMembership
	// need (spec.md §4.D). The bool is false if no such height was ever
	// processed by this client.
	GetProcessedTime(clientID string, height Height) (time.Time, bool)
	GetProcessedHeight(clientID string, height Height) (Height, bool)

	// GetNextConsensusState / GetPrevConsensusState return the height and
	// consensus state of the first stored entry strictly greater/less than
	// height, used by misbehaviour detection to find a bracketing pair of
	// trusted states around a conflicting or monotonic-time-violating
	// header, and by pruning to find the oldest stored entry.
	GetNextConsensusState(clientID string, height Height) (Height, ConsensusState, bool)
	GetPrevConsensusState(clientID string, height Height) (Height, ConsensusState, bool)
}

// ClientExecutionContext is the narrow write surface a ClientState
// implementation needs to store its own derived state.
type ClientExecutionContext interface {
	ClientValidationContext

	ClientStore(clientID string) storetypes.KVStore
	StoreClientState(clientID string, clientState ClientState) error
	StoreConsensusState(clientID string, height Height, consState ConsensusState) error
	DeleteConsensusState(clientID string, height Height) error
	StoreUpdateMeta(clientID string, height Height, processedTime time.Time, processedHeight Height) error
	DeleteUpdateMeta(clientID string, height Height) error
}
