package types

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"
	"google.golang.org/protobuf/encoding/protowire"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/telemetry"
)

// ClientTypeTendermint is the client-type prefix this package registers its
// identifiers under, e.g. "07-tendermint-0".
const ClientTypeTendermint = "07-tendermint"

// TypeURLClientState is the wire type_url this package registers its
// ClientState decoder under.
const TypeURLClientState = "/ibc.lightclients.tendermint.v1.ClientState"

// frozenSentinelHeight is the FrozenHeight value a frozen client carries;
// any non-zero height works as a sentinel, ibc-go's convention of {0,1} is
// kept so an equivocation always freezes "as of revision 0" regardless of
// the height misbehaviour was detected at.
var frozenSentinelHeight = clienttypes.NewHeight(0, 1)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState is the durable, per-counterparty configuration and latest
// trusted height of a Tendermint light client (spec.md §3): the trust
// parameters used by every VerifyClientMessage call, plus the frozen/active
// bookkeeping that is otherwise re-derived on every call rather than stored
// as an enum.
type ClientState struct {
	ChainId                      string               `protobuf:"bytes,1,opt,name=chain_id,json=chainId,proto3"`
	TrustLevel                   clienttypes.Fraction `protobuf:"bytes,2,opt,name=trust_level,json=trustLevel,proto3"`
	TrustingPeriod               time.Duration        `protobuf:"bytes,3,opt,name=trusting_period,json=trustingPeriod,proto3,stdduration"`
	UnbondingPeriod              time.Duration        `protobuf:"bytes,4,opt,name=unbonding_period,json=unbondingPeriod,proto3,stdduration"`
	MaxClockDrift                time.Duration        `protobuf:"bytes,5,opt,name=max_clock_drift,json=maxClockDrift,proto3,stdduration"`
	LatestHeight                 clienttypes.Height   `protobuf:"bytes,6,opt,name=latest_height,json=latestHeight,proto3"`
	ProofSpecs                   []*ics23.ProofSpec   `protobuf:"bytes,7,rep,name=proof_specs,json=proofSpecs,proto3"`
	UpgradePath                  []string             `protobuf:"bytes,8,rep,name=upgrade_path,json=upgradePath,proto3"`
	FrozenHeight                 clienttypes.Height   `protobuf:"bytes,9,opt,name=frozen_height,json=frozenHeight,proto3"`
	AllowUpdateAfterExpiry       bool                 `protobuf:"varint,10,opt,name=allow_update_after_expiry,json=allowUpdateAfterExpiry,proto3"`
	AllowUpdateAfterMisbehaviour bool                 `protobuf:"varint,11,opt,name=allow_update_after_misbehaviour,json=allowUpdateAfterMisbehaviour,proto3"`
}

// NewClientState creates a new, unfrozen ClientState.
func NewClientState(
	chainID string, trustLevel clienttypes.Fraction,
	trustingPeriod, unbondingPeriod, maxClockDrift time.Duration,
	latestHeight clienttypes.Height, specs []*ics23.ProofSpec, upgradePath []string,
) *ClientState {
	return &ClientState{
		ChainId:         chainID,
		TrustLevel:      trustLevel,
		TrustingPeriod:  trustingPeriod,
		UnbondingPeriod: unbondingPeriod,
		MaxClockDrift:   maxClockDrift,
		LatestHeight:    latestHeight,
		ProofSpecs:      specs,
		UpgradePath:     upgradePath,
		FrozenHeight:    clienttypes.ZeroHeight(),
	}
}

func (ClientState) ClientType() string { return ClientTypeTendermint }

func (cs ClientState) GetLatestHeight() exported.Height { return cs.LatestHeight }

// Validate enforces spec.md §3's ClientState invariants: the trusting
// period must be strictly shorter than the unbonding period (otherwise a
// validator set could be slashed and unbonded while still inside the
// trusting window), trust level must be inside [1/3, 1], and max clock
// drift must allow for some forward time skew.
func (cs ClientState) Validate() error {
	if err := clienttypes.ValidateChainID(cs.ChainId); err != nil {
		return err
	}
	if err := cs.TrustLevel.Validate(); err != nil {
		return err
	}
	if cs.TrustingPeriod <= 0 {
		return errors.Wrap(ErrInvalidTrustingPeriod, "trusting period must be positive")
	}
	if cs.UnbondingPeriod <= 0 {
		return errors.Wrap(ErrInvalidUnbondingPeriod, "unbonding period must be positive")
	}
	if cs.TrustingPeriod >= cs.UnbondingPeriod {
		return errors.Wrapf(ErrInvalidTrustingPeriod, "trusting period (%s) must be strictly less than unbonding period (%s)", cs.TrustingPeriod, cs.UnbondingPeriod)
	}
	if cs.MaxClockDrift <= 0 {
		return errors.Wrap(ErrInvalidHeader, "max clock drift must be positive")
	}
	if cs.LatestHeight.RevisionHeight == 0 {
		return errors.Wrap(ErrInvalidHeaderHeight, "latest height revision height cannot be zero")
	}
	if len(cs.ProofSpecs) == 0 {
		return errors.Wrap(ErrInvalidMisbehaviour, "proof specs cannot be empty")
	}
	for i, spec := range cs.ProofSpecs {
		if spec == nil {
			return errors.Wrapf(ErrInvalidMisbehaviour, "proof spec %d cannot be nil", i)
		}
	}
	return nil
}

// Status derives the client's current status without ever storing it:
// frozen if FrozenHeight is set, expired if the latest trusted consensus
// state has passed its trusting period, unknown if the latest consensus
// state cannot be read back, active otherwise (spec.md §3 Status note).
func (cs ClientState) Status(ctx exported.ClientValidationContext, clientID string) exported.Status {
	if cs.FrozenHeight.RevisionHeight != 0 {
		return exported.Frozen
	}

	consState, err := GetConsensusState(ctx, clientID, cs.LatestHeight)
	if err != nil {
		return exported.Unknown
	}

	if cs.IsExpired(consState.Timestamp, ctx.HostTimestamp()) {
		return exported.Expired
	}

	return exported.Active
}

// AllowsUpdateAfterExpiry and AllowsUpdateAfterMisbehaviour implement
// exported.StatusOverride, letting UpdateClient proceed against a
// non-Active client when the configured flag permits it.
func (cs ClientState) AllowsUpdateAfterExpiry() bool {
	return cs.AllowUpdateAfterExpiry
}

func (cs ClientState) AllowsUpdateAfterMisbehaviour() bool {
	return cs.AllowUpdateAfterMisbehaviour
}

func (cs ClientState) GetTimestampAtHeight(ctx exported.ClientValidationContext, clientID string, height exported.Height) (time.Time, error) {
	consState, err := GetConsensusState(ctx, clientID, height)
	if err != nil {
		return time.Time{}, err
	}
	return consState.Timestamp, nil
}

// VerifyClientMessage dispatches on the concrete ClientMessage: a Header
// runs the ordinary update-verification path, a Misbehaviour runs the
// relaxed evidence-verification path against each of its two headers
// independently (spec.md §4.E).
func (cs ClientState) VerifyClientMessage(ctx exported.ClientValidationContext, clientID string, clientMsg exported.ClientMessage) error {
	switch msg := clientMsg.(type) {
	case *Header:
		defer telemetry.MeasureVerifyHeaderDuration(time.Now(), cs.ClientType())
		return verifyHeader(ctx, clientID, cs, msg, ctx.HostTimestamp())
	case *Misbehaviour:
		if err := verifyMisbehaviourHeader(ctx, clientID, cs, msg.Header1); err != nil {
			return errors.Wrap(err, "header 1 failed verification")
		}
		if err := verifyMisbehaviourHeader(ctx, clientID, cs, msg.Header2); err != nil {
			return errors.Wrap(err, "header 2 failed verification")
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidHeader, "unsupported client message type %T", clientMsg)
	}
}

// CheckForMisbehaviour reports whether clientMsg, once verified, would
// conflict with state this client already trusts.
func (cs ClientState) CheckForMisbehaviour(ctx exported.ClientValidationContext, clientID string, clientMsg exported.ClientMessage) bool {
	switch msg := clientMsg.(type) {
	case *Header:
		return checkForMisbehaviourHeader(ctx, clientID, msg)
	case *Misbehaviour:
		return checkForMisbehaviourEvidence(msg)
	default:
		return false
	}
}

// UpdateStateOnMisbehaviour freezes the client: from then on Status reports
// Frozen and every VerifyMembership call is rejected, regardless of
// AllowUpdateAfterMisbehaviour (that flag only lets UpdateClient proceed;
// it does not unfreeze). UpdateState never clears FrozenHeight; only
// UpdateStateOnUpgrade resets it.
func (cs ClientState) UpdateStateOnMisbehaviour(ctx exported.ClientExecutionContext, clientID string) error {
	cs.FrozenHeight = frozenSentinelHeight
	return ctx.StoreClientState(clientID, &cs)
}

// Initialize persists the client's genesis consensus state. The client
// state itself is stored by the CreateClient handler once Initialize
// succeeds (spec.md §4.B) — Initialize's job is only to validate and store
// what only the concrete client type understands, the consensus state.
func (cs ClientState) Initialize(ctx exported.ClientExecutionContext, clientID string, consState exported.ConsensusState) error {
	tmConsState, ok := consState.(*ConsensusState)
	if !ok {
		return errors.Wrapf(ErrInvalidConsensusState, "expected type %T, got %T", &ConsensusState{}, consState)
	}
	if err := tmConsState.ValidateBasic(); err != nil {
		return err
	}
	return SetConsensusState(ctx, clientID, cs.LatestHeight, tmConsState)
}

// UpdateState stores the new consensus state the header carries and
// advances LatestHeight, pruning at most one expired consensus state.
// Replaying an already-applied header is a documented no-op (spec.md §8's
// idempotent-replay property): the same height with the same app hash
// returns the existing height without writing anything new.
func (cs ClientState) UpdateState(ctx exported.ClientExecutionContext, clientID string, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		return []exported.Height{}
	}

	height := header.GetHeight()

	if existing, err := GetConsensusState(ctx, clientID, height); err == nil {
		if bytesEqual(existing.Root.Hash, header.SignedHeader.Header.AppHash) {
			return []exported.Height{height}
		}
	}

	newConsState := header.ConsensusState()
	if err := SetConsensusState(ctx, clientID, height, newConsState); err != nil {
		return []exported.Height{}
	}

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = clienttypes.NewHeight(height.GetRevisionNumber(), height.GetRevisionHeight())
	}
	if err := ctx.StoreClientState(clientID, &cs); err != nil {
		return []exported.Height{}
	}

	pruneOldestConsensusState(ctx, clientID, cs, ctx.HostTimestamp())

	return []exported.Height{height}
}

// VerifyUpgradeClient checks the host chain's upgrade plan committed
// newClient/newConsState under upgradeRoot at the two reserved paths
// UpgradePath names (spec.md §4.F), without writing anything.
func (cs ClientState) VerifyUpgradeClient(
	_ exported.ClientValidationContext, _ string,
	newClient exported.ClientState, newConsState exported.ConsensusState,
	proofUpgradeClient, proofUpgradeConsState []byte,
	upgradeRoot exported.Root,
) error {
	if len(cs.UpgradePath) == 0 {
		return errors.Wrap(ErrInvalidUpgradeClient, "client state has no configured upgrade path")
	}

	newTmClient, ok := newClient.(*ClientState)
	if !ok {
		return errors.Wrapf(ErrInvalidUpgradeClient, "expected upgraded client state type %T, got %T", &ClientState{}, newClient)
	}

	oldBase, err := clienttypes.SetRevisionNumber(cs.ChainId, 0)
	if err != nil {
		return errors.Wrap(ErrInvalidUpgradeClient, err.Error())
	}
	newBase, err := clienttypes.SetRevisionNumber(newTmClient.ChainId, 0)
	if err != nil {
		return errors.Wrap(ErrInvalidUpgradeClient, err.Error())
	}
	if oldBase != newBase {
		return errors.Wrapf(ErrInvalidUpgradeClient, "upgraded client state chain-id %s does not match existing chain-id %s (only the revision number may change)", newTmClient.ChainId, cs.ChainId)
	}
	if newTmClient.LatestHeight.RevisionNumber <= cs.LatestHeight.RevisionNumber {
		return errors.Wrapf(ErrInvalidUpgradeClient, "upgraded client state revision number %d must be greater than current revision number %d", newTmClient.LatestHeight.RevisionNumber, cs.LatestHeight.RevisionNumber)
	}
	if newTmClient.TrustingPeriod <= 0 {
		return errors.Wrap(ErrInvalidUpgradeClient, "upgraded client state trusting period must be positive")
	}
	if newTmClient.UnbondingPeriod <= 0 {
		return errors.Wrap(ErrInvalidUpgradeClient, "upgraded client state unbonding period must be positive")
	}
	if !reflect.DeepEqual(cs.ProofSpecs, newTmClient.ProofSpecs) {
		return errors.Wrap(ErrInvalidUpgradeClient, "upgraded client state proof specs do not match existing proof specs")
	}

	spec, err := cs.proofSpec()
	if err != nil {
		return err
	}

	clientBz, err := newClient.Marshal()
	if err != nil {
		return errors.Wrap(ErrInvalidUpgradeClient, err.Error())
	}
	consBz, err := newConsState.Marshal()
	if err != nil {
		return errors.Wrap(ErrInvalidUpgradeClient, err.Error())
	}

	clientProof, err := decodeCommitmentProof(proofUpgradeClient)
	if err != nil {
		return err
	}
	consProof, err := decodeCommitmentProof(proofUpgradeConsState)
	if err != nil {
		return err
	}

	base := strings.Join(cs.UpgradePath, "/")
	if !ics23.VerifyMembership(spec, upgradeRoot.GetHash(), clientProof, []byte(base+"/clientState"), clientBz) {
		return errors.Wrap(ErrInvalidProof, "upgraded client state commitment proof failed verification")
	}
	if !ics23.VerifyMembership(spec, upgradeRoot.GetHash(), consProof, []byte(base+"/consensusState"), consBz) {
		return errors.Wrap(ErrInvalidProof, "upgraded consensus state commitment proof failed verification")
	}

	return nil
}

// UpdateStateOnUpgrade installs the already-verified upgraded client and
// consensus state, clearing any prior frozen status: an upgrade is a
// deliberate, governance-authorized replacement, so it takes priority over
// a frozen client the same way a hard fork supersedes slashing history.
func (cs ClientState) UpdateStateOnUpgrade(
	ctx exported.ClientExecutionContext, clientID string,
	newClient exported.ClientState, newConsState exported.ConsensusState,
) (exported.Height, error) {
	newTmClient, ok := newClient.(*ClientState)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidUpgradeClient, "expected type %T, got %T", &ClientState{}, newClient)
	}
	newTmConsState, ok := newConsState.(*ConsensusState)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidConsensusState, "expected type %T, got %T", &ConsensusState{}, newConsState)
	}

	newTmClient.FrozenHeight = clienttypes.ZeroHeight()

	if err := ctx.StoreClientState(clientID, newTmClient); err != nil {
		return nil, err
	}
	if err := SetConsensusState(ctx, clientID, newTmClient.LatestHeight, newTmConsState); err != nil {
		return nil, err
	}

	return newTmClient.LatestHeight, nil
}

func (cs *ClientState) Reset()      { *cs = ClientState{} }
func (*ClientState) ProtoMessage() {}
func (cs *ClientState) String() string {
	return fmt.Sprintf("ClientState{ChainId: %s, TrustLevel: %s, LatestHeight: %s, FrozenHeight: %s}", cs.ChainId, cs.TrustLevel, cs.LatestHeight, cs.FrozenHeight)
}

func (cs *ClientState) Marshal() ([]byte, error) {
	var b []byte
	if cs.ChainId != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, cs.ChainId)
	}

	tlBz, err := (&cs.TrustLevel).Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, tlBz)

	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalDuration(cs.TrustingPeriod))

	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalDuration(cs.UnbondingPeriod))

	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalDuration(cs.MaxClockDrift))

	lhBz, err := (&cs.LatestHeight).Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, 6, protowire.BytesType)
	b = protowire.AppendBytes(b, lhBz)

	for _, spec := range cs.ProofSpecs {
		specBz, err := spec.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendBytes(b, specBz)
	}

	for _, p := range cs.UpgradePath {
		b = protowire.AppendTag(b, 8, protowire.BytesType)
		b = protowire.AppendString(b, p)
	}

	fhBz, err := (&cs.FrozenHeight).Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, 9, protowire.BytesType)
	b = protowire.AppendBytes(b, fhBz)

	if cs.AllowUpdateAfterExpiry {
		b = protowire.AppendTag(b, 10, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	if cs.AllowUpdateAfterMisbehaviour {
		b = protowire.AppendTag(b, 11, protowire.VarintType)
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
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			cs.ChainId = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := cs.TrustLevel.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			d, err := unmarshalDuration(v)
			if err != nil {
				return err
			}
			cs.TrustingPeriod = d
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			d, err := unmarshalDuration(v)
			if err != nil {
				return err
			}
			cs.UnbondingPeriod = d
			data = data[n:]
		case 5:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			d, err := unmarshalDuration(v)
			if err != nil {
				return err
			}
			cs.MaxClockDrift = d
			data = data[n:]
		case 6:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := cs.LatestHeight.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		case 7:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			spec := &ics23.ProofSpec{}
			if err := spec.Unmarshal(v); err != nil {
				return err
			}
			cs.ProofSpecs = append(cs.ProofSpecs, spec)
			data = data[n:]
		case 8:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			cs.UpgradePath = append(cs.UpgradePath, v)
			data = data[n:]
		case 9:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := cs.FrozenHeight.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		case 10:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			cs.AllowUpdateAfterExpiry = v != 0
			data = data[n:]
		case 11:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			cs.AllowUpdateAfterMisbehaviour = v != 0
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

func marshalDuration(d time.Duration) []byte {
	var b []byte
	secs := int64(d / time.Second)
	nanos := int32(d % time.Second) //nolint:gosec // bounded sub-second remainder
	if secs != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(secs)) //nolint:gosec // wire-compatible signed-as-unsigned encoding
	}
	if nanos != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(nanos))
	}
	return b
}

func unmarshalDuration(data []byte) (time.Duration, error) {
	var secs int64
	var nanos int32
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			secs = int64(v) //nolint:gosec // wire-compatible signed-as-unsigned encoding
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			nanos = int32(v) //nolint:gosec // bounded sub-second remainder
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return time.Duration(secs)*time.Second + time.Duration(nanos), nil
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
}
