package types

import (
	"fmt"
	"time"

	"cosmossdk.io/errors"
	"google.golang.org/protobuf/encoding/protowire"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// TypeURLConsensusState is the wire type_url this package registers its
// ConsensusState decoder under.
const TypeURLConsensusState = "/ibc.lightclients.tendermint.v1.ConsensusState"

var (
	_ exported.ConsensusState = (*ConsensusState)(nil)
)

// MerkleRoot is the minimal commitment root implementation this module
// ships: a single opaque hash (the app hash of a Tendermint block).
type MerkleRoot struct {
	Hash []byte `protobuf:"bytes,1,opt,name=hash,proto3"`
}

func NewMerkleRoot(hash []byte) MerkleRoot { return MerkleRoot{Hash: hash} }

func (r MerkleRoot) GetHash() []byte { return r.Hash }
func (r MerkleRoot) Empty() bool     { return len(r.Hash) == 0 }
func (r MerkleRoot) String() string  { return fmt.Sprintf("%x", r.Hash) }

// ConsensusState is the per-height commitment ICS-07 stores: a commitment
// root, the timestamp of the block it came from, and the hash of the
// validator set expected to sign the *next* block (spec.md §3).
type ConsensusState struct {
	Timestamp          time.Time  `protobuf:"bytes,1,opt,name=timestamp,proto3,stdtime"`
	Root               MerkleRoot `protobuf:"bytes,2,opt,name=root,proto3"`
	NextValidatorsHash []byte     `protobuf:"bytes,3,opt,name=next_validators_hash,json=nextValidatorsHash,proto3"`
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(timestamp time.Time, root MerkleRoot, nextValsHash []byte) *ConsensusState {
	return &ConsensusState{Timestamp: timestamp.UTC(), Root: root, NextValidatorsHash: nextValsHash}
}

func (ConsensusState) ClientType() string { return ClientTypeTendermint }

func (cs ConsensusState) GetRoot() exported.Root { return cs.Root }

func (cs ConsensusState) GetTimestamp() time.Time { return cs.Timestamp }

// ValidateBasic defends against a zero-value header being accepted.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Root.Empty() {
		return errors.Wrap(ErrInvalidHeader, "root cannot be empty")
	}
	if len(cs.NextValidatorsHash) == 0 {
		return errors.Wrap(ErrInvalidValidatorSet, "next validators hash cannot be empty")
	}
	if cs.Timestamp.IsZero() || cs.Timestamp.Unix() <= 0 {
		return errors.Wrap(ErrInvalidHeader, "timestamp must be positive Unix time")
	}
	return nil
}

func (cs *ConsensusState) Reset()      { *cs = ConsensusState{} }
func (*ConsensusState) ProtoMessage() {}
func (cs *ConsensusState) String() string {
	return fmt.Sprintf("ConsensusState{Timestamp: %s, Root: %s, NextValidatorsHash: %x}", cs.Timestamp, cs.Root.String(), cs.NextValidatorsHash)
}

func (cs *ConsensusState) Marshal() ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	ts, err := marshalStdTime(cs.Timestamp)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendBytes(b, ts)

	b = protowire.AppendTag(b, 2, protowire.BytesType)
	rootBz, err := (&cs.Root).Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendBytes(b, rootBz)

	if len(cs.NextValidatorsHash) > 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, cs.NextValidatorsHash)
	}
	return b, nil
}

func (cs *ConsensusState) Unmarshal(data []byte) error {
	*cs = ConsensusState{}
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
			t, err := unmarshalStdTime(v)
			if err != nil {
				return err
			}
			cs.Timestamp = t
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := cs.Root.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			cs.NextValidatorsHash = append([]byte(nil), v...)
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

func (r *MerkleRoot) Marshal() ([]byte, error) {
	var b []byte
	if len(r.Hash) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, r.Hash)
	}
	return b, nil
}

func (r *MerkleRoot) Unmarshal(data []byte) error {
	*r = MerkleRoot{}
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
			r.Hash = append([]byte(nil), v...)
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

func decodeConsensusState(bz []byte) (exported.ConsensusState, error) {
	cs := &ConsensusState{}
	if err := cs.Unmarshal(bz); err != nil {
		return nil, err
	}
	return cs, nil
}

// marshalStdTime/unmarshalStdTime reproduce the well-known
// google.protobuf.Timestamp wire shape (seconds + nanos) gogoproto's
// "stdtime" extension generates, without depending on generated code.
func marshalStdTime(t time.Time) ([]byte, error) {
	var b []byte
	secs := t.Unix()
	nanos := int32(t.Nanosecond()) //nolint:gosec // bounded by time.Time invariants
	if secs != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(secs)) //nolint:gosec // wire-compatible signed-as-unsigned encoding
	}
	if nanos != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(nanos))
	}
	return b, nil
}

func unmarshalStdTime(data []byte) (time.Time, error) {
	var secs int64
	var nanos int32
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return time.Time{}, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return time.Time{}, protowire.ParseError(n)
			}
			secs = int64(v) //nolint:gosec // wire-compatible signed-as-unsigned encoding
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return time.Time{}, protowire.ParseError(n)
			}
			nanos = int32(v) //nolint:gosec // bounded nanosecond field
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return time.Time{}, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return time.Unix(secs, int64(nanos)).UTC(), nil
}

func init() {
	clienttypes.RegisterConsensusState(TypeURLConsensusState, decodeConsensusState)
}
