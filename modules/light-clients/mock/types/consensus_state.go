package types

import (
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// mockRoot adapts a bare hash to exported.Root; the mock client has no
// Merkle structure of its own, only an opaque commitment value.
type mockRoot []byte

func (r mockRoot) GetHash() []byte { return r }
func (r mockRoot) Empty() bool     { return len(r) == 0 }

// ConsensusState pairs a timestamp with an opaque root hash; there is no
// next-validators hash because the mock client does not model a validator
// set.
type ConsensusState struct {
	Timestamp time.Time `protobuf:"bytes,1,opt,name=timestamp,proto3,stdtime"`
	Root      []byte    `protobuf:"bytes,2,opt,name=root,proto3"`
}

func (ConsensusState) ClientType() string      { return ClientTypeMock }
func (cs ConsensusState) GetRoot() exported.Root { return mockRoot(cs.Root) }
func (cs ConsensusState) GetTimestamp() time.Time { return cs.Timestamp }

func (cs ConsensusState) ValidateBasic() error {
	if len(cs.Root) == 0 {
		return pkgerrors.New("mock consensus state: root cannot be empty")
	}
	if cs.Timestamp.IsZero() {
		return pkgerrors.New("mock consensus state: timestamp cannot be zero")
	}
	return nil
}

func (cs *ConsensusState) Reset()      { *cs = ConsensusState{} }
func (*ConsensusState) ProtoMessage() {}
func (cs *ConsensusState) String() string {
	return fmt.Sprintf("ConsensusState{Timestamp: %s, Root: %x}", cs.Timestamp, cs.Root)
}

func (cs *ConsensusState) Marshal() ([]byte, error) {
	var b []byte
	secs := cs.Timestamp.Unix()
	nanos := int32(cs.Timestamp.Nanosecond()) //nolint:gosec // bounded by time.Time invariants
	tsBz := marshalTimestampFields(secs, nanos)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, tsBz)

	if len(cs.Root) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, cs.Root)
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
			secs, nanos, err := unmarshalTimestampFields(v)
			if err != nil {
				return err
			}
			cs.Timestamp = time.Unix(secs, int64(nanos)).UTC()
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			cs.Root = append([]byte(nil), v...)
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

func marshalTimestampFields(secs int64, nanos int32) []byte {
	var b []byte
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

func unmarshalTimestampFields(data []byte) (int64, int32, error) {
	var secs int64
	var nanos int32
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return 0, 0, protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return 0, 0, protowire.ParseError(n)
			}
			secs = int64(v) //nolint:gosec // wire-compatible signed-as-unsigned encoding
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return 0, 0, protowire.ParseError(n)
			}
			nanos = int32(v) //nolint:gosec // bounded sub-second remainder
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return 0, 0, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return secs, nanos, nil
}

func decodeMockConsensusState(bz []byte) (exported.ConsensusState, error) {
	cs := &ConsensusState{}
	if err := cs.Unmarshal(bz); err != nil {
		return nil, err
	}
	return cs, nil
}
