package types

import (
	"fmt"
	"math"
	"time"

	pkgerrors "github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

var _ exported.ClientMessage = (*Header)(nil)

// Header is the mock client's update message: a claimed new root/timestamp
// at a height, plus the caller-supplied VotingPowerChange the mock client
// uses in place of real commit verification (mock.go's maxVotingPowerChange
// threshold), grounded on compareVotingPowers in coinexchain-tendermint's
// lite/client.go.
type Header struct {
	Height            clienttypes.Height `protobuf:"bytes,1,opt,name=height,proto3"`
	Timestamp         time.Time          `protobuf:"bytes,2,opt,name=timestamp,proto3,stdtime"`
	Root              []byte             `protobuf:"bytes,3,opt,name=root,proto3"`
	VotingPowerChange float64            `protobuf:"fixed64,4,opt,name=voting_power_change,json=votingPowerChange,proto3"`
}

func (Header) ClientType() string { return ClientTypeMock }

func (h Header) GetHeight() exported.Height { return h.Height }
func (h Header) GetTime() time.Time         { return h.Timestamp }

func (h Header) ValidateBasic() error {
	if h.Height.RevisionHeight == 0 {
		return pkgerrors.New("mock header: height cannot be zero")
	}
	if len(h.Root) == 0 {
		return pkgerrors.New("mock header: root cannot be empty")
	}
	if h.Timestamp.IsZero() {
		return pkgerrors.New("mock header: timestamp cannot be zero")
	}
	if h.VotingPowerChange < 0 || math.IsNaN(h.VotingPowerChange) {
		return pkgerrors.New("mock header: voting power change must be a non-negative number")
	}
	return nil
}

func (h *Header) Reset()      { *h = Header{} }
func (*Header) ProtoMessage() {}
func (h *Header) String() string {
	return fmt.Sprintf("Header{Height: %s, VotingPowerChange: %.4f}", h.Height, h.VotingPowerChange)
}

func (h *Header) Marshal() ([]byte, error) {
	var b []byte
	hBz, err := (&h.Height).Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, hBz)

	secs := h.Timestamp.Unix()
	nanos := int32(h.Timestamp.Nanosecond()) //nolint:gosec // bounded by time.Time invariants
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalTimestampFields(secs, nanos))

	if len(h.Root) > 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, h.Root)
	}

	b = protowire.AppendTag(b, 4, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(h.VotingPowerChange))

	return b, nil
}

func (h *Header) Unmarshal(data []byte) error {
	*h = Header{}
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
			if err := h.Height.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			secs, nanos, err := unmarshalTimestampFields(v)
			if err != nil {
				return err
			}
			h.Timestamp = time.Unix(secs, int64(nanos)).UTC()
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			h.Root = append([]byte(nil), v...)
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			h.VotingPowerChange = math.Float64frombits(v)
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

func decodeMockHeader(bz []byte) (exported.ClientMessage, error) {
	h := &Header{}
	if err := h.Unmarshal(bz); err != nil {
		return nil, err
	}
	return h, nil
}
