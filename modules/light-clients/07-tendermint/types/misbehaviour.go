package types

import (
	"fmt"
	"time"

	"cosmossdk.io/errors"
	"google.golang.org/protobuf/encoding/protowire"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// TypeURLMisbehaviour is the wire type_url this package registers its
// Misbehaviour ClientMessage decoder under.
const TypeURLMisbehaviour = "/ibc.lightclients.tendermint.v1.Misbehaviour"

var _ exported.ClientMessage = (*Misbehaviour)(nil)

// Misbehaviour is two headers at the same height with conflicting
// commitment roots (equivocation), or at different heights whose block
// times break monotonic ordering (spec.md §4.E): proof
// that the validator set signed two different histories. Each header is
// independently verifiable against its own TrustedHeight/TrustedValidators.
type Misbehaviour struct {
	ClientId string  `protobuf:"bytes,1,opt,name=client_id,json=clientId,proto3"`
	Header1  *Header `protobuf:"bytes,2,opt,name=header_1,json=header1,proto3"`
	Header2  *Header `protobuf:"bytes,3,opt,name=header_2,json=header2,proto3"`
}

func (Misbehaviour) ClientType() string { return ClientTypeTendermint }

// GetTime satisfies 02-client's evidenceAger: the later of the two headers'
// timestamps, the point at which this evidence could first have been
// submitted.
func (m Misbehaviour) GetTime() time.Time {
	t1, t2 := m.Header1.GetTime(), m.Header2.GetTime()
	if t1.After(t2) {
		return t1
	}
	return t2
}

// GetHeight satisfies evidenceAger: the higher of the two headers' heights.
func (m Misbehaviour) GetHeight() exported.Height {
	h1, h2 := m.Header1.GetHeight(), m.Header2.GetHeight()
	if h1.GT(h2) {
		return h1
	}
	return h2
}

// ValidateBasic requires both headers to independently validate and to
// actually conflict: same height with different commitment roots, or
// different heights with an inverted block-time ordering (spec.md §4.E).
func (m Misbehaviour) ValidateBasic() error {
	if m.Header1 == nil || m.Header2 == nil {
		return errors.Wrap(ErrInvalidMisbehaviour, "misbehaviour headers cannot be nil")
	}
	if err := clienttypes.ValidateClientID(m.ClientId); err != nil {
		return errors.Wrap(ErrInvalidMisbehaviour, err.Error())
	}
	if m.Header1.SignedHeader.Header.ChainID != m.Header2.SignedHeader.Header.ChainID {
		return errors.Wrap(ErrInvalidMisbehaviour, "headers must have identical chain-ids")
	}
	if err := m.Header1.ValidateBasic(); err != nil {
		return errors.Wrap(ErrInvalidMisbehaviour, "header 1 failed validation: "+err.Error())
	}
	if err := m.Header2.ValidateBasic(); err != nil {
		return errors.Wrap(ErrInvalidMisbehaviour, "header 2 failed validation: "+err.Error())
	}

	h1, h2 := m.Header1.GetHeight(), m.Header2.GetHeight()
	switch {
	case h1.EQ(h2):
		if bytesEqual(m.Header1.SignedHeader.Header.AppHash, m.Header2.SignedHeader.Header.AppHash) {
			return errors.Wrap(ErrInvalidMisbehaviour, "headers at the same height must commit to different app hashes to constitute misbehaviour")
		}
	case h1.LT(h2):
		if m.Header2.GetTime().After(m.Header1.GetTime()) {
			return errors.Wrap(ErrInvalidMisbehaviour, "headers at different heights must violate monotonic time ordering to constitute misbehaviour")
		}
	default:
		if m.Header1.GetTime().After(m.Header2.GetTime()) {
			return errors.Wrap(ErrInvalidMisbehaviour, "headers at different heights must violate monotonic time ordering to constitute misbehaviour")
		}
	}

	return nil
}

func (m *Misbehaviour) Reset()      { *m = Misbehaviour{} }
func (*Misbehaviour) ProtoMessage() {}
func (m *Misbehaviour) String() string {
	return fmt.Sprintf("Misbehaviour{ClientId: %s, Header1: %s, Header2: %s}", m.ClientId, m.Header1, m.Header2)
}

func (m *Misbehaviour) Marshal() ([]byte, error) {
	var b []byte
	if m.ClientId != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.ClientId)
	}
	if m.Header1 != nil {
		bz, err := m.Header1.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, bz)
	}
	if m.Header2 != nil {
		bz, err := m.Header2.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, bz)
	}
	return b, nil
}

func (m *Misbehaviour) Unmarshal(data []byte) error {
	*m = Misbehaviour{}
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
			m.ClientId = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			h := &Header{}
			if err := h.Unmarshal(v); err != nil {
				return err
			}
			m.Header1 = h
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			h := &Header{}
			if err := h.Unmarshal(v); err != nil {
				return err
			}
			m.Header2 = h
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

func decodeMisbehaviour(bz []byte) (exported.ClientMessage, error) {
	m := &Misbehaviour{}
	if err := m.Unmarshal(bz); err != nil {
		return nil, err
	}
	return m, nil
}

func init() {
	clienttypes.RegisterClientMessage(TypeURLMisbehaviour, decodeMisbehaviour)
}
