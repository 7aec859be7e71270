package types

import (
	"fmt"
	"time"

	"cosmossdk.io/errors"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"google.golang.org/protobuf/encoding/protowire"

	clienttypes "github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// TypeURLHeader is the wire type_url this package registers its Header
// ClientMessage decoder under.
const TypeURLHeader = "/ibc.lightclients.tendermint.v1.Header"

var _ exported.ClientMessage = (*Header)(nil)

// Header is the untrusted block plus the trusted anchor it is verified
// against: a signed header and validator set at the new height, and the
// height/validator set of the consensus state already trusted (spec.md
// §3). cometbft/light.Verify consumes exactly this shape.
type Header struct {
	SignedHeader      *cmtproto.SignedHeader `protobuf:"bytes,1,opt,name=signed_header,json=signedHeader,proto3"`
	ValidatorSet      *cmtproto.ValidatorSet `protobuf:"bytes,2,opt,name=validator_set,json=validatorSet,proto3"`
	TrustedHeight     clienttypes.Height     `protobuf:"bytes,3,opt,name=trusted_height,json=trustedHeight,proto3"`
	TrustedValidators *cmtproto.ValidatorSet `protobuf:"bytes,4,opt,name=trusted_validators,json=trustedValidators,proto3"`
}

func (Header) ClientType() string { return ClientTypeTendermint }

// GetHeight returns the height of the header's (untrusted) signed header.
func (h Header) GetHeight() exported.Height {
	revision := clienttypes.ParseChainID(h.SignedHeader.Header.ChainID)
	return clienttypes.NewHeight(revision, uint64(h.SignedHeader.Header.Height)) //nolint:gosec // bounded block height
}

// GetTime returns the header's block time.
func (h Header) GetTime() time.Time {
	return h.SignedHeader.Header.Time
}

// ConsensusState derives the ConsensusState this header would install if
// accepted: its app hash as the root, its time, and the hash of the
// validator set that must sign the *next* block.
func (h Header) ConsensusState() *ConsensusState {
	return &ConsensusState{
		Timestamp:          h.GetTime(),
		Root:                NewMerkleRoot(h.SignedHeader.Header.AppHash),
		NextValidatorsHash: h.SignedHeader.Header.NextValidatorsHash,
	}
}

// ValidateBasic does cheap, context-free sanity checks before any
// signature verification is attempted.
func (h Header) ValidateBasic() error {
	if h.SignedHeader == nil {
		return errors.Wrap(ErrInvalidHeader, "signed header cannot be nil")
	}
	if h.SignedHeader.Header == nil {
		return errors.Wrap(ErrInvalidHeader, "signed header's header cannot be nil")
	}
	if h.ValidatorSet == nil {
		return errors.Wrap(ErrInvalidValidatorSet, "validator set cannot be nil")
	}
	if h.TrustedHeight.RevisionHeight == 0 {
		return errors.Wrap(ErrInvalidHeaderHeight, "trusted height cannot have revision height of 0")
	}
	if h.TrustedValidators == nil {
		return errors.Wrap(ErrInvalidValidatorSet, "trusted validator set cannot be nil")
	}

	signedHeader, err := cmttypes.SignedHeaderFromProto(h.SignedHeader)
	if err != nil {
		return errors.Wrap(ErrInvalidHeader, err.Error())
	}
	if err := signedHeader.ValidateBasic(h.SignedHeader.Header.ChainID); err != nil {
		return errors.Wrap(ErrInvalidHeader, err.Error())
	}

	valSet, err := cmttypes.ValidatorSetFromProto(h.ValidatorSet)
	if err != nil {
		return errors.Wrap(ErrInvalidValidatorSet, err.Error())
	}
	if !bytesEqual(h.SignedHeader.Header.ValidatorsHash, valSet.Hash()) {
		return errors.Wrap(ErrInvalidValidatorSet, "validator set does not match hash committed to by the header")
	}

	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (h *Header) Reset()      { *h = Header{} }
func (*Header) ProtoMessage() {}
func (h *Header) String() string {
	return fmt.Sprintf("Header{Height: %s, TrustedHeight: %s}", h.GetHeight(), h.TrustedHeight)
}

func (h *Header) Marshal() ([]byte, error) {
	var b []byte
	if h.SignedHeader != nil {
		bz, err := marshalCmtMessage(h.SignedHeader)
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, bz)
	}
	if h.ValidatorSet != nil {
		bz, err := marshalCmtMessage(h.ValidatorSet)
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, bz)
	}
	thBz, err := (&h.TrustedHeight).Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, thBz)

	if h.TrustedValidators != nil {
		bz, err := marshalCmtMessage(h.TrustedValidators)
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, bz)
	}
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
			sh := &cmtproto.SignedHeader{}
			if err := unmarshalCmtMessage(v, sh); err != nil {
				return err
			}
			h.SignedHeader = sh
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			vs := &cmtproto.ValidatorSet{}
			if err := unmarshalCmtMessage(v, vs); err != nil {
				return err
			}
			h.ValidatorSet = vs
			data = data[n:]
		case 3:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := h.TrustedHeight.Unmarshal(v); err != nil {
				return err
			}
			data = data[n:]
		case 4:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			vs := &cmtproto.ValidatorSet{}
			if err := unmarshalCmtMessage(v, vs); err != nil {
				return err
			}
			h.TrustedValidators = vs
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

func decodeHeader(bz []byte) (exported.ClientMessage, error) {
	h := &Header{}
	if err := h.Unmarshal(bz); err != nil {
		return nil, err
	}
	return h, nil
}

// marshalCmtMessage/unmarshalCmtMessage delegate the embedded CometBFT
// proto types' wire encoding to gogoproto's generated Marshal/Unmarshal,
// since those are real .pb.go types this module does not reimplement.
func marshalCmtMessage(m interface{ Marshal() ([]byte, error) }) ([]byte, error) {
	return m.Marshal()
}

func unmarshalCmtMessage(bz []byte, m interface{ Unmarshal([]byte) error }) error {
	return m.Unmarshal(bz)
}

func init() {
	clienttypes.RegisterClientMessage(TypeURLHeader, decodeHeader)
}
