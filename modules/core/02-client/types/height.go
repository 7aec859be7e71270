package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cosmossdk.io/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

var _ exported.Height = (*Height)(nil)

// Height is a monotonically increasing data type that can be compared
// against another Height for the purposes of updating and freezing clients.
//
// Normally the RevisionHeight is incremented at each height while the
// RevisionNumber stays the same. It is only incremented if a hard fork is
// required between the revision, where the Height gets reset to height 1.
type Height struct {
	RevisionNumber uint64 `protobuf:"varint,1,opt,name=revision_number,json=revisionNumber,proto3"`
	RevisionHeight uint64 `protobuf:"varint,2,opt,name=revision_height,json=revisionHeight,proto3"`
}

// NewHeight constructs a new Height instance.
func NewHeight(revisionNumber, revisionHeight uint64) Height {
	return Height{RevisionNumber: revisionNumber, RevisionHeight: revisionHeight}
}

// ZeroHeight is a helper function which returns an uninitialized height.
func ZeroHeight() Height {
	return Height{}
}

func (h Height) GetRevisionNumber() uint64 { return h.RevisionNumber }
func (h Height) GetRevisionHeight() uint64 { return h.RevisionHeight }

// String returns a string representation of Height as "<revision_number>-<revision_height>".
func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}

// LT returns true if the first height is strictly less than the second height.
func (h Height) LT(h2 exported.Height) bool {
	return h.RevisionNumber < h2.GetRevisionNumber() ||
		(h.RevisionNumber == h2.GetRevisionNumber() && h.RevisionHeight < h2.GetRevisionHeight())
}

// LTE returns true if the first height is less than or equal to the second height.
func (h Height) LTE(h2 exported.Height) bool {
	return h.LT(h2) || h.EQ(h2)
}

// GT returns true if the first height is strictly greater than the second height.
func (h Height) GT(h2 exported.Height) bool {
	return h.RevisionNumber > h2.GetRevisionNumber() ||
		(h.RevisionNumber == h2.GetRevisionNumber() && h.RevisionHeight > h2.GetRevisionHeight())
}

// GTE returns true if the first height is greater than or equal to the second height.
func (h Height) GTE(h2 exported.Height) bool {
	return h.GT(h2) || h.EQ(h2)
}

// EQ returns true if the first height equals the second height.
func (h Height) EQ(h2 exported.Height) bool {
	return h.RevisionNumber == h2.GetRevisionNumber() && h.RevisionHeight == h2.GetRevisionHeight()
}

// IsZero returns true if the height is uninitialized.
func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

// Increment returns a height with the same revision number but an
// incremented revision height.
func (h Height) Increment() exported.Height {
	return Height{RevisionNumber: h.RevisionNumber, RevisionHeight: h.RevisionHeight + 1}
}

// Decrement returns a height with the same revision number but a
// decremented revision height, and false if the revision height is already
// zero (decrementing would underflow).
func (h Height) Decrement() (exported.Height, bool) {
	if h.RevisionHeight == 0 {
		return Height{}, false
	}
	return Height{RevisionNumber: h.RevisionNumber, RevisionHeight: h.RevisionHeight - 1}, true
}

// proto.Message plumbing. Height has no nested message fields so its wire
// encoding is two varint fields.
func (h *Height) Reset()      { *h = Height{} }
func (*Height) ProtoMessage() {}

func (h *Height) Marshal() ([]byte, error) {
	var b []byte
	if h.RevisionNumber != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, h.RevisionNumber)
	}
	if h.RevisionHeight != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, h.RevisionHeight)
	}
	return b, nil
}

func (h *Height) Unmarshal(data []byte) error {
	*h = Height{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			h.RevisionNumber = v
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			h.RevisionHeight = v
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

var revisionRegexp = regexp.MustCompile(`^.*[^-]-([1-9][0-9]*)$`)

// IsRevisionFormat checks if a chainID is in the format required for
// parsing revisions. The chainID must be in the form: `{chainID}-{revision}`.
func IsRevisionFormat(chainID string) bool {
	if !revisionRegexp.MatchString(chainID) {
		return false
	}
	return true
}

// ParseChainID parses any chainID and returns the revision number
// (counting from 0). If chainID is not in the revision format, the
// revision number is defaulted to 0.
func ParseChainID(chainID string) uint64 {
	if !IsRevisionFormat(chainID) {
		return 0
	}
	splitStr := strings.Split(chainID, "-")
	revisionNumber := splitStr[len(splitStr)-1]
	revision, err := strconv.ParseUint(revisionNumber, 10, 64)
	if err != nil {
		// unreachable: regexp guarantees a parseable uint
		panic(err)
	}
	return revision
}

// SetRevisionNumber returns an updated chainID with the given revision number.
// Requires chainID to be in revision format.
func SetRevisionNumber(chainID string, revision uint64) (string, error) {
	if !IsRevisionFormat(chainID) {
		return "", errors.Wrapf(ErrInvalidChainID, "chainID %s is not in revision format", chainID)
	}
	splitStr := strings.Split(chainID, "-")
	splitStr[len(splitStr)-1] = strconv.FormatUint(revision, 10)
	return strings.Join(splitStr, "-"), nil
}

// GetSelfHeight returns the height of the host chain at the given revision,
// deriving the revision from the chainID when it is in revision format.
func GetSelfHeight(chainID string, revisionHeight uint64) Height {
	return NewHeight(ParseChainID(chainID), revisionHeight)
}
