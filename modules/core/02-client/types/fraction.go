package types

import (
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	cmtmath "github.com/cometbft/cometbft/libs/math"
)

// Fraction is a ratio of voting power a trust level or commit threshold is
// expressed in, e.g. {Numerator: 1, Denominator: 3} for the default
// 1/3 trust level.
type Fraction struct {
	Numerator   uint64 `protobuf:"varint,1,opt,name=numerator,proto3"`
	Denominator uint64 `protobuf:"varint,2,opt,name=denominator,proto3"`
}

// NewFraction returns a Fraction with the given numerator and denominator.
func NewFraction(numerator, denominator uint64) Fraction {
	return Fraction{Numerator: numerator, Denominator: denominator}
}

// DefaultTrustLevel is the default light client trust level: 1/3.
var DefaultTrustLevel = NewFraction(1, 3)

// ToTendermint converts a Fraction to the light-client verification
// package's own Fraction type, the shape github.com/cometbft/cometbft/light
// expects as a TrustOption.
func (f Fraction) ToTendermint() cmtmath.Fraction {
	return cmtmath.Fraction{Numerator: int64(f.Numerator), Denominator: int64(f.Denominator)} //nolint:gosec // bounded trust-level values
}

// Validate checks 1/3 <= f <= 1.
func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errors.Wrap(ErrInvalidClient, "trust level denominator cannot be zero")
	}

	oneThird := math.LegacyNewDec(1).Quo(math.LegacyNewDec(3))
	one := math.LegacyOneDec()
	level := math.LegacyNewDec(int64(f.Numerator)).Quo(math.LegacyNewDec(int64(f.Denominator))) //nolint:gosec // bounded values

	if level.LT(oneThird) || level.GT(one) {
		return errors.Wrapf(ErrInvalidClient, "trust level must be inside [1/3, 1], got %s", fmt.Sprintf("%d/%d", f.Numerator, f.Denominator))
	}
	return nil
}

func (f *Fraction) Reset()      { *f = Fraction{} }
func (*Fraction) ProtoMessage() {}
func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}
