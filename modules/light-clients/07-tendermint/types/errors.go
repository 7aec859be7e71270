package types

import "cosmossdk.io/errors"

// 07-tendermint's own codespace, wrapped around the shared ICS-02 error
// kinds (02-client/types/errors.go) wherever a 07-tendermint-specific
// message is useful.
const codespace = "07-tendermint"

var (
	ErrInvalidChainID             = errors.Register(codespace, 2, "invalid chain-id")
	ErrInvalidTrustingPeriod      = errors.Register(codespace, 3, "invalid trusting period")
	ErrInvalidUnbondingPeriod     = errors.Register(codespace, 4, "invalid unbonding period")
	ErrInvalidTrustLevel          = errors.Register(codespace, 5, "invalid trust level")
	ErrInvalidHeaderHeight        = errors.Register(codespace, 6, "invalid header height")
	ErrInvalidValidatorSet        = errors.Register(codespace, 7, "invalid validator set")
	ErrInvalidHeader              = errors.Register(codespace, 8, "invalid header")
	ErrInvalidMisbehaviour        = errors.Register(codespace, 9, "invalid misbehaviour")
	ErrTrustingPeriodExpired      = errors.Register(codespace, 10, "time since latest trusted state has passed the trusting period")
	ErrUnbondingPeriodExpired     = errors.Register(codespace, 11, "time since latest trusted state has passed the unbonding period")
	ErrInsufficientVotingPower    = errors.Register(codespace, 12, "insufficient voting power")
)
