package types

import (
	"cosmossdk.io/errors"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// MsgCreateClient creates a new light client tracking a counterparty chain
// from a genesis client/consensus state pair.
type MsgCreateClient struct {
	ClientState    exported.ClientState
	ConsensusState exported.ConsensusState
	Signer         string
}

func (msg MsgCreateClient) ValidateBasic() error {
	if msg.ClientState == nil {
		return errors.Wrap(ErrInvalidClient, "client state cannot be nil")
	}
	if msg.ConsensusState == nil {
		return errors.Wrap(ErrInvalidConsensusState, "consensus state cannot be nil")
	}
	if err := msg.ClientState.Validate(); err != nil {
		return errors.Wrap(ErrInvalidClient, err.Error())
	}
	return msg.ConsensusState.ValidateBasic()
}

// MsgUpdateClient advances a client with a new signed Header, or submits
// two-header Misbehaviour evidence. ClientMessage carries either.
type MsgUpdateClient struct {
	ClientID      string
	ClientMessage exported.ClientMessage
	Signer        string
}

func (msg MsgUpdateClient) ValidateBasic() error {
	if err := ValidateClientID(msg.ClientID); err != nil {
		return err
	}
	if msg.ClientMessage == nil {
		return errors.Wrap(ErrInvalidClientHeader, "client message cannot be nil")
	}
	return msg.ClientMessage.ValidateBasic()
}

// MsgSubmitMisbehaviour is kept distinct from MsgUpdateClient for hosts
// that route evidence through a separate message type; semantically
// identical to an update whose ClientMessage is a Misbehaviour.
type MsgSubmitMisbehaviour struct {
	ClientID     string
	Misbehaviour exported.ClientMessage
	Signer       string
}

func (msg MsgSubmitMisbehaviour) ValidateBasic() error {
	if err := ValidateClientID(msg.ClientID); err != nil {
		return err
	}
	if msg.Misbehaviour == nil {
		return errors.Wrap(ErrInvalidMisbehaviour, "misbehaviour cannot be nil")
	}
	return msg.Misbehaviour.ValidateBasic()
}

// MsgUpgradeClient carries a scheduled upgrade's new client/consensus state
// together with the membership proofs tying them to the old client's
// commitment root at the upgrade height.
type MsgUpgradeClient struct {
	ClientID              string
	UpgradedClientState   exported.ClientState
	UpgradedConsensusState exported.ConsensusState
	ProofUpgradeClient     []byte
	ProofUpgradeConsState  []byte
	Signer                 string
}

func (msg MsgUpgradeClient) ValidateBasic() error {
	if err := ValidateClientID(msg.ClientID); err != nil {
		return err
	}
	if msg.UpgradedClientState == nil {
		return errors.Wrap(ErrInvalidUpgradeClient, "upgraded client state cannot be nil")
	}
	if msg.UpgradedConsensusState == nil {
		return errors.Wrap(ErrInvalidUpgradeClient, "upgraded consensus state cannot be nil")
	}
	if len(msg.ProofUpgradeClient) == 0 || len(msg.ProofUpgradeConsState) == 0 {
		return errors.Wrap(ErrInvalidUpgradeClient, "proofs cannot be empty")
	}
	return nil
}
