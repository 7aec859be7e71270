package client

import (
	"cosmossdk.io/errors"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/telemetry"
)

// ValidateUpgradeClient implements spec.md §4.F's UpgradeClient validate
// phase, grounded on original_source's ics02-client upgrade_client.rs
// validate(): require the client active, fetch its consensus state at the
// latest height, and verify both membership proofs against that consensus
// state's commitment root. Purely read-only — VerifyUpgradeClient never
// touches the store.
func ValidateUpgradeClient(ctx ValidationContext, msg types.MsgUpgradeClient) error {
	if err := ctx.ValidateMessageSigner(msg.Signer); err != nil {
		return err
	}
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	clientState, err := ctx.ClientState(msg.ClientID)
	if err != nil {
		return err
	}

	status := clientState.Status(ctx.GetClientValidationContext(msg.ClientID), msg.ClientID)
	if !status.IsActive() {
		return errors.Wrapf(types.ErrClientNotActive, "cannot upgrade client (%s) with status %s", msg.ClientID, status)
	}

	latestHeight := clientState.GetLatestHeight()
	oldConsensusState, err := ctx.ConsensusState(msg.ClientID, latestHeight)
	if err != nil {
		return errors.Wrapf(types.ErrConsensusStateNotFound, "client (%s) at latest height %s", msg.ClientID, latestHeight)
	}

	if err := clientState.VerifyUpgradeClient(
		ctx.GetClientValidationContext(msg.ClientID), msg.ClientID,
		msg.UpgradedClientState, msg.UpgradedConsensusState,
		msg.ProofUpgradeClient, msg.ProofUpgradeConsState,
		oldConsensusState.GetRoot(),
	); err != nil {
		return errors.Wrap(types.ErrInvalidUpgradeClient, err.Error())
	}

	return nil
}

// ExecuteUpgradeClient performs the write, grounded on original_source's
// upgrade_client.rs execute(). It does not re-check the upgrade proofs,
// which ValidateUpgradeClient verifies; it calls UpdateStateOnUpgrade to
// replace the client state and store the new consensus state, then emits
// "upgrade_client".
func ExecuteUpgradeClient(ctx ExecutionContext, msg types.MsgUpgradeClient) error {
	oldClientState, err := ctx.ClientState(msg.ClientID)
	if err != nil {
		return err
	}
	clientType := oldClientState.ClientType()
	clientExecCtx := ctx.GetClientExecutionContext(msg.ClientID)

	newHeight, err := oldClientState.UpdateStateOnUpgrade(clientExecCtx, msg.ClientID, msg.UpgradedClientState, msg.UpgradedConsensusState)
	if err != nil {
		return errors.Wrap(types.ErrInvalidUpgradeClient, err.Error())
	}

	ctx.Logger().Info("client upgraded", "client-id", msg.ClientID, "height", newHeight.String())
	telemetry.IncrUpgradeClient(clientType)
	ctx.EmitIBCEvent(types.NewUpgradeClientEvent(msg.ClientID, clientType, newHeight))

	return nil
}
