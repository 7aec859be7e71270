package client

import (
	"cosmossdk.io/errors"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/telemetry"
)

// ValidateUpdateClient implements spec.md §4.F's UpdateClient validate
// phase: fetch the client, require it active (unless the client type opts
// to tolerate expiry/misbehaviour), then delegate signature/commit
// verification to the client's own VerifyClientMessage. found_misbehaviour
// is computed independently afterwards in ExecuteUpdateClient via
// CheckForMisbehaviour, exactly as spec.md §4.F requires — validate never
// decides to freeze, it only rejects malformed or unverifiable input.
func ValidateUpdateClient(ctx ValidationContext, msg types.MsgUpdateClient) (exported.ClientState, error) {
	if err := ctx.ValidateMessageSigner(msg.Signer); err != nil {
		return nil, err
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	clientState, err := ctx.ClientState(msg.ClientID)
	if err != nil {
		return nil, err
	}

	status := clientState.Status(ctx.GetClientValidationContext(msg.ClientID), msg.ClientID)
	if !status.IsActive() && !allowsUpdateDespiteStatus(clientState, status) {
		return nil, errors.Wrapf(types.ErrClientNotActive, "cannot update client (%s) with status %s", msg.ClientID, status)
	}

	if err := clientState.VerifyClientMessage(ctx.GetClientValidationContext(msg.ClientID), msg.ClientID, msg.ClientMessage); err != nil {
		return nil, errors.Wrap(err, "client message failed verification")
	}

	return clientState, nil
}

// allowsUpdateDespiteStatus reports whether clientState opts out of the
// strict Active-status gate for the specific reason status is non-active,
// via the optional exported.StatusOverride interface.
func allowsUpdateDespiteStatus(clientState exported.ClientState, status exported.Status) bool {
	override, ok := clientState.(exported.StatusOverride)
	if !ok {
		return false
	}
	switch status {
	case exported.Expired:
		return override.AllowsUpdateAfterExpiry()
	case exported.Frozen:
		return override.AllowsUpdateAfterMisbehaviour()
	default:
		return false
	}
}

// ExecuteUpdateClient implements the execute phase. It independently
// re-derives found_misbehaviour via CheckForMisbehaviour and branches:
// the misbehaviour path freezes the client and emits ClientMisbehaviour,
// the header path writes the new consensus state(s) and emits UpdateClient.
// Both branches succeed at the handler level — misbehaviour is the one
// "recoverable" condition in spec.md §7, it does not error.
func ExecuteUpdateClient(ctx ExecutionContext, msg types.MsgUpdateClient, clientState exported.ClientState) ([]exported.Height, error) {
	clientType := clientState.ClientType()
	clientExecCtx := ctx.GetClientExecutionContext(msg.ClientID)

	foundMisbehaviour := clientState.CheckForMisbehaviour(ctx.GetClientValidationContext(msg.ClientID), msg.ClientID, msg.ClientMessage)
	if foundMisbehaviour {
		if err := clientState.UpdateStateOnMisbehaviour(clientExecCtx, msg.ClientID); err != nil {
			return nil, errors.Wrap(err, "failed to freeze client after detecting misbehaviour")
		}

		ctx.Logger().Info("client frozen due to misbehaviour", "client-id", msg.ClientID)
		telemetry.IncrClientMisbehaviour(clientType)
		ctx.EmitIBCEvent(types.NewClientMisbehaviourEvent(msg.ClientID, clientType, clientState.GetLatestHeight()))
		return nil, nil
	}

	consensusHeights := clientState.UpdateState(clientExecCtx, msg.ClientID, msg.ClientMessage)

	headerBytes, err := msg.ClientMessage.Marshal()
	if err != nil {
		return nil, err
	}

	ctx.Logger().Info("client updated", "client-id", msg.ClientID, "heights", consensusHeights)
	telemetry.IncrUpdateClient(clientType)
	ctx.EmitIBCEvent(types.NewUpdateClientEvent(msg.ClientID, clientType, consensusHeights, headerBytes))

	return consensusHeights, nil
}
