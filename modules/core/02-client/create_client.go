package client

import (
	"cosmossdk.io/errors"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/02-client/types"
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/telemetry"
)

// ValidateCreateClient runs the read-only checks for MsgCreateClient: the
// message must be well-formed. Everything else (genesis state correctness)
// is the concrete client type's own business and is re-checked during
// execute via Initialize, which is itself pure with respect to the
// ValidationContext.
func ValidateCreateClient(ctx ValidationContext, msg types.MsgCreateClient) error {
	if err := ctx.ValidateMessageSigner(msg.Signer); err != nil {
		return err
	}
	return msg.ValidateBasic()
}

// ExecuteCreateClient mints a new ClientId, initializes the client and its
// genesis consensus state, and emits the "create_client" event.
func ExecuteCreateClient(ctx ExecutionContext, clientType string, msg types.MsgCreateClient) (string, error) {
	sequence := ctx.IncreaseClientCounter()
	clientID := types.FormatClientIdentifier(clientType, sequence)

	clientExecCtx := ctx.GetClientExecutionContext(clientID)
	if err := msg.ClientState.Initialize(clientExecCtx, clientID, msg.ConsensusState); err != nil {
		return "", errors.Wrapf(err, "could not initialize client with ID %s", clientID)
	}

	if err := ctx.StoreClientState(clientID, msg.ClientState); err != nil {
		return "", err
	}

	height, processedTime, processedHeight := msg.ClientState.GetLatestHeight(), ctx.HostTimestamp(), ctx.HostHeight()
	if err := ctx.StoreUpdateMeta(clientID, height, processedTime, processedHeight); err != nil {
		return "", err
	}

	ctx.Logger().Info("client created at height", "client-id", clientID, "height", height.String())
	telemetry.IncrCreateClient(clientType)

	ctx.EmitIBCEvent(types.NewCreateClientEvent(clientID, clientType, height))
	return clientID, nil
}
