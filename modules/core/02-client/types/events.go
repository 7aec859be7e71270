package types

import (
	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

// Event types and attribute keys, stable across the wire per spec.md §6.
const (
	EventTypeCreateClient       = "create_client"
	EventTypeUpdateClient       = "update_client"
	EventTypeClientMisbehaviour = "client_misbehaviour"
	EventTypeUpgradeClient      = "upgrade_client"

	AttributeKeyClientID         = "client_id"
	AttributeKeyClientType       = "client_type"
	AttributeKeyConsensusHeight  = "consensus_height"
	AttributeKeyConsensusHeights = "consensus_heights"
	AttributeKeyHeader           = "header"
)

// EventAttribute is a single key/value pair attached to an emitted IBC
// event. Kept host-agnostic: the Context decides how to turn these into its
// own event type (sdk.Event, ABCI event, etc).
type EventAttribute struct {
	Key   string
	Value string
}

// Event is the host-agnostic shape every client handler emits through
// ExecutionContext.EmitIBCEvent.
type Event struct {
	Type       string
	Attributes []EventAttribute
}

func attr(k, v string) EventAttribute { return EventAttribute{Key: k, Value: v} }

// NewCreateClientEvent builds the "create_client" event.
func NewCreateClientEvent(clientID string, clientType ClientType, height exported.Height) Event {
	return Event{
		Type: EventTypeCreateClient,
		Attributes: []EventAttribute{
			attr(AttributeKeyClientID, clientID),
			attr(AttributeKeyClientType, clientType),
			attr(AttributeKeyConsensusHeight, height.String()),
		},
	}
}

// NewUpdateClientEvent builds the "update_client" event, including the
// raw header bytes per spec.md §6.
func NewUpdateClientEvent(clientID string, clientType ClientType, consensusHeights []exported.Height, headerBytes []byte) Event {
	heights := ""
	for i, h := range consensusHeights {
		if i > 0 {
			heights += ","
		}
		heights += h.String()
	}
	return Event{
		Type: EventTypeUpdateClient,
		Attributes: []EventAttribute{
			attr(AttributeKeyClientID, clientID),
			attr(AttributeKeyClientType, clientType),
			attr(AttributeKeyConsensusHeights, heights),
			attr(AttributeKeyHeader, string(headerBytes)),
		},
	}
}

// NewClientMisbehaviourEvent builds the "client_misbehaviour" event,
// including the height the client was frozen at.
func NewClientMisbehaviourEvent(clientID string, clientType ClientType, height exported.Height) Event {
	return Event{
		Type: EventTypeClientMisbehaviour,
		Attributes: []EventAttribute{
			attr(AttributeKeyClientID, clientID),
			attr(AttributeKeyClientType, clientType),
			attr(AttributeKeyConsensusHeight, height.String()),
		},
	}
}

// NewUpgradeClientEvent builds the "upgrade_client" event.
func NewUpgradeClientEvent(clientID string, clientType ClientType, height exported.Height) Event {
	return Event{
		Type: EventTypeUpgradeClient,
		Attributes: []EventAttribute{
			attr(AttributeKeyClientID, clientID),
			attr(AttributeKeyClientType, clientType),
			attr(AttributeKeyConsensusHeight, height.String()),
		},
	}
}
