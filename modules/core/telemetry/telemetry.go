// Package telemetry wraps github.com/hashicorp/go-metrics the way the
// cosmos-sdk/ibc-go stack's own telemetry package does, scoped to the
// client handlers' counters and timers.
package telemetry

import (
	"time"

	metrics "github.com/hashicorp/go-metrics"
)

// labelClientType is attached to every emitted metric so dashboards can
// break down by light-client implementation (07-tendermint, mock, ...).
func labelClientType(clientType string) metrics.Label {
	return metrics.Label{Name: "client_type", Value: clientType}
}

// IncrCreateClient counts successful CreateClient executions.
func IncrCreateClient(clientType string) {
	metrics.IncrCounterWithLabels([]string{"ibc", "client", "create"}, 1, []metrics.Label{labelClientType(clientType)})
}

// IncrUpdateClient counts successful UpdateClient executions on the Header path.
func IncrUpdateClient(clientType string) {
	metrics.IncrCounterWithLabels([]string{"ibc", "client", "update"}, 1, []metrics.Label{labelClientType(clientType)})
}

// IncrClientMisbehaviour counts client freezes due to detected misbehaviour.
func IncrClientMisbehaviour(clientType string) {
	metrics.IncrCounterWithLabels([]string{"ibc", "client", "misbehaviour"}, 1, []metrics.Label{labelClientType(clientType)})
}

// IncrUpgradeClient counts successful UpgradeClient executions.
func IncrUpgradeClient(clientType string) {
	metrics.IncrCounterWithLabels([]string{"ibc", "client", "upgrade"}, 1, []metrics.Label{labelClientType(clientType)})
}

// MeasureVerifyHeaderDuration times a single verify_header call, since
// commit-signature verification is the hottest loop in the library.
func MeasureVerifyHeaderDuration(start time.Time, clientType string) {
	metrics.MeasureSinceWithLabels([]string{"ibc", "client", "verify_header"}, start, []metrics.Label{labelClientType(clientType)})
}
