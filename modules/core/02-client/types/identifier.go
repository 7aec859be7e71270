package types

import (
	"fmt"
	"strings"

	"cosmossdk.io/errors"

	"github.com/BaldwinMarci/ibc-light-client-go/modules/core/exported"
)

const (
	// KeyClientStorePrefix is the key path under which a client's entire
	// sub-store (client state, consensus states, processed metadata) lives.
	KeyClientStorePrefix = "clients"

	clientIdentifierMinLength = 9
	clientIdentifierMaxLength = 64
)

// ClientType aliases exported.ClientType so handler/event code in this
// package can name the concept without importing exported just for that.
type ClientType = exported.ClientType

// FormatClientIdentifier builds a client identifier in the registered
// "<client-type>-<counter>" form, e.g. "07-tendermint-0".
func FormatClientIdentifier(clientType ClientType, sequence uint64) string {
	return fmt.Sprintf("%s-%d", clientType, sequence)
}

// IsValidClientID checks whether an identifier has a valid length and does
// not contain path-unsafe characters.
func IsValidClientID(id string) bool {
	if len(id) < clientIdentifierMinLength || len(id) > clientIdentifierMaxLength {
		return false
	}
	return !strings.ContainsAny(id, "/\n\t\r ")
}

// ClientTypeFromID extracts the "<client-type>" prefix from a
// "<client-type>-<counter>" identifier.
func ClientTypeFromID(clientID string) (string, error) {
	idx := strings.LastIndex(clientID, "-")
	if idx < 0 {
		return "", errors.Wrapf(ErrInvalidClientIdentifier, "client identifier %s is not of the form <client-type>-<counter>", clientID)
	}
	return clientID[:idx], nil
}

// ValidateClientID validates the client identifier: it must pass
// IsValidClientID and contain a "-" separating a client-type prefix from
// the counter. The prefix is not checked against the set of registered
// client types.
func ValidateClientID(id string) error {
	if !IsValidClientID(id) {
		return errors.Wrapf(ErrInvalidClientIdentifier, "identifier %s has invalid length or characters", id)
	}
	if _, err := ClientTypeFromID(id); err != nil {
		return err
	}
	return nil
}

// ValidateChainID checks a chain id is non-empty. The revision-bearing form
// "<name>-<revision>" is optional; clients that need a revision call
// ParseChainID explicitly.
func ValidateChainID(chainID string) error {
	if strings.TrimSpace(chainID) == "" {
		return errors.Wrap(ErrInvalidChainID, "chain id cannot be blank")
	}
	return nil
}
