// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider selection values.
const (
	PubSubProviderNoop   = "noop"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
