// Package cli implements the exitintent commands: scenario replay against the
// simulated host and the HTTP session server.
package cli
