// Package standards_implementations is a Go implementation of a
// capability-gated token core built around an interface directory.
//
// # Packages
//
// The module is organized as follows:
//
//   - pkg/shared: identities and parsing shared by every package
//   - pkg/directory: interface tags, directory lookup client, and the
//     in-memory and REST-backed directory services
//   - pkg/token: the notifying token ledger with sender and recipient
//     hooks delivered through the directory
//   - pkg/capregistry: the capability-gated membership registry
//   - adapters/hedera: a Hedera Consensus Service topic as a directory
//     backend, with a mirror-node resolver
//
// # Installation
//
//	go get github.com/Ravi280797/standards-implementations@latest
package standards_implementations
