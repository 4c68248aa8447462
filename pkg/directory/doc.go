// Package directory implements the interface-implementer directory client:
// fixed-width interface tags derived from human-readable names, the Service
// lookup boundary, and a validating Client wrapper that never caches.
//
// A directory maps (subject, tag) pairs to implementer identities. Entries
// are owned by the directory itself (an external, self-service registry);
// this package only resolves them. An absent entry and an entry whose
// implementer is the zero identity are equivalent.
//
// Two Service implementations are provided: MemoryDirectory, an in-process
// mutable directory, and RESTDirectory, which resolves entries against a
// remote directory node's REST API. The adapters/hedera package provides a
// third, backed by a Hedera Consensus Service topic.
package directory
