// Package hedera backs the interface directory with a Hedera Consensus
// Service topic. Registrations are submitted as JSON topic messages; a
// read-only Resolver replays the topic from a mirror node in consensus
// order and implements directory.Service, with the latest entry per
// (subject, tag) winning and a zero implementer clearing the entry.
//
// Registration payloads above one kilobyte are brotli-compressed and
// wrapped before submission, keeping large metadata within topic message
// limits.
//
// The Resolver needs only a mirror node; the registration Client
// additionally needs operator credentials.
package hedera
