package hedera

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// Resolver implements directory.Service by replaying a directory topic
// from a mirror node. Each Lookup replays the topic fresh, so entries
// registered between calls are visible.
type Resolver struct {
	topicID string
	mirror  *mirrorReader
}

type resolverKey struct {
	subject shared.Identity
	tag     directory.InterfaceTag
}

// NewResolver creates a new Resolver.
func NewResolver(config ResolverConfig) (*Resolver, error) {
	if config.TopicID == "" {
		return nil, fmt.Errorf("directory topic ID is required")
	}

	mirror, err := newMirrorReader(config.Network, config.MirrorBaseURL, config.MirrorAPIKey, config.HTTPClient)
	if err != nil {
		return nil, err
	}

	return &Resolver{topicID: config.TopicID, mirror: mirror}, nil
}

// Lookup implements directory.Service. Messages that do not parse as
// directory entries are skipped; later entries for the same (subject, tag)
// supersede earlier ones, and an entry with the zero implementer clears.
func (resolver *Resolver) Lookup(
	ctx context.Context,
	subject shared.Identity,
	tag directory.InterfaceTag,
) (shared.Identity, bool, error) {
	messages, err := resolver.mirror.getTopicMessages(ctx, resolver.topicID)
	if err != nil {
		return shared.ZeroIdentity, false, err
	}

	entries := map[resolverKey]shared.Identity{}
	for _, message := range messages {
		entry, ok := parseEntry(message)
		if !ok {
			continue
		}

		key := resolverKey{subject: entry.subject, tag: entry.tag}
		if entry.implementer.IsZero() {
			delete(entries, key)
			continue
		}
		entries[key] = entry.implementer
	}

	implementer, found := entries[resolverKey{subject: subject, tag: tag}]
	if !found {
		return shared.ZeroIdentity, false, nil
	}
	return implementer, true, nil
}

type parsedEntry struct {
	subject     shared.Identity
	tag         directory.InterfaceTag
	implementer shared.Identity
}

func parseEntry(message topicMessage) (parsedEntry, bool) {
	payload, err := decodeMessageData(message)
	if err != nil {
		return parsedEntry{}, false
	}

	var entry entryMessage
	if err := json.Unmarshal(payload, &entry); err != nil {
		return parsedEntry{}, false
	}
	if entry.Protocol != ProtocolID || entry.Operation != OperationRegister {
		return parsedEntry{}, false
	}

	if entry.Compressed != "" {
		inner, ok := decompressEntry(entry.Compressed)
		if !ok {
			return parsedEntry{}, false
		}
		entry = inner
		if entry.Protocol != ProtocolID || entry.Operation != OperationRegister {
			return parsedEntry{}, false
		}
	}

	subject, err := shared.ParseIdentity(entry.Subject)
	if err != nil || subject.IsZero() {
		return parsedEntry{}, false
	}
	tag, ok := parseTag(entry.Tag)
	if !ok {
		return parsedEntry{}, false
	}
	implementer, err := shared.ParseIdentity(entry.Implementer)
	if err != nil {
		return parsedEntry{}, false
	}

	return parsedEntry{subject: subject, tag: tag, implementer: implementer}, true
}

func decompressEntry(encoded string) (entryMessage, bool) {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return entryMessage{}, false
	}

	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		return entryMessage{}, false
	}

	var entry entryMessage
	if err := json.Unmarshal(decompressed, &entry); err != nil {
		return entryMessage{}, false
	}
	return entry, true
}

func parseTag(raw string) (directory.InterfaceTag, bool) {
	var tag directory.InterfaceTag
	if len(raw) != 2+directory.TagLength*2 || raw[:2] != "0x" {
		return tag, false
	}
	decoded, err := hex.DecodeString(raw[2:])
	if err != nil {
		return tag, false
	}
	copy(tag[:], decoded)
	return tag, !tag.IsZero()
}
