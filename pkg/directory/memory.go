package directory

import (
	"context"
	"sync"

	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

type entryKey struct {
	subject shared.Identity
	tag     InterfaceTag
}

// MemoryDirectory is an in-process Service with self-service registration.
// It models the external directory for local wiring and tests: entries may
// change between lookups, including from hook code re-entering during a
// transfer.
type MemoryDirectory struct {
	mutex   sync.RWMutex
	entries map[entryKey]shared.Identity
}

// NewMemoryDirectory creates an empty MemoryDirectory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{entries: map[entryKey]shared.Identity{}}
}

// Register sets the implementer for (subject, tag). Registering the zero
// identity clears the entry.
func (d *MemoryDirectory) Register(
	subject shared.Identity,
	tag InterfaceTag,
	implementer shared.Identity,
) error {
	if subject.IsZero() {
		return NewMalformedInputError("subject", "zero identity")
	}
	if tag.IsZero() {
		return NewMalformedInputError("tag", "zero tag")
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	key := entryKey{subject: subject, tag: tag}
	if implementer.IsZero() {
		delete(d.entries, key)
		return nil
	}
	d.entries[key] = implementer
	return nil
}

// Clear removes the entry for (subject, tag), if any.
func (d *MemoryDirectory) Clear(subject shared.Identity, tag InterfaceTag) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.entries, entryKey{subject: subject, tag: tag})
}

// Lookup implements Service.
func (d *MemoryDirectory) Lookup(
	_ context.Context,
	subject shared.Identity,
	tag InterfaceTag,
) (shared.Identity, bool, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	implementer, found := d.entries[entryKey{subject: subject, tag: tag}]
	if !found {
		return shared.ZeroIdentity, false, nil
	}
	return implementer, true, nil
}
