package directory

import (
	"context"
	"fmt"

	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// Service is the directory lookup boundary. Lookup is a pure read: it must
// reflect the directory's current state on every call and never mutate.
// The second return value reports whether an entry exists; implementations
// may return the zero identity with found=true, which callers must treat
// as absence.
type Service interface {
	Lookup(ctx context.Context, subject shared.Identity, tag InterfaceTag) (shared.Identity, bool, error)
}

// Client validates inputs and normalizes results in front of a Service.
// It performs no caching: the backing directory is externally mutable
// between calls.
type Client struct {
	service Service
}

// NewClient creates a new Client.
func NewClient(service Service) (*Client, error) {
	if service == nil {
		return nil, fmt.Errorf("directory service is required")
	}
	return &Client{service: service}, nil
}

// Lookup resolves the implementer registered for (subject, tag). A zero
// registered implementer reads as no entry.
func (c *Client) Lookup(
	ctx context.Context,
	subject shared.Identity,
	tag InterfaceTag,
) (shared.Identity, bool, error) {
	if subject.IsZero() {
		return shared.ZeroIdentity, false, NewMalformedInputError("subject", "zero identity")
	}
	if tag.IsZero() {
		return shared.ZeroIdentity, false, NewMalformedInputError("tag", "zero tag")
	}

	implementer, found, err := c.service.Lookup(ctx, subject, tag)
	if err != nil {
		return shared.ZeroIdentity, false, LookupError{
			DirectoryError: DirectoryError{Message: fmt.Sprintf("directory lookup for %s failed: %v", subject, err)},
			Err:            err,
		}
	}
	if !found || implementer.IsZero() {
		return shared.ZeroIdentity, false, nil
	}

	return implementer, true, nil
}
