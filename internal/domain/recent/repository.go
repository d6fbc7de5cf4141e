package recent

import "context"

// Repository is the persistence interface for recent-repository entries.
// Implementation lives in the infrastructure layer.
type Repository interface {
	// Save persists an entry (create or update via upsert on owner/name) and
	// returns the persisted state. On an owner/name conflict the stored row
	// keeps its original ID, which may differ from the entry passed in.
	Save(ctx context.Context, entry *Entry) (*Entry, error)

	// FindByOwnerAndName retrieves an entry by its repository identity.
	FindByOwnerAndName(ctx context.Context, owner, name string) (*Entry, error)

	// ListRecent returns entries ordered by last-opened descending, bounded.
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)

	// Delete removes an entry by ID.
	Delete(ctx context.Context, id EntryID) error
}
