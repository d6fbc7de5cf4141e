package recent

import (
	"fmt"

	"github.com/google/uuid"
)

// EntryID is a value object identifying one recent-repository entry.
type EntryID struct {
	value uuid.UUID
}

// NewEntryID creates a new EntryID.
func NewEntryID() EntryID {
	return EntryID{value: uuid.New()}
}

// ParseEntryID parses a string into an EntryID.
func ParseEntryID(id string) (EntryID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return EntryID{}, fmt.Errorf("invalid entry ID format: %w", err)
	}
	return EntryID{value: uid}, nil
}

func (id EntryID) String() string {
	return id.value.String()
}

func (id EntryID) UUID() uuid.UUID {
	return id.value
}

func (id EntryID) Equals(other EntryID) bool {
	return id.value == other.value
}
