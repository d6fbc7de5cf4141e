package recent

import (
	"fmt"
	"strings"
	"time"
)

// Entry is a domain entity recording a repository a user recently opened in
// the dashboard, with the target branches it was opened with. Merge results
// are never stored here; only the connection itself is remembered.
type Entry struct {
	id         EntryID
	owner      string
	name       string
	targets    []string
	lastOpened time.Time
}

// NewEntry creates a new recent-repository entry.
func NewEntry(owner, name string, targets []string) (*Entry, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)

	if owner == "" {
		return nil, ErrInvalidEntryData("owner", fmt.Errorf("owner cannot be empty"))
	}
	if name == "" {
		return nil, ErrInvalidEntryData("name", fmt.Errorf("repository name cannot be empty"))
	}
	if len(targets) == 0 {
		return nil, ErrInvalidEntryData("targets", fmt.Errorf("at least one target branch is required"))
	}

	return &Entry{
		id:         NewEntryID(),
		owner:      owner,
		name:       name,
		targets:    targets,
		lastOpened: time.Now(),
	}, nil
}

// Rehydrate rebuilds an entry from persisted state.
func Rehydrate(id EntryID, owner, name string, targets []string, lastOpened time.Time) *Entry {
	return &Entry{
		id:         id,
		owner:      owner,
		name:       name,
		targets:    targets,
		lastOpened: lastOpened,
	}
}

func (e *Entry) ID() EntryID           { return e.id }
func (e *Entry) Owner() string         { return e.owner }
func (e *Entry) Name() string          { return e.name }
func (e *Entry) Targets() []string     { return e.targets }
func (e *Entry) LastOpened() time.Time { return e.lastOpened }

// FullName returns the owner/name form.
func (e *Entry) FullName() string {
	return e.owner + "/" + e.name
}

// Touch records a fresh open, optionally with new targets.
func (e *Entry) Touch(targets []string) {
	if len(targets) > 0 {
		e.targets = targets
	}
	e.lastOpened = time.Now()
}
