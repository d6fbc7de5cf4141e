package branch

import (
	"fmt"
	"strings"
)

// Category classifies a branch by its naming convention.
type Category string

const (
	CategoryFeature Category = "feature"
	CategoryBugfix  Category = "bugfix"
	CategoryHotfix  Category = "hotfix"
	CategoryOther   Category = "other"
)

// IsQualifying reports whether branches of this category take part in
// reconciliation. "other" branches are excluded entirely.
func (c Category) IsQualifying() bool {
	return c == CategoryFeature || c == CategoryBugfix || c == CategoryHotfix
}

func (c Category) String() string {
	return string(c)
}

// TargetCount is the number of environment branches every repository handle
// carries, in fixed role order: development, quality, production.
const TargetCount = 3

// TargetSet is an ordered list of target branch names. The roles are fixed
// but the comparator is role-agnostic: any branch name may fill a slot.
type TargetSet struct {
	names [TargetCount]string
}

// NewTargetSet validates and builds a TargetSet from exactly three names.
func NewTargetSet(names []string) (TargetSet, error) {
	if len(names) != TargetCount {
		return TargetSet{}, fmt.Errorf("expected %d target branches, got %d", TargetCount, len(names))
	}

	var ts TargetSet
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return TargetSet{}, fmt.Errorf("target branch %d cannot be empty", i+1)
		}
		ts.names[i] = name
	}
	return ts, nil
}

// Names returns the target names in configured order.
func (ts TargetSet) Names() []string {
	return []string{ts.names[0], ts.names[1], ts.names[2]}
}

// RepositoryHandle identifies the repository a reconciliation runs against,
// together with the credential and target branches supplied by the caller.
// The token is opaque: it is passed through to the provider unmodified and
// never introspected. An empty token restricts calls to anonymous access.
type RepositoryHandle struct {
	owner   string
	name    string
	token   string
	targets TargetSet
}

// NewRepositoryHandle validates owner and name and builds a handle.
func NewRepositoryHandle(owner, name, token string, targets TargetSet) (RepositoryHandle, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)

	if owner == "" {
		return RepositoryHandle{}, ErrInvalidHandle("owner", fmt.Errorf("owner cannot be empty"))
	}
	if name == "" {
		return RepositoryHandle{}, ErrInvalidHandle("name", fmt.Errorf("repository name cannot be empty"))
	}
	if strings.Contains(owner, "/") || strings.Contains(name, "/") {
		return RepositoryHandle{}, ErrInvalidHandle("identifier", fmt.Errorf("owner and name must not contain '/'"))
	}

	return RepositoryHandle{
		owner:   owner,
		name:    name,
		token:   token,
		targets: targets,
	}, nil
}

func (h RepositoryHandle) Owner() string      { return h.owner }
func (h RepositoryHandle) Name() string       { return h.name }
func (h RepositoryHandle) Token() string      { return h.token }
func (h RepositoryHandle) Targets() TargetSet { return h.targets }

// FullName returns the owner/name form used in logs.
func (h RepositoryHandle) FullName() string {
	return h.owner + "/" + h.name
}
