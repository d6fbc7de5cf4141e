package branch

import "time"

// MergeStatus is the comparator's verdict for one (source, target) pair.
// A degraded pair (target absent, or a provider failure swallowed by the
// cascade) reports unmerged with zero counts; the model deliberately does
// not distinguish "verified unmerged" from "undetermined".
type MergeStatus struct {
	Target        string
	IsMerged      bool
	CommitsAhead  int
	CommitsBehind int
	// LastMergeDate is stamped at the moment IsMerged is determined true.
	// The provider API does not expose the historical merge time.
	LastMergeDate *time.Time
}

// Record is a qualifying branch together with its merge status against every
// configured target. Records are rebuilt in full on every reconciliation
// pass; the engine owns them during the pass, the caller afterwards.
type Record struct {
	name         string
	category     Category
	lastUpdated  time.Time
	author       string
	authorAvatar string
	statuses     []MergeStatus
}

// NewRecord builds a branch record. Statuses must carry exactly one entry
// per configured target, in configured target order.
func NewRecord(name string, category Category, lastUpdated time.Time, author, authorAvatar string, statuses []MergeStatus) *Record {
	return &Record{
		name:         name,
		category:     category,
		lastUpdated:  lastUpdated,
		author:       author,
		authorAvatar: authorAvatar,
		statuses:     statuses,
	}
}

func (r *Record) Name() string            { return r.name }
func (r *Record) Category() Category      { return r.category }
func (r *Record) LastUpdated() time.Time  { return r.lastUpdated }
func (r *Record) Author() string          { return r.author }
func (r *Record) AuthorAvatar() string    { return r.authorAvatar }
func (r *Record) Statuses() []MergeStatus { return r.statuses }

// StatusFor returns the merge status against the named target.
func (r *Record) StatusFor(target string) (MergeStatus, bool) {
	for _, s := range r.statuses {
		if s.Target == target {
			return s, true
		}
	}
	return MergeStatus{}, false
}
