package branch

import (
	"context"
	"time"
)

// Ref is one branch as returned by the provider's listing endpoint.
type Ref struct {
	Name   string
	TipSHA string
}

// Page is one page of the provider's branch listing. NextPage is zero when
// no further pages exist.
type Page struct {
	Refs     []Ref
	NextPage int
}

// CommitDetail is the tip-commit metadata a record needs.
type CommitDetail struct {
	AuthorName  string
	AuthorLogin string
	AvatarURL   string
	AuthoredAt  time.Time
}

// ComparisonStatus is the provider's coarse relationship between two refs.
type ComparisonStatus string

const (
	ComparisonAhead     ComparisonStatus = "ahead"
	ComparisonBehind    ComparisonStatus = "behind"
	ComparisonIdentical ComparisonStatus = "identical"
	ComparisonDiverged  ComparisonStatus = "diverged"
)

// Comparison is the provider's three-dot compare result for base...head:
// AheadBy counts commits in head missing from base, BehindBy the reverse.
type Comparison struct {
	AheadBy  int
	BehindBy int
	Status   ComparisonStatus
}

// RepositoryStats is the auxiliary read-only aggregation shown alongside the
// branch view. Fields degrade independently to zero values on failures.
type RepositoryStats struct {
	FullName      string
	Description   string
	DefaultBranch string
	Stars         int
	Forks         int
	Watchers      int
	OpenIssues    int
	Contributors  int
	Releases      int
}

// Readme is the repository readme, decoded.
type Readme struct {
	Name    string
	Content string
	HTMLURL string
}

// ProviderClient abstracts the hosted Git provider's REST surface.
// Implementations live in the infrastructure layer. All calls pass the
// handle's credential through unmodified.
type ProviderClient interface {
	// ListBranches returns one page of branches at the provider's maximum
	// page size. Page numbering starts at 1.
	ListBranches(ctx context.Context, handle RepositoryHandle, page int) (*Page, error)

	// GetCommit fetches tip-commit metadata for a SHA.
	GetCommit(ctx context.Context, handle RepositoryHandle, sha string) (*CommitDetail, error)

	// GetBranch resolves a branch's tip SHA. A missing branch is an expected
	// outcome reported via found=false, not an error.
	GetBranch(ctx context.Context, handle RepositoryHandle, name string) (tipSHA string, found bool, err error)

	// Compare runs the provider's three-dot comparison base...head.
	Compare(ctx context.Context, handle RepositoryHandle, base, head string) (*Comparison, error)

	// ListCommitSHAs returns one page of commit SHAs reachable from ref, at
	// the provider's maximum page size.
	ListCommitSHAs(ctx context.Context, handle RepositoryHandle, ref string, page int) ([]string, error)

	// DeleteBranch deletes a branch. Failures are surfaced verbatim;
	// deletion is an explicit user action, never degraded.
	DeleteBranch(ctx context.Context, handle RepositoryHandle, name string) error

	// GetRepositoryStats fetches repository metadata counters.
	GetRepositoryStats(ctx context.Context, handle RepositoryHandle) (*RepositoryStats, error)

	// CountContributors returns the repository's contributor count.
	CountContributors(ctx context.Context, handle RepositoryHandle) (int, error)

	// CountReleases returns the repository's release count.
	CountReleases(ctx context.Context, handle RepositoryHandle) (int, error)

	// GetReadme fetches and decodes the repository readme.
	GetReadme(ctx context.Context, handle RepositoryHandle) (*Readme, error)
}
