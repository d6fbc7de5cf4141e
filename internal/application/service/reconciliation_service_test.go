package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"branchboard-core/internal/application/dto"
	"branchboard-core/internal/application/service"
	"branchboard-core/internal/domain/branch"
)

// Mock implementations
type mockProviderClient struct {
	pages       []*branch.Page
	commits     map[string]*branch.CommitDetail
	branchSHAs  map[string]string
	comparisons map[string]*branch.Comparison
	compareErrs map[string]error
	listErr     error
	commitErr   error

	stats           *branch.RepositoryStats
	statsErr        error
	contributors    int
	contributorsErr error
	releases        int
	releasesErr     error
	readme          *branch.Readme
	readmeErr       error

	mu         sync.Mutex
	deleted    []string
	deleteErrs map[string]error
}

func newMockProviderClient() *mockProviderClient {
	return &mockProviderClient{
		commits:     make(map[string]*branch.CommitDetail),
		branchSHAs:  make(map[string]string),
		comparisons: make(map[string]*branch.Comparison),
		compareErrs: make(map[string]error),
		deleteErrs:  make(map[string]error),
	}
}

func (m *mockProviderClient) ListBranches(ctx context.Context, handle branch.RepositoryHandle, page int) (*branch.Page, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if page < 1 || page > len(m.pages) {
		return &branch.Page{}, nil
	}
	return m.pages[page-1], nil
}

func (m *mockProviderClient) GetCommit(ctx context.Context, handle branch.RepositoryHandle, sha string) (*branch.CommitDetail, error) {
	if m.commitErr != nil {
		return nil, m.commitErr
	}
	detail, ok := m.commits[sha]
	if !ok {
		return nil, errors.New("commit not found")
	}
	return detail, nil
}

func (m *mockProviderClient) GetBranch(ctx context.Context, handle branch.RepositoryHandle, name string) (string, bool, error) {
	sha, ok := m.branchSHAs[name]
	return sha, ok, nil
}

func (m *mockProviderClient) Compare(ctx context.Context, handle branch.RepositoryHandle, base, head string) (*branch.Comparison, error) {
	key := base + "..." + head
	if err, ok := m.compareErrs[key]; ok {
		return nil, err
	}
	if cmp, ok := m.comparisons[key]; ok {
		return cmp, nil
	}
	return &branch.Comparison{AheadBy: 1, BehindBy: 0, Status: branch.ComparisonAhead}, nil
}

func (m *mockProviderClient) ListCommitSHAs(ctx context.Context, handle branch.RepositoryHandle, ref string, page int) ([]string, error) {
	return nil, errors.New("history unavailable")
}

func (m *mockProviderClient) DeleteBranch(ctx context.Context, handle branch.RepositoryHandle, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.deleteErrs[name]; ok {
		return err
	}
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *mockProviderClient) GetRepositoryStats(ctx context.Context, handle branch.RepositoryHandle) (*branch.RepositoryStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

func (m *mockProviderClient) CountContributors(ctx context.Context, handle branch.RepositoryHandle) (int, error) {
	if m.contributorsErr != nil {
		return 0, m.contributorsErr
	}
	return m.contributors, nil
}

func (m *mockProviderClient) CountReleases(ctx context.Context, handle branch.RepositoryHandle) (int, error) {
	if m.releasesErr != nil {
		return 0, m.releasesErr
	}
	return m.releases, nil
}

func (m *mockProviderClient) GetReadme(ctx context.Context, handle branch.RepositoryHandle) (*branch.Readme, error) {
	if m.readmeErr != nil {
		return nil, m.readmeErr
	}
	return m.readme, nil
}

func makeHandle(t *testing.T) branch.RepositoryHandle {
	t.Helper()
	targets, err := branch.NewTargetSet([]string{"development", "quality", "production"})
	if err != nil {
		t.Fatalf("NewTargetSet() error = %v", err)
	}
	handle, err := branch.NewRepositoryHandle("acme", "widgets", "token", targets)
	if err != nil {
		t.Fatalf("NewRepositoryHandle() error = %v", err)
	}
	return handle
}

func TestReconcileFiltersAndSorts(t *testing.T) {
	provider := newMockProviderClient()
	provider.pages = []*branch.Page{
		{
			Refs: []branch.Ref{
				{Name: "feature/older", TipSHA: "sha1"},
				{Name: "main", TipSHA: "sha2"},
				{Name: "bugfix/newer", TipSHA: "sha3"},
				{Name: "release/2.0", TipSHA: "sha4"},
				{Name: "hotfix/crash", TipSHA: "sha5"},
			},
		},
	}
	provider.commits["sha1"] = &branch.CommitDetail{AuthorLogin: "alice", AuthoredAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	provider.commits["sha3"] = &branch.CommitDetail{AuthorLogin: "bob", AuthoredAt: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)}
	provider.commits["sha5"] = &branch.CommitDetail{AuthorLogin: "carol", AuthoredAt: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)}
	provider.branchSHAs["development"] = "devsha"
	provider.branchSHAs["quality"] = "quasha"
	provider.branchSHAs["production"] = "prodsha"

	svc := service.NewReconciliationService(provider, 4)

	resp, err := svc.Reconcile(context.Background(), makeHandle(t))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(resp.Branches) != 3 {
		t.Fatalf("expected 3 qualifying branches, got %d", len(resp.Branches))
	}

	wantOrder := []string{"bugfix/newer", "hotfix/crash", "feature/older"}
	for i, want := range wantOrder {
		if resp.Branches[i].Name != want {
			t.Errorf("position %d: expected %s, got %s", i, want, resp.Branches[i].Name)
		}
	}

	first := resp.Branches[0]
	if first.Category != "bugfix" {
		t.Errorf("expected category bugfix, got %s", first.Category)
	}
	if first.Author != "bob" {
		t.Errorf("expected author bob, got %s", first.Author)
	}
	if len(first.Statuses) != 3 {
		t.Fatalf("expected 3 merge statuses, got %d", len(first.Statuses))
	}
	wantTargets := []string{"development", "quality", "production"}
	for i, want := range wantTargets {
		if first.Statuses[i].Target != want {
			t.Errorf("status %d: expected target %s, got %s", i, want, first.Statuses[i].Target)
		}
	}
}

func TestReconcilePagesThroughEnumeration(t *testing.T) {
	provider := newMockProviderClient()
	provider.pages = []*branch.Page{
		{Refs: []branch.Ref{{Name: "feature/a", TipSHA: "sha1"}}, NextPage: 2},
		{Refs: []branch.Ref{{Name: "feature/b", TipSHA: "sha2"}}, NextPage: 0},
	}
	now := time.Now()
	provider.commits["sha1"] = &branch.CommitDetail{AuthorLogin: "alice", AuthoredAt: now}
	provider.commits["sha2"] = &branch.CommitDetail{AuthorLogin: "bob", AuthoredAt: now}
	provider.branchSHAs["development"] = "devsha"
	provider.branchSHAs["quality"] = "quasha"
	provider.branchSHAs["production"] = "prodsha"

	svc := service.NewReconciliationService(provider, 0)

	resp, err := svc.Reconcile(context.Background(), makeHandle(t))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(resp.Branches) != 2 {
		t.Errorf("expected branches from all pages, got %d", len(resp.Branches))
	}
}

func TestReconcileEnumerationFailureIsFatal(t *testing.T) {
	provider := newMockProviderClient()
	provider.listErr = errors.New("rate limited")

	svc := service.NewReconciliationService(provider, 4)

	_, err := svc.Reconcile(context.Background(), makeHandle(t))
	if err == nil {
		t.Fatal("expected enumeration failure to abort reconciliation")
	}
	if !errors.Is(err, provider.listErr) {
		t.Errorf("expected wrapped enumeration error, got %v", err)
	}
}

func TestReconcileDegradesCommitMetadata(t *testing.T) {
	provider := newMockProviderClient()
	provider.pages = []*branch.Page{
		{Refs: []branch.Ref{{Name: "feature/a", TipSHA: "sha1"}}},
	}
	provider.commitErr = errors.New("commit lookup failed")
	provider.branchSHAs["development"] = "devsha"
	provider.branchSHAs["quality"] = "quasha"
	provider.branchSHAs["production"] = "prodsha"

	svc := service.NewReconciliationService(provider, 4)

	resp, err := svc.Reconcile(context.Background(), makeHandle(t))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(resp.Branches) != 1 {
		t.Fatalf("expected 1 branch, got %d", len(resp.Branches))
	}
	if resp.Branches[0].Author != "Unknown" {
		t.Errorf("expected degraded author Unknown, got %s", resp.Branches[0].Author)
	}
	if resp.Branches[0].LastUpdated == "" {
		t.Error("expected a last-updated fallback timestamp")
	}
}

func TestReconcileIsolatesPairFailures(t *testing.T) {
	provider := newMockProviderClient()
	provider.pages = []*branch.Page{
		{Refs: []branch.Ref{{Name: "feature/a", TipSHA: "sha1"}}},
	}
	provider.commits["sha1"] = &branch.CommitDetail{AuthorLogin: "alice", AuthoredAt: time.Now()}
	provider.branchSHAs["development"] = "devsha"
	provider.branchSHAs["quality"] = "quasha"
	provider.branchSHAs["production"] = "prodsha"
	provider.branchSHAs["feature/a"] = "sha1"
	provider.comparisons["development...feature/a"] = &branch.Comparison{AheadBy: 0, BehindBy: 2, Status: branch.ComparisonBehind}
	provider.compareErrs["quality...feature/a"] = errors.New("compare unavailable")
	provider.comparisons["production...feature/a"] = &branch.Comparison{AheadBy: 3, BehindBy: 1, Status: branch.ComparisonDiverged}

	svc := service.NewReconciliationService(provider, 4)

	resp, err := svc.Reconcile(context.Background(), makeHandle(t))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	statuses := resp.Branches[0].Statuses
	if !statuses[0].IsMerged {
		t.Error("expected development pair to be merged")
	}
	if statuses[1].IsMerged || statuses[1].CommitsAhead != 0 || statuses[1].CommitsBehind != 0 {
		t.Errorf("expected quality pair degraded to unmerged zeros, got %+v", statuses[1])
	}
	if statuses[2].IsMerged {
		t.Error("expected production pair unmerged")
	}
	if statuses[2].CommitsAhead != 3 || statuses[2].CommitsBehind != 1 {
		t.Errorf("expected production counts 3/1, got %d/%d", statuses[2].CommitsAhead, statuses[2].CommitsBehind)
	}
}

func TestReconcileRepeatedCallsAgree(t *testing.T) {
	provider := newMockProviderClient()
	provider.pages = []*branch.Page{
		{Refs: []branch.Ref{
			{Name: "feature/a", TipSHA: "sha1"},
			{Name: "bugfix/b", TipSHA: "sha2"},
			{Name: "hotfix/c", TipSHA: "sha3"},
		}},
	}
	provider.commits["sha1"] = &branch.CommitDetail{AuthorLogin: "alice", AuthoredAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	provider.commits["sha2"] = &branch.CommitDetail{AuthorLogin: "bob", AuthoredAt: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)}
	provider.commits["sha3"] = &branch.CommitDetail{AuthorLogin: "carol", AuthoredAt: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)}
	provider.branchSHAs["development"] = "devsha"
	provider.branchSHAs["quality"] = "quasha"
	provider.branchSHAs["production"] = "prodsha"
	for _, name := range []string{"feature/a", "bugfix/b", "hotfix/c"} {
		provider.comparisons["development..."+name] = &branch.Comparison{AheadBy: 0, BehindBy: 2, Status: branch.ComparisonBehind}
		provider.comparisons["quality..."+name] = &branch.Comparison{AheadBy: 3, BehindBy: 1, Status: branch.ComparisonDiverged}
		provider.comparisons["production..."+name] = &branch.Comparison{AheadBy: 4, BehindBy: 0, Status: branch.ComparisonAhead}
		provider.comparisons[name+"...production"] = &branch.Comparison{AheadBy: 0, BehindBy: 4, Status: branch.ComparisonBehind}
	}

	svc := service.NewReconciliationService(provider, 4)
	handle := makeHandle(t)

	first, err := svc.Reconcile(context.Background(), handle)
	if err != nil {
		t.Fatalf("first Reconcile() error = %v", err)
	}
	second, err := svc.Reconcile(context.Background(), handle)
	if err != nil {
		t.Fatalf("second Reconcile() error = %v", err)
	}

	// With the repository unchanged, everything but the merge-date stamps
	// must come back identical.
	if len(first.Branches) != len(second.Branches) {
		t.Fatalf("branch counts differ: %d vs %d", len(first.Branches), len(second.Branches))
	}
	for i := range first.Branches {
		a, b := first.Branches[i], second.Branches[i]
		if a.Name != b.Name || a.Category != b.Category {
			t.Errorf("branch %d: %s/%s then %s/%s", i, a.Name, a.Category, b.Name, b.Category)
		}
		if len(a.Statuses) != len(b.Statuses) {
			t.Fatalf("branch %s: status counts differ", a.Name)
		}
		for j := range a.Statuses {
			sa, sb := a.Statuses[j], b.Statuses[j]
			if sa.Target != sb.Target || sa.IsMerged != sb.IsMerged {
				t.Errorf("branch %s target %s: merged %v then %v", a.Name, sa.Target, sa.IsMerged, sb.IsMerged)
			}
			if sa.CommitsAhead != sb.CommitsAhead || sa.CommitsBehind != sb.CommitsBehind {
				t.Errorf("branch %s target %s: counts %d/%d then %d/%d",
					a.Name, sa.Target, sa.CommitsAhead, sa.CommitsBehind, sb.CommitsAhead, sb.CommitsBehind)
			}
		}
	}
}

func TestReconcileStreamEmitsEveryBranch(t *testing.T) {
	provider := newMockProviderClient()
	provider.pages = []*branch.Page{
		{Refs: []branch.Ref{
			{Name: "feature/a", TipSHA: "sha1"},
			{Name: "bugfix/b", TipSHA: "sha2"},
			{Name: "main", TipSHA: "sha3"},
		}},
	}
	now := time.Now()
	provider.commits["sha1"] = &branch.CommitDetail{AuthorLogin: "alice", AuthoredAt: now}
	provider.commits["sha2"] = &branch.CommitDetail{AuthorLogin: "bob", AuthoredAt: now}
	provider.branchSHAs["development"] = "devsha"
	provider.branchSHAs["quality"] = "quasha"
	provider.branchSHAs["production"] = "prodsha"

	svc := service.NewReconciliationService(provider, 4)

	var received []*dto.BranchResponse
	err := svc.ReconcileStream(context.Background(), makeHandle(t), func(resp *dto.BranchResponse) {
		received = append(received, resp)
	})
	if err != nil {
		t.Fatalf("ReconcileStream() error = %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("expected 2 emitted branches, got %d", len(received))
	}
	names := map[string]bool{}
	for _, resp := range received {
		names[resp.Name] = true
	}
	if !names["feature/a"] || !names["bugfix/b"] {
		t.Errorf("expected feature/a and bugfix/b, got %v", names)
	}
}

func TestDeleteBranchEmptyName(t *testing.T) {
	provider := newMockProviderClient()
	svc := service.NewReconciliationService(provider, 4)

	err := svc.DeleteBranch(context.Background(), makeHandle(t), "")
	if err == nil {
		t.Fatal("expected error for empty branch name")
	}
	var domainErr *branch.DomainError
	if !errors.As(err, &domainErr) {
		t.Errorf("expected a domain error, got %v", err)
	}
}

func TestDeleteBranchSurfacesProviderError(t *testing.T) {
	provider := newMockProviderClient()
	provider.deleteErrs["feature/protected"] = errors.New("branch is protected")
	svc := service.NewReconciliationService(provider, 4)

	err := svc.DeleteBranch(context.Background(), makeHandle(t), "feature/protected")
	if err == nil || err.Error() != "branch is protected" {
		t.Errorf("expected verbatim provider error, got %v", err)
	}
}

func TestDeleteBranchesReportsPerName(t *testing.T) {
	provider := newMockProviderClient()
	provider.deleteErrs["feature/b"] = errors.New("branch is protected")
	svc := service.NewReconciliationService(provider, 4)

	resp := svc.DeleteBranches(context.Background(), makeHandle(t), []string{"feature/a", "feature/b", "feature/c"})

	if resp.Deleted != 2 || resp.Failed != 1 {
		t.Errorf("expected 2 deleted and 1 failed, got %d/%d", resp.Deleted, resp.Failed)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	if !resp.Results[0].Deleted || resp.Results[2].Error != "" {
		t.Error("expected surrounding deletions to succeed despite the failure")
	}
	if resp.Results[1].Deleted || resp.Results[1].Error == "" {
		t.Errorf("expected failure recorded for feature/b, got %+v", resp.Results[1])
	}
}
