package service_test

import (
	"context"
	"errors"
	"testing"

	"branchboard-core/internal/application/service"
	"branchboard-core/internal/domain/branch"
)

func TestGetStatsAggregatesCounters(t *testing.T) {
	provider := newMockProviderClient()
	provider.stats = &branch.RepositoryStats{
		FullName:      "acme/widgets",
		Description:   "Widget factory",
		DefaultBranch: "main",
		Stars:         42,
		Forks:         7,
		Watchers:      12,
		OpenIssues:    3,
	}
	provider.contributors = 9
	provider.releases = 4

	svc := service.NewStatsService(provider)

	resp, err := svc.GetStats(context.Background(), makeHandle(t))
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if resp.FullName != "acme/widgets" {
		t.Errorf("expected full name acme/widgets, got %s", resp.FullName)
	}
	if resp.Stars != 42 || resp.Forks != 7 {
		t.Errorf("expected 42 stars and 7 forks, got %d/%d", resp.Stars, resp.Forks)
	}
	if resp.Contributors != 9 || resp.Releases != 4 {
		t.Errorf("expected 9 contributors and 4 releases, got %d/%d", resp.Contributors, resp.Releases)
	}
}

func TestGetStatsBaseFetchFailureIsFatal(t *testing.T) {
	provider := newMockProviderClient()
	provider.statsErr = errors.New("repository not found")

	svc := service.NewStatsService(provider)

	_, err := svc.GetStats(context.Background(), makeHandle(t))
	if err == nil {
		t.Fatal("expected base metadata failure to surface")
	}
}

func TestGetStatsCountersDegradeIndependently(t *testing.T) {
	provider := newMockProviderClient()
	provider.stats = &branch.RepositoryStats{FullName: "acme/widgets", Stars: 1}
	provider.contributorsErr = errors.New("contributors unavailable")
	provider.releases = 2

	svc := service.NewStatsService(provider)

	resp, err := svc.GetStats(context.Background(), makeHandle(t))
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if resp.Contributors != 0 {
		t.Errorf("expected contributors degraded to zero, got %d", resp.Contributors)
	}
	if resp.Releases != 2 {
		t.Errorf("expected releases unaffected, got %d", resp.Releases)
	}
}

func TestGetReadme(t *testing.T) {
	provider := newMockProviderClient()
	provider.readme = &branch.Readme{
		Name:    "README.md",
		Content: "# Widgets",
		HTMLURL: "https://example.com/acme/widgets/blob/main/README.md",
	}

	svc := service.NewStatsService(provider)

	resp, err := svc.GetReadme(context.Background(), makeHandle(t))
	if err != nil {
		t.Fatalf("GetReadme() error = %v", err)
	}
	if resp.Name != "README.md" || resp.Content != "# Widgets" {
		t.Errorf("unexpected readme response %+v", resp)
	}
}

func TestGetReadmeFailure(t *testing.T) {
	provider := newMockProviderClient()
	provider.readmeErr = errors.New("no readme")

	svc := service.NewStatsService(provider)

	if _, err := svc.GetReadme(context.Background(), makeHandle(t)); err == nil {
		t.Fatal("expected readme failure to surface")
	}
}
