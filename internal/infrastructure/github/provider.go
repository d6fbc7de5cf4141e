// Package github implements the branch.ProviderClient interface for GitHub.
package github

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"branchboard-core/internal/config"
	"branchboard-core/internal/domain/branch"
	"branchboard-core/pkg/logger"
)

const providerName = "github"

// perPage is the provider's maximum page size; enumeration and the ancestry
// fallback both page at this size.
const perPage = 100

// Provider implements branch.ProviderClient against the GitHub REST API.
// Each call builds a client for the handle's credential: the token varies
// per request and is passed through unmodified.
type Provider struct {
	baseURL string
	timeout time.Duration
}

// NewProvider creates a new GitHub provider.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	return &Provider{
		baseURL: cfg.BaseURL,
		timeout: time.Duration(cfg.RequestTimeout) * time.Second,
	}
}

// clientFor builds a go-github client for the handle's credential. An empty
// token yields an anonymous client restricted to public reads.
func (p *Provider) clientFor(ctx context.Context, handle branch.RepositoryHandle) (*github.Client, error) {
	httpClient := &http.Client{Timeout: p.timeout}

	if token := handle.Token(); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = p.timeout
	}

	if p.baseURL != "" {
		client, err := github.NewClient(httpClient).WithEnterpriseURLs(p.baseURL, p.baseURL)
		if err != nil {
			return nil, &branch.ProviderError{
				Provider: providerName,
				Message:  "failed to create enterprise client",
				Err:      err,
			}
		}
		return client, nil
	}

	return github.NewClient(httpClient), nil
}

// ListBranches returns one page of branches at the provider maximum.
func (p *Provider) ListBranches(ctx context.Context, handle branch.RepositoryHandle, page int) (*branch.Page, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return nil, err
	}

	branches, resp, err := client.Repositories.ListBranches(ctx, handle.Owner(), handle.Name(), &github.BranchListOptions{
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusForbidden {
			logger.Error("GitHub API rate limit exceeded",
				zap.String("repo", handle.FullName()),
			)
			return nil, &branch.ProviderError{
				Provider: providerName,
				Message:  "GitHub API rate limit exceeded; supply a token for higher limits",
				Err:      err,
			}
		}
		return nil, &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to list branches",
			Err:      err,
		}
	}

	result := &branch.Page{
		Refs:     make([]branch.Ref, 0, len(branches)),
		NextPage: resp.NextPage,
	}
	for _, b := range branches {
		result.Refs = append(result.Refs, branch.Ref{
			Name:   b.GetName(),
			TipSHA: b.GetCommit().GetSHA(),
		})
	}

	return result, nil
}

// GetCommit fetches tip-commit metadata for a SHA.
func (p *Provider) GetCommit(ctx context.Context, handle branch.RepositoryHandle, sha string) (*branch.CommitDetail, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return nil, err
	}

	commit, _, err := client.Repositories.GetCommit(ctx, handle.Owner(), handle.Name(), sha, nil)
	if err != nil {
		return nil, &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to get commit",
			Err:      err,
		}
	}

	detail := &branch.CommitDetail{
		AuthorName:  commit.GetCommit().GetAuthor().GetName(),
		AuthorLogin: commit.GetAuthor().GetLogin(),
		AvatarURL:   commit.GetAuthor().GetAvatarURL(),
		AuthoredAt:  commit.GetCommit().GetAuthor().GetDate().Time,
	}
	if detail.AuthoredAt.IsZero() {
		detail.AuthoredAt = commit.GetCommit().GetCommitter().GetDate().Time
	}

	return detail, nil
}

// GetBranch resolves a branch's tip SHA. Missing branches are reported via
// found=false: an expected outcome, not an error.
func (p *Provider) GetBranch(ctx context.Context, handle branch.RepositoryHandle, name string) (string, bool, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return "", false, err
	}

	b, resp, err := client.Repositories.GetBranch(ctx, handle.Owner(), handle.Name(), name, 1)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to get branch",
			Err:      err,
		}
	}

	return b.GetCommit().GetSHA(), true, nil
}

// Compare runs the three-dot comparison base...head.
func (p *Provider) Compare(ctx context.Context, handle branch.RepositoryHandle, base, head string) (*branch.Comparison, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return nil, err
	}

	cmp, _, err := client.Repositories.CompareCommits(ctx, handle.Owner(), handle.Name(), base, head, nil)
	if err != nil {
		return nil, &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to compare refs",
			Err:      err,
		}
	}

	return &branch.Comparison{
		AheadBy:  cmp.GetAheadBy(),
		BehindBy: cmp.GetBehindBy(),
		Status:   branch.ComparisonStatus(cmp.GetStatus()),
	}, nil
}

// ListCommitSHAs returns one page of commit SHAs reachable from ref.
func (p *Provider) ListCommitSHAs(ctx context.Context, handle branch.RepositoryHandle, ref string, page int) ([]string, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return nil, err
	}

	commits, _, err := client.Repositories.ListCommits(ctx, handle.Owner(), handle.Name(), &github.CommitsListOptions{
		SHA: ref,
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	})
	if err != nil {
		return nil, &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to list commits",
			Err:      err,
		}
	}

	shas := make([]string, 0, len(commits))
	for _, c := range commits {
		shas = append(shas, c.GetSHA())
	}

	return shas, nil
}

// DeleteBranch deletes a branch ref. Failures surface verbatim.
func (p *Provider) DeleteBranch(ctx context.Context, handle branch.RepositoryHandle, name string) error {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return err
	}

	_, err = client.Git.DeleteRef(ctx, handle.Owner(), handle.Name(), "heads/"+name)
	if err != nil {
		logger.Error("failed to delete branch",
			zap.String("repo", handle.FullName()),
			zap.String("branch", name),
			zap.Error(err),
		)
		return &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to delete branch",
			Err:      err,
		}
	}

	logger.Info("branch deleted",
		zap.String("repo", handle.FullName()),
		zap.String("branch", name),
	)
	return nil
}

// GetRepositoryStats fetches repository metadata counters.
func (p *Provider) GetRepositoryStats(ctx context.Context, handle branch.RepositoryHandle) (*branch.RepositoryStats, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return nil, err
	}

	repo, _, err := client.Repositories.Get(ctx, handle.Owner(), handle.Name())
	if err != nil {
		return nil, &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to get repository",
			Err:      err,
		}
	}

	return &branch.RepositoryStats{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Watchers:      repo.GetSubscribersCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
	}, nil
}

// CountContributors counts repository contributors by paging the listing.
func (p *Provider) CountContributors(ctx context.Context, handle branch.RepositoryHandle) (int, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return 0, err
	}

	count := 0
	page := 1
	for {
		contributors, resp, err := client.Repositories.ListContributors(ctx, handle.Owner(), handle.Name(), &github.ListContributorsOptions{
			ListOptions: github.ListOptions{
				Page:    page,
				PerPage: perPage,
			},
		})
		if err != nil {
			return 0, &branch.ProviderError{
				Provider: providerName,
				Message:  "failed to list contributors",
				Err:      err,
			}
		}

		count += len(contributors)

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return count, nil
}

// CountReleases counts repository releases by paging the listing.
func (p *Provider) CountReleases(ctx context.Context, handle branch.RepositoryHandle) (int, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return 0, err
	}

	count := 0
	page := 1
	for {
		releases, resp, err := client.Repositories.ListReleases(ctx, handle.Owner(), handle.Name(), &github.ListOptions{
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			return 0, &branch.ProviderError{
				Provider: providerName,
				Message:  "failed to list releases",
				Err:      err,
			}
		}

		count += len(releases)

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return count, nil
}

// GetReadme fetches and decodes the repository readme.
func (p *Provider) GetReadme(ctx context.Context, handle branch.RepositoryHandle) (*branch.Readme, error) {
	client, err := p.clientFor(ctx, handle)
	if err != nil {
		return nil, err
	}

	readme, _, err := client.Repositories.GetReadme(ctx, handle.Owner(), handle.Name(), nil)
	if err != nil {
		return nil, &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to get readme",
			Err:      err,
		}
	}

	content, err := readme.GetContent()
	if err != nil {
		return nil, &branch.ProviderError{
			Provider: providerName,
			Message:  "failed to decode readme",
			Err:      err,
		}
	}

	return &branch.Readme{
		Name:    readme.GetName(),
		Content: content,
		HTMLURL: readme.GetHTMLURL(),
	}, nil
}
