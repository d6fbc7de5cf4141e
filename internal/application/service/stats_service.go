package service

import (
	"context"
	"fmt"

	"branchboard-core/internal/application/dto"
	"branchboard-core/internal/domain/branch"
	"branchboard-core/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatsService handles the auxiliary read-only aggregations shown alongside
// the branch view: repository counters and the readme. No merge logic.
type StatsService struct {
	provider branch.ProviderClient
}

// NewStatsService creates a new stats service.
func NewStatsService(provider branch.ProviderClient) *StatsService {
	return &StatsService{provider: provider}
}

// GetStats aggregates repository metadata. The base metadata fetch is
// required; contributor and release counts degrade independently to zero
// when their calls fail.
func (s *StatsService) GetStats(ctx context.Context, handle branch.RepositoryHandle) (*dto.StatsResponse, error) {
	var (
		stats        *branch.RepositoryStats
		contributors int
		releases     int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fetched, err := s.provider.GetRepositoryStats(gctx, handle)
		if err != nil {
			return fmt.Errorf("failed to fetch repository stats: %w", err)
		}
		stats = fetched
		return nil
	})

	g.Go(func() error {
		count, err := s.provider.CountContributors(gctx, handle)
		if err != nil {
			logger.Warn("contributor count failed, degrading to zero",
				zap.String("repo", handle.FullName()),
				zap.Error(err),
			)
			return nil
		}
		contributors = count
		return nil
	})

	g.Go(func() error {
		count, err := s.provider.CountReleases(gctx, handle)
		if err != nil {
			logger.Warn("release count failed, degrading to zero",
				zap.String("repo", handle.FullName()),
				zap.Error(err),
			)
			return nil
		}
		releases = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		FullName:      stats.FullName,
		Description:   stats.Description,
		DefaultBranch: stats.DefaultBranch,
		Stars:         stats.Stars,
		Forks:         stats.Forks,
		Watchers:      stats.Watchers,
		OpenIssues:    stats.OpenIssues,
		Contributors:  contributors,
		Releases:      releases,
	}, nil
}

// GetReadme fetches the repository readme.
func (s *StatsService) GetReadme(ctx context.Context, handle branch.RepositoryHandle) (*dto.ReadmeResponse, error) {
	readme, err := s.provider.GetReadme(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch readme: %w", err)
	}

	return &dto.ReadmeResponse{
		Name:    readme.Name,
		Content: readme.Content,
		HTMLURL: readme.HTMLURL,
	}, nil
}
