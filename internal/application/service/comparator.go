package service

import (
	"context"
	"time"

	"branchboard-core/internal/domain/branch"
	"branchboard-core/pkg/logger"

	"go.uber.org/zap"
)

// mergeComparator resolves the merge status of one (source, target) pair
// through an ordered cascade of strategies. The provider offers no single
// authoritative "is merged" answer, so the cascade is:
//
//  1. target existence check (absent target short-circuits to unmerged)
//  2. forward three-dot compare target...source
//  3. divergence tie-break via the reverse compare source...target
//  4. SHA-ancestry fallback, only when the forward compare call itself fails
//
// Compare never returns an error: any failure inside the cascade degrades
// that single pair to unmerged with zero counts so one bad pair can never
// abort reconciliation for other targets or branches.
type mergeComparator struct {
	provider branch.ProviderClient
	now      func() time.Time
}

func newMergeComparator(provider branch.ProviderClient, now func() time.Time) *mergeComparator {
	if now == nil {
		now = time.Now
	}
	return &mergeComparator{provider: provider, now: now}
}

// Compare resolves source's merge status against target.
func (c *mergeComparator) Compare(ctx context.Context, handle branch.RepositoryHandle, source, target string) branch.MergeStatus {
	unmerged := branch.MergeStatus{Target: target}

	// Strategy 1: existence check. A missing target is an expected outcome,
	// reported as unmerged with zero counts and no further strategy attempted.
	targetSHA, found, err := c.provider.GetBranch(ctx, handle, target)
	if err != nil {
		logger.Warn("target branch lookup failed, degrading pair",
			zap.String("repo", handle.FullName()),
			zap.String("source", source),
			zap.String("target", target),
			zap.Error(err),
		)
		return unmerged
	}
	if !found {
		return unmerged
	}

	// Strategy 2: forward three-dot compare target...source.
	forward, err := c.provider.Compare(ctx, handle, target, source)
	if err != nil {
		logger.Warn("forward compare failed, trying SHA-ancestry fallback",
			zap.String("repo", handle.FullName()),
			zap.String("source", source),
			zap.String("target", target),
			zap.Error(err),
		)
		// Strategy 4 applies only here: the compare call itself failed,
		// not merely came back inconclusive.
		return c.ancestryFallback(ctx, handle, source, target, targetSHA)
	}

	status := branch.MergeStatus{
		Target:        target,
		CommitsAhead:  forward.AheadBy,
		CommitsBehind: forward.BehindBy,
	}

	// Zero commits ahead of target (and not diverged) means everything in
	// source is already reachable from target. Identical always wins.
	if (forward.AheadBy == 0 && forward.Status != branch.ComparisonDiverged) ||
		forward.Status == branch.ComparisonIdentical {
		status.IsMerged = true
		stamp := c.now()
		status.LastMergeDate = &stamp
		return status
	}

	// Strategy 3: divergence tie-break. "diverged" is common after history
	// rewrites and does not by itself mean unmerged; when source holds
	// nothing target lacks, the reverse direction distinguishes "target has
	// rebased source's commits" from genuinely unrelated changes.
	if forward.BehindBy == 0 {
		reverse, err := c.provider.Compare(ctx, handle, source, target)
		if err != nil {
			logger.Debug("reverse compare failed, keeping forward verdict",
				zap.String("repo", handle.FullName()),
				zap.String("source", source),
				zap.String("target", target),
				zap.Error(err),
			)
			return status
		}
		if reverse.Status == branch.ComparisonAhead && reverse.AheadBy > 0 {
			stamp := c.now()
			return branch.MergeStatus{
				Target:        target,
				IsMerged:      true,
				LastMergeDate: &stamp,
			}
		}
	}

	return status
}

// ancestryFallback resolves the pair from tip SHAs when the comparison API
// is unavailable. It checks a single provider-maximum page of the target's
// history; counts it reports are approximations, not exact figures.
func (c *mergeComparator) ancestryFallback(ctx context.Context, handle branch.RepositoryHandle, source, target, targetSHA string) branch.MergeStatus {
	unmerged := branch.MergeStatus{Target: target}

	sourceSHA, found, err := c.provider.GetBranch(ctx, handle, source)
	if err != nil || !found {
		return unmerged
	}

	if sourceSHA == targetSHA {
		stamp := c.now()
		return branch.MergeStatus{
			Target:        target,
			IsMerged:      true,
			LastMergeDate: &stamp,
		}
	}

	shas, err := c.provider.ListCommitSHAs(ctx, handle, target, 1)
	if err != nil {
		logger.Debug("ancestry fallback history scan failed, degrading pair",
			zap.String("repo", handle.FullName()),
			zap.String("source", source),
			zap.String("target", target),
			zap.Error(err),
		)
		return unmerged
	}

	for _, sha := range shas {
		if sha == sourceSHA {
			stamp := c.now()
			return branch.MergeStatus{
				Target:        target,
				IsMerged:      true,
				LastMergeDate: &stamp,
			}
		}
	}

	// Not found within the bounded page. True ahead/behind counts cannot be
	// known without a successful compare, so report the conservative default.
	return unmerged
}
